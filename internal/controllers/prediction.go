package controllers

import (
	"context"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/metrics"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/prediction"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/validation"
)

// PredictionState is the state of the prediction form for one render.
type PredictionState string

const (
	StateCollecting PredictionState = "collecting"
	StateDisplayed  PredictionState = "displayed"
)

// PredictionView is what the prediction page renders.
type PredictionView struct {
	State       PredictionState
	Input       models.PredictionInput
	Result      *models.PredictionResult
	FieldErrors map[string]string
	Error       string
}

// PredictionController runs the prediction form.
type PredictionController struct {
	model prediction.Predictor
}

func NewPredictionController(model prediction.Predictor) *PredictionController {
	return &PredictionController{model: model}
}

// Form is the initial Collecting view with the default inputs.
func (c *PredictionController) Form() PredictionView {
	return PredictionView{State: StateCollecting, Input: models.DefaultPredictionInput()}
}

// Predict handles the predict action. Out-of-range input is rejected with
// per-field errors and the model is not called.
func (c *PredictionController) Predict(ctx context.Context, in models.PredictionInput) PredictionView {
	if verr := validation.ValidateStruct(in); verr != nil {
		return c.Reject(in, verr)
	}

	features, err := in.FeatureRecord()
	if err != nil {
		verr := &validation.RequestValidationError{}
		verr.Add("gender", "oneof", err.Error())
		return c.Reject(in, verr)
	}

	calories, err := c.model.Predict(features)
	if err != nil {
		metrics.RecordPrediction("error")
		logging.Ctx(ctx).Error().Err(err).Msg("prediction failed")
		return PredictionView{
			State: StateCollecting,
			Input: in,
			Error: "Prediction failed: " + err.Error(),
		}
	}

	metrics.RecordPrediction("ok")
	return PredictionView{
		State:  StateDisplayed,
		Input:  in,
		Result: &models.PredictionResult{Calories: calories},
	}
}

// Reject returns the form with validation errors, e.g. for unparsable fields.
func (c *PredictionController) Reject(in models.PredictionInput, verr *validation.RequestValidationError) PredictionView {
	metrics.RecordPrediction("invalid")
	return PredictionView{
		State:       StateCollecting,
		Input:       in,
		FieldErrors: verr.ByField(),
		Error:       "Please correct the highlighted fields.",
	}
}
