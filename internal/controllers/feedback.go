package controllers

import (
	"context"
	"time"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/logging"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/store"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/validation"
)

// User-facing messages of the contact page.
const (
	MsgFeedbackSaved   = "Thank you for your feedback! It has been saved."
	MsgFillAllFields   = "Please fill in all fields before submitting."
	MsgSaveFailed      = "Failed to save feedback: "
	MsgRetrieveFailed  = "Failed to retrieve feedback: "
	DefaultRecentLimit = 5
)

// SubmitStatus is the outcome of one submit action.
type SubmitStatus int

const (
	SubmitNone SubmitStatus = iota
	SubmitSaved
	SubmitInvalid
	SubmitFailed
)

// SubmitOutcome is what the submit section renders.
type SubmitOutcome struct {
	Status      SubmitStatus
	Message     string
	FieldErrors map[string]string
	Input       models.FeedbackInput
	Record      *models.FeedbackRecord
}

// RecentOutcome is what the recent-feedback section renders.
type RecentOutcome struct {
	Records []models.FeedbackRecord
	Error   string
}

// ContactView is the whole contact page.
type ContactView struct {
	Submit SubmitOutcome
	Recent RecentOutcome
}

// FeedbackOptions tunes a FeedbackController.
type FeedbackOptions struct {
	RecentLimit int           // records shown in the recent list, default 5
	Timeout     time.Duration // per store call, default 5s
}

// FeedbackController runs the contact page.
type FeedbackController struct {
	store       store.FeedbackStore
	recentLimit int
	timeout     time.Duration
	now         func() time.Time
}

func NewFeedbackController(s store.FeedbackStore, opts FeedbackOptions) *FeedbackController {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	return &FeedbackController{
		store:       s,
		recentLimit: opts.RecentLimit,
		timeout:     opts.Timeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RecentLimit is the number of records Refresh asks for.
func (c *FeedbackController) RecentLimit() int { return c.recentLimit }

// Submit validates and persists one feedback entry. Nothing is written unless
// name, email and message are non-empty. Store failures are reported in the
// outcome, never returned.
func (c *FeedbackController) Submit(ctx context.Context, in models.FeedbackInput) SubmitOutcome {
	in = in.Normalize()

	if verr := validation.ValidateStruct(in); verr != nil {
		return SubmitOutcome{
			Status:      SubmitInvalid,
			Message:     MsgFillAllFields,
			FieldErrors: verr.ByField(),
			Input:       in,
		}
	}

	rec := in.Record(c.now())

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.store.Insert(ctx, rec); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to save feedback")
		return SubmitOutcome{
			Status:  SubmitFailed,
			Message: MsgSaveFailed + err.Error(),
			Input:   in,
		}
	}

	logging.Ctx(ctx).Info().Str("feedback_type", rec.FeedbackType).Msg("feedback saved")
	return SubmitOutcome{
		Status:  SubmitSaved,
		Message: MsgFeedbackSaved,
		Record:  &rec,
	}
}

// Refresh lists the most recent feedback, newest first.
func (c *FeedbackController) Refresh(ctx context.Context) RecentOutcome {
	return c.List(ctx, c.recentLimit)
}

// List is Refresh with an explicit limit.
func (c *FeedbackController) List(ctx context.Context, limit int) RecentOutcome {
	if limit <= 0 {
		return RecentOutcome{Records: []models.FeedbackRecord{}}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	recs, err := c.store.ListRecent(ctx, limit)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to retrieve feedback")
		return RecentOutcome{Records: []models.FeedbackRecord{}, Error: MsgRetrieveFailed + err.Error()}
	}
	if recs == nil {
		recs = []models.FeedbackRecord{}
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return RecentOutcome{Records: recs}
}

// Enter renders the contact page without a submit action.
func (c *FeedbackController) Enter(ctx context.Context) ContactView {
	return ContactView{Recent: c.Refresh(ctx)}
}

// SubmitAndRefresh runs the submit action and then the refresh, which runs
// whatever the submit outcome was.
func (c *FeedbackController) SubmitAndRefresh(ctx context.Context, in models.FeedbackInput) ContactView {
	submit := c.Submit(ctx, in)
	return ContactView{Submit: submit, Recent: c.Refresh(ctx)}
}
