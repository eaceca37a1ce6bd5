package models

import (
	"strings"
	"time"
)

// Feedback types offered by the contact form, in display order.
const (
	FeedbackGeneral        = "General"
	FeedbackBugReport      = "Bug Report"
	FeedbackFeatureRequest = "Feature Request"
)

// FeedbackTypes lists the feedback type choices, in display order.
var FeedbackTypes = []string{FeedbackGeneral, FeedbackBugReport, FeedbackFeatureRequest}

// IsFeedbackType reports whether s is one of FeedbackTypes.
func IsFeedbackType(s string) bool {
	for _, t := range FeedbackTypes {
		if s == t {
			return true
		}
	}
	return false
}

// FeedbackRecord is one document in the append-only feedback collection.
// ID is store-assigned: a hex ObjectID for Mongo, a serial for Postgres.
type FeedbackRecord struct {
	ID        string    `bson:"-" json:"id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	Name            string `bson:"name" json:"name"`
	Email           string `bson:"email" json:"email"`
	FeedbackType    string `bson:"feedback_type" json:"feedback_type"`
	FeedbackMessage string `bson:"feedback_message" json:"feedback_message"`
}

// FeedbackInput is the contact form as submitted by the user.
type FeedbackInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	FeedbackType    string `json:"feedback_type" validate:"feedback_type"`
	FeedbackMessage string `json:"feedback_message" validate:"required"`
}

// Normalize trims the text fields and applies the default feedback type.
func (in FeedbackInput) Normalize() FeedbackInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.FeedbackType = strings.TrimSpace(in.FeedbackType)
	in.FeedbackMessage = strings.TrimSpace(in.FeedbackMessage)
	if in.FeedbackType == "" {
		in.FeedbackType = FeedbackGeneral
	}
	return in
}

// Record builds the document to persist from a normalized, validated input.
func (in FeedbackInput) Record(now time.Time) FeedbackRecord {
	return FeedbackRecord{
		CreatedAt:       now,
		Name:            in.Name,
		Email:           in.Email,
		FeedbackType:    in.FeedbackType,
		FeedbackMessage: in.FeedbackMessage,
	}
}
