// Package store persists feedback records. The collection is append-only:
// records are inserted and read back newest first, never updated or deleted.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/metrics"
	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// FeedbackStore is the adapter the contact page talks to.
type FeedbackStore interface {
	// Insert appends one record.
	Insert(ctx context.Context, rec models.FeedbackRecord) error
	// ListRecent returns at most limit records in descending insertion order.
	ListRecent(ctx context.Context, limit int) ([]models.FeedbackRecord, error)
}

// StoreError wraps a failure reported by the backing database.
type StoreError struct {
	Backend string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func wrap(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Backend: backend, Op: op, Err: err}
}

// Instrumented records metrics around another store.
type Instrumented struct {
	backend string
	next    FeedbackStore
}

// NewInstrumented wraps next, labelling metrics with backend.
func NewInstrumented(backend string, next FeedbackStore) *Instrumented {
	return &Instrumented{backend: backend, next: next}
}

func (s *Instrumented) Insert(ctx context.Context, rec models.FeedbackRecord) error {
	start := time.Now()
	err := s.next.Insert(ctx, rec)
	metrics.RecordStoreOp(s.backend, "insert", time.Since(start), err)
	return err
}

func (s *Instrumented) ListRecent(ctx context.Context, limit int) ([]models.FeedbackRecord, error) {
	start := time.Now()
	recs, err := s.next.ListRecent(ctx, limit)
	metrics.RecordStoreOp(s.backend, "list_recent", time.Since(start), err)
	return recs, err
}
