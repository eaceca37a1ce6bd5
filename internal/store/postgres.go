package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// PostgresStore keeps feedback in the feedback table created by
// database.InitPostgresTables. The serial id is the insertion order.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, rec models.FeedbackRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback (created_at, name, email, feedback_type, feedback_message)
		VALUES ($1, $2, $3, $4, $5)
	`, createdAt, rec.Name, rec.Email, rec.FeedbackType, rec.FeedbackMessage)
	return wrap("postgres", "insert", err)
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]models.FeedbackRecord, error) {
	if limit <= 0 {
		return []models.FeedbackRecord{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, name, email, feedback_type, feedback_message
		FROM feedback
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, wrap("postgres", "list_recent", err)
	}
	defer rows.Close()

	out := make([]models.FeedbackRecord, 0, limit)
	for rows.Next() {
		var (
			id  int64
			rec models.FeedbackRecord
		)
		if err := rows.Scan(&id, &rec.CreatedAt, &rec.Name, &rec.Email, &rec.FeedbackType, &rec.FeedbackMessage); err != nil {
			return nil, wrap("postgres", "list_recent", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("postgres", "list_recent", err)
	}
	return out, nil
}
