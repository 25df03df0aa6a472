package repos

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrDuplicateSubmission means the form token was already used for the action.
var ErrDuplicateSubmission = errors.New("submission already in progress or completed")

type SubmissionRepo struct{ db *sqlx.DB }

func NewSubmissionRepo(db *sqlx.DB) *SubmissionRepo { return &SubmissionRepo{db: db} }

// CheckAndInsert claims (token, action). A second claim fails with
// ErrDuplicateSubmission until Release is called.
func (r *SubmissionRepo) CheckAndInsert(ctx context.Context, token, action string) error {
	if token == "" {
		return errors.New("submission token required")
	}
	if action == "" {
		return errors.New("submission action required")
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO submissions(token,action,created_at) VALUES(?,?,?)
		ON CONFLICT(token,action) DO NOTHING`, token, action, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDuplicateSubmission
	}
	return nil
}

// Release frees a claim after the guarded call failed so the shopper can retry.
func (r *SubmissionRepo) Release(ctx context.Context, token, action string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE token=? AND action=?`, token, action)
	return err
}

func (r *SubmissionRepo) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	_, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE created_at < ?`, cutoff)
	return err
}
