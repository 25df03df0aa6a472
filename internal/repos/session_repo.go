package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNoSession = errors.New("session not found")

type SessionRow struct {
	ID         string `db:"id"`
	UserToken  string `db:"user_token"`
	UserID     string `db:"user_id"`
	UserJSON   string `db:"user_json"`
	AdminToken string `db:"admin_token"`
	AdminID    string `db:"admin_id"`
	AdminRole  string `db:"admin_role"`
	AdminJSON  string `db:"admin_json"`
	OTPEmail   string `db:"otp_email"`
	OTPSentAt  string `db:"otp_sent_at"`
	ResetToken string `db:"reset_token"`
}

type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

func (r *SessionRepo) Get(ctx context.Context, sid string) (*SessionRow, error) {
	var row SessionRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id,user_token,user_id,user_json,admin_token,admin_id,admin_role,admin_json,
		       otp_email,otp_sent_at,reset_token
		FROM sessions WHERE id=?`, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE sessions SET last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return &row, nil
}

func (r *SessionRepo) BindUser(ctx context.Context, sid, token, userID, userJSON string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions(id,user_token,user_id,user_json,last_seen)
		VALUES(?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET user_token=excluded.user_token,user_id=excluded.user_id,
		  user_json=excluded.user_json,last_seen=CURRENT_TIMESTAMP`, sid, token, userID, userJSON)
	return err
}

func (r *SessionRepo) BindAdmin(ctx context.Context, sid, token, adminID, role, adminJSON string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions(id,admin_token,admin_id,admin_role,admin_json,last_seen)
		VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET admin_token=excluded.admin_token,admin_id=excluded.admin_id,
		  admin_role=excluded.admin_role,admin_json=excluded.admin_json,last_seen=CURRENT_TIMESTAMP`,
		sid, token, adminID, role, adminJSON)
	return err
}

func (r *SessionRepo) UnbindUser(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET user_token='',user_id='',user_json='',last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

func (r *SessionRepo) UnbindAdmin(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET admin_token='',admin_id='',admin_role='',admin_json='',last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// SetOTP records the address a one-time code was last sent to and when.
func (r *SessionRepo) SetOTP(ctx context.Context, sid, email, sentAt string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions(id,otp_email,otp_sent_at,reset_token,last_seen)
		VALUES(?,?,?,'',CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET otp_email=excluded.otp_email,otp_sent_at=excluded.otp_sent_at,
		  reset_token='',last_seen=CURRENT_TIMESTAMP`, sid, email, sentAt)
	return err
}

func (r *SessionRepo) SetResetToken(ctx context.Context, sid, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET reset_token=?,last_seen=CURRENT_TIMESTAMP WHERE id=?`, token, sid)
	return err
}

func (r *SessionRepo) ClearRecovery(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET otp_email='',otp_sent_at='',reset_token='' WHERE id=?`, sid)
	return err
}

func (r *SessionRepo) Delete(ctx context.Context, sid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, sid)
	return err
}
