package repos

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per-connection
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Browser sessions: one row per 'sid' cookie
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_token TEXT NOT NULL DEFAULT '',
  user_id    TEXT NOT NULL DEFAULT '',
  user_json  TEXT NOT NULL DEFAULT '',
  admin_token TEXT NOT NULL DEFAULT '',
  admin_id    TEXT NOT NULL DEFAULT '',
  admin_role  TEXT NOT NULL DEFAULT '',
  admin_json  TEXT NOT NULL DEFAULT '',
  otp_email   TEXT NOT NULL DEFAULT '',
  otp_sent_at TEXT NOT NULL DEFAULT '',
  reset_token TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- One-time form submissions (checkout, reviews, admin writes)
CREATE TABLE IF NOT EXISTS submissions(
  token  TEXT NOT NULL,
  action TEXT NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (token, action)
);
CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at);
`
	_, err := db.Exec(schema)
	return err
}
