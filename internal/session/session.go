// Package session is the per-browser auth context: the shopper's bearer token
// and profile, the admin's token and role, and password-recovery progress.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wickandwax/internal/domain"
	"wickandwax/internal/repos"
	"wickandwax/internal/sequence"
)

// ErrCooldown is returned when a one-time code is requested before the
// resend interval has elapsed.
var ErrCooldown = errors.New("please wait before requesting another code")

type Auth struct {
	SID string

	Token  string
	UserID string
	User   *domain.User

	AdminToken string
	AdminID    string
	Role       string
	Admin      *domain.Admin

	OTPEmail   string
	OTPSentAt  time.Time
	ResetToken string
}

func (a Auth) SignedIn() bool { return a.Token != "" && a.UserID != "" }

func (a Auth) IsAdmin() bool { return a.AdminToken != "" && a.Role == domain.RoleAdmin }

type Manager struct {
	repo     *repos.SessionRepo
	Cooldown sequence.Cooldown
}

func NewManager(repo *repos.SessionRepo, cooldown time.Duration) *Manager {
	return &Manager{repo: repo, Cooldown: sequence.NewCooldown(cooldown)}
}

// Load reads the auth context for sid. A missing session is an empty context.
func (m *Manager) Load(ctx context.Context, sid string) (Auth, error) {
	a := Auth{SID: sid}
	if sid == "" {
		return a, nil
	}
	row, err := m.repo.Get(ctx, sid)
	if errors.Is(err, repos.ErrNoSession) {
		return a, nil
	}
	if err != nil {
		return a, err
	}
	a.Token, a.UserID = row.UserToken, row.UserID
	if row.UserJSON != "" {
		var u domain.User
		if json.Unmarshal([]byte(row.UserJSON), &u) == nil {
			a.User = &u
		}
	}
	a.AdminToken, a.AdminID, a.Role = row.AdminToken, row.AdminID, row.AdminRole
	if row.AdminJSON != "" {
		var ad domain.Admin
		if json.Unmarshal([]byte(row.AdminJSON), &ad) == nil {
			a.Admin = &ad
		}
	}
	a.OTPEmail, a.ResetToken = row.OTPEmail, row.ResetToken
	if row.OTPSentAt != "" {
		a.OTPSentAt, _ = time.Parse(time.RFC3339Nano, row.OTPSentAt)
	}
	return a, nil
}

// Refresh re-reads the stored context, picking up changes made by other tabs.
func (m *Manager) Refresh(ctx context.Context, a Auth) (Auth, error) {
	return m.Load(ctx, a.SID)
}

func (m *Manager) SignIn(ctx context.Context, sid, token string, u domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.repo.BindUser(ctx, sid, token, u.ID, string(b))
}

func (m *Manager) SignInAdmin(ctx context.Context, sid, token string, ad domain.Admin) error {
	b, err := json.Marshal(ad)
	if err != nil {
		return err
	}
	role := ad.Role
	if role == "" {
		role = domain.RoleAdmin
	}
	return m.repo.BindAdmin(ctx, sid, token, ad.ID, role, string(b))
}

// Clear drops the shopper half of the session.
func (m *Manager) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.repo.UnbindUser(ctx, sid)
}

// ClearAdmin drops the admin half of the session.
func (m *Manager) ClearAdmin(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.repo.UnbindAdmin(ctx, sid)
}

// OTPRemaining is the number of seconds until another code may be sent.
func (m *Manager) OTPRemaining(a Auth) int { return m.Cooldown.Seconds(a.OTPSentAt) }

// BeginOTP records a send for email, refusing while the cooldown runs.
// The cooldown only applies to repeat sends for the same address.
func (m *Manager) BeginOTP(ctx context.Context, a Auth, email string) error {
	if a.OTPEmail == email && !m.Cooldown.Ready(a.OTPSentAt) {
		return ErrCooldown
	}
	return m.repo.SetOTP(ctx, a.SID, email, m.Cooldown.Now().UTC().Format(time.RFC3339Nano))
}

// RollbackOTP forgets a send that the backend rejected.
func (m *Manager) RollbackOTP(ctx context.Context, sid string) error {
	return m.repo.ClearRecovery(ctx, sid)
}

func (m *Manager) SetResetToken(ctx context.Context, sid, token string) error {
	return m.repo.SetResetToken(ctx, sid, token)
}

func (m *Manager) FinishRecovery(ctx context.Context, sid string) error {
	return m.repo.ClearRecovery(ctx, sid)
}
