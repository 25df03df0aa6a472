package services

import (
	"context"
	"errors"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/session"
	"wickandwax/internal/validate"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	API      *apiclient.Client
	Sessions *session.Manager
}

func NewAuthService(api *apiclient.Client, sessions *session.Manager) *AuthService {
	return &AuthService{API: api, Sessions: sessions}
}

// Login signs the shopper in on sid. Any backend refusal reads as bad
// credentials so the response does not reveal which part was wrong.
func (s *AuthService) Login(ctx context.Context, sid, email, password string) (domain.User, error) {
	email, ok := validate.Email(email)
	if !ok || !validate.Password(password) {
		return domain.User{}, ErrBadCreds
	}
	res, err := s.API.UserLogin(ctx, apiclient.Credentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnavailable) {
			return domain.User{}, err
		}
		return domain.User{}, ErrBadCreds
	}
	if err := s.Sessions.SignIn(ctx, sid, res.Token, res.User); err != nil {
		return domain.User{}, err
	}
	return res.User, nil
}

type RegisterForm struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Confirm  string
}

func (f RegisterForm) check() (apiclient.Registration, error) {
	name, ok := validate.Name(f.Name)
	if !ok {
		return apiclient.Registration{}, invalid("name", "Please enter your name")
	}
	email, ok := validate.Email(f.Email)
	if !ok {
		return apiclient.Registration{}, invalid("email", "Please enter a valid email")
	}
	phone := ""
	if f.Phone != "" {
		if phone, ok = validate.Phone(f.Phone); !ok {
			return apiclient.Registration{}, invalid("phone", "Phone must be 10 digits")
		}
	}
	if !validate.Password(f.Password) {
		return apiclient.Registration{}, invalid("password", "Password must be at least 6 characters")
	}
	if f.Password != f.Confirm {
		return apiclient.Registration{}, invalid("confirm", "Passwords do not match")
	}
	return apiclient.Registration{Name: name, Email: email, Phone: phone, Password: f.Password}, nil
}

func (s *AuthService) Register(ctx context.Context, sid string, f RegisterForm) (domain.User, error) {
	reg, err := f.check()
	if err != nil {
		return domain.User{}, err
	}
	res, err := s.API.UserRegister(ctx, reg)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Sessions.SignIn(ctx, sid, res.Token, res.User); err != nil {
		return domain.User{}, err
	}
	return res.User, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Sessions.Clear(ctx, sid)
}

// ForgotPassword sends a one-time code to email, subject to the resend
// cooldown. A send the backend rejects does not start the cooldown.
func (s *AuthService) ForgotPassword(ctx context.Context, a session.Auth, email string) error {
	email, ok := validate.Email(email)
	if !ok {
		return invalid("email", "Please enter a valid email")
	}
	if err := s.Sessions.BeginOTP(ctx, a, email); err != nil {
		return err
	}
	if err := s.API.ForgotPassword(ctx, email); err != nil {
		_ = s.Sessions.RollbackOTP(ctx, a.SID)
		return err
	}
	return nil
}

// ResendOTP repeats ForgotPassword for the address already in progress.
func (s *AuthService) ResendOTP(ctx context.Context, a session.Auth) error {
	if a.OTPEmail == "" {
		return invalid("email", "Start again by entering your email")
	}
	return s.ForgotPassword(ctx, a, a.OTPEmail)
}

func (s *AuthService) VerifyOTP(ctx context.Context, a session.Auth, otp string) error {
	otp, ok := validate.OTP(otp)
	if !ok {
		return invalid("otp", "Enter the 4-digit code")
	}
	if a.OTPEmail == "" {
		return invalid("email", "Start again by entering your email")
	}
	res, err := s.API.VerifyOTP(ctx, a.OTPEmail, otp)
	if err != nil {
		return err
	}
	return s.Sessions.SetResetToken(ctx, a.SID, res.ResetToken)
}

func (s *AuthService) ResetPassword(ctx context.Context, a session.Auth, password, confirm string) error {
	if a.ResetToken == "" {
		return invalid("otp", "Verify your code first")
	}
	if !validate.Password(password) {
		return invalid("password", "Password must be at least 6 characters")
	}
	if password != confirm {
		return invalid("confirm", "Passwords do not match")
	}
	if err := s.API.ResetPassword(ctx, a.OTPEmail, a.ResetToken, password); err != nil {
		return err
	}
	return s.Sessions.FinishRecovery(ctx, a.SID)
}

func (s *AuthService) AdminLogin(ctx context.Context, sid, email, password string) (domain.Admin, error) {
	email, ok := validate.Email(email)
	if !ok || !validate.Password(password) {
		return domain.Admin{}, ErrBadCreds
	}
	res, err := s.API.AdminLogin(ctx, apiclient.Credentials{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnavailable) {
			return domain.Admin{}, err
		}
		return domain.Admin{}, ErrBadCreds
	}
	if res.Admin.Role != "" && res.Admin.Role != domain.RoleAdmin {
		return domain.Admin{}, ErrBadCreds
	}
	if err := s.Sessions.SignInAdmin(ctx, sid, res.Token, res.Admin); err != nil {
		return domain.Admin{}, err
	}
	return res.Admin, nil
}

func (s *AuthService) AdminRegister(ctx context.Context, sid string, f RegisterForm) (domain.Admin, error) {
	reg, err := f.check()
	if err != nil {
		return domain.Admin{}, err
	}
	res, err := s.API.AdminRegister(ctx, reg)
	if err != nil {
		return domain.Admin{}, err
	}
	if err := s.Sessions.SignInAdmin(ctx, sid, res.Token, res.Admin); err != nil {
		return domain.Admin{}, err
	}
	return res.Admin, nil
}

func (s *AuthService) AdminLogout(ctx context.Context, sid string) error {
	return s.Sessions.ClearAdmin(ctx, sid)
}
