package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/apiclient/fakeapi"
	"wickandwax/internal/services"
	"wickandwax/internal/session"
)

func TestLogin(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Login(ctx, "s1", "asha@example.com", "wrongpass")
	require.ErrorIs(t, err, services.ErrBadCreds)
	_, err = e.auth.Login(ctx, "s1", "not-an-email", fakeapi.Password)
	require.ErrorIs(t, err, services.ErrBadCreds)

	u, err := e.auth.Login(ctx, "s1", " Asha@Example.com ", fakeapi.Password)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", u.Email)

	a, err := e.sessions.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, a.SignedIn())
	require.Equal(t, fakeapi.UserID, a.UserID)
	require.NotNil(t, a.User)

	require.NoError(t, e.auth.Logout(ctx, "s1"))
	a, err = e.sessions.Load(ctx, "s1")
	require.NoError(t, err)
	require.False(t, a.SignedIn())
}

func TestLoginBackendDown(t *testing.T) {
	e := newEnv(t)
	e.srv.Lock()
	e.srv.FailNext["/user/login"] = 503
	e.srv.Unlock()
	_, err := e.auth.Login(ctx, "s1", "asha@example.com", fakeapi.Password)
	require.ErrorIs(t, err, apiclient.ErrUnavailable)
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	form := services.RegisterForm{Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Password: "secret1", Confirm: "secret2"}

	_, err := e.auth.Register(ctx, "s2", form)
	require.ErrorIs(t, err, services.ErrInvalid)

	form.Password, form.Confirm = "abc", "abc"
	_, err = e.auth.Register(ctx, "s2", form)
	require.ErrorIs(t, err, services.ErrInvalid)

	form.Password, form.Confirm = "secret1", "secret1"
	form.Email = "taken@example.com"
	_, err = e.auth.Register(ctx, "s2", form)
	require.ErrorIs(t, err, apiclient.ErrConflict)
	require.Equal(t, "Email already registered", services.Message(err, "x"))

	form.Email = "asha@example.com"
	u, err := e.auth.Register(ctx, "s2", form)
	require.NoError(t, err)
	require.Equal(t, "Asha", u.Name)
	a, err := e.sessions.Load(ctx, "s2")
	require.NoError(t, err)
	require.True(t, a.SignedIn())
}

func TestPasswordRecovery(t *testing.T) {
	e := newEnv(t)
	a := session.Auth{SID: "s3"}

	require.ErrorIs(t, e.auth.ForgotPassword(ctx, a, "nope"), services.ErrInvalid)
	require.NoError(t, e.auth.ForgotPassword(ctx, a, "asha@example.com"))

	a, err := e.sessions.Load(ctx, "s3")
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", a.OTPEmail)
	require.Greater(t, e.sessions.OTPRemaining(a), 0)
	require.ErrorIs(t, e.auth.ResendOTP(ctx, a), session.ErrCooldown)

	require.ErrorIs(t, e.auth.VerifyOTP(ctx, a, "12"), services.ErrInvalid)
	require.ErrorIs(t, e.auth.VerifyOTP(ctx, a, "9999"), apiclient.ErrValidation)
	require.ErrorIs(t, e.auth.ResetPassword(ctx, a, "newpass", "newpass"), services.ErrInvalid, "code not verified yet")

	require.NoError(t, e.auth.VerifyOTP(ctx, a, fakeapi.ValidOTP))
	a, err = e.sessions.Load(ctx, "s3")
	require.NoError(t, err)
	require.NotEmpty(t, a.ResetToken)

	require.ErrorIs(t, e.auth.ResetPassword(ctx, a, "newpass", "other1"), services.ErrInvalid)
	require.NoError(t, e.auth.ResetPassword(ctx, a, "newpass", "newpass"))
	a, err = e.sessions.Load(ctx, "s3")
	require.NoError(t, err)
	require.Empty(t, a.OTPEmail)
	require.Empty(t, a.ResetToken)
}

func TestForgotPasswordFailureDoesNotStartCooldown(t *testing.T) {
	e := newEnv(t)
	e.srv.Lock()
	e.srv.FailNext["/user/forgot-password"] = 503
	e.srv.Unlock()

	a := session.Auth{SID: "s4"}
	require.ErrorIs(t, e.auth.ForgotPassword(ctx, a, "asha@example.com"), apiclient.ErrUnavailable)

	a, err := e.sessions.Load(ctx, "s4")
	require.NoError(t, err)
	require.Empty(t, a.OTPEmail)
	require.Equal(t, 0, e.sessions.OTPRemaining(a))
	require.NoError(t, e.auth.ForgotPassword(ctx, a, "asha@example.com"))
}

func TestAdminLogin(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.AdminLogin(ctx, "s5", "ravi@example.com", "nope123")
	require.ErrorIs(t, err, services.ErrBadCreds)

	ad, err := e.auth.AdminLogin(ctx, "s5", "ravi@example.com", fakeapi.Password)
	require.NoError(t, err)
	require.Equal(t, fakeapi.AdminID, ad.ID)

	a, err := e.sessions.Load(ctx, "s5")
	require.NoError(t, err)
	require.True(t, a.IsAdmin())
	require.False(t, a.SignedIn(), "admin and shopper halves are independent")

	require.NoError(t, e.auth.AdminLogout(ctx, "s5"))
	a, err = e.sessions.Load(ctx, "s5")
	require.NoError(t, err)
	require.False(t, a.IsAdmin())
}
