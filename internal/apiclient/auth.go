package apiclient

import (
	"context"
	"net/http"

	"wickandwax/internal/domain"
)

type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type AdminAuthResult struct {
	Token string       `json:"token"`
	Admin domain.Admin `json:"admin"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type VerifyResult struct {
	ResetToken string `json:"resetToken"`
}

func (c *Client) UserLogin(ctx context.Context, cred Credentials) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/user/login", "", cred, &out)
	return out, err
}

func (c *Client) UserRegister(ctx context.Context, reg Registration) (AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, http.MethodPost, "/user/register", "", reg, &out)
	return out, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/user/forgot-password", "", map[string]string{"email": email}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (VerifyResult, error) {
	var out VerifyResult
	err := c.do(ctx, http.MethodPost, "/user/verify-otp", "", map[string]string{"email": email, "otp": otp}, &out)
	return out, err
}

func (c *Client) ResetPassword(ctx context.Context, email, resetToken, password string) error {
	body := map[string]string{"email": email, "resetToken": resetToken, "newPassword": password}
	return c.do(ctx, http.MethodPost, "/user/reset-password", "", body, nil)
}

func (c *Client) AdminLogin(ctx context.Context, cred Credentials) (AdminAuthResult, error) {
	var out AdminAuthResult
	err := c.do(ctx, http.MethodPost, "/admin/login", "", cred, &out)
	return out, err
}

func (c *Client) AdminRegister(ctx context.Context, reg Registration) (AdminAuthResult, error) {
	var out AdminAuthResult
	err := c.do(ctx, http.MethodPost, "/admin/register", "", reg, &out)
	return out, err
}
