package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"wickandwax/internal/apiclient"
	applog "wickandwax/internal/log"
	"wickandwax/internal/services"
	"wickandwax/internal/session"
)

type AuthHandler struct {
	*Sessions
	Auth *services.AuthService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": "", "Next": c.Query("next")})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	email := c.FormValue("email")
	next := c.FormValue("next")
	u, err := h.Auth.Login(c.UserContext(), sid, email, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "auth.login.fail", map[string]any{"email": email})
			c.Status(fiber.StatusUnauthorized)
			return render(c, "login", fiber.Map{"Err": "Invalid email or password", "Next": next})
		}
		applog.Error(c, "auth.login.error", err, map[string]any{"email": email})
		c.Status(statusOf(err))
		return render(c, "login", fiber.Map{"Err": "Sign-in is unavailable right now. Please try again.", "Next": next})
	}
	c.Locals(applog.UserIDKey, u.ID)
	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.Redirect(safeNext(next))
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

func registerForm(c *fiber.Ctx) services.RegisterForm {
	return services.RegisterForm{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Phone:    c.FormValue("phone"),
		Password: c.FormValue("password"),
		Confirm:  c.FormValue("confirm"),
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	f := registerForm(c)
	u, err := h.Auth.Register(c.UserContext(), sid, f)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"email": f.Email, "error": err.Error()})
		c.Status(statusOf(err))
		return render(c, "register", fiber.Map{
			"Err":  services.Message(err, "Could not create your account"),
			"Form": fiber.Map{"Name": f.Name, "Email": f.Email, "Phone": f.Phone},
		})
	}
	c.Locals(applog.UserIDKey, u.ID)
	applog.Audit(c, "auth.register", map[string]any{"email": u.Email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		applog.Error(c, "auth.logout.fail", err, nil)
	}
	if !authOf(c).IsAdmin() {
		h.expireSID(c)
	}
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}

func (h *AuthHandler) ForgotForm(c *fiber.Ctx) error {
	return render(c, "forgot", fiber.Map{})
}

// Forgot sends the one-time code and moves on to the code entry page.
func (h *AuthHandler) Forgot(c *fiber.Ctx) error {
	a := authOf(c)
	a.SID = h.ensureSID(c)
	email := c.FormValue("email")
	if err := h.Auth.ForgotPassword(c.UserContext(), a, email); err != nil {
		return h.otpFail(c, a, email, "forgot", err)
	}
	applog.Audit(c, "auth.otp.sent", map[string]any{"email": email})
	return c.Redirect("/verify-otp")
}

func (h *AuthHandler) Resend(c *fiber.Ctx) error {
	a := authOf(c)
	if a.OTPEmail == "" {
		return c.Redirect("/forgot-password")
	}
	if err := h.Auth.ResendOTP(c.UserContext(), a); err != nil {
		return h.otpFail(c, a, a.OTPEmail, "verify", err)
	}
	applog.Audit(c, "auth.otp.resent", map[string]any{"email": a.OTPEmail})
	return c.Redirect("/verify-otp")
}

func (h *AuthHandler) otpFail(c *fiber.Ctx, a session.Auth, email, tmpl string, err error) error {
	applog.Security(c, "auth.otp.fail", map[string]any{"email": email, "error": err.Error()})
	c.Status(statusOf(err))
	return render(c, tmpl, fiber.Map{
		"Err":       services.Message(err, "Could not send the code"),
		"Email":     email,
		"Remaining": h.Manager.OTPRemaining(a),
	})
}

func (h *AuthHandler) VerifyForm(c *fiber.Ctx) error {
	a := authOf(c)
	if a.OTPEmail == "" {
		return c.Redirect("/forgot-password")
	}
	return render(c, "verify", fiber.Map{"Email": a.OTPEmail, "Remaining": h.Manager.OTPRemaining(a)})
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	a := authOf(c)
	if err := h.Auth.VerifyOTP(c.UserContext(), a, c.FormValue("otp")); err != nil {
		applog.Security(c, "auth.otp.verify.fail", map[string]any{"email": a.OTPEmail})
		msg := services.Message(err, "Could not verify the code")
		if errors.Is(err, apiclient.ErrValidation) {
			msg = "Invalid or expired code"
		}
		c.Status(statusOf(err))
		return render(c, "verify", fiber.Map{"Err": msg, "Email": a.OTPEmail, "Remaining": h.Manager.OTPRemaining(a)})
	}
	applog.Audit(c, "auth.otp.verified", map[string]any{"email": a.OTPEmail})
	return c.Redirect("/reset-password")
}

func (h *AuthHandler) ResetForm(c *fiber.Ctx) error {
	if authOf(c).ResetToken == "" {
		return c.Redirect("/forgot-password")
	}
	return render(c, "reset", fiber.Map{})
}

func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	a := authOf(c)
	if err := h.Auth.ResetPassword(c.UserContext(), a, c.FormValue("password"), c.FormValue("confirm")); err != nil {
		applog.Security(c, "auth.reset.fail", map[string]any{"email": a.OTPEmail, "error": err.Error()})
		c.Status(statusOf(err))
		return render(c, "reset", fiber.Map{"Err": services.Message(err, "Could not reset your password")})
	}
	applog.Audit(c, "auth.reset", map[string]any{"email": a.OTPEmail})
	return render(c, "login", fiber.Map{"Notice": "Password updated. Please sign in."})
}

func (h *AuthHandler) AdminLoginForm(c *fiber.Ctx) error {
	return render(c, "admin_login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	email := c.FormValue("email")
	ad, err := h.Auth.AdminLogin(c.UserContext(), sid, email, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			applog.Security(c, "admin.login.fail", map[string]any{"email": email})
			c.Status(fiber.StatusUnauthorized)
			return render(c, "admin_login", fiber.Map{"Err": "Invalid email or password"})
		}
		applog.Error(c, "admin.login.error", err, map[string]any{"email": email})
		c.Status(statusOf(err))
		return render(c, "admin_login", fiber.Map{"Err": "Sign-in is unavailable right now. Please try again."})
	}
	c.Locals(applog.UserIDKey, "admin:"+ad.ID)
	applog.Audit(c, "admin.login.success", map[string]any{"email": ad.Email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) AdminRegisterForm(c *fiber.Ctx) error {
	return render(c, "admin_register", fiber.Map{})
}

func (h *AuthHandler) AdminRegister(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	f := registerForm(c)
	ad, err := h.Auth.AdminRegister(c.UserContext(), sid, f)
	if err != nil {
		applog.Security(c, "admin.register.fail", map[string]any{"email": f.Email, "error": err.Error()})
		c.Status(statusOf(err))
		return render(c, "admin_register", fiber.Map{"Err": services.Message(err, "Could not create the account")})
	}
	applog.Audit(c, "admin.register", map[string]any{"email": ad.Email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) AdminLogout(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	if err := h.Auth.AdminLogout(c.UserContext(), sid); err != nil {
		applog.Error(c, "admin.logout.fail", err, nil)
	}
	applog.Audit(c, "admin.logout", map[string]any{"sid": sid})
	return c.Redirect("/admin/login")
}
