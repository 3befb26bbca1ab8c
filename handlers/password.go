package handlers

import (
	"strconv"
	"time"

	"campwild/logger"
	"campwild/middleware"
	"campwild/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const resetTokenTTL = time.Hour

// ShowForgot renders the forgot-password form.
func (s *Server) ShowForgot(c *fiber.Ctx) error {
	return s.render(c, "users/forgot", nil)
}

// Forgot handles POST /forgot. It always flashes the same message so the
// endpoint cannot be used to probe which emails are registered.
func (s *Server) Forgot(c *fiber.Ctx) error {
	email := c.FormValue("email")

	user, err := s.users.GetByEmail(c.Context(), email)
	if err != nil {
		logger.Error("reset lookup failed", zap.Error(err))
	}

	if user != nil {
		token, err := s.newResetToken(user.ID)
		if err != nil {
			logger.Error("failed to sign reset token", zap.Error(err))
			s.sessions.Flash(c, middleware.FlashError, "Something went wrong, try again")
			return c.Redirect("/forgot")
		}

		expires := time.Now().Add(resetTokenTTL)
		user.ResetPasswordToken = token
		user.ResetPasswordExpires = &expires
		if err := s.users.Update(c.Context(), user); err != nil {
			logger.Error("failed to store reset token", zap.Error(err))
			s.sessions.Flash(c, middleware.FlashError, "Something went wrong, try again")
			return c.Redirect("/forgot")
		}

		link := s.cfg.BaseURL + "/reset/" + token
		if err := s.mailer.SendPasswordReset(user.Email, link); err != nil {
			logger.Error("failed to send reset mail", zap.String("email", user.Email), zap.Error(err))
		}
	}

	s.sessions.Flash(c, middleware.FlashSuccess, "If that address is registered, a reset link is on its way")
	return c.Redirect("/forgot")
}

// ShowReset renders the new-password form when the token checks out.
func (s *Server) ShowReset(c *fiber.Ctx) error {
	token := c.Params("token")

	user, err := s.verifyResetToken(c, token)
	if err != nil || user == nil {
		s.sessions.Flash(c, middleware.FlashError, "Password reset token is invalid or has expired")
		return c.Redirect("/forgot")
	}

	return s.render(c, "users/reset", fiber.Map{"token": token})
}

// Reset handles POST /reset/:token.
func (s *Server) Reset(c *fiber.Ctx) error {
	token := c.Params("token")

	user, err := s.verifyResetToken(c, token)
	if err != nil || user == nil {
		s.sessions.Flash(c, middleware.FlashError, "Password reset token is invalid or has expired")
		return c.Redirect("/forgot")
	}

	password := c.FormValue("password")
	if len(password) < 8 {
		s.sessions.Flash(c, middleware.FlashError, "Password must be at least 8 characters")
		return c.Redirect("/reset/" + token)
	}
	if password != c.FormValue("confirm") {
		s.sessions.Flash(c, middleware.FlashError, "Passwords do not match")
		return c.Redirect("/reset/" + token)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		logger.Error("failed to hash password", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Something went wrong, try again")
		return c.Redirect("/reset/" + token)
	}

	user.Password = hashed
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := s.users.Update(c.Context(), user); err != nil {
		logger.Error("failed to update password", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Something went wrong, try again")
		return c.Redirect("/reset/" + token)
	}

	if err := s.sessions.SignIn(c, user.ID); err != nil {
		logger.Warn("failed to start session after reset", zap.Error(err))
	}
	s.sessions.Flash(c, middleware.FlashSuccess, "Your password has been changed")
	return c.Redirect("/campgrounds")
}

// newResetToken signs a short-lived JWT naming the user.
func (s *Server) newResetToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(resetTokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// verifyResetToken checks both the token signature and the stored copy: the
// token must be the one most recently issued and not yet expired.
func (s *Server) verifyResetToken(c *fiber.Ctx, token string) (*models.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, err
	}

	return s.users.GetByResetToken(c.Context(), token)
}
