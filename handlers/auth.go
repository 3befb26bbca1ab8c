package handlers

import (
	"campwild/logger"
	"campwild/middleware"
	"campwild/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Username  string `form:"username" validate:"required,min=3,max=32"`
	Email     string `form:"email" validate:"required,email"`
	FirstName string `form:"first_name" validate:"max=64"`
	LastName  string `form:"last_name" validate:"max=64"`
	Password  string `form:"password" validate:"required,min=8"`
}

// ShowRegister renders the registration form.
func (s *Server) ShowRegister(c *fiber.Ctx) error {
	return s.render(c, "users/register", nil)
}

// Register handles POST /register. The admin flag is never bound from the
// form; accounts always start as regular users.
func (s *Server) Register(c *fiber.Ctx) error {
	req := new(RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Invalid form submission")
		return c.Redirect("/register")
	}

	if err := s.validate.Struct(req); err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Please provide a username, a valid email, and a password of at least 8 characters")
		return c.Redirect("/register")
	}

	// Check uniqueness up front for a friendly message. The unique indexes
	// still enforce it if a concurrent registration slips past this read.
	if existing, err := s.users.GetByUsername(c.Context(), req.Username); err == nil && existing != nil {
		s.sessions.Flash(c, middleware.FlashError, "That username is already taken")
		return c.Redirect("/register")
	}
	if existing, err := s.users.GetByEmail(c.Context(), req.Email); err == nil && existing != nil {
		s.sessions.Flash(c, middleware.FlashError, "That email is already registered")
		return c.Redirect("/register")
	}

	user, err := models.NewUser(req.Username, req.Email, req.FirstName, req.LastName, req.Password, s.hasher)
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, err.Error())
		return c.Redirect("/register")
	}

	if err := s.users.Create(c.Context(), user); err != nil {
		logger.Error("failed to create user", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Could not create your account")
		return c.Redirect("/register")
	}

	if err := s.sessions.SignIn(c, user.ID); err != nil {
		logger.Error("failed to start session", zap.Error(err))
		return c.Redirect("/login")
	}

	s.sessions.Flash(c, middleware.FlashSuccess, "Welcome to CampWild, "+user.Username)
	return c.Redirect("/campgrounds")
}

// ShowLogin renders the login form.
func (s *Server) ShowLogin(c *fiber.Ctx) error {
	return s.render(c, "users/login", nil)
}

// Login handles POST /login.
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := s.users.GetByUsername(c.Context(), username)
	if err != nil {
		logger.Error("login lookup failed", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Something went wrong, try again")
		return c.Redirect("/login")
	}
	if user == nil || !s.hasher.Verify(user.Password, password) {
		s.sessions.Flash(c, middleware.FlashError, "Invalid username or password")
		return c.Redirect("/login")
	}

	if err := s.sessions.SignIn(c, user.ID); err != nil {
		logger.Error("failed to start session", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Something went wrong, try again")
		return c.Redirect("/login")
	}

	s.sessions.Flash(c, middleware.FlashSuccess, "Welcome back, "+user.Username)
	return c.Redirect("/campgrounds")
}

// Logout handles GET /logout.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.sessions.SignOut(c); err != nil {
		logger.Warn("failed to destroy session", zap.Error(err))
	}
	s.sessions.Flash(c, middleware.FlashSuccess, "Logged you out!")
	return c.Redirect("/campgrounds")
}
