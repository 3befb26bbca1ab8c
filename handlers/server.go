// Package handlers contains the HTTP handlers for the application's pages.
package handlers

import (
	"campwild/cache"
	"campwild/config"
	"campwild/geocode"
	"campwild/imagehost"
	"campwild/mail"
	"campwild/middleware"
	"campwild/models"
	"campwild/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	cfg         *config.Config
	users       repository.UserRepository
	campgrounds repository.CampgroundRepository
	comments    repository.CommentRepository
	geocoder    geocode.Geocoder
	images      imagehost.Host
	cache       *cache.Cache
	sessions    *middleware.Manager
	mailer      mail.Mailer
	hasher      models.PasswordHasher
	validate    *validator.Validate
}

// Deps are the collaborators a Server needs. Everything is injected so tests
// can swap the adapters for fakes.
type Deps struct {
	Config      *config.Config
	Users       repository.UserRepository
	Campgrounds repository.CampgroundRepository
	Comments    repository.CommentRepository
	Geocoder    geocode.Geocoder
	Images      imagehost.Host
	Cache       *cache.Cache
	Sessions    *middleware.Manager
	Mailer      mail.Mailer
}

// NewServer creates a new server instance with all dependencies.
func NewServer(d Deps) *Server {
	return &Server{
		cfg:         d.Config,
		users:       d.Users,
		campgrounds: d.Campgrounds,
		comments:    d.Comments,
		geocoder:    d.Geocoder,
		images:      d.Images,
		cache:       d.Cache,
		sessions:    d.Sessions,
		mailer:      d.Mailer,
		hasher:      models.BcryptHasher{},
		validate:    validator.New(),
	}
}

// render wraps c.Render, injecting the session user and pending flashes.
func (s *Server) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["currentUser"] = middleware.CurrentUser(c)
	for kind, msg := range s.sessions.PopFlashes(c) {
		data[kind] = msg
	}
	return c.Render(name, data, "layouts/main")
}

// Landing renders the home page.
func (s *Server) Landing(c *fiber.Ctx) error {
	return s.render(c, "home", nil)
}
