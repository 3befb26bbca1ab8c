package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"campwild/imagehost"
	"campwild/logger"
	"campwild/middleware"
	"campwild/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// imagePattern accepts the same extensions the original file filter did.
var imagePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)

const (
	listCacheKey = "campgrounds:all"
	listCacheTTL = time.Minute
)

// ListCampgrounds handles GET /campgrounds: all listings, unfiltered and
// unpaginated, cache-aside through redis.
func (s *Server) ListCampgrounds(c *fiber.Ctx) error {
	var campgrounds []models.Campground

	found, err := s.cache.GetJSON(c.Context(), listCacheKey, &campgrounds)
	if err != nil {
		logger.Warn("campground list cache read failed", zap.Error(err))
		found = false
	}

	if !found {
		campgrounds, err = s.campgrounds.List(c.Context())
		if err != nil {
			logger.Error("failed to list campgrounds", zap.Error(err))
			campgrounds = nil
		} else {
			_ = s.cache.SetJSON(c.Context(), listCacheKey, campgrounds, listCacheTTL)
		}
	}

	return s.render(c, "campgrounds/index", fiber.Map{"campgrounds": campgrounds})
}

// NewCampgroundForm handles GET /campgrounds/new.
func (s *Server) NewCampgroundForm(c *fiber.Ctx) error {
	return s.render(c, "campgrounds/new", nil)
}

// CreateCampground handles POST /campgrounds. The order matters: the file
// filter runs before any I/O, the geocode result is merged into the payload
// before the upload, and a failed upload discards the geocode work since
// nothing has been persisted yet.
func (s *Server) CreateCampground(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	file, err := c.FormFile("image")
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, "An image is required")
		return c.Redirect("/campgrounds/new")
	}
	if !imagePattern.MatchString(file.Filename) {
		s.sessions.Flash(c, middleware.FlashError, "Only image files are allowed")
		return c.Redirect("/campgrounds/new")
	}

	localPath, err := s.bufferUpload(c, file)
	if err != nil {
		logger.Error("failed to buffer upload", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Image upload failed")
		return c.Redirect("/campgrounds/new")
	}
	defer os.Remove(localPath)

	geo, err := s.geocoder.Geocode(c.Context(), c.FormValue("location"))
	if err != nil {
		logger.Warn("geocoding failed", zap.String("location", c.FormValue("location")), zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Could not geocode that location")
		return c.Redirect("/campgrounds/new")
	}

	imageURL, err := s.images.Upload(c.Context(), localPath)
	if err != nil {
		logger.Error("image upload failed", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Image upload failed")
		return c.Redirect("/campgrounds/new")
	}

	campground := &models.Campground{
		Name:           c.FormValue("name"),
		Description:    c.FormValue("description"),
		Image:          imageURL,
		Location:       geo.FormattedAddress,
		Lat:            geo.Lat,
		Lng:            geo.Lng,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
	}

	if err := s.campgrounds.Create(c.Context(), campground); err != nil {
		logger.Error("failed to create campground", zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Could not create campground")
		return c.Redirect("/campgrounds/new")
	}

	s.invalidateListCache(c)
	s.sessions.Flash(c, middleware.FlashSuccess, "Successfully created "+campground.Name)
	return c.Redirect(fmt.Sprintf("/campgrounds/%d", campground.ID))
}

// ShowCampground handles GET /campgrounds/:id with comments resolved.
func (s *Server) ShowCampground(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	campground, err := s.campgrounds.GetByID(c.Context(), uint(id))
	if err != nil {
		logger.Warn("campground lookup failed", zap.Uint64("id", id), zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	return s.render(c, "campgrounds/show", fiber.Map{"campground": campground})
}

// EditCampgroundForm handles GET /campgrounds/:id/edit (ownership-gated).
func (s *Server) EditCampgroundForm(c *fiber.Ctx) error {
	id, _ := strconv.ParseUint(c.Params("id"), 10, 32)

	campground, err := s.campgrounds.GetByID(c.Context(), uint(id))
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	return s.render(c, "campgrounds/edit", fiber.Map{"campground": campground})
}

// UpdateCampground handles PUT /campgrounds/:id (ownership-gated). The
// submitted location is re-geocoded unconditionally, even when unchanged.
// When a new image is present the old record is fetched a second time purely
// to derive the previous asset id; that read and the final update are not
// transactional, and concurrent writers resolve last-write-wins.
func (s *Server) UpdateCampground(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		s.sessions.Flash(c, middleware.FlashError, "Campground not found")
		return c.Redirect("/campgrounds")
	}

	// The file filter runs first, before the geocode touches the network.
	file, ferr := c.FormFile("image")
	if ferr == nil && !imagePattern.MatchString(file.Filename) {
		s.sessions.Flash(c, middleware.FlashError, "Only image files are allowed")
		return c.Redirect(fmt.Sprintf("/campgrounds/%d/edit", id))
	}

	geo, err := s.geocoder.Geocode(c.Context(), c.FormValue("location"))
	if err != nil {
		logger.Warn("geocoding failed", zap.String("location", c.FormValue("location")), zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Could not geocode that location")
		return c.Redirect(fmt.Sprintf("/campgrounds/%d/edit", id))
	}

	fields := map[string]any{
		"name":        c.FormValue("name"),
		"description": c.FormValue("description"),
		"location":    geo.FormattedAddress,
		"lat":         geo.Lat,
		"lng":         geo.Lng,
	}

	if ferr == nil {
		localPath, err := s.bufferUpload(c, file)
		if err != nil {
			logger.Error("failed to buffer upload", zap.Error(err))
			s.sessions.Flash(c, middleware.FlashError, "Image upload failed")
			return c.Redirect(fmt.Sprintf("/campgrounds/%d/edit", id))
		}
		defer os.Remove(localPath)

		imageURL, err := s.images.Upload(c.Context(), localPath)
		if err != nil {
			logger.Error("image upload failed", zap.Error(err))
			s.sessions.Flash(c, middleware.FlashError, "Image upload failed")
			return c.Redirect(fmt.Sprintf("/campgrounds/%d/edit", id))
		}

		if old, gerr := s.campgrounds.GetByID(c.Context(), uint(id)); gerr == nil && old.Image != "" {
			assetID := imagehost.AssetID(old.Image)
			if derr := s.images.Delete(c.Context(), assetID); derr != nil {
				logger.Warn("failed to delete replaced image asset",
					zap.String("asset_id", assetID), zap.Error(derr))
			}
		}

		fields["image"] = imageURL
	}

	if err := s.campgrounds.Update(c.Context(), uint(id), fields); err != nil {
		logger.Error("failed to update campground", zap.Uint64("id", id), zap.Error(err))
		s.sessions.Flash(c, middleware.FlashError, "Could not update campground")
		return c.Redirect(fmt.Sprintf("/campgrounds/%d/edit", id))
	}

	s.invalidateListCache(c)
	s.sessions.Flash(c, middleware.FlashSuccess, "Successfully Updated!")
	return c.Redirect(fmt.Sprintf("/campgrounds/%d", id))
}

// DeleteCampground handles DELETE /campgrounds/:id (ownership-gated). The
// response redirects to the list regardless of outcome; neither comments nor
// the remote image are cascaded.
func (s *Server) DeleteCampground(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/campgrounds")
	}

	if err := s.campgrounds.Delete(c.Context(), uint(id)); err != nil {
		logger.Error("failed to delete campground", zap.Uint64("id", id), zap.Error(err))
	} else {
		s.invalidateListCache(c)
		s.sessions.Flash(c, middleware.FlashSuccess, "Campground deleted")
	}

	return c.Redirect("/campgrounds")
}

// bufferUpload spills the multipart file to a temp path for the image host.
func (s *Server) bufferUpload(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	localPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("campwild-%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename)))
	if err := c.SaveFile(file, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

func (s *Server) invalidateListCache(c *fiber.Ctx) {
	if err := s.cache.Delete(c.Context(), listCacheKey); err != nil {
		logger.Warn("failed to invalidate campground list cache", zap.Error(err))
	}
}
