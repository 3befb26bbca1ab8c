package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"campwild/cache"
	"campwild/config"
	"campwild/geocode"
	"campwild/logger"
	"campwild/middleware"
	"campwild/models"
	"campwild/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	_ = logger.Init("development")
}

// ==================== FAKE ADAPTERS ====================

type fakeGeocoder struct {
	result geocode.Result
	err    error
	calls  []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (geocode.Result, error) {
	f.calls = append(f.calls, address)
	if f.err != nil {
		return geocode.Result{}, f.err
	}
	return f.result, nil
}

type fakeImageHost struct {
	uploadURL string
	uploadErr error
	uploads   int
	deleted   []string
}

func (f *fakeImageHost) Upload(_ context.Context, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads++
	return f.uploadURL, nil
}

func (f *fakeImageHost) Delete(_ context.Context, assetID string) error {
	f.deleted = append(f.deleted, assetID)
	return nil
}

type fakeMailer struct {
	recipients []string
	links      []string
}

func (f *fakeMailer) SendPasswordReset(to, link string) error {
	f.recipients = append(f.recipients, to)
	f.links = append(f.links, link)
	return nil
}

// ==================== TEST ENVIRONMENT ====================

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	geo    *fakeGeocoder
	images *fakeImageHost
	mailer *fakeMailer
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Campground{}, &models.Comment{}))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	campgrounds := repository.NewCampgroundRepository(db)
	comments := repository.NewCommentRepository(db)
	m := middleware.NewManager(users, campgrounds, comments)

	geo := &fakeGeocoder{result: geocode.Result{
		Lat:              37.87,
		Lng:              -119.54,
		FormattedAddress: "Yosemite National Park, CA",
	}}
	images := &fakeImageHost{uploadURL: "https://host/img1.jpg"}
	mailer := &fakeMailer{}

	s := NewServer(Deps{
		Config: &config.Config{
			JWTSecret: "test-secret-key",
			BaseURL:   "http://localhost:8080",
		},
		Users:       users,
		Campgrounds: campgrounds,
		Comments:    comments,
		Geocoder:    geo,
		Images:      images,
		Cache:       cache.New(""),
		Sessions:    m,
		Mailer:      mailer,
	})

	engine := html.New("../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(middleware.MethodOverride)
	app.Use(m.LoadUser)

	// Mirrors routes.Setup; registered by hand to keep the handlers package
	// free of an import cycle with the routes package.
	app.Get("/", s.Landing)
	app.Get("/register", s.ShowRegister)
	app.Post("/register", s.Register)
	app.Get("/login", s.ShowLogin)
	app.Post("/login", s.Login)
	app.Get("/logout", s.Logout)
	app.Get("/forgot", s.ShowForgot)
	app.Post("/forgot", s.Forgot)
	app.Get("/reset/:token", s.ShowReset)
	app.Post("/reset/:token", s.Reset)
	camp := app.Group("/campgrounds")
	camp.Get("/", s.ListCampgrounds)
	camp.Get("/new", m.RequireLogin, s.NewCampgroundForm)
	camp.Post("/", m.RequireLogin, s.CreateCampground)
	camp.Get("/:id", s.ShowCampground)
	camp.Get("/:id/edit", m.CheckCampgroundOwnership, s.EditCampgroundForm)
	camp.Put("/:id", m.CheckCampgroundOwnership, s.UpdateCampground)
	camp.Delete("/:id", m.CheckCampgroundOwnership, s.DeleteCampground)
	camp.Post("/:id/comments", m.RequireLogin, s.CreateComment)
	camp.Delete("/:id/comments/:commentID", m.CheckCommentOwnership, s.DeleteComment)

	return &testEnv{app: app, db: db, geo: geo, images: images, mailer: mailer}
}

// ==================== REQUEST HELPERS ====================

// register signs up a user and returns the session cookies plus the user row.
func (e *testEnv) register(t *testing.T, username, email string) ([]*http.Cookie, *models.User) {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("email", email)
	form.Set("password", "password123")

	resp := e.do(t, formRequest(http.MethodPost, "/register", form), nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/campgrounds", resp.Header.Get("Location"))

	var user models.User
	require.NoError(t, e.db.Where("username = ?", username).First(&user).Error)

	return sessionCookies(resp), &user
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookies []*http.Cookie) *http.Response {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a multipart form request, optionally with an image
// file part named "image".
func multipartRequest(t *testing.T, method, target string, fields map[string]string, filename string) *http.Request {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func sessionCookies(resp *http.Response) []*http.Cookie {
	var out []*http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "campwild_session" {
			out = append(out, c)
		}
	}
	return out
}

// flashError returns the decoded error flash set on the response, if any.
func flashError(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == "campwild_flash_error" && c.Value != "" {
			msg, err := url.QueryUnescape(c.Value)
			require.NoError(t, err)
			return msg
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
