package server

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

const csrfContextKey = "csrf"

// render executes a page template with the bindings every page shares.
func (s *Server) render(c *fiber.Ctx, status int, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	if user := currentUser(c); user != nil {
		bind["user"] = user
	}
	if token, ok := c.Locals(csrfContextKey).(string); ok {
		bind["csrf_token"] = token
	}
	bind["path"] = c.Path()
	bind["year"] = time.Now().Year()
	return c.Status(status).Render(name, bind)
}

// loginURL builds the login address carrying next, keeping slashes readable.
func loginURL(base, next string) string {
	if next == "" {
		return base
	}
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return base + "?next=" + escaped
}

func (s *Server) redirectToLogin(c *fiber.Ctx) error {
	return c.Redirect(loginURL(s.config.LoginURL, c.OriginalURL()), fiber.StatusFound)
}

// safeNext accepts only local absolute paths as a post-login destination.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// parseID reads a positive integer route parameter. Anything else is a 404,
// the same as an unmatched URL.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// pathParam decodes a percent-encoded route parameter. Route matching runs on
// the raw path, so usernames outside ASCII arrive escaped.
func pathParam(c *fiber.Ctx, param string) (string, error) {
	value, err := url.PathUnescape(c.Params(param))
	if err != nil {
		return "", fiber.ErrNotFound
	}
	return value, nil
}

// formValues adapts the request body to the forms package.
func formValues(c *fiber.Ctx) func(string) string {
	return func(key string) string {
		return c.FormValue(key)
	}
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func isAuthor(c *fiber.Ctx, post *models.Post) bool {
	user := currentUser(c)
	return user != nil && post.IsAuthoredBy(user.ID)
}

// errorMessage returns the user-facing text of a domain error.
func errorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
