package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "Str0ngPassw0rd!"

type renderCall struct {
	name string
	bind fiber.Map
}

// recordingViews captures every render instead of executing templates.
type recordingViews struct {
	mu    sync.Mutex
	calls []renderCall
}

func (v *recordingViews) Load() error { return nil }

func (v *recordingViews) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	bind, _ := binding.(fiber.Map)
	v.mu.Lock()
	v.calls = append(v.calls, renderCall{name: name, bind: bind})
	v.mu.Unlock()
	_, err := io.WriteString(w, name)
	return err
}

func (v *recordingViews) last(t *testing.T) renderCall {
	t.Helper()
	v.mu.Lock()
	defer v.mu.Unlock()
	require.NotEmpty(t, v.calls, "nothing was rendered")
	return v.calls[len(v.calls)-1]
}

type testEnv struct {
	server *Server
	db     *gorm.DB
	views  *recordingViews
}

func testConfig() *config.Config {
	return &config.Config{
		Env:               "test",
		SecretKey:         "test-secret-key",
		DBSchemaMode:      database.SchemaModeAuto,
		PostsInPage:       10,
		SessionCookieName: "yatube_session",
		SessionTTLHours:   1,
		LoginURL:          "/auth/login/",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:srv_%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := testConfig()
	require.NoError(t, database.ApplySchema(context.Background(), db, cfg))

	views := &recordingViews{}
	s, err := NewServerWithDeps(cfg, db, nil, views)
	require.NoError(t, err)
	return &testEnv{server: s, db: db, views: views}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, FirstName: "Имя", LastName: username, Password: string(hash)}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createGroup(t *testing.T, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Группа " + slug, Slug: slug, Description: "Тестовое описание"}
	require.NoError(t, e.db.Create(group).Error)
	return group
}

// createPosts inserts n posts with strictly increasing creation times.
func (e *testEnv) createPosts(t *testing.T, author *models.User, group *models.Group, n int) []models.Post {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := models.Post{
			Text:      fmt.Sprintf("Тестовый пост номер %d", i),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if group != nil {
			post.GroupID = &group.ID
		}
		require.NoError(t, e.db.Create(&post).Error)
		posts = append(posts, post)
	}
	return posts
}

func (e *testEnv) countPosts(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Post{}).Count(&n).Error)
	return n
}

func (e *testEnv) sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, _, err := e.server.newSessionToken(user)
	require.NoError(t, err)
	return &http.Cookie{Name: e.server.config.SessionCookieName, Value: token}
}

// do sends a request, logged in as user when user is non-nil.
func (e *testEnv) do(t *testing.T, method, target string, form url.Values, user *models.User) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if user != nil {
		req.AddCookie(e.sessionCookie(t, user))
	}
	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
