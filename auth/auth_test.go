package auth

import (
	"cafes/config"
	"cafes/database"
	"cafes/model"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		Release:        true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return NewService(database.NewUserStore(db))
}

func TestHashPasswordIsSaltedAndVerifiable(t *testing.T) {
	first, err := HashPassword("hunter2")
	require.NoError(t, err)
	second, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2", first)
	assert.NotEqual(t, first, second)

	cost, err := bcrypt.Cost([]byte(first))
	require.NoError(t, err)
	assert.Equal(t, PasswordCost, cost)

	ok, err := CheckPassword(first, "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(first, "hunter3")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "hunter2")
	assert.Error(t, err)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", user.Password)

	got, err := svc.Authenticate(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrPasswordIncorrect)

	_, err = svc.Authenticate(ctx, "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrEmailNotFound)

	_, err = svc.Register(ctx, "ann@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)

	loaded, err := svc.User(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", loaded.Email)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			found = c
		}
	}
	require.NotNil(t, found, "no session cookie set")
	return found
}

func TestSessionFlashesAreOneShot(t *testing.T) {
	sessions := NewSessions("secret", time.Hour, false)
	router := gin.New()
	router.Use(sessions.Handler())
	router.GET("/set", func(c *gin.Context) {
		sessions.AddFlash(c, "first")
		sessions.AddFlash(c, "second")
		require.NoError(t, sessions.Save(c))
		c.Status(http.StatusNoContent)
	})
	router.GET("/read", func(c *gin.Context) {
		flashes := sessions.Flashes(c)
		require.NoError(t, sessions.Save(c))
		c.JSON(http.StatusOK, flashes)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/set", nil))
	assert.Len(t, rec.Result().Header.Values("Set-Cookie"), 1)
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.JSONEq(t, `["first","second"]`, rec.Body.String())
	cleared := sessionCookie(t, rec)

	req = httptest.NewRequest(http.MethodGet, "/read", nil)
	req.AddCookie(cleared)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "null", rec.Body.String())
}

func TestMiddlewareLoginAndLogout(t *testing.T) {
	svc := newService(t)
	user, err := svc.Register(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)

	sessions := NewSessions("secret", time.Hour, false)
	router := gin.New()
	router.Use(sessions.Handler(), Middleware(sessions, svc))
	router.GET("/login", func(c *gin.Context) {
		sessions.Login(c, user)
		require.NoError(t, sessions.Save(c))
		c.Status(http.StatusNoContent)
	})
	router.GET("/logout", func(c *gin.Context) {
		sessions.Logout(c)
		require.NoError(t, sessions.Save(c))
		c.Status(http.StatusNoContent)
	})
	router.GET("/private", LoginRequired(sessions), func(c *gin.Context) {
		u, _ := CurrentUser(c)
		c.String(http.StatusOK, u.Email)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	sessionCookie(t, rec)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	loggedIn := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(loggedIn)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(loggedIn)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	loggedOut := sessionCookie(t, rec)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(loggedOut)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestMiddlewareIgnoresForgedAndStaleSessions(t *testing.T) {
	svc := newService(t)
	sessions := NewSessions("secret", time.Hour, false)
	forger := NewSessions("other-secret", time.Hour, false)

	issue := func(s *Sessions, id uint) *http.Cookie {
		router := gin.New()
		router.Use(s.Handler())
		router.GET("/", func(c *gin.Context) {
			s.Login(c, &model.User{ID: id})
			require.NoError(t, s.Save(c))
			c.Status(http.StatusNoContent)
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return sessionCookie(t, rec)
	}

	router := gin.New()
	router.Use(sessions.Handler(), Middleware(sessions, svc))
	router.GET("/whoami", func(c *gin.Context) {
		_, ok := CurrentUser(c)
		c.JSON(http.StatusOK, ok)
	})

	for name, cookie := range map[string]*http.Cookie{
		"forged": issue(forger, 1),
		"stale":  issue(sessions, 42),
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, "false", rec.Body.String(), name)
	}
}

func csrfRouter(t *testing.T, handled *bool) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(CSRF("secret", false, []string{"https://app.example"}, func(c *gin.Context) {
		c.String(http.StatusForbidden, "rejected: %v", CSRFFailure(c))
	}))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	router.POST("/submit", func(c *gin.Context) {
		*handled = true
		c.String(http.StatusOK, "ok")
	})
	return router
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookie {
			return c
		}
	}
	t.Fatal("no csrf cookie set")
	return nil
}

func TestCSRFAcceptsIssuedToken(t *testing.T) {
	var handled bool
	router := csrfRouter(t, &handled)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	cookie := csrfCookie(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(url.Values{CSRFField: {token}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, handled)
}

func TestCSRFRejects(t *testing.T) {
	var handled bool
	router := csrfRouter(t, &handled)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := rec.Body.String()
	cookie := csrfCookie(t, rec)

	cases := map[string]struct {
		token  string
		cookie *http.Cookie
		origin string
	}{
		"missing token":  {"", cookie, ""},
		"foreign token":  {"Zm9yZ2Vk", cookie, ""},
		"missing cookie": {token, nil, ""},
		"foreign origin": {token, cookie, "https://evil.example"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			handled = false
			form := url.Values{}
			if tc.token != "" {
				form.Set(CSRFField, tc.token)
			}
			req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), "rejected")
			assert.False(t, handled)
		})
	}
}

func TestCSRFTrustsConfiguredOrigins(t *testing.T) {
	var handled bool
	router := csrfRouter(t, &handled)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	token := rec.Body.String()
	cookie := csrfCookie(t, rec)

	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(url.Values{CSRFField: {token}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "https://app.example")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestTokensGuardRoutes(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	token, expires, err := tokens.Issue(&model.User{ID: 3})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expires, 5*time.Second)

	router := gin.New()
	router.GET("/api", tokens.Required(), func(c *gin.Context) {
		c.JSON(http.StatusOK, c.GetUint("user_id"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Body.String())
}
