package auth

import (
	"cafes/model"
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "session"
	userIDKey     = "user_id"
)

// Sessions keeps the signed session cookie holding the logged-in user and
// pending flash notices. Changes are buffered until Save, which must run
// before the response body is written.
type Sessions struct {
	store sessions.Store
}

func NewSessions(secret string, maxAge time.Duration, secure bool) *Sessions {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &Sessions{store: store}
}

// Handler attaches the session to every request under it. A missing, forged
// or expired cookie yields an empty session.
func (s *Sessions) Handler() gin.HandlerFunc {
	return sessions.Sessions(SessionCookie, s.store)
}

func (s *Sessions) Login(c *gin.Context, user *model.User) {
	sessions.Default(c).Set(userIDKey, user.ID)
	setCurrentUser(c, user)
}

func (s *Sessions) Logout(c *gin.Context) {
	sessions.Default(c).Delete(userIDKey)
	setCurrentUser(c, nil)
}

// UserID returns the id the session is bound to, 0 for anonymous.
func (s *Sessions) UserID(c *gin.Context) uint {
	id, _ := sessions.Default(c).Get(userIDKey).(uint)
	return id
}

func (s *Sessions) AddFlash(c *gin.Context, message string) {
	sessions.Default(c).AddFlash(message)
}

// Flashes returns the pending notices and clears them.
func (s *Sessions) Flashes(c *gin.Context) []string {
	var flashes []string
	for _, f := range sessions.Default(c).Flashes() {
		if msg, ok := f.(string); ok {
			flashes = append(flashes, msg)
		}
	}
	return flashes
}

// Save writes the session cookie if anything changed during the request.
func (s *Sessions) Save(c *gin.Context) error {
	return sessions.Default(c).Save()
}

type userKey struct{}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey{}).(*model.User)
	return user, ok && user != nil
}

// CurrentUser returns the user the request is authenticated as.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	return UserFromContext(c.Request.Context())
}

func setCurrentUser(c *gin.Context, user *model.User) {
	c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
}
