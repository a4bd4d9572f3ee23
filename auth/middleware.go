package auth

import (
	"cafes/database"
	"cafes/model"
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserLoader interface {
	User(ctx context.Context, id uint) (*model.User, error)
}

// Middleware resolves the session's user and attaches it to the request
// context. A session naming a user that no longer exists is logged out.
func Middleware(sessions *Sessions, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessions.UserID(c)
		if id == 0 {
			c.Next()
			return
		}

		user, err := users.User(c.Request.Context(), id)
		switch {
		case err == nil:
			setCurrentUser(c, user)
		case errors.Is(err, database.ErrNotFound):
			sessions.Logout(c)
		default:
			log.Printf("session: load user %d: %v", id, err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Next()
	}
}

// LoginRequired sends anonymous visitors to the login page.
func LoginRequired(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			sessions.AddFlash(c, "Please log in to access this page.")
			if err := sessions.Save(c); err != nil {
				log.Printf("session: save: %v", err)
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
