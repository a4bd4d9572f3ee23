package auth

import (
	"cafes/model"
	"cafes/utils"
	"time"

	"github.com/gin-gonic/gin"
)

const AccessTokenTTL = 15 * time.Minute

// Tokens issues and checks the bearer tokens of the JSON API.
type Tokens struct {
	secret string
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

func (t *Tokens) Issue(user *model.User) (string, time.Time, error) {
	return utils.GenerateToken(t.secret, user.ID, t.ttl)
}

// Required rejects requests without a valid bearer token.
func (t *Tokens) Required() gin.HandlerFunc {
	return utils.AuthMiddleware(t.secret)
}
