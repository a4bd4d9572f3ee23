package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	CSRFField  = "csrf_token"
	CSRFCookie = "csrf"
)

type ginContextKey struct{}

// CSRF rejects unsafe requests whose csrf_token field (or X-CSRF-Token
// header) does not match the token bound to the csrf cookie. Rejected
// requests go to failed and the chain is aborted. Origins listed in trusted
// may post cross-site. Unless secure is set the site is assumed to be served
// over plain HTTP, where browsers send no Referer to check.
func CSRF(secret string, secure bool, trusted []string, failed gin.HandlerFunc) gin.HandlerFunc {
	var hosts []string
	for _, origin := range trusted {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}

	protect := csrf.Protect([]byte(secret),
		csrf.FieldName(CSRFField),
		csrf.CookieName(CSRFCookie),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.Secure(secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(hosts),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := r.Context().Value(ginContextKey{}).(*gin.Context)
			c.Request = r
			failed(c)
			c.Abort()
		})),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := r.Context().Value(ginContextKey{}).(*gin.Context)
		c.Request = r
		c.Next()
	}))

	return func(c *gin.Context) {
		r := c.Request.WithContext(context.WithValue(c.Request.Context(), ginContextKey{}, c))
		if !secure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protect.ServeHTTP(c.Writer, r)
	}
}

// CSRFToken returns the masked token to embed in the page's forms.
func CSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}

// CSRFFailure explains why the request was rejected, nil if it was not.
func CSRFFailure(c *gin.Context) error {
	return csrf.FailureReason(c.Request)
}
