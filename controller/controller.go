package controller

import (
	"cafes/auth"
	"cafes/forms"
	"cafes/metrics"
	"cafes/model"
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CafeRepository interface {
	All(ctx context.Context) ([]model.Cafe, error)
	Get(ctx context.Context, id uint) (*model.Cafe, error)
	Create(ctx context.Context, cafe *model.Cafe) error
	Update(ctx context.Context, cafe *model.Cafe) error
	Delete(ctx context.Context, id uint) error
	CreateMany(ctx context.Context, cafes []model.Cafe) (int, error)
}

// Controller serves every page of the catalogue. It keeps no entity state
// between requests; each handler goes back to the store.
type Controller struct {
	cafes    CafeRepository
	users    *auth.Service
	sessions *auth.Sessions
	tokens   *auth.Tokens
	metrics  *metrics.Metrics
}

func New(cafes CafeRepository, users *auth.Service, sessions *auth.Sessions, tokens *auth.Tokens, m *metrics.Metrics) *Controller {
	return &Controller{cafes: cafes, users: users, sessions: sessions, tokens: tokens, metrics: m}
}

// render adds the layout's shared values and saves the session, which must
// happen before the body is written.
func (ctl *Controller) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	if user, ok := auth.CurrentUser(c); ok {
		data["User"] = user
	}
	data["CSRF"] = auth.CSRFToken(c)
	data["Flashes"] = ctl.sessions.Flashes(c)
	ctl.saveSession(c)
	c.HTML(status, name, data)
}

func (ctl *Controller) saveSession(c *gin.Context) {
	if err := ctl.sessions.Save(c); err != nil {
		log.Printf("%s %s: save session: %v", c.Request.Method, c.Request.URL.Path, err)
	}
}

func (ctl *Controller) notFound(c *gin.Context, message string) {
	ctl.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not Found",
		"Status":  "404 Not Found",
		"Message": message,
	})
}

func (ctl *Controller) serverError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	ctl.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Status":  "500 Internal Server Error",
		"Message": "Something went wrong, please try again later.",
	})
}

func (ctl *Controller) redirect(c *gin.Context, location string) {
	ctl.saveSession(c)
	c.Redirect(http.StatusFound, location)
}

// CSRFRejected answers a form post whose CSRF token did not check out.
func (ctl *Controller) CSRFRejected(c *gin.Context) {
	log.Printf("%s %s: csrf: %v", c.Request.Method, c.Request.URL.Path, auth.CSRFFailure(c))
	ctl.render(c, http.StatusForbidden, "error.html", gin.H{
		"Title":   "Forbidden",
		"Status":  "403 Forbidden",
		"Message": "The CSRF token is invalid. Reload the page and try again.",
	})
}

// cafeID parses the :id path segment. Ids that cannot exist report false.
func cafeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
