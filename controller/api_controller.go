package controller

import (
	"cafes/auth"
	"cafes/database"
	"cafes/forms"
	"cafes/model"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetCafes(c *gin.Context) {
	cafes, err := ctl.cafes.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cafes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Fetched cafes successfully",
		"data":    cafes,
	})
}

func (ctl *Controller) GetCafeByID(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid cafe ID format",
		})
		return
	}

	cafe, err := ctl.cafes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Cafe not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to fetch cafe",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cafe,
	})
}

// IssueToken exchanges an email and password for a bearer token.
func (ctl *Controller) IssueToken(c *gin.Context) {
	form, errs := forms.BindLoginJSON(c)
	if !errs.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	user, err := ctl.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound), errors.Is(err, auth.ErrPasswordIncorrect):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid email or password"})
		return
	case err != nil:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to log in"})
		return
	}

	token, expires, err := ctl.tokens.Issue(user)
	if err != nil {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"access_token": token,
			"expires_at":   expires,
		},
	})
}

func (ctl *Controller) CreateCafeJSON(c *gin.Context) {
	form, errs := forms.BindCafeJSON(c)
	if !errs.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
		return
	}

	var cafe model.Cafe
	form.Apply(&cafe)
	if err := ctl.cafes.Create(c.Request.Context(), &cafe); err != nil {
		if errs, ok := duplicateErrors(err); ok {
			c.JSON(http.StatusConflict, gin.H{"success": false, "errors": errs})
			return
		}
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create cafe"})
		return
	}

	ctl.metrics.Changed("add", 1)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Cafe created successfully",
		"data":    cafe,
	})
}

func (ctl *Controller) DeleteCafeJSON(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid cafe ID format"})
		return
	}

	if err := ctl.cafes.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Cafe not found"})
			return
		}
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete cafe"})
		return
	}

	ctl.metrics.Changed("delete", 1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cafe deleted successfully"})
}
