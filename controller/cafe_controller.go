package controller

import (
	"cafes/database"
	"cafes/forms"
	"cafes/model"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const duplicateMessage = "A cafe with this value already exists."

func (ctl *Controller) Home(c *gin.Context) {
	ctl.render(c, http.StatusOK, "index.html", nil)
}

func (ctl *Controller) ListCafes(c *gin.Context) {
	cafes, err := ctl.cafes.All(c.Request.Context())
	if err != nil {
		ctl.serverError(c, err)
		return
	}
	ctl.render(c, http.StatusOK, "cafes.html", gin.H{
		"Title": "All Cafes",
		"Cafes": cafes,
	})
}

func (ctl *Controller) NewCafe(c *gin.Context) {
	ctl.renderCafeForm(c, "/add", forms.CafeForm{}, nil)
}

func (ctl *Controller) CreateCafe(c *gin.Context) {
	form, errs := forms.BindCafe(c)
	if !errs.Valid() {
		ctl.renderCafeForm(c, "/add", form, errs)
		return
	}

	var cafe model.Cafe
	form.Apply(&cafe)
	if err := ctl.cafes.Create(c.Request.Context(), &cafe); err != nil {
		if errs, ok := duplicateErrors(err); ok {
			ctl.renderCafeForm(c, "/add", form, errs)
			return
		}
		ctl.serverError(c, err)
		return
	}

	ctl.metrics.Changed("add", 1)
	ctl.sessions.AddFlash(c, "Added "+cafe.Name+".")
	ctl.redirect(c, "/cafes")
}

func (ctl *Controller) EditCafe(c *gin.Context) {
	cafe, ok := ctl.loadCafe(c)
	if !ok {
		return
	}
	ctl.renderCafeForm(c, c.Request.URL.Path, forms.CafeFormFrom(*cafe), nil)
}

func (ctl *Controller) UpdateCafe(c *gin.Context) {
	cafe, ok := ctl.loadCafe(c)
	if !ok {
		return
	}

	form, errs := forms.BindCafe(c)
	if !errs.Valid() {
		ctl.renderCafeForm(c, c.Request.URL.Path, form, errs)
		return
	}

	form.Apply(cafe)
	if err := ctl.cafes.Update(c.Request.Context(), cafe); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			ctl.notFound(c, "That cafe does not exist.")
			return
		}
		if errs, ok := duplicateErrors(err); ok {
			ctl.renderCafeForm(c, c.Request.URL.Path, form, errs)
			return
		}
		ctl.serverError(c, err)
		return
	}

	ctl.metrics.Changed("edit", 1)
	ctl.sessions.AddFlash(c, "Updated "+cafe.Name+".")
	ctl.redirect(c, "/cafes")
}

func (ctl *Controller) DeleteCafe(c *gin.Context) {
	id, ok := cafeID(c)
	if !ok {
		ctl.notFound(c, "That cafe does not exist.")
		return
	}

	if err := ctl.cafes.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			ctl.notFound(c, "That cafe does not exist.")
			return
		}
		ctl.serverError(c, err)
		return
	}

	ctl.metrics.Changed("delete", 1)
	ctl.sessions.AddFlash(c, "Cafe deleted.")
	ctl.redirect(c, "/")
}

// loadCafe fetches the cafe named by the path, rendering the failure page
// itself when it cannot.
func (ctl *Controller) loadCafe(c *gin.Context) (*model.Cafe, bool) {
	id, ok := cafeID(c)
	if !ok {
		ctl.notFound(c, "That cafe does not exist.")
		return nil, false
	}

	cafe, err := ctl.cafes.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			ctl.notFound(c, "That cafe does not exist.")
		} else {
			ctl.serverError(c, err)
		}
		return nil, false
	}
	return cafe, true
}

func (ctl *Controller) renderCafeForm(c *gin.Context, action string, form forms.CafeForm, errs forms.Errors) {
	title := "Add a Cafe"
	if action != "/add" {
		title = "Edit Cafe"
	}
	data := gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
	}
	if errs != nil {
		data["Errors"] = errs
	}
	ctl.render(c, http.StatusOK, "add.html", data)
}

// duplicateErrors turns a uniqueness violation into a form error on the
// colliding field.
func duplicateErrors(err error) (forms.Errors, bool) {
	var dup *database.DuplicateError
	if !errors.As(err, &dup) {
		return nil, false
	}
	if dup.Field == "" {
		return forms.Errors{"form": "A cafe with the same name, map link or image link already exists."}, true
	}
	return forms.Errors{dup.Field: duplicateMessage}, true
}
