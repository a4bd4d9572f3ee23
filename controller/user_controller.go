package controller

import (
	"cafes/auth"
	"cafes/forms"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) RegisterForm(c *gin.Context) {
	ctl.render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Register",
		"Form":  forms.RegisterForm{},
	})
}

func (ctl *Controller) Register(c *gin.Context) {
	form, errs := forms.BindRegister(c)
	if !errs.Valid() {
		ctl.render(c, http.StatusOK, "register.html", gin.H{
			"Title":  "Register",
			"Form":   forms.RegisterForm{Email: form.Email},
			"Errors": errs,
		})
		return
	}

	user, err := ctl.users.Register(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			ctl.sessions.AddFlash(c, "You've already signed up with that email, log in instead.")
			ctl.redirect(c, "/login")
			return
		}
		ctl.serverError(c, err)
		return
	}

	ctl.sessions.Login(c, user)
	ctl.redirect(c, "/cafes")
}

func (ctl *Controller) LoginForm(c *gin.Context) {
	ctl.render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Log In",
		"Form":  forms.LoginForm{},
	})
}

func (ctl *Controller) Login(c *gin.Context) {
	form, errs := forms.BindLogin(c)
	if !errs.Valid() {
		ctl.render(c, http.StatusOK, "login.html", gin.H{
			"Title":  "Log In",
			"Form":   forms.LoginForm{Email: form.Email},
			"Errors": errs,
		})
		return
	}

	user, err := ctl.users.Authenticate(c.Request.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		ctl.sessions.AddFlash(c, "That email does not exist, please try again")
		ctl.redirect(c, "/login")
		return
	case errors.Is(err, auth.ErrPasswordIncorrect):
		ctl.sessions.AddFlash(c, "Password incorrect, please try again")
		ctl.redirect(c, "/login")
		return
	case err != nil:
		ctl.serverError(c, err)
		return
	}

	ctl.sessions.Login(c, user)
	ctl.redirect(c, "/cafes")
}

func (ctl *Controller) Logout(c *gin.Context) {
	ctl.sessions.Logout(c)
	ctl.redirect(c, "/")
}
