package route

import (
	"cafes/auth"
	"cafes/controller"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Guards are the middleware the routes are wrapped in.
type Guards struct {
	Sessions *auth.Sessions
	Users    auth.UserLoader
	Tokens   *auth.Tokens
	// CSRF checks every form post on the site.
	CSRF gin.HandlerFunc
	// OpenAccess lets anonymous visitors write to the catalogue.
	OpenAccess bool
}

// CafeRoutes wires every page. Writes to the catalogue need a logged-in
// user, or a bearer token on the API, unless OpenAccess is set.
func CafeRoutes(router *gin.Engine, ctl *controller.Controller, metricsHandler http.Handler, g Guards) {
	router.GET("/metrics", gin.WrapH(metricsHandler))

	api := router.Group("/api")
	{
		api.GET("/cafes", ctl.GetCafes)
		api.GET("/cafes/:id", ctl.GetCafeByID)
		api.POST("/login", ctl.IssueToken)
	}

	apiWriter := api.Group("/")
	if !g.OpenAccess {
		apiWriter.Use(g.Tokens.Required())
	}
	{
		apiWriter.POST("/cafes", ctl.CreateCafeJSON)
		apiWriter.DELETE("/cafes/:id", ctl.DeleteCafeJSON)
	}

	site := router.Group("/")
	site.Use(g.Sessions.Handler(), auth.Middleware(g.Sessions, g.Users), g.CSRF)
	{
		site.GET("/", ctl.Home)
		site.GET("/cafes", ctl.ListCafes)
		site.GET("/cafes/export", ctl.ExportCafes)
		site.GET("/register", ctl.RegisterForm)
		site.POST("/register", ctl.Register)
		site.GET("/login", ctl.LoginForm)
		site.POST("/login", ctl.Login)
		site.GET("/logout", ctl.Logout)
	}

	editor := site.Group("/")
	if !g.OpenAccess {
		editor.Use(auth.LoginRequired(g.Sessions))
	}
	{
		editor.GET("/add", ctl.NewCafe)
		editor.POST("/add", ctl.CreateCafe)
		editor.GET("/edit/:id", ctl.EditCafe)
		editor.POST("/edit/:id", ctl.UpdateCafe)
		editor.GET("/delete/:id", ctl.DeleteCafe)
		editor.POST("/delete/:id", ctl.DeleteCafe)
		editor.POST("/cafes/import", ctl.ImportCafes)
	}
}
