package delivery_http

import (
	"html/template"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"yatube/internal/config"
	"yatube/internal/logger"
	"yatube/internal/metrics"
	"yatube/templates"
)

func NewRouter(
	handler *Handler,
	cfg *config.Config,
	log *logger.Logger,
	provider metrics.Provider,
) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(Metrics(provider))

	store := cookie.NewStore([]byte(cfg.Auth.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Auth.SessionMaxAge,
		HttpOnly: true,
	})
	engine.Use(sessions.Sessions(sessionCookieName, store))

	engine.SetHTMLTemplate(template.Must(template.ParseFS(templates.FS, "*.tmpl")))

	engine.GET("/", handler.Index)
	engine.GET("/group/:slug/", handler.GroupPosts)
	engine.GET("/profile/:username/", handler.Profile)
	engine.GET("/posts/:id/", handler.PostDetail)

	engine.GET("/auth/login/", handler.LoginForm)
	engine.POST("/auth/login/", handler.Login)
	engine.GET("/auth/logout/", handler.Logout)

	authorized := engine.Group("/", AuthRequired())
	authorized.GET("/create/", handler.CreatePostForm)
	authorized.POST("/create/", handler.CreatePost)
	authorized.GET("/posts/:id/edit/", handler.EditPostForm)
	authorized.POST("/posts/:id/edit/", handler.EditPost)

	engine.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "404 page not found")
	})

	return engine
}
