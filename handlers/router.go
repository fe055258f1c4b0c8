package handlers

import (
	"net/http"

	"exoplanet-prediction-api/config"
	"exoplanet-prediction-api/middleware"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Users  *services.UserService
	Kepler *services.KeplerService
	Tess   *services.TessService
	Cache  *services.CacheService
	CORS   config.CORSConfig
	Log    *zap.Logger
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	// Redirects are answered before middleware runs, so collection routes
	// are registered with and without the trailing slash instead.
	r.RedirectTrailingSlash = false
	r.Use(
		gin.Recovery(),
		middleware.ProcessTime(d.Log.Named("http")),
		middleware.SetupCORS(d.CORS),
	)

	r.GET("/", Liveness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(d.Users, d.Log)
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.RequireAuth(d.Users), authHandler.Me)
		auth.DELETE("/me", middleware.RequireAuth(d.Users), authHandler.DeleteMe)
	}

	kepler := NewKeplerHandler(d.Kepler, d.Log)
	kp := r.Group("/predictions", middleware.OptionalAuth(d.Users))
	{
		kp.POST("/predict", kepler.Predict)
		kp.GET("/health", kepler.Health)
		kp.GET("", kepler.GetPredictions)
		kp.GET("/", kepler.GetPredictions)
		kp.DELETE("", kepler.DeleteAll)
		kp.DELETE("/", kepler.DeleteAll)
		kp.GET("/:id", kepler.GetPrediction)
		kp.DELETE("/:id", kepler.DeletePrediction)
	}

	tess := NewTessHandler(d.Tess, d.Log)
	tp := r.Group("/tess/predictions", middleware.OptionalAuth(d.Users))
	{
		tp.POST("/predict", tess.Predict)
		tp.GET("/health", tess.Health)
		tp.GET("", tess.GetPredictions)
		tp.GET("/", tess.GetPredictions)
		tp.DELETE("", tess.DeleteAll)
		tp.DELETE("/", tess.DeleteAll)
		tp.GET("/:id", tess.GetPrediction)
		tp.DELETE("/:id", tess.DeletePrediction)
	}

	r.GET("/ws/predictions", LivePredictions(d.Cache, d.Users, d.Log.Named("ws")))

	return r
}

func Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "ExoVision API is running",
	})
}
