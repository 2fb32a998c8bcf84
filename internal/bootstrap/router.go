package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	httpapi "github.com/ai-creative-studio/studio-backend/internal/api/http"
	"github.com/ai-creative-studio/studio-backend/internal/api/http/middleware"
	"github.com/ai-creative-studio/studio-backend/internal/generation"
	genhttp "github.com/ai-creative-studio/studio-backend/internal/generation/http"
	projhttp "github.com/ai-creative-studio/studio-backend/internal/projects/http"
	"github.com/ai-creative-studio/studio-backend/internal/storage"
	userhttp "github.com/ai-creative-studio/studio-backend/internal/users/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Store       storage.Store
	Generation  *generation.Service

	// Rate limit for the generation group; zero values disable it.
	GenerateRPS   int
	GenerateBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")

	ai := api.Group("/ai")
	if dep.GenerateRPS > 0 {
		ai.Use(middleware.RateLimit(rate.Limit(dep.GenerateRPS), dep.GenerateBurst))
	}
	genhttp.New(dep.Generation).Register(ai)

	projhttp.New(dep.Store).Register(api.Group("/projects"))
	userhttp.New(dep.Store).Register(api.Group("/user"))

	return r
}
