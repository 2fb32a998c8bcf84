package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode maps the application environment onto gin's run mode.
// Anything else (development included) keeps gin's debug default.
func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
