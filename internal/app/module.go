package app

import "github.com/gin-gonic/gin"

// Module is a business module that registers its own routes under /api/v1.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}
