package tag

import "github.com/gin-gonic/gin"

// TagModule implements the app.Module interface for the tag domain.
type TagModule struct {
	handler *TagHandler
}

// NewModule creates a new TagModule. Panics if h is nil.
func NewModule(h *TagHandler) *TagModule {
	if h == nil {
		panic("tag.NewModule: handler must not be nil")
	}
	return &TagModule{handler: h}
}

// RegisterRoutes registers tag API routes.
func (m *TagModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/tags", m.handler.Search)
	api.GET("/tags/popular", m.handler.Popular)
	api.GET("/tags/:id", m.handler.Get)
	api.POST("/tags", m.handler.Create)
	api.POST("/tags/resolve", m.handler.Resolve)
	api.DELETE("/tags/:id", m.handler.Delete)
}
