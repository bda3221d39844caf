package order

import "github.com/gin-gonic/gin"

// OrderModule implements the app.Module interface for the order domain.
type OrderModule struct {
	handler *OrderHandler
}

// NewModule creates a new OrderModule. Panics if h is nil.
func NewModule(h *OrderHandler) *OrderModule {
	if h == nil {
		panic("order.NewModule: handler must not be nil")
	}
	return &OrderModule{handler: h}
}

// RegisterRoutes registers order API routes, including the orders of a user.
func (m *OrderModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/orders", m.handler.List)
	api.GET("/orders/:id", m.handler.Get)
	api.POST("/orders", m.handler.Place)
	api.PATCH("/orders/:id", m.handler.Update)
	api.DELETE("/orders/:id", m.handler.Delete)
	api.GET("/users/:id/orders", m.handler.ListByUser)
}
