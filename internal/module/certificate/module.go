package certificate

import "github.com/gin-gonic/gin"

// CertificateModule implements the app.Module interface for the certificate domain.
type CertificateModule struct {
	handler *CertificateHandler
}

// NewModule creates a new CertificateModule. Panics if h is nil.
func NewModule(h *CertificateHandler) *CertificateModule {
	if h == nil {
		panic("certificate.NewModule: handler must not be nil")
	}
	return &CertificateModule{handler: h}
}

// RegisterRoutes registers certificate API routes.
func (m *CertificateModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/certificates", m.handler.Search)
	api.GET("/certificates/:id", m.handler.Get)
	api.POST("/certificates", m.handler.Create)
	api.PATCH("/certificates/:id", m.handler.Update)
	api.DELETE("/certificates/:id", m.handler.Delete)
}
