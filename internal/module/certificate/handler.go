package certificate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// CertificateHandler handles REST API requests for the certificate resource.
type CertificateHandler struct {
	svc domain.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler with the given service.
func NewCertificateHandler(svc domain.CertificateService) *CertificateHandler {
	return &CertificateHandler{svc: svc}
}

// Search handles GET /api/v1/certificates.
//
// Query parameters: page, page_size, sort_by (name|date), sort_dir (asc|desc),
// keyword, and tag, which may repeat.
func (h *CertificateHandler) Search(c *gin.Context) {
	req, err := pkg.ParsePageRequest(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	result, err := h.svc.Search(c.Request.Context(), domain.SearchParams{
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortField:     c.Query("sort_by"),
		SortDirection: c.Query("sort_dir"),
		Keyword:       c.Query("keyword"),
		TagNames:      c.QueryArray("tag"),
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Get handles GET /api/v1/certificates/:id.
func (h *CertificateHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	cert, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, cert)
}

// Create handles POST /api/v1/certificates.
func (h *CertificateHandler) Create(c *gin.Context) {
	var req CreateCertificateRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	cert, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    cert,
	})
}

// Update handles PATCH /api/v1/certificates/:id.
func (h *CertificateHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	var req UpdateCertificateRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	cert, err := h.svc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, cert)
}

// Delete handles DELETE /api/v1/certificates/:id.
func (h *CertificateHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
