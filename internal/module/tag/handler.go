package tag

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// TagHandler handles REST API requests for the tag resource.
type TagHandler struct {
	svc domain.TagService
}

// NewTagHandler creates a new TagHandler with the given service.
func NewTagHandler(svc domain.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// Create handles POST /api/v1/tags.
func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tag, err := h.svc.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    tag,
	})
}

// Get handles GET /api/v1/tags/:id.
func (h *TagHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	tag, err := h.svc.GetTag(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tag)
}

// Search handles GET /api/v1/tags?name=.
func (h *TagHandler) Search(c *gin.Context) {
	req, err := pkg.ParsePageRequest(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	result, err := h.svc.SearchTags(c.Request.Context(), c.Query("name"), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Delete handles DELETE /api/v1/tags/:id.
func (h *TagHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	if err := h.svc.DeleteTag(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}

// Resolve handles POST /api/v1/tags/resolve.
func (h *TagHandler) Resolve(c *gin.Context) {
	var req ResolveTagsRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tags, err := h.svc.ResolveTags(c.Request.Context(), req.Names)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tags)
}

// Popular handles GET /api/v1/tags/popular.
func (h *TagHandler) Popular(c *gin.Context) {
	tag, err := h.svc.MostPopularTag(c.Request.Context())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, tag)
}
