package order

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
)

// OrderHandler handles REST API requests for the order resource.
type OrderHandler struct {
	svc domain.OrderService
}

// NewOrderHandler creates a new OrderHandler with the given service.
func NewOrderHandler(svc domain.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Place handles POST /api/v1/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req PlaceOrderRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	order, err := h.svc.PlaceOrder(c.Request.Context(), domain.PlaceOrderInput{
		UserID:        req.UserID,
		CertificateID: req.CertificateID,
		Cost:          req.Cost,
	})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "success",
		Data:    order,
	})
}

// Get handles GET /api/v1/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, order)
}

// List handles GET /api/v1/orders.
func (h *OrderHandler) List(c *gin.Context) {
	req, err := pkg.ParsePageRequest(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	result, err := h.svc.ListOrders(c.Request.Context(), req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// ListByUser handles GET /api/v1/users/:id/orders.
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	req, err := pkg.ParsePageRequest(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	result, err := h.svc.ListUserOrders(c.Request.Context(), userID, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PATCH /api/v1/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	var req UpdateOrderRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	order, err := h.svc.UpdateOrder(c.Request.Context(), id, req.toInput())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, order)
}

// Delete handles DELETE /api/v1/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseID(c, "id")
	if err != nil {
		pkg.Error(c, domain.Validation(err.Error()))
		return
	}

	if err := h.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
