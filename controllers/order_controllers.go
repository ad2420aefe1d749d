package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/soluxsolar/solux-store/middlewares"
	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/services"
	"github.com/soluxsolar/solux-store/utils"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{Service: service}
}

// respondOrderError maps service errors onto HTTP codes.
func respondOrderError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrOrderAlreadyShipped),
		errors.Is(err, services.ErrInvalidTransition):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// CreateOrder -> persists a new order from the submitted cart. Totals are
// recomputed server-side; any client-sent amounts are ignored.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type itemReq struct {
		Name     string          `json:"name"`
		Price    decimal.Decimal `json:"price"`
		HSNCode  string          `json:"hsn_code"`
		Quantity int             `json:"quantity"`
	}
	type reqBody struct {
		Customer      models.CustomerInfo `json:"customer"`
		Items         []itemReq           `json:"items"`
		PaymentMethod string              `json:"payment_method"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items := make([]models.OrderItem, len(body.Items))
	for i, item := range body.Items {
		items[i] = models.OrderItem{
			Name:     item.Name,
			Price:    item.Price,
			HSNCode:  item.HSNCode,
			Quantity: item.Quantity,
		}
	}

	order, err := oc.Service.CreateOrder(services.OrderInput{
		Customer:      body.Customer,
		Items:         items,
		PaymentMethod: body.PaymentMethod,
	})
	if err != nil {
		middlewares.RecordOrderOperation("create", false)
		respondOrderError(c, err)
		return
	}

	middlewares.RecordOrderOperation("create", true)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders -> admin listing, newest first
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Service.ListAllOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// MyOrders -> orders of the authenticated user, newest first. An identity
// that cannot be resolved yields an empty list.
func (oc *OrderController) MyOrders(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user id in context"))
		return
	}

	orders, err := oc.Service.ListOrdersForCustomer(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateStatus -> admin moves an order along the lifecycle
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	orderID := c.Param("id")

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Service.UpdateStatus(orderID, body.Status)
	if err != nil {
		middlewares.RecordOrderOperation("update_status", false)
		respondOrderError(c, err)
		return
	}

	middlewares.RecordOrderOperation("update_status", true)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> rejects cancellation once the order has shipped
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID := c.Param("id")

	order, err := oc.Service.CancelOrder(orderID)
	if err != nil {
		middlewares.RecordOrderOperation("cancel", false)
		respondOrderError(c, err)
		return
	}

	middlewares.RecordOrderOperation("cancel", true)
	utils.RespondJSON(c, http.StatusOK, "Order successfully cancelled", order)
}

// Invoice -> streams the order's invoice PDF
func (oc *OrderController) Invoice(c *gin.Context) {
	orderID := c.Param("id")

	pdf, filename, err := oc.Service.InvoicePDF(orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
