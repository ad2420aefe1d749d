package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/soluxsolar/solux-store/services"
	"github.com/soluxsolar/solux-store/utils"
)

type PaymentController struct {
	Gateway *services.RazorpayService
}

func NewPaymentController(gateway *services.RazorpayService) *PaymentController {
	return &PaymentController{Gateway: gateway}
}

// CreateGatewayOrder opens a Razorpay order for the checkout amount.
func (pc *PaymentController) CreateGatewayOrder(c *gin.Context) {
	var body struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.Gateway.CreateGatewayOrder(body.Amount)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Gateway order created", order)
}

// VerifyPayment checks the checkout callback signature. A mismatch never
// creates or confirms anything.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var body struct {
		OrderID   string `json:"razorpay_order_id" binding:"required"`
		PaymentID string `json:"razorpay_payment_id" binding:"required"`
		Signature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.Gateway.VerifySignature(body.OrderID, body.PaymentID, body.Signature); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment verified", nil)
}
