package Controllers_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/soluxsolar/solux-store/controllers"
	"github.com/soluxsolar/solux-store/services"
	"github.com/soluxsolar/solux-store/utils"
)

func setupPaymentRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	gateway := services.NewRazorpayService(&services.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: secret,
	})
	paymentCtrl := controllers.NewPaymentController(gateway)
	router.POST("/razorpay/verify-payment", paymentCtrl.VerifyPayment)
	return router
}

func signCallback(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentEndpoint(t *testing.T) {
	utils.InitLogger()
	router := setupPaymentRouter("test_secret")

	payload := map[string]string{
		"razorpay_order_id":   "order_N1xkpQ",
		"razorpay_payment_id": "pay_N1xmzR",
		"razorpay_signature":  signCallback("test_secret", "order_N1xkpQ", "pay_N1xmzR"),
	}
	w := postJSON(t, router, "/razorpay/verify-payment", payload)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Payment verified", resp["message"])
}

func TestVerifyPaymentEndpointBadSignature(t *testing.T) {
	utils.InitLogger()
	router := setupPaymentRouter("test_secret")

	payload := map[string]string{
		"razorpay_order_id":   "order_N1xkpQ",
		"razorpay_payment_id": "pay_N1xmzR",
		"razorpay_signature":  signCallback("other_secret", "order_N1xkpQ", "pay_N1xmzR"),
	}
	w := postJSON(t, router, "/razorpay/verify-payment", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestVerifyPaymentEndpointMissingFields(t *testing.T) {
	utils.InitLogger()
	router := setupPaymentRouter("test_secret")

	payload := map[string]string{
		"razorpay_order_id": "order_N1xkpQ",
	}
	w := postJSON(t, router, "/razorpay/verify-payment", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
