package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

// RazorpayConfig holds the payment gateway credentials.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// RazorpayConfigFromEnv loads gateway credentials from the environment.
func RazorpayConfigFromEnv() *RazorpayConfig {
	return &RazorpayConfig{
		KeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
	}
}

// RazorpayService talks to the Razorpay orders API and verifies checkout
// callback signatures.
type RazorpayService struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

func NewRazorpayService(config *RazorpayConfig) *RazorpayService {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.razorpay.com"
	}
	return &RazorpayService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidateConfig checks that the gateway credentials are present.
func (rs *RazorpayService) ValidateConfig() error {
	if rs.config.KeyID == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID is not set")
	}
	if rs.config.KeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_SECRET is not set")
	}
	return nil
}

// GatewayOrder is the subset of the Razorpay order object the checkout
// frontend needs.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateGatewayOrder opens a gateway order for the given rupee amount.
// Razorpay expects the amount in paise.
func (rs *RazorpayService) CreateGatewayOrder(amount decimal.Decimal) (*GatewayOrder, error) {
	url := fmt.Sprintf("%s/v1/orders", rs.config.BaseURL)

	payload := map[string]interface{}{
		"amount":   amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		"currency": "INR",
		"receipt":  fmt.Sprintf("solux_%d", time.Now().UnixMilli()),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.SetBasicAuth(rs.config.KeyID, rs.config.KeySecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay API error: %s", string(body))
	}

	var order GatewayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	return &order, nil
}

// VerifySignature recomputes the checkout callback signature and compares
// it to the gateway-supplied one. It is a pure check, no network I/O, and
// never creates or confirms an order by itself.
func (rs *RazorpayService) VerifySignature(orderRef, paymentRef, signature string) error {
	mac := hmac.New(sha256.New, []byte(rs.config.KeySecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrPaymentVerification
	}
	return nil
}
