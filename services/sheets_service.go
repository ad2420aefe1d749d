package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/utils"
)

// Ledger mirrors order data into an external spreadsheet. It is a
// convenience mirror, not a source of truth: callers run it out-of-band and
// swallow failures.
type Ledger interface {
	AppendOrder(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// SheetsConfig holds the Google Sheets ledger configuration.
type SheetsConfig struct {
	SpreadsheetID string
	AccessToken   string
	SheetName     string
	BaseURL       string
}

// SheetsConfigFromEnv loads the ledger configuration from the environment.
func SheetsConfigFromEnv() *SheetsConfig {
	return &SheetsConfig{
		SpreadsheetID: os.Getenv("GOOGLE_SHEET_ID"),
		AccessToken:   os.Getenv("GOOGLE_SHEETS_TOKEN"),
	}
}

// SheetsService appends and updates order rows in a Google Sheet through
// the values REST API.
type SheetsService struct {
	config     *SheetsConfig
	httpClient *http.Client
}

func NewSheetsService(config *SheetsConfig) *SheetsService {
	if config.BaseURL == "" {
		config.BaseURL = "https://sheets.googleapis.com"
	}
	if config.SheetName == "" {
		config.SheetName = "Sheet1"
	}
	return &SheetsService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// AppendOrder appends one ledger row for the order. Columns A-J:
// short id, date, name, phone, email, city, item summary, total amount,
// payment method, status.
func (ss *SheetsService) AppendOrder(ctx context.Context, order *models.Order) error {
	url := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s!A:J:append?valueInputOption=USER_ENTERED",
		ss.config.BaseURL, ss.config.SpreadsheetID, ss.config.SheetName)

	row := []interface{}{
		order.ShortID(),
		order.CreatedAt.Format("02/01/2006"),
		order.Customer.Name,
		order.Customer.Phone,
		order.Customer.Email,
		order.Customer.City,
		itemSummary(order.Items),
		utils.FormatINR(order.TotalAmount),
		order.PaymentMethod,
		order.Status,
	}

	body := map[string]interface{}{
		"values": [][]interface{}{row},
	}

	return ss.call(ctx, "POST", url, body, nil)
}

// UpdateStatus overwrites the status cell of the row keyed by the order's
// short id. If the row is not found the update is a logged no-op.
func (ss *SheetsService) UpdateStatus(ctx context.Context, orderID, status string) error {
	getURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s!A:A",
		ss.config.BaseURL, ss.config.SpreadsheetID, ss.config.SheetName)

	var keyColumn struct {
		Values [][]string `json:"values"`
	}
	if err := ss.call(ctx, "GET", getURL, nil, &keyColumn); err != nil {
		return err
	}

	shortID := models.ShortOrderID(orderID)
	rowIndex := -1
	for i, row := range keyColumn.Values {
		if len(row) > 0 && row[0] == shortID {
			rowIndex = i + 1 // sheet rows are 1-based
			break
		}
	}
	if rowIndex == -1 {
		utils.InfoLogger.Printf("Ledger row for order %s not found, skipping status update", shortID)
		return nil
	}

	updateURL := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s!J%d?valueInputOption=USER_ENTERED",
		ss.config.BaseURL, ss.config.SpreadsheetID, ss.config.SheetName, rowIndex)

	body := map[string]interface{}{
		"values": [][]interface{}{{status}},
	}

	return ss.call(ctx, "PUT", updateURL, body, nil)
}

func (ss *SheetsService) call(ctx context.Context, method, url string, payload interface{}, out interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshaling request: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ss.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+ss.config.AccessToken)
	}

	resp, err := ss.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets API error: %s", string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("error unmarshaling response: %v", err)
		}
	}
	return nil
}

func itemSummary(items []models.OrderItem) string {
	if len(items) == 0 {
		return "No items"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		parts = append(parts, fmt.Sprintf("%s (Qty: %d)", item.Name, qty))
	}
	return strings.Join(parts, ", ")
}
