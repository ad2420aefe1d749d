package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/utils"
)

type fakeMailer struct {
	mu       sync.Mutex
	invoices []string // filenames of sent invoices
	pdfSizes []int
}

func (f *fakeMailer) SendInvoice(order *models.Order, pdf []byte, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices = append(f.invoices, filename)
	f.pdfSizes = append(f.pdfSizes, len(pdf))
	return nil
}

func (f *fakeMailer) SendConsultationAlert(consult *models.Consultation) error {
	return nil
}

func (f *fakeMailer) sentInvoices() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invoices...)
}

type fakeLedger struct {
	mu         sync.Mutex
	appended   []string // short ids of appended rows
	statuses   map[string]string
	failAppend bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{statuses: make(map[string]string)}
}

func (f *fakeLedger) AppendOrder(ctx context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAppend {
		return errors.New("ledger unavailable")
	}
	f.appended = append(f.appended, order.ShortID())
	return nil
}

func (f *fakeLedger) UpdateStatus(ctx context.Context, orderID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[models.ShortOrderID(orderID)] = status
	return nil
}

func (f *fakeLedger) appendedRows() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.appended...)
}

func (f *fakeLedger) statusOf(orderID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[models.ShortOrderID(orderID)]
}

func newTestOrderService(t *testing.T) (*OrderService, *fakeMailer, *fakeLedger) {
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	outbox := NewOutbox(32, time.Second)
	outbox.Start()
	t.Cleanup(outbox.Stop)

	mailer := &fakeMailer{}
	ledger := newFakeLedger()
	svc := NewOrderService(db, NewInvoiceService(DefaultSeller()), mailer, ledger, outbox)
	return svc, mailer, ledger
}

func validInput() OrderInput {
	return OrderInput{
		Customer: models.CustomerInfo{
			Name:         "Ravi Kumar",
			Email:        "ravi@example.com",
			Phone:        "+91 9876543210",
			AddressLine1: "12 MG Road",
			City:         "Kalaburagi",
			State:        "Karnataka",
			Pincode:      "585103",
		},
		Items: []models.OrderItem{
			item("100.00", 1),
			item("50.00", 2),
		},
		PaymentMethod: "Online (Razorpay)",
	}
}

func seedOrder(t *testing.T, db *gorm.DB, email, status string, createdAt time.Time) *models.Order {
	t.Helper()

	items := []models.OrderItem{item("100.00", 1)}
	totals := PriceItems(items)
	order := &models.Order{
		ID: models.NewOrderID(),
		Customer: models.CustomerInfo{
			Name:         "Seeded Customer",
			Email:        email,
			Phone:        "+91 9000000000",
			GSTNumber:    "N/A",
			AddressLine1: "1 Test Lane",
			City:         "Kalaburagi",
			State:        "Karnataka",
			Pincode:      "585103",
		},
		Items:         items,
		Subtotal:      totals.Subtotal,
		GSTAmount:     totals.GSTAmount,
		TotalAmount:   totals.Total,
		PaymentMethod: "Cash on Delivery",
		Status:        status,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seeding order: %v", err)
	}
	return order
}

func TestCreateOrderComputesTotals(t *testing.T) {
	svc, mailer, ledger := newTestOrderService(t)

	order, err := svc.CreateOrder(validInput())
	assert.NoError(t, err)
	assert.Len(t, order.ID, 32)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "200.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "36.00", order.GSTAmount.StringFixed(2))
	assert.Equal(t, "236.00", order.TotalAmount.StringFixed(2))

	svc.Outbox.Flush()

	assert.Equal(t, []string{"Invoice-" + order.ShortID() + ".pdf"}, mailer.sentInvoices())
	assert.Equal(t, []string{order.ShortID()}, ledger.appendedRows())
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	input := validInput()
	input.Customer.Email = ""
	input.Customer.Pincode = ""
	input.Items = nil

	_, err := svc.CreateOrder(input)

	var validationErr *ValidationError
	if assert.ErrorAs(t, err, &validationErr) {
		assert.Contains(t, validationErr.Fields, "email")
		assert.Contains(t, validationErr.Fields, "pincode")
		assert.Contains(t, validationErr.Fields, "items")
	}

	var count int64
	svc.DB.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count, "validation failure must not persist anything")
}

func TestCreateOrderSideEffectFailureDoesNotFailCreation(t *testing.T) {
	svc, mailer, ledger := newTestOrderService(t)
	ledger.failAppend = true

	order, err := svc.CreateOrder(validInput())
	assert.NoError(t, err)

	svc.Outbox.Flush()

	// The ledger append failed, but the order exists and the mail went out.
	fetched, err := svc.GetOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, fetched.Status)
	assert.Len(t, mailer.sentInvoices(), 1)
	assert.Empty(t, ledger.appendedRows())
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"pending to shipped", models.StatusPending, models.StatusShipped, nil},
		{"shipped to delivered", models.StatusShipped, models.StatusDelivered, nil},
		{"pending to cancelled", models.StatusPending, models.StatusCancelled, nil},
		{"same status is a no-op", models.StatusShipped, models.StatusShipped, nil},
		{"pending cannot skip to delivered", models.StatusPending, models.StatusDelivered, ErrInvalidTransition},
		{"cancelled is terminal", models.StatusCancelled, models.StatusShipped, ErrInvalidTransition},
		{"delivered is terminal", models.StatusDelivered, models.StatusPending, ErrInvalidTransition},
		{"unknown status", models.StatusPending, "Teleported", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, ledger := newTestOrderService(t)
			order := seedOrder(t, svc.DB, "t@example.com", tt.from, time.Now())

			updated, err := svc.UpdateStatus(order.ID, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				fetched, gerr := svc.GetOrder(order.ID)
				assert.NoError(t, gerr)
				assert.Equal(t, tt.from, fetched.Status, "failed transition must not mutate state")
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)

			if tt.from != tt.to {
				svc.Outbox.Flush()
				assert.Equal(t, tt.to, ledger.statusOf(order.ID))
			}
		})
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	_, err := svc.UpdateStatus("ffffffffffffffffffffffffffffffff", models.StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancelOrder(t *testing.T) {
	svc, _, ledger := newTestOrderService(t)
	order := seedOrder(t, svc.DB, "t@example.com", models.StatusPending, time.Now())

	cancelled, err := svc.CancelOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	svc.Outbox.Flush()
	assert.Equal(t, models.StatusCancelled, ledger.statusOf(order.ID))
}

func TestCancelOrderTwiceIsIdempotent(t *testing.T) {
	svc, _, _ := newTestOrderService(t)
	order := seedOrder(t, svc.DB, "t@example.com", models.StatusPending, time.Now())

	_, err := svc.CancelOrder(order.ID)
	assert.NoError(t, err)

	again, err := svc.CancelOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, again.Status)
}

func TestCancelShippedOrderRejected(t *testing.T) {
	for _, status := range []string{models.StatusShipped, models.StatusDelivered} {
		t.Run(status, func(t *testing.T) {
			svc, _, _ := newTestOrderService(t)
			order := seedOrder(t, svc.DB, "t@example.com", status, time.Now())

			_, err := svc.CancelOrder(order.ID)
			assert.ErrorIs(t, err, ErrOrderAlreadyShipped)

			fetched, err := svc.GetOrder(order.ID)
			assert.NoError(t, err)
			assert.Equal(t, status, fetched.Status)
		})
	}
}

func TestShipThenCancelScenario(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.CreateOrder(validInput())
	assert.NoError(t, err)

	_, err = svc.UpdateStatus(order.ID, models.StatusShipped)
	assert.NoError(t, err)

	_, err = svc.CancelOrder(order.ID)
	assert.ErrorIs(t, err, ErrOrderAlreadyShipped)

	fetched, err := svc.GetOrder(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusShipped, fetched.Status)
}

func TestListOrdersForCustomer(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	user := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: "customer"}
	assert.NoError(t, svc.DB.Create(&user).Error)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := seedOrder(t, svc.DB, "ravi@example.com", models.StatusDelivered, base)
	newest := seedOrder(t, svc.DB, "ravi@example.com", models.StatusPending, base.Add(48*time.Hour))
	seedOrder(t, svc.DB, "other@example.com", models.StatusPending, base.Add(24*time.Hour))

	orders, err := svc.ListOrdersForCustomer(user.ID)
	assert.NoError(t, err)
	if assert.Len(t, orders, 2) {
		assert.Equal(t, newest.ID, orders[0].ID)
		assert.Equal(t, oldest.ID, orders[1].ID)
	}
}

func TestListOrdersForUnknownCustomer(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	orders, err := svc.ListOrdersForCustomer(9999)
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestInvoicePDF(t *testing.T) {
	svc, _, _ := newTestOrderService(t)

	order, err := svc.CreateOrder(validInput())
	assert.NoError(t, err)

	pdf, filename, err := svc.InvoicePDF(order.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "Invoice-"+order.ShortID()+".pdf", filename)

	_, _, err = svc.InvoicePDF("ffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
