package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/utils"
)

// transitions lists the statuses reachable from each status. Cancelled and
// Delivered are terminal.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:   {models.StatusDelivered},
	models.StatusDelivered: {},
	models.StatusCancelled: {},
}

// OrderService owns the order lifecycle: creation, status transitions and
// cancellation. Side effects (invoice mail, ledger sync) are scheduled on
// the outbox and never block or fail the primary operation.
type OrderService struct {
	DB       *gorm.DB
	Invoices *InvoiceService
	Mailer   Mailer
	Ledger   Ledger
	Outbox   *Outbox
}

func NewOrderService(db *gorm.DB, invoices *InvoiceService, mailer Mailer, ledger Ledger, outbox *Outbox) *OrderService {
	return &OrderService{
		DB:       db,
		Invoices: invoices,
		Mailer:   mailer,
		Ledger:   ledger,
		Outbox:   outbox,
	}
}

// OrderInput is the validated payload for order creation. Client-submitted
// totals are display-only; all amounts are recomputed here.
type OrderInput struct {
	Customer      models.CustomerInfo
	Items         []models.OrderItem
	PaymentMethod string
}

func validateOrderInput(input *OrderInput) error {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"name", input.Customer.Name},
		{"email", input.Customer.Email},
		{"phone", input.Customer.Phone},
		{"addressLine1", input.Customer.AddressLine1},
		{"city", input.Customer.City},
		{"state", input.Customer.State},
		{"pincode", input.Customer.Pincode},
	}
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}

	if len(input.Items) == 0 {
		missing = append(missing, "items")
	}
	for _, item := range input.Items {
		if item.Name == "" {
			missing = append(missing, "item name")
		}
		if item.Quantity < 0 {
			missing = append(missing, "item quantity")
		}
		if item.Price.IsNegative() {
			missing = append(missing, "item price")
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// CreateOrder validates the cart, computes authoritative totals, persists
// the order with status Pending, and schedules the invoice email and ledger
// append.
func (s *OrderService) CreateOrder(input OrderInput) (*models.Order, error) {
	if err := validateOrderInput(&input); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, len(input.Items))
	copy(items, input.Items)
	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
		if items[i].HSNCode == "" {
			items[i].HSNCode = "N/A"
		}
	}

	if input.Customer.GSTNumber == "" {
		input.Customer.GSTNumber = "N/A"
	}

	totals := PriceItems(items)

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Online (Razorpay)"
	}

	now := time.Now()
	order := models.Order{
		ID:            models.NewOrderID(),
		Customer:      input.Customer,
		Items:         items,
		Subtotal:      totals.Subtotal,
		GSTAmount:     totals.GSTAmount,
		TotalAmount:   totals.Total,
		PaymentMethod: paymentMethod,
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.DB.Create(&order).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s created for %s (total %s)",
		order.ShortID(), order.Customer.Email, utils.FormatRupees(order.TotalAmount))

	s.scheduleInvoiceEmail(order)
	s.scheduleLedgerAppend(order)

	return &order, nil
}

// UpdateStatus moves an order to a new lifecycle status. Setting the
// current status again is an idempotent no-op. The update is conditional on
// the previously observed status so racing writers cannot clobber a
// terminal state.
func (s *OrderService) UpdateStatus(orderID, newStatus string) (*models.Order, error) {
	if _, known := transitions[newStatus]; !known {
		return nil, ErrInvalidTransition
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == newStatus {
		return order, nil
	}

	if !canTransition(order.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	if err := s.commitStatus(order, newStatus); err != nil {
		return nil, err
	}

	s.scheduleLedgerStatus(order.ID, newStatus)
	return order, nil
}

// CancelOrder cancels an order that has not shipped yet. Cancelling an
// already-cancelled order is an idempotent no-op.
func (s *OrderService) CancelOrder(orderID string) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	switch order.Status {
	case models.StatusShipped, models.StatusDelivered:
		return nil, ErrOrderAlreadyShipped
	case models.StatusCancelled:
		return order, nil
	}

	if err := s.commitStatus(order, models.StatusCancelled); err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s cancelled", order.ShortID())
	s.scheduleLedgerStatus(order.ID, models.StatusCancelled)
	return order, nil
}

// GetOrder fetches an order with its items.
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrdersForCustomer returns the orders belonging to a user's email,
// newest first. An unknown user resolves to an empty list, not an error.
func (s *OrderService) ListOrdersForCustomer(userID uint) ([]models.Order, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return []models.Order{}, nil
	}

	var orders []models.Order
	if err := s.DB.Preload("Items").
		Where("customer_email = ?", user.Email).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every order, newest first.
func (s *OrderService) ListAllOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// InvoicePDF renders the invoice for an order and returns the bytes
// together with the download filename.
func (s *OrderService) InvoicePDF(orderID string) ([]byte, string, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.Invoices.Render(order)
	if err != nil {
		return nil, "", err
	}
	return pdf, s.Invoices.Filename(order), nil
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// commitStatus persists a status change conditioned on the status the
// caller observed. Zero affected rows means a concurrent writer got there
// first.
func (s *OrderService) commitStatus(order *models.Order, newStatus string) error {
	res := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	order.Status = newStatus
	return nil
}

func (s *OrderService) scheduleInvoiceEmail(order models.Order) {
	s.Outbox.Enqueue("invoice_email", func(ctx context.Context) error {
		pdf, err := s.Invoices.Render(&order)
		if err != nil {
			return err
		}
		return s.Mailer.SendInvoice(&order, pdf, s.Invoices.Filename(&order))
	})
}

func (s *OrderService) scheduleLedgerAppend(order models.Order) {
	s.Outbox.Enqueue("ledger_append", func(ctx context.Context) error {
		return s.Ledger.AppendOrder(ctx, &order)
	})
}

func (s *OrderService) scheduleLedgerStatus(orderID, status string) {
	s.Outbox.Enqueue("ledger_status", func(ctx context.Context) error {
		return s.Ledger.UpdateStatus(ctx, orderID, status)
	})
}
