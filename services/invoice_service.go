package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/soluxsolar/solux-store/models"
	"github.com/soluxsolar/solux-store/utils"
)

// SellerInfo is the static letterhead printed on every invoice.
type SellerInfo struct {
	Name         string
	AddressLines []string
	GSTIN        string
	Phone        string
	Email        string
}

// DefaultSeller returns the Solux Solar letterhead.
func DefaultSeller() SellerInfo {
	return SellerInfo{
		Name: "Solux Solar",
		AddressLines: []string{
			"Plot No. 105, Sy No. 126 & 103,",
			"MSK Mill Road, New Madina Colony,",
			"Kalaburagi, Karnataka - 585103.",
		},
		GSTIN: "29GNPPP5506Q1ZU",
		Phone: "+91 8123378092",
		Email: "sales@soluxsolar.com",
	}
}

// InvoiceService renders order invoices as PDF documents.
//
// Layout is deterministic: all offsets are fixed or derived from the order,
// and the document dates are pinned to the order's creation time, so the
// same order always renders to identical bytes.
type InvoiceService struct {
	seller SellerInfo
}

func NewInvoiceService(seller SellerInfo) *InvoiceService {
	return &InvoiceService{seller: seller}
}

// Filename returns the download name for an order's invoice.
func (is *InvoiceService) Filename(order *models.Order) string {
	return fmt.Sprintf("Invoice-%s.pdf", order.ShortID())
}

const (
	leftX   = 50.0
	rightX  = 540.0
	colQtyX = 350.0
	colAmtX = 450.0
	colAmtW = 90.0
	bottomY = 790.0
	rowH    = 35.0
	lineGap = 15.0
)

// Render produces the invoice PDF for one order.
func (is *InvoiceService) Render(order *models.Order) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(order.CreatedAt)
	pdf.SetModificationDate(order.CreatedAt)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	is.letterhead(pdf)

	// Customer block
	custY := 180.0
	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, leftX, custY, 300, "L", order.Customer.Name)

	pdf.SetFont("Helvetica", "", 11)
	currentY := custY + lineGap

	if order.Customer.AddressLine1 != "" {
		cell(pdf, leftX, currentY, 300, "L", order.Customer.AddressLine1)
		currentY += lineGap
	}
	if order.Customer.AddressLine2 != "" {
		cell(pdf, leftX, currentY, 300, "L", order.Customer.AddressLine2)
		currentY += lineGap
	}
	if line := cityLine(&order.Customer); line != "" {
		cell(pdf, leftX, currentY, 300, "L", line)
		currentY += lineGap
	}
	if order.Customer.Phone != "" {
		cell(pdf, leftX, currentY, 300, "L", "Ph: "+order.Customer.Phone)
		currentY += lineGap
	}
	if gst := order.Customer.GSTNumber; gst != "" && gst != "N/A" {
		cell(pdf, leftX, currentY, 300, "L", "GSTIN: "+strings.ToUpper(gst))
		currentY += lineGap
	}

	// Order metadata block
	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, colQtyX, custY, 100, "L", "Order Number:")
	pdf.SetFont("Helvetica", "", 11)
	cell(pdf, colAmtX, custY, colAmtW, "R", order.ShortID())

	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, colQtyX, custY+lineGap, 100, "L", "Order Date:")
	pdf.SetFont("Helvetica", "", 11)
	cell(pdf, colAmtX, custY+lineGap, colAmtW, "R", order.CreatedAt.Format("2 Jan 2006"))

	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, colQtyX, custY+2*lineGap, 100, "L", "Payment Method:")
	pdf.SetFont("Helvetica", "", 11)
	paymentMethod := order.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Cash on Delivery"
	}
	cell(pdf, colAmtX, custY+2*lineGap, colAmtW, "R", paymentMethod)

	// Item table
	tableY := custY + 80
	if currentY > custY+50 {
		tableY = currentY + 30
	}
	tableY = is.tableHeader(pdf, tableY)

	for _, item := range order.Items {
		if tableY+rowH > bottomY {
			pdf.AddPage()
			tableY = is.tableHeader(pdf, leftX)
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 11)
		cell(pdf, leftX, tableY, 280, "L", item.Name)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(128, 128, 128)
		hsn := item.HSNCode
		if hsn == "" {
			hsn = "N/A"
		}
		cell(pdf, leftX, tableY+12, 280, "L", "SKU/HSN: "+hsn)

		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		cell(pdf, colQtyX, tableY, 60, "L", fmt.Sprintf("%d", qty))
		cell(pdf, colAmtX, tableY, colAmtW, "R", utils.FormatRupees(item.Price))

		tableY += rowH
	}

	// Totals block
	if tableY+110 > bottomY {
		pdf.AddPage()
		tableY = leftX
	}

	tableY += 10
	rule(pdf, colQtyX, tableY)
	tableY += lineGap

	cgst, sgst := TaxHalves(order.GSTAmount)

	pdf.SetFont("Helvetica", "", 11)
	cell(pdf, colQtyX, tableY, 100, "L", "Subtotal")
	cell(pdf, colAmtX, tableY, colAmtW, "R", utils.FormatRupees(order.Subtotal))

	tableY += 20
	cell(pdf, colQtyX, tableY, 100, "L", "CGST(9%)")
	cell(pdf, colAmtX, tableY, colAmtW, "R", utils.FormatRupees(cgst))

	tableY += 20
	cell(pdf, colQtyX, tableY, 100, "L", "SGST(9%)")
	cell(pdf, colAmtX, tableY, colAmtW, "R", utils.FormatRupees(sgst))

	tableY += 25
	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, colQtyX, tableY, 100, "L", "Total")
	cell(pdf, colAmtX, tableY, colAmtW, "R", utils.FormatRupees(order.TotalAmount))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering invoice: %v", err)
	}
	return buf.Bytes(), nil
}

func (is *InvoiceService) letterhead(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 14)
	cell(pdf, leftX, 50, 300, "L", is.seller.Name)

	pdf.SetFont("Helvetica", "", 10)
	y := 65.0
	for _, line := range is.seller.AddressLines {
		cell(pdf, leftX, y, 300, "L", line)
		y += lineGap
	}
	cell(pdf, leftX, y, 300, "L", "GSTIN: "+is.seller.GSTIN)
	cell(pdf, leftX, y+lineGap, 300, "L", "Ph: "+is.seller.Phone)
	cell(pdf, leftX, y+2*lineGap, 300, "L", "Email: "+is.seller.Email)

	pdf.SetFont("Helvetica", "B", 22)
	cell(pdf, leftX, 50, rightX-leftX, "R", "INVOICE")
}

// tableHeader draws the item column headers and returns the y position of
// the first row. Repeated at the top of every overflow page.
func (is *InvoiceService) tableHeader(pdf *fpdf.Fpdf, y float64) float64 {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	cell(pdf, leftX, y, 280, "L", "Product")
	cell(pdf, colQtyX, y, 60, "L", "Quantity")
	cell(pdf, colAmtX, y, colAmtW, "R", "Price")

	y += 20
	rule(pdf, leftX, y)
	return y + lineGap
}

func cell(pdf *fpdf.Fpdf, x, y, w float64, align, text string) {
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 12, text, "", 0, align, false, 0, "")
}

func rule(pdf *fpdf.Fpdf, fromX, y float64) {
	pdf.SetDrawColor(204, 204, 204)
	pdf.SetLineWidth(0.5)
	pdf.Line(fromX, y, rightX, y)
}

func cityLine(customer *models.CustomerInfo) string {
	line := customer.City
	if customer.State != "" {
		if line != "" {
			line += " "
		}
		line += customer.State
	}
	if customer.Pincode != "" {
		if line != "" {
			line += " "
		}
		line += "- " + customer.Pincode
	}
	return line
}
