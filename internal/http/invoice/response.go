package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastro/payable/internal/invoice"
)

type invoiceResponse struct {
	ID         uuid.UUID         `json:"id"`
	Reference  string            `json:"reference"`
	Type       invoice.Type      `json:"type"`
	Amount     decimal.Decimal   `json:"amount"`
	AmountPaid decimal.Decimal   `json:"amount_paid"`
	TaxAmount  decimal.Decimal   `json:"tax_amount"`
	Payments   []paymentResponse `json:"payments,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  *time.Time        `json:"updated_at,omitempty"`
}

type paymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:         inv.ID,
		Reference:  inv.Reference,
		Type:       inv.Type,
		Amount:     inv.Amount,
		AmountPaid: inv.AmountPaid,
		TaxAmount:  inv.TaxAmount,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}

	for _, p := range inv.Payments {
		resp.Payments = append(resp.Payments, paymentResponse{
			ID:        p.ID,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		})
	}

	return resp
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}
