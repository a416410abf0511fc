package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dcastro/payable/internal/invoice"
)

type invoiceDTO struct {
	ID         uuid.UUID       `json:"id"`
	Reference  string          `json:"reference"`
	Type       invoice.Type    `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	Payments   []paymentDTO    `json:"payments,omitempty"`
}

type paymentDTO struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func toInvoiceDTO(inv *invoice.Invoice) invoiceDTO {
	dto := invoiceDTO{
		ID:         inv.ID,
		Reference:  inv.Reference,
		Type:       inv.Type,
		Amount:     inv.Amount,
		AmountPaid: inv.AmountPaid,
		TaxAmount:  inv.TaxAmount,
	}

	for _, p := range inv.Payments {
		dto.Payments = append(dto.Payments, paymentDTO{
			ID:        p.ID,
			Amount:    p.Amount,
			CreatedAt: p.CreatedAt,
		})
	}

	return dto
}
