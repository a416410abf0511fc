package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type determines which payment processor handles payments for an invoice.
type Type string

const (
	TypeStandard   Type = "standard"
	TypeCommercial Type = "commercial"
)

var (
	// ErrNotFound is returned when no invoice matches a reference.
	ErrNotFound = errors.New("invoice not found")

	// ErrInvalidState is returned for a zero-amount invoice that already has
	// payments. The application logic never produces such an invoice; seeing
	// one means the stored data is corrupted.
	ErrInvalidState = errors.New("invoice has an amount of zero and existing payments")

	// ErrUnsupportedType is returned when an invoice type has no payment
	// processor mapped to it.
	ErrUnsupportedType = errors.New("unsupported invoice type")
)

// Invoice is a billable record with a total amount and accumulated payment
// history. It is created and owned by the store; the payment service only
// reads it, mutates it in place, and hands it back to be saved.
type Invoice struct {
	ID         uuid.UUID
	Reference  string
	Type       Type
	Amount     decimal.Decimal
	AmountPaid decimal.Decimal
	TaxAmount  decimal.Decimal
	Payments   []Payment // insertion order = application order
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// Payment is a single amount applied against an invoice.
type Payment struct {
	ID        uuid.UUID
	Reference string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// TotalPaid sums the amounts of all applied payments.
func (i *Invoice) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range i.Payments {
		total = total.Add(p.Amount)
	}

	return total
}

// Remaining returns the balance still owed on the invoice.
func (i *Invoice) Remaining() decimal.Decimal {
	return i.Amount.Sub(i.TotalPaid())
}
