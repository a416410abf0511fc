package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, reference string) (*Invoice, error)
	SaveInvoice(ctx context.Context, inv *Invoice) error
	ListInvoices(ctx context.Context) ([]*Invoice, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PaymentParams is an incoming payment as supplied by the caller. The caller
// is responsible for format validation; amounts are assumed positive and
// finite.
type PaymentParams struct {
	Reference string
	Amount    decimal.Decimal
}

type CreateParams struct {
	Reference string
	Type      Type
	Amount    decimal.Decimal
}

// ApplyPayment applies one payment to the invoice it references and returns
// the resulting outcome. The invoice is persisted exactly once, and only when
// the outcome is an accepting one; no rejection branch mutates state.
func (s *Service) ApplyPayment(ctx context.Context, params PaymentParams) (*Result, error) {
	inv, err := s.repo.GetInvoice(ctx, params.Reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice %q: %w", params.Reference, err)
	}

	payment := Payment{
		ID:        uuid.New(),
		Reference: params.Reference,
		Amount:    params.Amount,
		CreatedAt: time.Now().UTC(),
	}

	res, err := applyToInvoice(inv, payment)
	if err != nil {
		return nil, err
	}

	if res.Outcome.Accepted() {
		if err := s.repo.SaveInvoice(ctx, inv); err != nil {
			return nil, fmt.Errorf("saving invoice %q: %w", inv.Reference, err)
		}
	}

	return res, nil
}

// applyToInvoice classifies the payment against the invoice's current state
// and, on accepting branches, runs the type-mapped processor. Decision order:
// zero-amount invoices first, then invoices with prior payments, then first
// payments.
func applyToInvoice(inv *Invoice, p Payment) (*Result, error) {
	if inv.Amount.IsZero() {
		return applyToZeroAmount(inv)
	}

	if len(inv.Payments) > 0 {
		return applySubsequent(inv, p)
	}

	return applyFirst(inv, p)
}

func applyToZeroAmount(inv *Invoice) (*Result, error) {
	if len(inv.Payments) == 0 {
		return &Result{Outcome: OutcomeNoPaymentNeeded, Message: msgNoPaymentNeeded, Invoice: inv}, nil
	}

	// Unreachable through this package's own mutation path; guards against
	// invoices that arrive corrupted from the store.
	return nil, ErrInvalidState
}

func applySubsequent(inv *Invoice, p Payment) (*Result, error) {
	totalPaid := inv.TotalPaid()
	remaining := inv.Amount.Sub(totalPaid)

	if inv.Amount.Equal(totalPaid) {
		return &Result{Outcome: OutcomeAlreadyPaid, Message: msgAlreadyPaid, Invoice: inv}, nil
	}

	if p.Amount.GreaterThan(remaining) {
		return &Result{Outcome: OutcomeExceedsRemaining, Message: msgExceedsRemaining, Invoice: inv}, nil
	}

	proc, err := processorFor(inv.Type)
	if err != nil {
		return nil, err
	}

	proc.ConfirmPayment(inv, p)

	if p.Amount.Equal(remaining) {
		return &Result{Outcome: OutcomeFullyPaid, Message: msgFinalPartial, Invoice: inv}, nil
	}

	return &Result{Outcome: OutcomePartiallyPaid, Message: msgPartialAgain, Invoice: inv}, nil
}

func applyFirst(inv *Invoice, p Payment) (*Result, error) {
	if p.Amount.GreaterThan(inv.Amount) {
		return &Result{Outcome: OutcomeExceedsAmount, Message: msgExceedsAmount, Invoice: inv}, nil
	}

	proc, err := processorFor(inv.Type)
	if err != nil {
		return nil, err
	}

	proc.ConfirmPayment(inv, p)

	if p.Amount.Equal(inv.Amount) {
		return &Result{Outcome: OutcomeFullyPaid, Message: msgFirstFull, Invoice: inv}, nil
	}

	return &Result{Outcome: OutcomePartiallyPaid, Message: msgFirstPartial, Invoice: inv}, nil
}

// Create registers a new invoice. The type must have a processor mapped to
// it; rejecting unknown types here keeps the type-to-processor mapping total
// for every stored invoice.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if _, err := processorFor(params.Type); err != nil {
		return nil, err
	}

	if params.Amount.IsNegative() {
		return nil, fmt.Errorf("invoice amount must not be negative, got %s", params.Amount)
	}

	inv := &Invoice{
		Reference:  params.Reference,
		Type:       params.Type,
		Amount:     params.Amount,
		AmountPaid: decimal.Zero,
		TaxAmount:  decimal.Zero,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, reference string) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, reference)
}

func (s *Service) List(ctx context.Context) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx)
}
