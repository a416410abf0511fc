package invoice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dcastro/payable/internal/invoice"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func paid(amount string) invoice.Payment {
	return invoice.Payment{ID: uuid.New(), Amount: dec(amount)}
}

// newInvoice builds a stored invoice with AmountPaid/TaxAmount consistent
// with its payment history.
func newInvoice(typ invoice.Type, amount string, payments ...invoice.Payment) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:         uuid.New(),
		Reference:  "INV-001",
		Type:       typ,
		Amount:     dec(amount),
		AmountPaid: decimal.Zero,
		TaxAmount:  decimal.Zero,
	}

	for _, p := range payments {
		inv.AmountPaid = inv.AmountPaid.Add(p.Amount)
		inv.Payments = append(inv.Payments, p)
	}

	return inv
}

func TestService_ApplyPayment(t *testing.T) {
	type testCase struct {
		name         string
		inv          *invoice.Invoice
		amount       string
		expectSave   bool
		wantOutcome  invoice.Outcome
		wantMessage  string
		wantErr      error
		wantPaid     string
		wantTax      string
		wantPayments int
	}

	tests := []testCase{
		{
			name:         "ZeroAmountNoPayments",
			inv:          newInvoice(invoice.TypeStandard, "0"),
			amount:       "10",
			wantOutcome:  invoice.OutcomeNoPaymentNeeded,
			wantMessage:  "no payment needed",
			wantPaid:     "0",
			wantPayments: 0,
		},
		{
			name:    "ZeroAmountWithPayments",
			inv:     newInvoice(invoice.TypeStandard, "0", paid("10")),
			amount:  "10",
			wantErr: invoice.ErrInvalidState,
		},
		{
			name:         "AlreadyFullyPaid",
			inv:          newInvoice(invoice.TypeStandard, "100", paid("100")),
			amount:       "10",
			wantOutcome:  invoice.OutcomeAlreadyPaid,
			wantMessage:  "invoice was already fully paid",
			wantPaid:     "100",
			wantPayments: 1,
		},
		{
			name:         "ExceedsRemainingBalance",
			inv:          newInvoice(invoice.TypeStandard, "100", paid("40")),
			amount:       "70",
			wantOutcome:  invoice.OutcomeExceedsRemaining,
			wantMessage:  "the payment is greater than the partial amount remaining",
			wantPaid:     "40",
			wantPayments: 1,
		},
		{
			name:         "SubsequentPartialPayment",
			inv:          newInvoice(invoice.TypeStandard, "100", paid("40")),
			amount:       "30",
			expectSave:   true,
			wantOutcome:  invoice.OutcomePartiallyPaid,
			wantMessage:  "another partial payment received, still not fully paid",
			wantPaid:     "70",
			wantPayments: 2,
		},
		{
			name:         "FinalPartialPayment",
			inv:          newInvoice(invoice.TypeStandard, "100", paid("40")),
			amount:       "60",
			expectSave:   true,
			wantOutcome:  invoice.OutcomeFullyPaid,
			wantMessage:  "final partial payment received, invoice is now fully paid",
			wantPaid:     "100",
			wantPayments: 2,
		},
		{
			name:         "FirstPaymentExceedsInvoiceAmount",
			inv:          newInvoice(invoice.TypeStandard, "100"),
			amount:       "101",
			wantOutcome:  invoice.OutcomeExceedsAmount,
			wantMessage:  "the payment is greater than the invoice amount",
			wantPaid:     "0",
			wantPayments: 0,
		},
		{
			name:         "FirstPartialPayment",
			inv:          newInvoice(invoice.TypeStandard, "100"),
			amount:       "40",
			expectSave:   true,
			wantOutcome:  invoice.OutcomePartiallyPaid,
			wantMessage:  "invoice is now partially paid",
			wantPaid:     "40",
			wantPayments: 1,
		},
		{
			name:         "FirstFullPayment",
			inv:          newInvoice(invoice.TypeStandard, "100"),
			amount:       "100",
			expectSave:   true,
			wantOutcome:  invoice.OutcomeFullyPaid,
			wantMessage:  "invoice is now fully paid",
			wantPaid:     "100",
			wantPayments: 1,
		},
		{
			name:         "CommercialPaymentAccruesTax",
			inv:          newInvoice(invoice.TypeCommercial, "100"),
			amount:       "50",
			expectSave:   true,
			wantOutcome:  invoice.OutcomePartiallyPaid,
			wantMessage:  "invoice is now partially paid",
			wantPaid:     "50",
			wantTax:      "7",
			wantPayments: 1,
		},
		{
			name:    "UnsupportedInvoiceType",
			inv:     newInvoice(invoice.Type("internal"), "100"),
			amount:  "40",
			wantErr: invoice.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			repo.EXPECT().
				GetInvoice(gomock.Any(), tt.inv.Reference).
				Return(tt.inv, nil)

			if tt.expectSave {
				repo.EXPECT().
					SaveInvoice(gomock.Any(), tt.inv).
					Return(nil)
			}

			svc := invoice.NewService(repo)
			got, err := svc.ApplyPayment(context.Background(), invoice.PaymentParams{
				Reference: tt.inv.Reference,
				Amount:    dec(tt.amount),
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantOutcome, got.Outcome)
			assert.Equal(t, tt.wantMessage, got.Message)

			assert.True(t, tt.inv.AmountPaid.Equal(dec(tt.wantPaid)),
				"amount paid: want %s, got %s", tt.wantPaid, tt.inv.AmountPaid)
			assert.Len(t, tt.inv.Payments, tt.wantPayments)

			wantTax := "0"
			if tt.wantTax != "" {
				wantTax = tt.wantTax
			}

			assert.True(t, tt.inv.TaxAmount.Equal(dec(wantTax)),
				"tax amount: want %s, got %s", wantTax, tt.inv.TaxAmount)

			// amountPaid must track the payment history on every branch.
			assert.True(t, tt.inv.AmountPaid.Equal(tt.inv.TotalPaid()))
		})
	}
}

func TestService_ApplyPayment_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().
		GetInvoice(gomock.Any(), "MISSING").
		Return(nil, invoice.ErrNotFound)

	svc := invoice.NewService(repo)
	got, err := svc.ApplyPayment(context.Background(), invoice.PaymentParams{
		Reference: "MISSING",
		Amount:    dec("10"),
	})

	assert.ErrorIs(t, err, invoice.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_ApplyPayment_RejectionIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inv := newInvoice(invoice.TypeStandard, "100")

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().
		GetInvoice(gomock.Any(), inv.Reference).
		Return(inv, nil).
		Times(2)

	svc := invoice.NewService(repo)
	params := invoice.PaymentParams{Reference: inv.Reference, Amount: dec("150")}

	for i := 0; i < 2; i++ {
		got, err := svc.ApplyPayment(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, invoice.OutcomeExceedsAmount, got.Outcome)
	}

	// No state drift between the two rejections.
	assert.True(t, inv.AmountPaid.IsZero())
	assert.Empty(t, inv.Payments)
}

func TestService_ApplyPayment_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inv := newInvoice(invoice.TypeStandard, "100")

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().
		GetInvoice(gomock.Any(), inv.Reference).
		Return(inv, nil)
	repo.EXPECT().
		SaveInvoice(gomock.Any(), inv).
		Return(errors.New("db error"))

	svc := invoice.NewService(repo)
	got, err := svc.ApplyPayment(context.Background(), invoice.PaymentParams{
		Reference: inv.Reference,
		Amount:    dec("40"),
	})

	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    invoice.CreateParams
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: invoice.CreateParams{
				Reference: "INV-002",
				Type:      invoice.TypeCommercial,
				Amount:    dec("250"),
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "UnsupportedType",
			params: invoice.CreateParams{
				Reference: "INV-003",
				Type:      invoice.Type("internal"),
				Amount:    dec("250"),
			},
			wantErr: invoice.ErrUnsupportedType,
		},
		{
			name: "NegativeAmount",
			params: invoice.CreateParams{
				Reference: "INV-004",
				Type:      invoice.TypeStandard,
				Amount:    dec("-1"),
			},
			wantErr: errors.New("invoice amount must not be negative"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := invoice.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.AmountPaid.IsZero())
			assert.True(t, got.TaxAmount.IsZero())
		})
	}
}
