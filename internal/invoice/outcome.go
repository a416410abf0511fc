package invoice

// Outcome classifies what happened to an invoice when a payment was applied
// against it. Rejections are outcomes, not errors: a too-large payment is a
// valid business result with no mutation performed.
type Outcome string

const (
	OutcomeNoPaymentNeeded  Outcome = "no_payment_needed"
	OutcomeAlreadyPaid      Outcome = "already_fully_paid"
	OutcomeExceedsRemaining Outcome = "exceeds_remaining_balance"
	OutcomeExceedsAmount    Outcome = "exceeds_invoice_amount"
	OutcomePartiallyPaid    Outcome = "partially_paid"
	OutcomeFullyPaid        Outcome = "fully_paid"
)

// Accepted reports whether the payment was applied to the invoice.
func (o Outcome) Accepted() bool {
	return o == OutcomePartiallyPaid || o == OutcomeFullyPaid
}

// Canonical outcome messages. Partial/full payments carry a different message
// for the first payment than for subsequent ones, so the message is chosen
// per branch rather than derived from the Outcome value.
const (
	msgNoPaymentNeeded  = "no payment needed"
	msgAlreadyPaid      = "invoice was already fully paid"
	msgExceedsRemaining = "the payment is greater than the partial amount remaining"
	msgExceedsAmount    = "the payment is greater than the invoice amount"
	msgPartialAgain     = "another partial payment received, still not fully paid"
	msgFinalPartial     = "final partial payment received, invoice is now fully paid"
	msgFirstPartial     = "invoice is now partially paid"
	msgFirstFull        = "invoice is now fully paid"
)

// Result is what applying a payment returns to the caller: the outcome
// classification, its human-readable message, and the invoice as it stands
// after the call (mutated only when the outcome is an accepting one).
type Result struct {
	Outcome Outcome
	Message string
	Invoice *Invoice
}
