package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dcastro/payable/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInvoiceColumns = `
	i.id, i.reference, i.type, i.amount, i.amount_paid, i.tax_amount, i.created_at, i.updated_at
`

// scanInvoice reads an invoice row from the scanner. Payment history is not
// included; loadPayments fills it in.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var typeStr string

	if err := s.Scan(
		&inv.ID, &inv.Reference, &typeStr, &inv.Amount, &inv.AmountPaid, &inv.TaxAmount,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Type = invoice.Type(typeStr)

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (reference, type, amount, amount_paid, tax_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.Reference,
		inv.Type,
		inv.Amount,
		inv.AmountPaid,
		inv.TaxAmount,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, reference string) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE i.reference = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, reference))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	if err := s.loadPayments(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// loadPayments fills in the invoice's payment history in application order.
func (s *Store) loadPayments(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		SELECT p.id, p.amount, p.created_at
		FROM payments p
		WHERE p.invoice_id = $1
		ORDER BY p.created_at, p.id
	`

	rows, err := s.db.QueryContext(ctx, query, inv.ID)
	if err != nil {
		return fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p invoice.Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.CreatedAt); err != nil {
			return fmt.Errorf("scanning payment: %w", err)
		}

		p.Reference = inv.Reference
		inv.Payments = append(inv.Payments, p)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating payments: %w", err)
	}

	return nil
}

// SaveInvoice writes the mutated invoice back: the accumulated amounts on the
// invoice row plus any payments not yet persisted. Payment rows are
// append-only; ON CONFLICT DO NOTHING keeps the write idempotent for
// payments that were already stored.
func (s *Store) SaveInvoice(ctx context.Context, inv *invoice.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE invoices
		SET amount_paid = $1, tax_amount = $2, updated_at = NOW()
		WHERE id = $3
	`

	if _, err := tx.ExecContext(ctx, updateQuery, inv.AmountPaid, inv.TaxAmount, inv.ID); err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	insertQuery := `
		INSERT INTO payments (id, invoice_id, amount, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	for _, p := range inv.Payments {
		if _, err := tx.ExecContext(ctx, insertQuery, p.ID, inv.ID, p.Amount, p.CreatedAt); err != nil {
			return fmt.Errorf("inserting payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	return nil
}

// ListInvoices returns all invoices ordered by creation time. Payment
// history is not loaded; use GetInvoice for a single invoice with payments.
func (s *Store) ListInvoices(ctx context.Context) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		ORDER BY i.created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	return invoices, nil
}
