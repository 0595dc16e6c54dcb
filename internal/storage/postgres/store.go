// Package postgres is the hosted-backend store, for deployments that keep
// the ledger in a managed relational database instead of a local file.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/models"
)

// Store wraps a postgres database handle.
type Store struct {
	db *sql.DB
}

// Open connects using a lib/pq DSN and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing handle without migrating. Used by tests.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema when missing.
func (s *Store) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id           BIGSERIAL PRIMARY KEY,
			tenant       TEXT NOT NULL,
			collection   TEXT NOT NULL,
			entry_date   TEXT NOT NULL DEFAULT '',
			party_name   TEXT NOT NULL DEFAULT '',
			account_name TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			qty          NUMERIC NOT NULL DEFAULT 0,
			reference_no TEXT NOT NULL DEFAULT '',
			debit        NUMERIC NOT NULL DEFAULT 0,
			credit       NUMERIC NOT NULL DEFAULT 0,
			balance      NUMERIC NOT NULL DEFAULT 0,
			currency     TEXT NOT NULL DEFAULT 'USD',
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_tenant_col ON ledger_entries(tenant, collection)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id            BIGSERIAL PRIMARY KEY,
			tenant        TEXT NOT NULL,
			invoice_no    TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			invoice_date  TEXT NOT NULL DEFAULT '',
			items         JSONB NOT NULL DEFAULT '[]',
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_tenant ON invoices(tenant)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash BYTEA NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

const entryColumns = `id, entry_date, party_name, account_name, description,
	qty, reference_no, debit, credit, balance, currency, created_at, updated_at`

func scanEntry(row interface{ Scan(...any) error }) (models.LedgerEntry, error) {
	var e models.LedgerEntry
	var qty, debit, credit, balance string
	err := row.Scan(&e.ID, &e.Date, &e.PartyName, &e.AccountName, &e.Description,
		&qty, &e.ReferenceNo, &debit, &credit, &balance, &e.Currency, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if e.Quantity, err = decimal.NewFromString(qty); err != nil {
		return models.LedgerEntry{}, err
	}
	if e.Debit, err = decimal.NewFromString(debit); err != nil {
		return models.LedgerEntry{}, err
	}
	if e.Credit, err = decimal.NewFromString(credit); err != nil {
		return models.LedgerEntry{}, err
	}
	if e.Balance, err = decimal.NewFromString(balance); err != nil {
		return models.LedgerEntry{}, err
	}
	return e, nil
}

// List returns every entry of a collection in id order.
func (s *Store) List(ctx context.Context, tenant string, col models.Collection) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+`
		FROM ledger_entries WHERE tenant = $1 AND collection = $2 ORDER BY id`, tenant, string(col))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry or models.ErrNotFound.
func (s *Store) Get(ctx context.Context, tenant string, col models.Collection, id int64) (models.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+`
		FROM ledger_entries WHERE tenant = $1 AND collection = $2 AND id = $3`, tenant, string(col), id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	return e, err
}

// Put inserts (id 0) or fully replaces an entry.
func (s *Store) Put(ctx context.Context, tenant string, col models.Collection, e models.LedgerEntry) (models.LedgerEntry, error) {
	if e.ID == 0 {
		err := s.db.QueryRowContext(ctx, `INSERT INTO ledger_entries
			(tenant, collection, entry_date, party_name, account_name, description,
			 qty, reference_no, debit, credit, balance, currency, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
			RETURNING id`,
			tenant, string(col), e.Date, e.PartyName, e.AccountName, e.Description,
			e.Quantity.String(), e.ReferenceNo, e.Debit.String(), e.Credit.String(),
			e.Balance.String(), string(e.Currency), e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
		if err != nil {
			return models.LedgerEntry{}, err
		}
		return e, nil
	}

	res, err := s.db.ExecContext(ctx, `UPDATE ledger_entries SET
		entry_date = $1, party_name = $2, account_name = $3, description = $4,
		qty = $5, reference_no = $6, debit = $7, credit = $8, balance = $9,
		currency = $10, created_at = $11, updated_at = $12
		WHERE tenant = $13 AND collection = $14 AND id = $15`,
		e.Date, e.PartyName, e.AccountName, e.Description,
		e.Quantity.String(), e.ReferenceNo, e.Debit.String(), e.Credit.String(),
		e.Balance.String(), string(e.Currency), e.CreatedAt, e.UpdatedAt,
		tenant, string(col), e.ID)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.LedgerEntry{}, err
	} else if n == 0 {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	return e, nil
}

// Delete removes an entry by id.
func (s *Store) Delete(ctx context.Context, tenant string, col models.Collection, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ledger_entries
		WHERE tenant = $1 AND collection = $2 AND id = $3`, tenant, string(col), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SaveInvoice stores a new invoice with its line items as a JSONB document.
func (s *Store) SaveInvoice(ctx context.Context, tenant string, inv models.Invoice) (models.Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return models.Invoice{}, err
	}
	err = s.db.QueryRowContext(ctx, `INSERT INTO invoices
		(tenant, invoice_no, customer_name, invoice_date, items, created_at)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		tenant, inv.InvoiceNo, inv.CustomerName, inv.Date, items, inv.CreatedAt).Scan(&inv.ID)
	if err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

func scanInvoice(row interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	var items []byte
	if err := row.Scan(&inv.ID, &inv.InvoiceNo, &inv.CustomerName, &inv.Date, &items, &inv.CreatedAt); err != nil {
		return models.Invoice{}, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return models.Invoice{}, err
	}
	return inv, nil
}

// GetInvoice returns one invoice or models.ErrNotFound.
func (s *Store) GetInvoice(ctx context.Context, tenant string, id int64) (models.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, invoice_no, customer_name, invoice_date, items, created_at
		FROM invoices WHERE tenant = $1 AND id = $2`, tenant, id)
	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return models.Invoice{}, models.ErrNotFound
	}
	return inv, err
}

// ListInvoices returns the tenant's invoices in id order.
func (s *Store) ListInvoices(ctx context.Context, tenant string) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, invoice_no, customer_name, invoice_date, items, created_at
		FROM invoices WHERE tenant = $1 ORDER BY id`, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// CreateUser stores a user, mapping the unique-email violation to
// models.ErrDuplicateUser.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	err := s.db.QueryRowContext(ctx, `INSERT INTO users (email, password_hash, created_at)
		VALUES ($1,$2,$3) RETURNING id`, user.Email, user.PasswordHash, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return models.User{}, models.ErrDuplicateUser
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUser returns the user for an email or models.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at
		FROM users WHERE email = $1`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

var (
	_ interfaces.EntryStore   = (*Store)(nil)
	_ interfaces.InvoiceStore = (*Store)(nil)
	_ interfaces.UserStore    = (*Store)(nil)
)
