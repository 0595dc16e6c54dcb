// Package sqlite is the embedded local store: a single database file with
// no external service, suitable for one-machine deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/wigapos/ledger/internal/interfaces"
	"github.com/wigapos/ledger/internal/models"
)

// Migrations returns the schema statements. Each string is a single SQL
// statement; SQLite executes one at a time.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant       TEXT NOT NULL,
			collection   TEXT NOT NULL,
			entry_date   TEXT NOT NULL DEFAULT '',
			party_name   TEXT NOT NULL DEFAULT '',
			account_name TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			qty          TEXT NOT NULL DEFAULT '0',
			reference_no TEXT NOT NULL DEFAULT '',
			debit        TEXT NOT NULL DEFAULT '0',
			credit       TEXT NOT NULL DEFAULT '0',
			balance      TEXT NOT NULL DEFAULT '0',
			currency     TEXT NOT NULL DEFAULT 'USD',
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_tenant_col ON ledger_entries(tenant, collection)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			tenant        TEXT NOT NULL,
			invoice_no    TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			invoice_date  TEXT NOT NULL DEFAULT '',
			items         TEXT NOT NULL DEFAULT '[]',
			created_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_tenant ON invoices(tenant)`,

		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			email         TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			created_at    TEXT NOT NULL
		)`,
	}
}

// Store wraps the sqlite database handle.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file and applies migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the schema statements.
func (s *Store) Migrate() error {
	for _, stmt := range Migrations() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func scanEntry(row interface{ Scan(...any) error }) (models.LedgerEntry, error) {
	var e models.LedgerEntry
	var qty, debit, credit, balance, createdAt, updatedAt string
	err := row.Scan(&e.ID, &e.Date, &e.PartyName, &e.AccountName, &e.Description,
		&qty, &e.ReferenceNo, &debit, &credit, &balance, &e.Currency, &createdAt, &updatedAt)
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
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return e, nil
}

const entryColumns = `id, entry_date, party_name, account_name, description,
	qty, reference_no, debit, credit, balance, currency, created_at, updated_at`

// List returns every entry of a collection in id order.
func (s *Store) List(ctx context.Context, tenant string, col models.Collection) ([]models.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+`
		FROM ledger_entries WHERE tenant = ? AND collection = ? ORDER BY id`, tenant, string(col))
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
		FROM ledger_entries WHERE tenant = ? AND collection = ? AND id = ?`, tenant, string(col), id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return models.LedgerEntry{}, models.ErrNotFound
	}
	return e, err
}

// Put inserts (id 0) or fully replaces an entry.
func (s *Store) Put(ctx context.Context, tenant string, col models.Collection, e models.LedgerEntry) (models.LedgerEntry, error) {
	if e.ID == 0 {
		res, err := s.db.ExecContext(ctx, `INSERT INTO ledger_entries
			(tenant, collection, entry_date, party_name, account_name, description,
			 qty, reference_no, debit, credit, balance, currency, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tenant, string(col), e.Date, e.PartyName, e.AccountName, e.Description,
			e.Quantity.String(), e.ReferenceNo, e.Debit.String(), e.Credit.String(),
			e.Balance.String(), string(e.Currency),
			e.CreatedAt.Format(time.RFC3339Nano), e.UpdatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return models.LedgerEntry{}, err
		}
		e.ID, err = res.LastInsertId()
		return e, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE ledger_entries SET
		entry_date = ?, party_name = ?, account_name = ?, description = ?,
		qty = ?, reference_no = ?, debit = ?, credit = ?, balance = ?, currency = ?,
		created_at = ?, updated_at = ?
		WHERE tenant = ? AND collection = ? AND id = ?`,
		e.Date, e.PartyName, e.AccountName, e.Description,
		e.Quantity.String(), e.ReferenceNo, e.Debit.String(), e.Credit.String(),
		e.Balance.String(), string(e.Currency),
		e.CreatedAt.Format(time.RFC3339Nano), e.UpdatedAt.Format(time.RFC3339Nano),
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
		WHERE tenant = ? AND collection = ? AND id = ?`, tenant, string(col), id)
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

// SaveInvoice stores a new invoice; line items are kept as a JSON document,
// matching the original's flat record shape.
func (s *Store) SaveInvoice(ctx context.Context, tenant string, inv models.Invoice) (models.Invoice, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return models.Invoice{}, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO invoices
		(tenant, invoice_no, customer_name, invoice_date, items, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tenant, inv.InvoiceNo, inv.CustomerName, inv.Date, string(items),
		inv.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return models.Invoice{}, err
	}
	inv.ID, err = res.LastInsertId()
	return inv, err
}

func scanInvoice(row interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	var items, createdAt string
	if err := row.Scan(&inv.ID, &inv.InvoiceNo, &inv.CustomerName, &inv.Date, &items, &createdAt); err != nil {
		return models.Invoice{}, err
	}
	if err := json.Unmarshal([]byte(items), &inv.Items); err != nil {
		return models.Invoice{}, err
	}
	inv.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return inv, nil
}

// GetInvoice returns one invoice or models.ErrNotFound.
func (s *Store) GetInvoice(ctx context.Context, tenant string, id int64) (models.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, invoice_no, customer_name, invoice_date, items, created_at
		FROM invoices WHERE tenant = ? AND id = ?`, tenant, id)
	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return models.Invoice{}, models.ErrNotFound
	}
	return inv, err
}

// ListInvoices returns the tenant's invoices in id order.
func (s *Store) ListInvoices(ctx context.Context, tenant string) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, invoice_no, customer_name, invoice_date, items, created_at
		FROM invoices WHERE tenant = ? ORDER BY id`, tenant)
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
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)`, user.Email, user.PasswordHash, user.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateUser
		}
		return models.User{}, err
	}
	user.ID, err = res.LastInsertId()
	return user, err
}

// GetUser returns the user for an email or models.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, email string) (models.User, error) {
	var u models.User
	var createdAt string
	err := s.db.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at
		FROM users WHERE email = ?`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return u, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var (
	_ interfaces.EntryStore   = (*Store)(nil)
	_ interfaces.InvoiceStore = (*Store)(nil)
	_ interfaces.UserStore    = (*Store)(nil)
)
