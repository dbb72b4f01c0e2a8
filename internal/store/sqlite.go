// Package store persists finalized assessments to SQLite so past
// decisions for an invoice remain queryable.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/crediflow/invoice-risk/internal/risk"
)

// ErrNotFound is returned when no assessment matches the lookup.
var ErrNotFound = errors.New("assessment not found")

// SQLiteStore keeps one row per finalized assessment. Assessments are
// immutable, so the store only ever inserts and reads.
type SQLiteStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id              TEXT PRIMARY KEY,
	invoice_id      TEXT NOT NULL,
	overall_score   INTEGER NOT NULL,
	risk_level      TEXT NOT NULL,
	confidence      REAL NOT NULL,
	recommendation  TEXT NOT NULL,
	factors         TEXT NOT NULL DEFAULT '[]',
	narrative       TEXT NOT NULL DEFAULT '',
	suggested_terms TEXT NOT NULL DEFAULT '{}',
	ledger_ref      TEXT NOT NULL DEFAULT '',
	created_at      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assessments_invoice ON assessments (invoice_id, created_at);
`

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "create schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts a finalized assessment.
func (s *SQLiteStore) Save(ctx context.Context, a risk.RiskAssessment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessments
		(id, invoice_id, overall_score, risk_level, confidence, recommendation, factors, narrative, suggested_terms, ledger_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.InvoiceID,
		a.OverallScore,
		string(a.RiskLevel),
		a.Confidence,
		a.Recommendation,
		marshalJSON(a.Factors),
		a.Narrative,
		marshalJSON(a.SuggestedTerms),
		a.LedgerRef,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return eris.Wrap(err, "insert assessment")
	}
	return nil
}

// Get returns one assessment by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (risk.RiskAssessment, error) {
	row := s.db.QueryRowxContext(ctx, `SELECT id, invoice_id, overall_score, risk_level, confidence,
		recommendation, factors, narrative, suggested_terms, ledger_ref, created_at
		FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return risk.RiskAssessment{}, ErrNotFound
	}
	if err != nil {
		return risk.RiskAssessment{}, eris.Wrap(err, "get assessment")
	}
	return a, nil
}

// ListByInvoice returns every assessment for an invoice, newest first.
func (s *SQLiteStore) ListByInvoice(ctx context.Context, invoiceID string) ([]risk.RiskAssessment, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT id, invoice_id, overall_score, risk_level, confidence,
		recommendation, factors, narrative, suggested_terms, ledger_ref, created_at
		FROM assessments WHERE invoice_id = ? ORDER BY created_at DESC`, invoiceID)
	if err != nil {
		return nil, eris.Wrap(err, "list assessments")
	}
	defer rows.Close()

	var out []risk.RiskAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, eris.Wrap(err, "scan assessment")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(r rowScanner) (risk.RiskAssessment, error) {
	var (
		a         risk.RiskAssessment
		level     string
		factors   string
		terms     string
		createdAt string
	)
	if err := r.Scan(&a.ID, &a.InvoiceID, &a.OverallScore, &level, &a.Confidence,
		&a.Recommendation, &factors, &a.Narrative, &terms, &a.LedgerRef, &createdAt); err != nil {
		return risk.RiskAssessment{}, err
	}
	a.RiskLevel = risk.RiskLevel(level)
	_ = json.Unmarshal([]byte(factors), &a.Factors)
	_ = json.Unmarshal([]byte(terms), &a.SuggestedTerms)
	a.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return a, nil
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
