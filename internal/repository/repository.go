package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/spendsense/spendsense/internal/models"
)

// ErrUserNotFound reports an unknown user or a user with no linked accounts.
var ErrUserNotFound = errors.New("user not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LoadWindow returns the user's accounts and the transactions inside the
// lookback window, ordered by date ascending.
func (r *Repository) LoadWindow(ctx context.Context, userID string, windowDays int) ([]models.Account, []models.Transaction, error) {
	accounts, err := r.loadAccounts(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(accounts) == 0 {
		return nil, nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}

	cutoff := time.Now().AddDate(0, 0, -windowDays)
	query := `
		SELECT t.id, t.account_id, t.date, t.amount,
		       COALESCE(t.category, ''), COALESCE(t.category_detailed, ''),
		       COALESCE(t.merchant_name, ''), COALESCE(t.merchant_entity_id, '')
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.user_id = $1 AND t.date >= $2
		ORDER BY t.date`
	rows, err := r.db.QueryContext(ctx, query, userID, cutoff)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Date, &t.Amount,
			&t.Category, &t.CategoryDetailed, &t.MerchantName, &t.MerchantEntityID); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return accounts, transactions, nil
}

func (r *Repository) loadAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	query := `
		SELECT id, user_id, type, subtype, COALESCE(name, ''),
		       balance, COALESCE("limit", 0), COALESCE(apr, 0),
		       is_overdue, COALESCE(last_payment_amount, 0), COALESCE(min_payment, 0)
		FROM accounts
		WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Subtype, &a.Name,
			&a.Balance, &a.Limit, &a.APR, &a.IsOverdue, &a.LastPaymentAmount, &a.MinPayment); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return accounts, nil
}

// AppendPersonaAssignment inserts one row into the append-only persona log.
// Rows are never updated or deleted.
func (r *Repository) AppendPersonaAssignment(ctx context.Context, a *models.PersonaAssignment) error {
	query := `
		INSERT INTO persona_assignments (id, user_id, "window", persona_type, confidence, signals, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Window, a.PersonaType, a.Confidence, []byte(a.Signals), a.AssignedAt)
	if err != nil {
		return fmt.Errorf("failed to append persona assignment: %w", err)
	}
	return nil
}

// ListPersonaAssignments returns the user's past assignments, newest first.
func (r *Repository) ListPersonaAssignments(ctx context.Context, userID string, limit int) ([]models.PersonaAssignment, error) {
	query := `
		SELECT id, user_id, "window", persona_type, confidence, signals, assigned_at
		FROM persona_assignments
		WHERE user_id = $1
		ORDER BY assigned_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list persona assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.PersonaAssignment
	for rows.Next() {
		var a models.PersonaAssignment
		var raw []byte
		if err := rows.Scan(&a.ID, &a.UserID, &a.Window, &a.PersonaType, &a.Confidence, &raw, &a.AssignedAt); err != nil {
			return nil, fmt.Errorf("failed to scan persona assignment: %w", err)
		}
		a.Signals = raw
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read persona assignments: %w", err)
	}
	return assignments, nil
}

// GetUserConsent returns the user's tri-state consent flag; nil means the
// user never answered.
func (r *Repository) GetUserConsent(ctx context.Context, userID string) (*bool, error) {
	var consent sql.NullBool
	err := r.db.QueryRowContext(ctx,
		`SELECT consent FROM users WHERE id = $1`, userID).Scan(&consent)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", userID, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load consent: %w", err)
	}
	if !consent.Valid {
		return nil, nil
	}
	return &consent.Bool, nil
}

// ListUserIDs returns every user id, for batch reclassification.
func (r *Repository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return ids, nil
}
