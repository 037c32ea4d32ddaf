package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, product_id, product_tracking_number, from_user_id, to_user_id,
	quantity, status, total_amount, shipment_details, timeline, payment_status, created_at, updated_at`

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL
// (usable con pool o tx). shipment_details y timeline viven como JSONB.
// No hay Delete: el ledger es append-only.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste una transacción nueva del ledger.
func (r *TransactionRepo) Create(t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.ProductID, t.ProductTrackingNumber, t.FromUserID, t.ToUserID,
		t.Quantity, string(t.Status), t.TotalAmount, t.ShipmentDetails, t.Timeline,
		t.PaymentStatus, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) scanOne(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var status string
	err := row.Scan(
		&t.ID, &t.ProductID, &t.ProductTrackingNumber, &t.FromUserID, &t.ToUserID,
		&t.Quantity, &status, &t.TotalAmount, &t.ShipmentDetails, &t.Timeline,
		&t.PaymentStatus, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Status = entity.TransactionStatus(status)
	return &t, nil
}

// GetByID obtiene una transacción por id.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// Update reescribe los campos mutables (status, shipment_details, timeline).
// Los datos de creación (partes, cantidad, monto) nunca cambian.
func (r *TransactionRepo) Update(t *entity.Transaction) error {
	query := `
		UPDATE transactions SET
			status = $2, shipment_details = $3, timeline = $4, payment_status = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		t.ID, string(t.Status), t.ShipmentDetails, t.Timeline, t.PaymentStatus, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista transacciones, más recientes primero.
func (r *TransactionRepo) List(limit, offset int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListByProduct lista las transacciones de un producto, más recientes primero.
func (r *TransactionRepo) ListByProduct(productID string) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE product_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by product: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *TransactionRepo) collect(rows pgx.Rows) ([]*entity.Transaction, error) {
	var list []*entity.Transaction
	for rows.Next() {
		t, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return list, nil
}
