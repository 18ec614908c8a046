package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, product_id, transaction_type, quantity, unit_price, total_price,
	batch_number, status, warehouse_id, from_warehouse_id, to_warehouse_id, recorded_by,
	transaction_by, created_at`

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var txType string
	var wh, from, to, by *string
	err := row.Scan(&t.ID, &t.ProductID, &txType, &t.Quantity, &t.UnitPrice, &t.TotalPrice,
		&t.BatchNumber, &t.Status, &wh, &from, &to, &by, &t.TransactionBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(txType)
	t.WarehouseID = deref(wh)
	t.FromWarehouseID = deref(from)
	t.ToWarehouseID = deref(to)
	t.RecordedBy = deref(by)
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Create inserta la transacción.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, string(t.Type), t.Quantity, t.UnitPrice, t.TotalPrice,
		t.BatchNumber, t.Status, nullable(t.WarehouseID), nullable(t.FromWarehouseID),
		nullable(t.ToWarehouseID), nullable(t.RecordedBy), t.TransactionBy, t.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert transaction", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// UpdateMeta cambia estado y lote.
func (r *TransactionRepo) UpdateMeta(ctx context.Context, id, status, batchNumber string) error {
	tag, err := r.q.Exec(ctx, `UPDATE transactions SET status = $2, batch_number = $3 WHERE id = $1`,
		id, status, batchNumber)
	if err != nil {
		return mapWriteError("update transaction", err)
	}
	return requireAffected(tag, "update transaction")
}

// Delete elimina el registro (no revierte stock).
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete transaction", err)
	}
	return requireAffected(tag, "delete transaction")
}

// List lista transacciones filtradas, más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE ($1 = '' OR transaction_type = $1) AND ($2 = '' OR product_id::text = $2)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(f.Type), f.ProductID, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListRecent las n transacciones más recientes.
func (r *TransactionRepo) ListRecent(ctx context.Context, n int) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, `SELECT `+transactionColumns+`
		FROM transactions ORDER BY created_at DESC, id LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListIDsInRange ids con created_at en [from, to]; un extremo nil no limita.
func (r *TransactionRepo) ListIDsInRange(ctx context.Context, from, to *time.Time) ([]string, error) {
	query := `
		SELECT id::text FROM transactions
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list transaction ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan transaction ids: %w", err)
	}
	return ids, nil
}
