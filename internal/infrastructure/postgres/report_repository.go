package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación de ReportRepository sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const reportColumns = `id, title, report_type, format, user_id, data_range_start, data_range_end, generated_at`

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rep entity.Report
	var rt, format string
	var userID *string
	err := row.Scan(&rep.ID, &rep.Title, &rt, &format, &userID, &rep.RangeStart, &rep.RangeEnd, &rep.GeneratedAt)
	if err != nil {
		return nil, err
	}
	rep.Type = entity.ReportType(rt)
	rep.Format = entity.ReportFormat(format)
	rep.UserID = deref(userID)
	return &rep, nil
}

// Create inserta el reporte y sus enlaces. Llamar dentro de una tx para que sea atómico.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.Report) error {
	query := `INSERT INTO reports (` + reportColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, rep.ID, rep.Title, string(rep.Type), string(rep.Format),
		nullable(rep.UserID), rep.RangeStart, rep.RangeEnd, rep.GeneratedAt)
	if err != nil {
		return mapWriteError("insert report", err)
	}
	if len(rep.InventoryIDs) > 0 {
		_, err := r.q.Exec(ctx, `
			INSERT INTO report_inventory (report_id, inventory_id)
			SELECT $1, unnest($2::text[])::uuid
			ON CONFLICT DO NOTHING`, rep.ID, rep.InventoryIDs)
		if err != nil {
			return mapWriteError("link report inventory", err)
		}
	}
	if len(rep.TransactionIDs) > 0 {
		_, err := r.q.Exec(ctx, `
			INSERT INTO report_transactions (report_id, transaction_id)
			SELECT $1, unnest($2::text[])::uuid
			ON CONFLICT DO NOTHING`, rep.ID, rep.TransactionIDs)
		if err != nil {
			return mapWriteError("link report transactions", err)
		}
	}
	return nil
}

// GetByID obtiene el reporte con sus enlaces.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	rep, err := scanReport(r.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	if err := r.loadLinks(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *ReportRepo) loadLinks(ctx context.Context, rep *entity.Report) error {
	rows, err := r.q.Query(ctx, `SELECT inventory_id::text FROM report_inventory WHERE report_id = $1 ORDER BY inventory_id`, rep.ID)
	if err != nil {
		return fmt.Errorf("get report inventory: %w", err)
	}
	if rep.InventoryIDs, err = pgx.CollectRows(rows, pgx.RowTo[string]); err != nil {
		return fmt.Errorf("scan report inventory: %w", err)
	}
	rows, err = r.q.Query(ctx, `SELECT transaction_id::text FROM report_transactions WHERE report_id = $1 ORDER BY transaction_id`, rep.ID)
	if err != nil {
		return fmt.Errorf("get report transactions: %w", err)
	}
	if rep.TransactionIDs, err = pgx.CollectRows(rows, pgx.RowTo[string]); err != nil {
		return fmt.Errorf("scan report transactions: %w", err)
	}
	return nil
}

// List lista reportes (sin enlaces), más recientes primero.
func (r *ReportRepo) List(ctx context.Context, limit, offset int) ([]*entity.Report, error) {
	rows, err := r.q.Query(ctx, `SELECT `+reportColumns+`
		FROM reports ORDER BY generated_at DESC, id LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return collectReports(rows)
}

// ListRecent los n reportes más recientes.
func (r *ReportRepo) ListRecent(ctx context.Context, n int) ([]*entity.Report, error) {
	rows, err := r.q.Query(ctx, `SELECT `+reportColumns+`
		FROM reports ORDER BY generated_at DESC, id LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("list recent reports: %w", err)
	}
	return collectReports(rows)
}

func collectReports(rows pgx.Rows) ([]*entity.Report, error) {
	defer rows.Close()
	var list []*entity.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}
