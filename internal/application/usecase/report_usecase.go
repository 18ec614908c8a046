package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReportUseCase registra reportes y enlaza el inventario o las transacciones que cubren.
// La generación del archivo (CSV/PDF/Excel) es externa.
type ReportUseCase struct {
	txRunner inventory.TxRunner
	repo     repository.ReportRepository
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(txRunner inventory.TxRunner, repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{txRunner: txRunner, repo: repo, now: time.Now}
}

// Create guarda el reporte. Sin ids explícitos toma la foto según el tipo:
// Stock Report / Inventory Audit enlazan todas las filas de inventario;
// Sales Report / Profit & Loss enlazan las transacciones del rango.
func (uc *ReportUseCase) Create(ctx context.Context, userID string, in dto.CreateReportRequest) (*dto.ReportResponse, error) {
	report := &entity.Report{
		ID:             uuid.New().String(),
		Title:          in.Title,
		Type:           entity.ReportType(in.Type),
		Format:         entity.ReportFormat(in.Format),
		UserID:         userID,
		GeneratedAt:    uc.now().UTC(),
		InventoryIDs:   dedupe(in.InventoryIDs),
		TransactionIDs: dedupe(in.TransactionIDs),
	}
	if !report.Type.Valid() {
		return nil, domain.NewValidationError("report_type", "tipo desconocido")
	}
	if !report.Format.Valid() {
		return nil, domain.NewValidationError("format", "formato desconocido")
	}
	if in.RangeStart != "" {
		d, err := parseDate("data_range_start", in.RangeStart)
		if err != nil {
			return nil, err
		}
		report.RangeStart = d
	}
	if in.RangeEnd != "" {
		d, err := parseDate("data_range_end", in.RangeEnd)
		if err != nil {
			return nil, err
		}
		report.RangeEnd = d
	}
	if report.RangeStart != nil && report.RangeEnd != nil && report.RangeEnd.Before(*report.RangeStart) {
		return nil, domain.NewValidationError("data_range_end", "no puede ser anterior a data_range_start")
	}

	explicit := len(report.InventoryIDs) > 0 || len(report.TransactionIDs) > 0
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		if !explicit {
			if err := uc.snapshot(ctx, repos, report); err != nil {
				return err
			}
		}
		if err := repos.Reports.Create(ctx, report); err != nil {
			return fmt.Errorf("guardar reporte: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toReportResponse(report)
	return &out, nil
}

func (uc *ReportUseCase) snapshot(ctx context.Context, repos inventory.TxRepos, report *entity.Report) error {
	switch {
	case report.Type.SnapshotsInventory():
		ids, err := repos.Inventory.ListIDs(ctx)
		if err != nil {
			return fmt.Errorf("foto de inventario: %w", err)
		}
		report.InventoryIDs = ids
	case report.Type.SnapshotsTransactions():
		var to *time.Time
		if report.RangeEnd != nil {
			end := report.RangeEnd.Add(24*time.Hour - time.Nanosecond)
			to = &end
		}
		ids, err := repos.Transactions.ListIDsInRange(ctx, report.RangeStart, to)
		if err != nil {
			return fmt.Errorf("foto de transacciones: %w", err)
		}
		report.TransactionIDs = ids
	}
	return nil
}

// GetByID obtiene un reporte con sus enlaces.
func (uc *ReportUseCase) GetByID(ctx context.Context, id string) (*dto.ReportResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := toReportResponse(r)
	return &out, nil
}

// List lista reportes, más recientes primero.
func (uc *ReportUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ReportListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReportResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toReportResponse(r))
	}
	return &dto.ReportListResponse{
		Items: items,
		Page:  page.Response(),
	}, nil
}

func toReportResponse(r *entity.Report) dto.ReportResponse {
	out := dto.ReportResponse{
		ID:             r.ID,
		Title:          r.DisplayTitle(),
		Type:           string(r.Type),
		Format:         string(r.Format),
		UserID:         r.UserID,
		GeneratedAt:    r.GeneratedAt,
		InventoryIDs:   r.InventoryIDs,
		TransactionIDs: r.TransactionIDs,
	}
	if out.InventoryIDs == nil {
		out.InventoryIDs = []string{}
	}
	if out.TransactionIDs == nil {
		out.TransactionIDs = []string{}
	}
	if r.RangeStart != nil {
		out.RangeStart = r.RangeStart.Format(dateLayout)
	}
	if r.RangeEnd != nil {
		out.RangeEnd = r.RangeEnd.Format(dateLayout)
	}
	return out
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
