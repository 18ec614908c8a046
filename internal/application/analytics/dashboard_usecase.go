// Package analytics contiene el agregador del dashboard: totales de inventario,
// ventas y compras, y la utilidad/pérdida recalculada desde el historial.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	dashboardRecentTransactions = 10
	dashboardRecentReports      = 6
)

// DashboardUseCase genera las estadísticas del dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only) más los listados
// recientes de transacciones y reportes. Nada se cachea: cada llamada recalcula.
type DashboardUseCase struct {
	analyticsRepo   repository.AnalyticsRepository
	transactionRepo repository.TransactionRepository
	reportRepo      repository.ReportRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	transactionRepo repository.TransactionRepository,
	reportRepo repository.ReportRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo:   analyticsRepo,
		transactionRepo: transactionRepo,
		reportRepo:      reportRepo,
	}
}

// GetStats construye el DashboardStatsDTO.
//
// Cinco consultas en paralelo:
//  1. AvailableInventory  → Σ Product.Stock
//  2. SalesTotals         → Σ SalesRecord
//  3. ProfitEntries       → replay de Sale/Damaged/Expired
//  4. ListRecent(tx, 10)  → RecentTransactions
//  5. ListRecent(rep, 6)  → RecentReports
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	type availableResult struct {
		total int64
		err   error
	}
	type totalsResult struct {
		totals repository.SalesTotals
		err    error
	}
	type profitResult struct {
		entries []inventory.ProfitEntry
		err     error
	}
	type txResult struct {
		list []*entity.Transaction
		err  error
	}
	type reportResult struct {
		list []*entity.Report
		err  error
	}

	availableCh := make(chan availableResult, 1)
	totalsCh := make(chan totalsResult, 1)
	profitCh := make(chan profitResult, 1)
	txCh := make(chan txResult, 1)
	reportCh := make(chan reportResult, 1)

	go func() {
		total, err := uc.analyticsRepo.AvailableInventory(ctx)
		availableCh <- availableResult{total, err}
	}()
	go func() {
		totals, err := uc.analyticsRepo.SalesTotals(ctx)
		totalsCh <- totalsResult{totals, err}
	}()
	go func() {
		entries, err := uc.analyticsRepo.ProfitEntries(ctx)
		profitCh <- profitResult{entries, err}
	}()
	go func() {
		list, err := uc.transactionRepo.ListRecent(ctx, dashboardRecentTransactions)
		txCh <- txResult{list, err}
	}()
	go func() {
		list, err := uc.reportRepo.ListRecent(ctx, dashboardRecentReports)
		reportCh <- reportResult{list, err}
	}()

	available := <-availableCh
	totals := <-totalsCh
	profit := <-profitCh
	recentTx := <-txCh
	recentReports := <-reportCh

	if available.err != nil {
		return nil, fmt.Errorf("dashboard: inventario disponible: %w", available.err)
	}
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de ventas: %w", totals.err)
	}
	if profit.err != nil {
		return nil, fmt.Errorf("dashboard: utilidad: %w", profit.err)
	}
	if recentTx.err != nil {
		return nil, fmt.Errorf("dashboard: transacciones recientes: %w", recentTx.err)
	}
	if recentReports.err != nil {
		return nil, fmt.Errorf("dashboard: reportes recientes: %w", recentReports.err)
	}

	// ── Utilidad / pérdida ─────────────────────────────────────────────────────
	p, l := inventory.SplitProfitLoss(inventory.ReplayProfit(profit.entries))

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DashboardStatsDTO{
		AvailableInventory:      available.total,
		TotalSaleAmount:         totals.totals.TotalSaleAmount.Round(2),
		TotalPurchaseAmount:     totals.totals.TotalPurchaseAmount.Round(2),
		TotalInventoryPurchased: totals.totals.TotalQuantityPurchased,
		TotalInventorySold:      totals.totals.TotalQuantitySold,
		Profit:                  p,
		Loss:                    l,
		RecentTransactions:      make([]dto.TransactionResponse, 0, len(recentTx.list)),
		RecentReports:           make([]dto.RecentReportDTO, 0, len(recentReports.list)),
	}
	for _, tx := range recentTx.list {
		out.RecentTransactions = append(out.RecentTransactions, usecase.TransactionToResponse(tx))
	}
	for _, r := range recentReports.list {
		out.RecentReports = append(out.RecentReports, dto.RecentReportDTO{
			ID:          r.ID,
			Title:       r.DisplayTitle(),
			GeneratedAt: r.GeneratedAt,
		})
	}
	return out, nil
}

