package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.InventoryRepository   = (*InventoryRepo)(nil)
	_ repository.TransactionRepository = (*TransactionRepo)(nil)
	_ repository.SalesRecordRepository = (*SalesRecordRepo)(nil)
	_ repository.ReportRepository      = (*ReportRepo)(nil)
	_ repository.AnalyticsRepository   = (*AnalyticsRepo)(nil)
)

// ── Inventory ────────────────────────────────────────────────────────────────

// InventoryRepo filas de inventario en memoria. El "bloqueo" es el mutex del store.
type InventoryRepo struct{ v view }

func findRow(d *state, productID, warehouseID string) (entity.Inventory, bool) {
	for _, row := range d.inventory {
		if row.ProductID == productID && row.WarehouseID == warehouseID {
			return row, true
		}
	}
	return entity.Inventory{}, false
}

func (r *InventoryRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.Inventory, error) {
	defer r.v.lock()()
	row, ok := findRow(r.v.d(), productID, warehouseID)
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *InventoryRepo) GetOrCreateForUpdate(_ context.Context, productID, warehouseID string, now time.Time) (*entity.Inventory, bool, error) {
	defer r.v.lock()()
	d := r.v.d()
	if row, ok := findRow(d, productID, warehouseID); ok {
		return &row, false, nil
	}
	if _, ok := d.products[productID]; !ok {
		return nil, false, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if _, ok := d.warehouses[warehouseID]; !ok {
		return nil, false, fmt.Errorf("warehouse %s: %w", warehouseID, domain.ErrNotFound)
	}
	row := entity.Inventory{
		ID:             uuid.New().String(),
		ProductID:      productID,
		WarehouseID:    warehouseID,
		LastStockCheck: now,
		LastUpdated:    now,
	}
	d.inventory[row.ID] = row
	return &row, true, nil
}

func (r *InventoryRepo) GetByID(_ context.Context, id string) (*entity.Inventory, error) {
	defer r.v.lock()()
	row, ok := r.v.d().inventory[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

// Save aplica el CHECK quantity >= 0 igual que la tabla.
func (r *InventoryRepo) Save(_ context.Context, row *entity.Inventory) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.inventory[row.ID]; !ok {
		return fmt.Errorf("save inventory: %w", domain.ErrNotFound)
	}
	if row.Quantity < 0 {
		return fmt.Errorf("save inventory: %w", domain.ErrNegativeStock)
	}
	d.inventory[row.ID] = *row
	return nil
}

func (r *InventoryRepo) List(_ context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	defer r.v.lock()()
	all := sortedValues(r.v.d().inventory, func(a, b entity.Inventory) bool {
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.After(b.LastUpdated)
		}
		return a.ID < b.ID
	})
	filtered := all[:0]
	for _, row := range all {
		if f.ProductID != "" && row.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && row.WarehouseID != f.WarehouseID {
			continue
		}
		filtered = append(filtered, row)
	}
	return ptrs(paginate(filtered, f.Limit, f.Offset)), nil
}

func (r *InventoryRepo) ListIDs(_ context.Context) ([]string, error) {
	defer r.v.lock()()
	ids := make([]string, 0, len(r.v.d().inventory))
	for id := range r.v.d().inventory {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *InventoryRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.inventory[id]; !ok {
		return fmt.Errorf("delete inventory: %w", domain.ErrNotFound)
	}
	deleteInventory(d, id)
	return nil
}

// deleteInventory borra la fila y sus enlaces en reportes.
func deleteInventory(d *state, id string) {
	delete(d.inventory, id)
	for rid, rep := range d.reports {
		if slices.Contains(rep.InventoryIDs, id) {
			rep.InventoryIDs = slices.DeleteFunc(slices.Clone(rep.InventoryIDs), func(s string) bool { return s == id })
			d.reports[rid] = rep
		}
	}
}

// ── Transaction ──────────────────────────────────────────────────────────────

// TransactionRepo transacciones en memoria.
type TransactionRepo struct{ v view }

func (r *TransactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.transactions[t.ID]; ok {
		return fmt.Errorf("transaction %s: %w", t.ID, domain.ErrDuplicate)
	}
	if _, ok := d.products[t.ProductID]; !ok {
		return fmt.Errorf("product %s: %w", t.ProductID, domain.ErrNotFound)
	}
	for _, wid := range []string{t.WarehouseID, t.FromWarehouseID, t.ToWarehouseID} {
		if wid == "" {
			continue
		}
		if _, ok := d.warehouses[wid]; !ok {
			return fmt.Errorf("warehouse %s: %w", wid, domain.ErrNotFound)
		}
	}
	d.transactions[t.ID] = txRecord{Transaction: *t, seq: d.nextSeq()}
	return nil
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	defer r.v.lock()()
	t, ok := r.v.d().transactions[id]
	if !ok {
		return nil, nil
	}
	return &t.Transaction, nil
}

func (r *TransactionRepo) UpdateMeta(_ context.Context, id, status, batchNumber string) error {
	defer r.v.lock()()
	d := r.v.d()
	t, ok := d.transactions[id]
	if !ok {
		return fmt.Errorf("update transaction: %w", domain.ErrNotFound)
	}
	t.Status = status
	t.BatchNumber = batchNumber
	d.transactions[id] = t
	return nil
}

func (r *TransactionRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.transactions[id]; !ok {
		return fmt.Errorf("delete transaction: %w", domain.ErrNotFound)
	}
	deleteTransaction(d, id)
	return nil
}

func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, error) {
	defer r.v.lock()()
	var out []entity.Transaction
	for _, t := range newestFirst(r.v.d()) {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		out = append(out, t.Transaction)
	}
	return ptrs(paginate(out, f.Limit, f.Offset)), nil
}

func (r *TransactionRepo) ListRecent(_ context.Context, n int) ([]*entity.Transaction, error) {
	defer r.v.lock()()
	all := newestFirst(r.v.d())
	out := make([]entity.Transaction, 0, len(all))
	for _, t := range all {
		out = append(out, t.Transaction)
	}
	return ptrs(paginate(out, n, 0)), nil
}

func (r *TransactionRepo) ListIDsInRange(_ context.Context, from, to *time.Time) ([]string, error) {
	defer r.v.lock()()
	all := newestFirst(r.v.d())
	var ids []string
	for i := len(all) - 1; i >= 0; i-- {
		t := all[i]
		if from != nil && t.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && t.CreatedAt.After(*to) {
			continue
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// newestFirst ordena por CreatedAt desc y, a igual fecha, por orden de inserción desc.
func newestFirst(d *state) []txRecord {
	return sortedValues(d.transactions, func(a, b txRecord) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.seq > b.seq
	})
}

func deleteTransaction(d *state, id string) {
	delete(d.transactions, id)
	for rid, rep := range d.reports {
		if slices.Contains(rep.TransactionIDs, id) {
			rep.TransactionIDs = slices.DeleteFunc(slices.Clone(rep.TransactionIDs), func(s string) bool { return s == id })
			d.reports[rid] = rep
		}
	}
}

// ── SalesRecord ──────────────────────────────────────────────────────────────

// SalesRecordRepo totales por producto en memoria.
type SalesRecordRepo struct{ v view }

func (r *SalesRecordRepo) Apply(_ context.Context, productID string, delta entity.SalesDelta, now time.Time) (*entity.SalesRecord, error) {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.products[productID]; !ok {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	rec, ok := d.sales[productID]
	if !ok {
		rec = entity.SalesRecord{
			ProductID:           productID,
			TotalSaleAmount:     decimal.Zero,
			TotalPurchaseAmount: decimal.Zero,
			CreatedAt:           now,
		}
	}
	rec.Apply(delta)
	rec.UpdatedAt = now
	d.sales[productID] = rec
	return &rec, nil
}

func (r *SalesRecordRepo) GetByProduct(_ context.Context, productID string) (*entity.SalesRecord, error) {
	defer r.v.lock()()
	rec, ok := r.v.d().sales[productID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *SalesRecordRepo) List(_ context.Context, limit, offset int) ([]*entity.SalesRecord, error) {
	defer r.v.lock()()
	all := sortedValues(r.v.d().sales, func(a, b entity.SalesRecord) bool {
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ProductID < b.ProductID
	})
	return ptrs(paginate(all, limit, offset)), nil
}

// ── Report ───────────────────────────────────────────────────────────────────

// ReportRepo reportes y enlaces en memoria.
type ReportRepo struct{ v view }

func (r *ReportRepo) Create(_ context.Context, rep *entity.Report) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.reports[rep.ID]; ok {
		return fmt.Errorf("report %s: %w", rep.ID, domain.ErrDuplicate)
	}
	for _, id := range rep.InventoryIDs {
		if _, ok := d.inventory[id]; !ok {
			return fmt.Errorf("inventory %s: %w", id, domain.ErrNotFound)
		}
	}
	for _, id := range rep.TransactionIDs {
		if _, ok := d.transactions[id]; !ok {
			return fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
	}
	stored := *rep
	stored.InventoryIDs = slices.Clone(rep.InventoryIDs)
	stored.TransactionIDs = slices.Clone(rep.TransactionIDs)
	d.reports[rep.ID] = reportRecord{Report: stored, seq: d.nextSeq()}
	return nil
}

func (r *ReportRepo) GetByID(_ context.Context, id string) (*entity.Report, error) {
	defer r.v.lock()()
	rep, ok := r.v.d().reports[id]
	if !ok {
		return nil, nil
	}
	out := rep.Report
	out.InventoryIDs = slices.Clone(rep.InventoryIDs)
	out.TransactionIDs = slices.Clone(rep.TransactionIDs)
	return &out, nil
}

func (r *ReportRepo) List(_ context.Context, limit, offset int) ([]*entity.Report, error) {
	defer r.v.lock()()
	return ptrs(paginate(reportsNewestFirst(r.v.d()), limit, offset)), nil
}

func (r *ReportRepo) ListRecent(_ context.Context, n int) ([]*entity.Report, error) {
	defer r.v.lock()()
	return ptrs(paginate(reportsNewestFirst(r.v.d()), n, 0)), nil
}

// reportsNewestFirst sin enlaces, igual que el listado en PostgreSQL.
func reportsNewestFirst(d *state) []entity.Report {
	all := sortedValues(d.reports, func(a, b reportRecord) bool {
		if !a.GeneratedAt.Equal(b.GeneratedAt) {
			return a.GeneratedAt.After(b.GeneratedAt)
		}
		return a.seq > b.seq
	})
	out := make([]entity.Report, 0, len(all))
	for _, rep := range all {
		r := rep.Report
		r.InventoryIDs, r.TransactionIDs = nil, nil
		out = append(out, r)
	}
	return out
}

// ── Analytics ────────────────────────────────────────────────────────────────

// AnalyticsRepo consultas del dashboard sobre el store.
type AnalyticsRepo struct{ v view }

func (r *AnalyticsRepo) AvailableInventory(_ context.Context) (int64, error) {
	defer r.v.lock()()
	var total int64
	for _, p := range r.v.d().products {
		total += p.Stock
	}
	return total, nil
}

func (r *AnalyticsRepo) SalesTotals(_ context.Context) (repository.SalesTotals, error) {
	defer r.v.lock()()
	t := repository.SalesTotals{TotalSaleAmount: decimal.Zero, TotalPurchaseAmount: decimal.Zero}
	for _, rec := range r.v.d().sales {
		t.TotalSaleAmount = t.TotalSaleAmount.Add(rec.TotalSaleAmount)
		t.TotalPurchaseAmount = t.TotalPurchaseAmount.Add(rec.TotalPurchaseAmount)
		t.TotalQuantitySold += rec.TotalQuantitySold
		t.TotalQuantityPurchased += rec.TotalQuantityPurchased
	}
	return t, nil
}

func (r *AnalyticsRepo) ProfitEntries(_ context.Context) ([]inventory.ProfitEntry, error) {
	defer r.v.lock()()
	d := r.v.d()
	all := newestFirst(d)
	var out []inventory.ProfitEntry
	for i := len(all) - 1; i >= 0; i-- {
		t := all[i]
		switch t.Type {
		case entity.TransactionSale, entity.TransactionDamaged, entity.TransactionExpired:
		default:
			continue
		}
		p, ok := d.products[t.ProductID]
		if !ok {
			continue
		}
		out = append(out, inventory.ProfitEntry{
			Type:        t.Type,
			Quantity:    t.Quantity,
			UnitPrice:   t.UnitPrice,
			BuyingPrice: p.BuyingPrice,
		})
	}
	return out, nil
}
