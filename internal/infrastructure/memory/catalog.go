package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.SupplierRepository  = (*SupplierRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
)

// ── Category ─────────────────────────────────────────────────────────────────

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ v view }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	defer r.v.lock()()
	d := r.v.d()
	if err := uniqueCategory(d, c); err != nil {
		return err
	}
	d.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	defer r.v.lock()()
	c, ok := r.v.d().categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.categories[c.ID]; !ok {
		return fmt.Errorf("update category: %w", domain.ErrNotFound)
	}
	if err := uniqueCategory(d, c); err != nil {
		return err
	}
	d.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	defer r.v.lock()()
	all := sortedValues(r.v.d().categories, func(a, b entity.Category) bool { return a.Name < b.Name })
	return ptrs(paginate(all, limit, offset)), nil
}

// Delete borra la categoría y en cascada sus productos.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.categories[id]; !ok {
		return fmt.Errorf("delete category: %w", domain.ErrNotFound)
	}
	delete(d.categories, id)
	for pid, p := range d.products {
		if p.CategoryID == id {
			deleteProduct(d, pid)
		}
	}
	return nil
}

func uniqueCategory(d *state, c *entity.Category) error {
	for id, other := range d.categories {
		if id != c.ID && strings.EqualFold(other.Name, c.Name) {
			return fmt.Errorf("category name %q: %w", c.Name, domain.ErrDuplicate)
		}
	}
	return nil
}

// ── Supplier ─────────────────────────────────────────────────────────────────

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ v view }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	defer r.v.lock()()
	d := r.v.d()
	if err := uniqueSupplier(d, s); err != nil {
		return err
	}
	d.suppliers[s.ID] = *s
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.v.lock()()
	s, ok := r.v.d().suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.suppliers[s.ID]; !ok {
		return fmt.Errorf("update supplier: %w", domain.ErrNotFound)
	}
	if err := uniqueSupplier(d, s); err != nil {
		return err
	}
	d.suppliers[s.ID] = *s
	return nil
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	defer r.v.lock()()
	all := sortedValues(r.v.d().suppliers, func(a, b entity.Supplier) bool { return a.Name < b.Name })
	return ptrs(paginate(all, limit, offset)), nil
}

// Delete borra el proveedor y deja sin proveedor a sus productos.
func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.suppliers[id]; !ok {
		return fmt.Errorf("delete supplier: %w", domain.ErrNotFound)
	}
	delete(d.suppliers, id)
	for pid, p := range d.products {
		if p.SupplierID == id {
			p.SupplierID = ""
			d.products[pid] = p
		}
	}
	return nil
}

func uniqueSupplier(d *state, s *entity.Supplier) error {
	for id, other := range d.suppliers {
		if id == s.ID {
			continue
		}
		if other.Phone == s.Phone {
			return fmt.Errorf("supplier phone %q: %w", s.Phone, domain.ErrDuplicate)
		}
		if strings.EqualFold(other.Email, s.Email) {
			return fmt.Errorf("supplier email %q: %w", s.Email, domain.ErrDuplicate)
		}
	}
	return nil
}

// ── Warehouse ────────────────────────────────────────────────────────────────

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ v view }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	defer r.v.lock()()
	d := r.v.d()
	if err := uniqueWarehouse(d, w); err != nil {
		return err
	}
	d.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	defer r.v.lock()()
	w, ok := r.v.d().warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.warehouses[w.ID]; !ok {
		return fmt.Errorf("update warehouse: %w", domain.ErrNotFound)
	}
	if err := uniqueWarehouse(d, w); err != nil {
		return err
	}
	d.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	defer r.v.lock()()
	all := sortedValues(r.v.d().warehouses, func(a, b entity.Warehouse) bool { return a.Name < b.Name })
	return ptrs(paginate(all, limit, offset)), nil
}

// Delete borra la bodega, sus filas de inventario y recalcula el stock de los productos afectados.
// Las transacciones conservan el registro con la bodega en blanco.
func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.warehouses[id]; !ok {
		return fmt.Errorf("delete warehouse: %w", domain.ErrNotFound)
	}
	delete(d.warehouses, id)
	affected := map[string]struct{}{}
	for iid, row := range d.inventory {
		if row.WarehouseID == id {
			affected[row.ProductID] = struct{}{}
			deleteInventory(d, iid)
		}
	}
	for pid := range affected {
		recompute(d, pid)
	}
	for tid, t := range d.transactions {
		changed := false
		if t.WarehouseID == id {
			t.WarehouseID, changed = "", true
		}
		if t.FromWarehouseID == id {
			t.FromWarehouseID, changed = "", true
		}
		if t.ToWarehouseID == id {
			t.ToWarehouseID, changed = "", true
		}
		if changed {
			d.transactions[tid] = t
		}
	}
	return nil
}

func uniqueWarehouse(d *state, w *entity.Warehouse) error {
	for id, other := range d.warehouses {
		if id != w.ID && strings.EqualFold(other.Name, w.Name) {
			return fmt.Errorf("warehouse name %q: %w", w.Name, domain.ErrDuplicate)
		}
	}
	return nil
}

// ── Product ──────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.v.lock()()
	d := r.v.d()
	if err := checkProductRefs(d, p); err != nil {
		return err
	}
	p.Stock = 0
	d.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.v.lock()()
	p, ok := r.v.d().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate igual que GetByID; el mutex del Store ya serializa la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza los campos de catálogo conservando el stock almacenado.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.v.lock()()
	d := r.v.d()
	current, ok := d.products[p.ID]
	if !ok {
		return fmt.Errorf("update product: %w", domain.ErrNotFound)
	}
	if err := checkProductRefs(d, p); err != nil {
		return err
	}
	next := *p
	next.Stock = current.Stock
	next.CreatedAt = current.CreatedAt
	d.products[p.ID] = next
	p.Stock = current.Stock
	return nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.v.lock()()
	all := sortedValues(r.v.d().products, func(a, b entity.Product) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return ptrs(paginate(all, limit, offset)), nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.products[id]; !ok {
		return fmt.Errorf("delete product: %w", domain.ErrNotFound)
	}
	deleteProduct(d, id)
	return nil
}

func (r *ProductRepo) RecomputeStock(_ context.Context, productID string) (int64, error) {
	defer r.v.lock()()
	d := r.v.d()
	if _, ok := d.products[productID]; !ok {
		return 0, fmt.Errorf("recompute stock %s: %w", productID, domain.ErrNotFound)
	}
	return recompute(d, productID), nil
}

func checkProductRefs(d *state, p *entity.Product) error {
	if _, ok := d.categories[p.CategoryID]; !ok {
		return fmt.Errorf("category %s: %w", p.CategoryID, domain.ErrNotFound)
	}
	if p.SupplierID != "" {
		if _, ok := d.suppliers[p.SupplierID]; !ok {
			return fmt.Errorf("supplier %s: %w", p.SupplierID, domain.ErrNotFound)
		}
	}
	for id, other := range d.products {
		if id == p.ID {
			continue
		}
		if other.SKU == p.SKU {
			return fmt.Errorf("sku %q: %w", p.SKU, domain.ErrDuplicate)
		}
		if other.Barcode == p.Barcode {
			return fmt.Errorf("barcode %q: %w", p.Barcode, domain.ErrDuplicate)
		}
	}
	return nil
}

// recompute escribe Stock = Σ Quantity del producto.
func recompute(d *state, productID string) int64 {
	var total int64
	for _, row := range d.inventory {
		if row.ProductID == productID {
			total += row.Quantity
		}
	}
	if p, ok := d.products[productID]; ok {
		p.Stock = total
		d.products[productID] = p
	}
	return total
}

// deleteProduct cascada: inventario, transacciones y sales record.
func deleteProduct(d *state, id string) {
	delete(d.products, id)
	delete(d.sales, id)
	for iid, row := range d.inventory {
		if row.ProductID == id {
			deleteInventory(d, iid)
		}
	}
	for tid, t := range d.transactions {
		if t.ProductID == id {
			deleteTransaction(d, tid)
		}
	}
}

func ptrs[T any](list []T) []*T {
	out := make([]*T, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out
}
