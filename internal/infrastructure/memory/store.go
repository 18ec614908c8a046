// Package memory implementa todos los repositorios en memoria con un único mutex.
// Cada unidad del TxRunner toma el mutex completo y restaura una copia si falla.
// Pensado para desarrollo y tests; no persiste nada.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type txRecord struct {
	entity.Transaction
	seq int64
}

type reportRecord struct {
	entity.Report
	seq int64
}

type state struct {
	categories   map[string]entity.Category
	suppliers    map[string]entity.Supplier
	warehouses   map[string]entity.Warehouse
	products     map[string]entity.Product
	inventory    map[string]entity.Inventory
	transactions map[string]txRecord
	sales        map[string]entity.SalesRecord
	reports      map[string]reportRecord
	seq          int64
}

func newState() state {
	return state{
		categories:   map[string]entity.Category{},
		suppliers:    map[string]entity.Supplier{},
		warehouses:   map[string]entity.Warehouse{},
		products:     map[string]entity.Product{},
		inventory:    map[string]entity.Inventory{},
		transactions: map[string]txRecord{},
		sales:        map[string]entity.SalesRecord{},
		reports:      map[string]reportRecord{},
	}
}

// clone copia profunda suficiente para restaurar tras un Rollback.
// Los slices de ids de Report se reemplazan, nunca se mutan en sitio.
func (s state) clone() state {
	return state{
		categories:   maps.Clone(s.categories),
		suppliers:    maps.Clone(s.suppliers),
		warehouses:   maps.Clone(s.warehouses),
		products:     maps.Clone(s.products),
		inventory:    maps.Clone(s.inventory),
		transactions: maps.Clone(s.transactions),
		sales:        maps.Clone(s.sales),
		reports:      maps.Clone(s.reports),
		seq:          s.seq,
	}
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Store datos compartidos por todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	data state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// view acceso al store. Dentro de una unidad (inTx) el mutex ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (v view) d() *state { return &v.s.data }

// Repos devuelve los repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() Repos {
	return newRepos(view{s: s})
}

// Repos juego completo de repositorios sobre el store.
type Repos struct {
	Categories   *CategoryRepo
	Suppliers    *SupplierRepo
	Warehouses   *WarehouseRepo
	Products     *ProductRepo
	Inventory    *InventoryRepo
	Transactions *TransactionRepo
	Sales        *SalesRecordRepo
	Reports      *ReportRepo
	Analytics    *AnalyticsRepo
}

func newRepos(v view) Repos {
	return Repos{
		Categories:   &CategoryRepo{v: v},
		Suppliers:    &SupplierRepo{v: v},
		Warehouses:   &WarehouseRepo{v: v},
		Products:     &ProductRepo{v: v},
		Inventory:    &InventoryRepo{v: v},
		Transactions: &TransactionRepo{v: v},
		Sales:        &SalesRecordRepo{v: v},
		Reports:      &ReportRepo{v: v},
		Analytics:    &AnalyticsRepo{v: v},
	}
}

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las unidades con el mutex del store y revierte con la copia previa.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos que no vuelven a tomar el mutex. Si fn falla o hace panic se restaura el estado.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot := r.s.data.clone()
	committed := false
	defer func() {
		if !committed {
			r.s.data = snapshot
		}
	}()

	repos := newRepos(view{s: r.s, inTx: true})
	if err := fn(inventory.TxRepos{
		Inventory:    repos.Inventory,
		Products:     repos.Products,
		Transactions: repos.Transactions,
		Sales:        repos.Sales,
		Reports:      repos.Reports,
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// paginate aplica limit/offset sobre una lista ya ordenada. limit <= 0 = sin límite.
func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sortedValues[T any](m map[string]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
