package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, category_id, sku, barcode, buying_price, selling_price, stock,
	low_stock_threshold, supplier_id, expiration_date, image_url, description, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var supplierID *string
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.SKU, &p.Barcode, &p.BuyingPrice,
		&p.SellingPrice, &p.Stock, &p.LowStockThreshold, &supplierID, &p.ExpirationDate,
		&p.ImageURL, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.SupplierID = deref(supplierID)
	return &p, nil
}

// Create persiste un nuevo producto. Stock inicia en 0.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CategoryID, p.SKU, p.Barcode, p.BuyingPrice, p.SellingPrice,
		p.LowStockThreshold, nullable(p.SupplierID), p.ExpirationDate, p.ImageURL, p.Description,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	p.Stock = 0
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate lee el producto con FOR UPDATE; serializa las unidades del libro sobre el mismo producto.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if noMatch(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// Update actualiza campos de catálogo. No toca stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category_id = $3, sku = $4, barcode = $5, buying_price = $6,
			selling_price = $7, low_stock_threshold = $8, supplier_id = $9, expiration_date = $10,
			image_url = $11, description = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CategoryID, p.SKU, p.Barcode, p.BuyingPrice, p.SellingPrice,
		p.LowStockThreshold, nullable(p.SupplierID), p.ExpirationDate, p.ImageURL, p.Description,
		p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update product", err)
	}
	return requireAffected(tag, "update product")
}

// List lista productos con paginación, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un producto (cascada a inventario, transacciones y sales record).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete product", err)
	}
	return requireAffected(tag, "delete product")
}

// RecomputeStock escribe stock = suma de inventory.quantity del producto.
func (r *ProductRepo) RecomputeStock(ctx context.Context, productID string) (int64, error) {
	query := `
		UPDATE products
		SET stock = COALESCE((SELECT SUM(quantity) FROM inventory WHERE product_id = $1), 0)
		WHERE id = $1
		RETURNING stock`
	var stock int64
	if err := r.q.QueryRow(ctx, query, productID).Scan(&stock); err != nil {
		if noMatch(err) {
			return 0, fmt.Errorf("recompute stock %s: %w", productID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("recompute stock: %w", err)
	}
	return stock, nil
}
