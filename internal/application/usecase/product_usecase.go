package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía inventario.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		now:          time.Now,
	}
}

// Create crea un producto con stock 0. Genera SKU y barcode si vienen vacíos.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := uc.now().UTC()
	product := &entity.Product{
		ID:                uuid.New().String(),
		Name:              in.Name,
		CategoryID:        in.CategoryID,
		SKU:               in.SKU,
		Barcode:           in.Barcode,
		BuyingPrice:       in.BuyingPrice,
		SellingPrice:      in.SellingPrice,
		LowStockThreshold: entity.DefaultLowStockThreshold,
		SupplierID:        in.SupplierID,
		ImageURL:          in.ImageURL,
		Description:       in.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.LowStockThreshold != nil {
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.ExpirationDate != "" {
		d, err := parseDate("expiration_date", in.ExpirationDate)
		if err != nil {
			return nil, err
		}
		product.ExpirationDate = d
	}
	if err := product.Validate(now); err != nil {
		return nil, err
	}
	category, err := uc.loadCategory(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, product.SupplierID); err != nil {
		return nil, err
	}
	product.EnsureCodes(category.Name)
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ProductToResponse(product), nil
}

// GetByID obtiene un producto por ID con su aviso de stock bajo.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ProductToResponse(product), nil
}

// Update actualiza campos de catálogo. No permite modificar Stock (se maneja vía inventario).
// Un SKU o barcode enviado vacío se regenera.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.BuyingPrice != nil {
		product.BuyingPrice = *in.BuyingPrice
	}
	if in.SellingPrice != nil {
		product.SellingPrice = *in.SellingPrice
	}
	if in.LowStockThreshold != nil {
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.ExpirationDate != nil {
		if *in.ExpirationDate == "" {
			product.ExpirationDate = nil
		} else {
			d, err := parseDate("expiration_date", *in.ExpirationDate)
			if err != nil {
				return nil, err
			}
			product.ExpirationDate = d
		}
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.Description != nil {
		product.Description = *in.Description
	}

	now := uc.now().UTC()
	if err := product.Validate(now); err != nil {
		return nil, err
	}
	category, err := uc.loadCategory(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, product.SupplierID); err != nil {
		return nil, err
	}
	product.EnsureCodes(category.Name)
	product.UpdatedAt = now
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ProductToResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ProductToResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  page.Response(),
	}, nil
}

// Delete elimina un producto y, en cascada, sus filas de inventario.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) loadCategory(ctx context.Context, id string) (*entity.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("categoría %s: %w", id, domain.ErrNotFound)
	}
	return category, nil
}

func (uc *ProductUseCase) checkSupplier(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("proveedor %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func parseDate(field, s string) (*time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.NewValidationError(field, "formato esperado AAAA-MM-DD")
	}
	return &d, nil
}

// ProductToResponse mapea entidad a DTO, calculando el aviso de stock bajo.
func ProductToResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		CategoryID:        p.CategoryID,
		SKU:               p.SKU,
		Barcode:           p.Barcode,
		BuyingPrice:       p.BuyingPrice,
		SellingPrice:      p.SellingPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		LowStockWarning:   p.LowStockWarning(),
		SupplierID:        p.SupplierID,
		ImageURL:          p.ImageURL,
		Description:       p.Description,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.ExpirationDate != nil {
		out.ExpirationDate = p.ExpirationDate.Format(dateLayout)
	}
	return out
}
