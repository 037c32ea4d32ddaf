package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cadena-pro/internal/application/dto"
	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
	"github.com/tu-usuario/cadena-pro/pkg/ident"
)

// ProductUseCase operaciones CRUD y de consulta sobre productos. Las
// transiciones de estado NO pasan por aquí: viven en el motor de ciclo de
// vida (application/lifecycle).
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registra un producto nuevo. El estado inicial depende de quién lo
// crea: un manufacturer lo deja en manufactured; supplier y admin lo
// ingresan directo a in-supply con el paso de calidad automático ya anotado
// en el timeline (comportamiento heredado del sistema origen).
func (uc *ProductUseCase) Create(creatorID, creatorRole string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Category == "" || in.CurrentLocation == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	trackingNumber := in.TrackingNumber
	if trackingNumber == "" {
		trackingNumber = ident.NewTrackingNumber()
	}

	p := &entity.Product{
		ID:              uuid.New().String(),
		TrackingNumber:  trackingNumber,
		Name:            in.Name,
		Description:     in.Description,
		Category:        in.Category,
		SubCategory:     in.SubCategory,
		Specs:           in.Specs,
		ManufacturerID:  creatorID,
		CurrentOwnerID:  creatorID,
		CurrentLocation: in.CurrentLocation,
		Quantity:        in.Quantity,
		Price:           in.Price,
		BatchNumber:     in.BatchNumber,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// La primera entrada del timeline es siempre manufactured.
	p.AppendTimeline(entity.TimelineEntry{
		Status:      entity.StatusManufactured,
		Title:       "Product Manufactured",
		Date:        now,
		Location:    in.CurrentLocation,
		HandlerID:   creatorID,
		Description: "Product added to inventory",
	})

	switch creatorRole {
	case entity.RoleManufacturer:
		p.Status = entity.StatusManufactured
	default: // supplier y admin ingresan directo a la cadena de suministro
		p.Status = entity.StatusInSupply
		p.AppendTimeline(entity.TimelineEntry{
			Status:      entity.StatusInSupply,
			Title:       "Quality Check Passed",
			Date:        now,
			Location:    in.CurrentLocation,
			HandlerID:   creatorID,
			Description: "Product passed automated quality check",
		})
	}

	if err := uc.productRepo.Create(p); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(p), nil
}

// GetByID obtiene un producto por id.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p), nil
}

// Track obtiene un producto por su número de rastreo.
func (uc *ProductUseCase) Track(trackingNumber string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByTrackingNumber(trackingNumber)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p), nil
}

// statusVisibleForRole mapea rol → estado que ese rol ve en los listados.
// Admin (y cualquier rol fuera del mapa) ve todo.
var statusVisibleForRole = map[string]entity.ProductStatus{
	entity.RoleDistributor:  entity.StatusInDistribution,
	entity.RoleSupplier:     entity.StatusInSupply,
	entity.RoleCustomer:     entity.StatusDelivered,
	entity.RoleManufacturer: entity.StatusManufactured,
}

// List lista productos aplicando el filtro de visibilidad por rol y los
// filtros por categoría, con paginación.
func (uc *ProductUseCase) List(role, category string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	filter := repository.ProductFilter{
		Category: category,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}
	if status, ok := statusVisibleForRole[role]; ok {
		filter.Status = status
	}
	products, total, err := uc.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Timeline devuelve solo el timeline del producto.
func (uc *ProductUseCase) Timeline(id string) ([]dto.TimelineEntryResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p).Timeline, nil
}

// Update actualiza datos descriptivos del producto. No toca timeline, estado,
// dueño ni manufacturer.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.SubCategory != nil {
		p.SubCategory = *in.SubCategory
	}
	if len(in.Specs) > 0 {
		p.Specs = in.Specs
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		p.Quantity = *in.Quantity
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		p.Price = *in.Price
	}
	if in.BatchNumber != nil {
		p.BatchNumber = *in.BatchNumber
	}
	p.UpdatedAt = time.Now()

	if err := uc.productRepo.UpdateWithVersion(p); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(p), nil
}

// Delete elimina un producto (operación administrativa fuera del ciclo de
// vida normal; los productos no se borran como parte del flujo).
func (uc *ProductUseCase) Delete(id string) error {
	return uc.productRepo.Delete(id)
}
