package repository

import "github.com/tu-usuario/cadena-pro/internal/domain/entity"

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	Status   entity.ProductStatus // vacío = todos
	Category string
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// GetForUpdate solo tiene sentido dentro de una transacción (bloquea la fila
// hasta el Commit/Rollback). UpdateWithVersion verifica e incrementa
// Version en la misma escritura y devuelve domain.ErrVersionConflict si otro
// writer ganó la carrera.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByTrackingNumber(trackingNumber string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	UpdateWithVersion(product *entity.Product) error
	List(filter ProductFilter) ([]*entity.Product, int, error)
	Delete(id string) error
}
