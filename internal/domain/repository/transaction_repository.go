package repository

import "github.com/tu-usuario/cadena-pro/internal/domain/entity"

// TransactionRepository define el puerto de persistencia para el ledger de
// transacciones. No hay Delete: el ledger es append-only.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	Update(tx *entity.Transaction) error
	List(limit, offset int) ([]*entity.Transaction, error)
	ListByProduct(productID string) ([]*entity.Transaction, error)
}
