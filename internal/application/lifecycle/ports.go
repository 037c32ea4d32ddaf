package lifecycle

import (
	"context"

	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación del producto y la
// escritura en el ledger se apliquen como una sola unidad: si algo falla,
// nada queda a medias (ni timeline sin cambio de estado, ni al revés).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
