// Package ledger maneja las transacciones explícitas del ledger: la creación
// con cantidad real (venta/envío) que descuenta inventario disponible, y el
// avance del estado del envío mediante eventos append-only.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
	"github.com/tu-usuario/cadena-pro/pkg/ident"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Misma firma que lifecycle.TxRunner; el
// adaptador de postgres implementa ambos con un solo método.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// ShipmentInput datos de envío opcionales al crear una transacción.
type ShipmentInput struct {
	Carrier            string
	DestinationAddress string
	EstimatedDelivery  *time.Time
}

// UseCase casos de uso del ledger de transacciones.
type UseCase struct {
	txRunner TxRunner
	txRepo   repository.TransactionRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUseCase construye el caso de uso. txRepo se usa para lecturas fuera de
// transacción; las escrituras van por txRunner.
func NewUseCase(txRunner TxRunner, txRepo repository.TransactionRepository, userRepo repository.UserRepository) *UseCase {
	return &UseCase{txRunner: txRunner, txRepo: txRepo, userRepo: userRepo, now: time.Now}
}

// Create registra una transacción explícita de fromUserID hacia toUserID por
// quantity unidades del producto, y descuenta esa cantidad del inventario
// disponible en la misma transacción de BD. Devuelve
// domain.ErrInsufficientQuantity si el producto no alcanza, sin mutar nada.
// TotalAmount = precio × cantidad, fijado aquí y nunca recalculado.
func (uc *UseCase) Create(ctx context.Context, productID, fromUserID, toUserID string, quantity int, shipment *ShipmentInput) (*entity.Transaction, error) {
	if quantity <= 0 || productID == "" || toUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	toUser, err := uc.userRepo.GetByID(toUserID)
	if err != nil {
		return nil, err
	}
	if toUser == nil {
		return nil, domain.ErrUserNotFound
	}

	var created *entity.Transaction
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) error {
		p, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if p.Quantity < quantity {
			return domain.ErrInsufficientQuantity
		}

		now := uc.now()
		origin := entity.GeoPoint{Address: p.CurrentLocation}
		destination := origin
		details := entity.ShipmentDetails{
			Carrier:        "Internal",
			TrackingNumber: p.TrackingNumber,
			Origin:         origin,
			Destination:    destination,
		}
		if shipment != nil {
			if shipment.Carrier != "" {
				details.Carrier = shipment.Carrier
			}
			if shipment.DestinationAddress != "" {
				details.Destination = entity.GeoPoint{Address: shipment.DestinationAddress}
			}
			details.EstimatedDelivery = shipment.EstimatedDelivery
		}

		tx := &entity.Transaction{
			ID:                    ident.NewTransactionID(),
			ProductID:             p.ID,
			ProductTrackingNumber: p.TrackingNumber,
			FromUserID:            fromUserID,
			ToUserID:              toUserID,
			Quantity:              quantity,
			TotalAmount:           p.Price.Mul(decimal.NewFromInt(int64(quantity))),
			ShipmentDetails:       details,
			PaymentStatus:         entity.PaymentPending,
			CreatedAt:             now,
		}
		tx.AppendEvent(entity.TxProcessing, origin, now, "Transaction initiated")

		if err := txRepo.Create(tx); err != nil {
			return err
		}

		p.Quantity -= quantity
		p.AppendTransactionRef(entity.TransactionRef{
			ID: tx.ID, Date: now, From: fromUserID, To: toUserID,
			Quantity: quantity, Status: string(tx.Status),
		})
		p.UpdatedAt = now
		if err := productRepo.UpdateWithVersion(p); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus agrega un evento al timeline de la transacción y sincroniza
// el estado de nivel superior. completed fija actualDelivery. Las
// transacciones nunca se borran ni se reescriben: solo crecen.
func (uc *UseCase) UpdateStatus(ctx context.Context, txID, status, location, notes string) (*entity.Transaction, error) {
	parsed, ok := entity.ParseTransactionStatus(status)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	tx, err := uc.txRepo.GetByID(txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	if location == "" {
		location = tx.ShipmentDetails.Destination.Address
	}
	if notes == "" {
		notes = "Status updated to " + status
	}
	tx.AppendEvent(parsed, entity.GeoPoint{Address: location}, now, notes)
	if parsed == entity.TxCompleted {
		tx.ShipmentDetails.ActualDelivery = &now
	}

	if err := uc.txRepo.Update(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetByID devuelve una transacción o domain.ErrNotFound.
func (uc *UseCase) GetByID(ctx context.Context, txID string) (*entity.Transaction, error) {
	tx, err := uc.txRepo.GetByID(txID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, domain.ErrNotFound
	}
	return tx, nil
}

// List devuelve las transacciones más recientes primero.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	return uc.txRepo.List(limit, offset)
}

// ListByProduct devuelve las transacciones de un producto, recientes primero.
func (uc *UseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.Transaction, error) {
	return uc.txRepo.ListByProduct(productID)
}
