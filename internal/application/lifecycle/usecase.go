// Package lifecycle implementa el motor de ciclo de vida del producto: la
// validación de transiciones por rol, la ejecución atómica de cada paso
// (estado, ubicación, dueño, timeline) y la escritura en el ledger de
// transacciones cuando la transición lo exige.
package lifecycle

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/lifecycle"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
	"github.com/tu-usuario/cadena-pro/pkg/ident"
)

// Actor es la identidad autenticada que ejecuta la operación. El motor
// confía en este par por completo; la verificación vive en la capa HTTP.
type Actor struct {
	ID   string
	Role string
}

// UseCase ejecuta pasos del ciclo de vida contra el almacenamiento de forma
// transaccional. Cada invocación toma la fila del producto con
// SELECT FOR UPDATE y escribe con verificación de versión, de modo que dos
// transiciones concurrentes sobre el mismo producto se serializan y ninguna
// entrada de timeline se pierde.
type UseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewUseCase construye el motor. userRepo solo se consulta para validar la
// identidad destino en transferencias.
func NewUseCase(txRunner TxRunner, userRepo repository.UserRepository) *UseCase {
	return &UseCase{txRunner: txRunner, userRepo: userRepo, now: time.Now}
}

// ChangeStatus aplica una transición de estado validada por la tabla de
// transiciones. Efectos de un paso exitoso, todos en la misma transacción:
//
//   - product.Status = requested, product.CurrentLocation = location
//   - una entrada de ledger si requested ∈ {in-supply, in-distribution, delivered}
//   - el dueño pasa al actor si requested == in-distribution
//   - exactamente una entrada nueva de timeline
//
// Si la tabla rechaza la tripleta (rol, estado actual, solicitado) devuelve
// domain.ForbiddenTransitionError sin mutar nada.
func (uc *UseCase) ChangeStatus(ctx context.Context, productID string, actor Actor, requested, location, notes string) (*entity.Product, error) {
	status, ok := entity.ParseProductStatus(requested)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) error {
		p, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		if !lifecycle.CanTransition(actor.Role, p.Status, status) {
			return &domain.ForbiddenTransitionError{
				Role: actor.Role,
				From: string(p.Status),
				To:   string(status),
			}
		}

		// Dueño previo antes de mutar: la entrada del ledger enlaza
		// dueño anterior → actor.
		previousOwner := p.CurrentOwnerID
		now := uc.now()

		p.Status = status
		p.CurrentLocation = location

		if lifecycle.CreatesLedgerEntry(status) {
			tx := buildLedgerEntry(p, previousOwner, actor.ID, location, now,
				"Product status updated to "+string(status))
			if err := txRepo.Create(tx); err != nil {
				return err
			}
			p.AppendTransactionRef(entity.TransactionRef{
				ID: tx.ID, Date: now, From: previousOwner, To: actor.ID,
				Quantity: tx.Quantity, Status: string(tx.Status),
			})
		}

		if lifecycle.TransfersOwnership(status) {
			p.CurrentOwnerID = actor.ID
		}

		description := notes
		if description == "" {
			description = "Product status updated to " + string(status)
		}
		p.AppendTimeline(entity.TimelineEntry{
			Status:      status,
			Title:       "Status Updated: " + string(status),
			Date:        now,
			Location:    location,
			HandlerID:   actor.ID,
			Description: description,
		})

		p.UpdatedAt = now
		if err := productRepo.UpdateWithVersion(p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// QualityCheckPass fuerza el estado a in-supply sin mirar el estado actual.
// Es el auto-pass heredado del sistema origen: no evalúa criterios, solo
// registra el evento; checkDetails queda como metadata del timeline para
// cuando exista una compuerta de calidad real. Idempotente en estado final,
// no en longitud del timeline (cada llamada agrega su entrada).
func (uc *UseCase) QualityCheckPass(ctx context.Context, productID string, actor Actor, notes string, checkDetails json.RawMessage) (*entity.Product, error) {
	if notes == "" {
		notes = "Automated quality check passed"
	}
	if len(checkDetails) == 0 {
		checkDetails = json.RawMessage(`{"automated":true}`)
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.TransactionRepository) error {
		p, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		now := uc.now()
		p.Status = entity.StatusInSupply
		p.AppendTimeline(entity.TimelineEntry{
			Status:      p.Status,
			Title:       "Quality Check: Passed",
			Date:        now,
			Location:    p.CurrentLocation,
			HandlerID:   actor.ID,
			Description: notes,
			Metadata:    checkDetails,
		})

		p.UpdatedAt = now
		if err := productRepo.UpdateWithVersion(p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TransferOwnership transfiere la propiedad del producto al usuario destino.
// A diferencia de ChangeStatus no consulta la tabla de transiciones: la
// transferencia es una acción distinta del avance del ciclo de vida y puede
// ocurrir en cualquier estado (asimetría preservada del sistema origen; el
// allowlist de roles vive en la ruta HTTP). Siempre crea una entrada de
// ledger dueño actual → destino.
func (uc *UseCase) TransferOwnership(ctx context.Context, productID string, actor Actor, destinationUserID, location, notes string) (*entity.Product, error) {
	if destinationUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	destination, err := uc.userRepo.GetByID(destinationUserID)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return nil, domain.ErrUserNotFound
	}

	var updated *entity.Product
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, txRepo repository.TransactionRepository) error {
		p, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}

		previousOwner := p.CurrentOwnerID
		now := uc.now()

		tx := buildLedgerEntry(p, previousOwner, destinationUserID, location, now,
			"Product ownership transferred")
		if err := txRepo.Create(tx); err != nil {
			return err
		}
		p.AppendTransactionRef(entity.TransactionRef{
			ID: tx.ID, Date: now, From: previousOwner, To: destinationUserID,
			Quantity: tx.Quantity, Status: string(tx.Status),
		})

		p.CurrentOwnerID = destinationUserID
		p.CurrentLocation = location

		description := notes
		if description == "" {
			description = "Product ownership transferred"
		}
		metadata, _ := json.Marshal(map[string]string{
			"from_user": previousOwner,
			"to_user":   destinationUserID,
		})
		p.AppendTimeline(entity.TimelineEntry{
			Status:      p.Status, // la transferencia no cambia el estado
			Title:       "Ownership Transferred",
			Date:        now,
			Location:    location,
			HandlerID:   actor.ID,
			Description: description,
			Metadata:    metadata,
		})

		p.UpdatedAt = now
		if err := productRepo.UpdateWithVersion(p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// buildLedgerEntry arma la entrada del ledger para el camino de cambio de
// estado / transferencia. Cantidad fija en 1 (una entrada por evento, no por
// unidad física) y monto = precio × cantidad, la política única de toda la
// aplicación. Origen y destino apuntan a la misma dirección: el registro
// documenta "movido en este lugar", no un envío punto a punto.
func buildLedgerEntry(p *entity.Product, fromUserID, toUserID, location string, now time.Time, note string) *entity.Transaction {
	if location == "" {
		location = p.CurrentLocation
	}
	const quantity = 1
	point := entity.GeoPoint{Address: location}

	tx := &entity.Transaction{
		ID:                    ident.NewTransactionID(),
		ProductID:             p.ID,
		ProductTrackingNumber: p.TrackingNumber,
		FromUserID:            fromUserID,
		ToUserID:              toUserID,
		Quantity:              quantity,
		TotalAmount:           p.Price.Mul(decimal.NewFromInt(quantity)),
		ShipmentDetails: entity.ShipmentDetails{
			Carrier:        "Internal",
			TrackingNumber: p.TrackingNumber,
			Origin:         point,
			Destination:    point,
		},
		PaymentStatus: entity.PaymentPending,
		CreatedAt:     now,
	}
	tx.AppendEvent(entity.TxProcessing, point, now, note)
	return tx
}
