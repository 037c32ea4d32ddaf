package usecase

import (
	"context"

	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

// TrackingReportGenerator puerto para la representación PDF del historial de
// un producto. La implementación vive en infrastructure/pdf.
type TrackingReportGenerator interface {
	GenerateTrackingReport(ctx context.Context, product *entity.Product, transactions []*entity.Transaction, names map[string]string) ([]byte, error)
}

// ReportUseCase arma el reporte de trazabilidad de un producto: producto +
// ledger + nombres legibles de los participantes, y delega el render al
// generador PDF.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	userRepo    repository.UserRepository
	generator   TrackingReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	generator TrackingReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, txRepo: txRepo, userRepo: userRepo, generator: generator}
}

// TrackingReport genera el PDF de trazabilidad del producto.
func (uc *ReportUseCase) TrackingReport(ctx context.Context, productID string) ([]byte, error) {
	p, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	txs, err := uc.txRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}

	// Resolver nombres legibles de todos los participantes mencionados.
	ids := map[string]struct{}{
		p.ManufacturerID: {},
		p.CurrentOwnerID: {},
	}
	for _, e := range p.Timeline {
		if e.HandlerID != "" {
			ids[e.HandlerID] = struct{}{}
		}
	}
	for _, t := range txs {
		ids[t.FromUserID] = struct{}{}
		ids[t.ToUserID] = struct{}{}
	}
	names := make(map[string]string, len(ids))
	for id := range ids {
		if id == "" {
			continue
		}
		u, err := uc.userRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			names[id] = u.DisplayName()
		}
	}

	return uc.generator.GenerateTrackingReport(ctx, p, txs, names)
}
