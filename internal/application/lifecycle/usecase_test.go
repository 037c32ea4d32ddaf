package lifecycle_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applifecycle "github.com/tu-usuario/cadena-pro/internal/application/lifecycle"
	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeStore simula la base: los repos y el runner operan sobre estos mapas.
type fakeStore struct {
	products map[string]*entity.Product
	txs      map[string]*entity.Transaction
	users    map[string]*entity.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*entity.Product{},
		txs:      map[string]*entity.Transaction{},
		users:    map[string]*entity.User{},
	}
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Timeline = append([]entity.TimelineEntry(nil), p.Timeline...)
	cp.Transactions = append([]entity.TransactionRef(nil), p.Transactions...)
	return &cp
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return cloneProduct(r.s.products[id]), nil
}

func (r *fakeProductRepo) GetByTrackingNumber(tn string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.TrackingNumber == tn {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return cloneProduct(r.s.products[id]), nil
}

func (r *fakeProductRepo) UpdateWithVersion(p *entity.Product) error {
	stored := r.s.products[p.ID]
	if stored == nil {
		return domain.ErrNotFound
	}
	if stored.Version != p.Version {
		return domain.ErrVersionConflict
	}
	p.Version++
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *fakeProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, int, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		out = append(out, cloneProduct(p))
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

type fakeTransactionRepo struct{ s *fakeStore }

func (r *fakeTransactionRepo) Create(t *entity.Transaction) error {
	r.s.txs[t.ID] = t
	return nil
}

func (r *fakeTransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	return r.s.txs[id], nil
}

func (r *fakeTransactionRepo) Update(t *entity.Transaction) error {
	r.s.txs[t.ID] = t
	return nil
}

func (r *fakeTransactionRepo) List(limit, offset int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.s.txs {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTransactionRepo) ListByProduct(productID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.s.txs {
		if t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(u *entity.User) error { r.s.users[u.ID] = u; return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return r.s.users[id], nil
}
func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) List(limit, offset int) ([]*entity.User, error)  { return nil, nil }
func (r *fakeUserRepo) ListPendingVerification() ([]*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) UpdateVerification(id, status string) error       { return nil }

// fakeTxRunner ejecuta el fn directo contra los repos en memoria; si el fn
// falla, el estado previo del store se restaura (simula el rollback).
type fakeTxRunner struct{ s *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
) error) error {
	backupProducts := map[string]*entity.Product{}
	for k, v := range r.s.products {
		backupProducts[k] = cloneProduct(v)
	}
	backupTxs := map[string]*entity.Transaction{}
	for k, v := range r.s.txs {
		backupTxs[k] = v
	}
	if err := fn(&fakeProductRepo{s: r.s}, &fakeTransactionRepo{s: r.s}); err != nil {
		r.s.products = backupProducts
		r.s.txs = backupTxs
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

func seedProduct(s *fakeStore, status entity.ProductStatus, owner string) *entity.Product {
	p := &entity.Product{
		ID:              "prod-1",
		TrackingNumber:  "TRK-TEST-00001",
		Name:            "Lote de café",
		Category:        "alimentos",
		ManufacturerID:  "user-manufacturer",
		CurrentOwnerID:  owner,
		CurrentLocation: "Bodega Central",
		Status:          status,
		Quantity:        10,
		Price:           decimal.NewFromInt(250),
		Version:         1,
	}
	p.AppendTimeline(entity.TimelineEntry{
		Status: entity.StatusManufactured, Title: "Product Manufactured",
		HandlerID: "user-manufacturer", Location: "Planta",
	})
	s.products[p.ID] = p
	return p
}

func newEngine(s *fakeStore) *applifecycle.UseCase {
	return applifecycle.NewUseCase(&fakeTxRunner{s: s}, &fakeUserRepo{s: s})
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeStatus_SupplierIngresaASupply(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusManufactured, "user-manufacturer")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-supplier", Role: entity.RoleSupplier}
	p, err := uc.ChangeStatus(context.Background(), "prod-1", actor, "in-supply", "Centro de Acopio", "recibido")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusInSupply, p.Status)
	assert.Equal(t, "Centro de Acopio", p.CurrentLocation)
	// in-supply registra en el ledger pero no transfiere la propiedad
	assert.Equal(t, "user-manufacturer", p.CurrentOwnerID)
	assert.Len(t, s.txs, 1, "llegar a in-supply debe dejar una entrada en el ledger")
	assert.Len(t, p.Timeline, 2, "exactamente una entrada nueva de timeline")
	assert.Len(t, p.Transactions, 1)

	for _, tx := range s.txs {
		assert.Equal(t, "user-manufacturer", tx.FromUserID)
		assert.Equal(t, "user-supplier", tx.ToUserID)
		assert.Equal(t, 1, tx.Quantity)
		// monto = precio × cantidad; con cantidad 1 queda igual al precio
		assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(250)),
			"totalAmount debe ser precio × 1")
		assert.Equal(t, "Internal", tx.ShipmentDetails.Carrier)
		assert.Equal(t, entity.TxProcessing, tx.Status)
	}
	// el camino de cambio de estado no descuenta stock
	assert.Equal(t, 10, p.Quantity)
}

func TestChangeStatus_DistributorTomaPropiedadEnDistribucion(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusInSupply, "user-supplier")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-distributor", Role: entity.RoleDistributor}
	p, err := uc.ChangeStatus(context.Background(), "prod-1", actor, "in-distribution", "Ruta Norte", "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusInDistribution, p.Status)
	assert.Equal(t, "user-distributor", p.CurrentOwnerID,
		"in-distribution transfiere la propiedad al actor")
	require.Len(t, s.txs, 1)
	for _, tx := range s.txs {
		// el ledger enlaza dueño anterior → actor
		assert.Equal(t, "user-supplier", tx.FromUserID)
		assert.Equal(t, "user-distributor", tx.ToUserID)
	}
}

func TestChangeStatus_DeliveredRegistraSinCambiarDueno(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusInDistribution, "user-distributor")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-distributor", Role: entity.RoleDistributor}
	p, err := uc.ChangeStatus(context.Background(), "prod-1", actor, "delivered", "Tienda 42", "")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusDelivered, p.Status)
	assert.Equal(t, "user-distributor", p.CurrentOwnerID, "delivered no cambia el dueño")
	assert.Len(t, s.txs, 1, "delivered sí deja entrada en el ledger")
}

func TestChangeStatus_InspectorDevuelveAManufactured(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusQualityCheck, "user-manufacturer")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-qi", Role: entity.RoleQualityInspector}
	p, err := uc.ChangeStatus(context.Background(), "prod-1", actor, "manufactured", "Planta", "rechazado en inspección")
	require.NoError(t, err)

	assert.Equal(t, entity.StatusManufactured, p.Status)
	assert.Empty(t, s.txs, "volver a manufactured no toca el ledger")
}

func TestChangeStatus_TransicionProhibida_NoMutaNada(t *testing.T) {
	s := newFakeStore()
	original := seedProduct(s, entity.StatusQualityCheck, "user-manufacturer")
	timelineLen := len(original.Timeline)
	uc := newEngine(s)

	// distributor solo puede mover desde in-supply o in-distribution
	actor := applifecycle.Actor{ID: "user-distributor", Role: entity.RoleDistributor}
	_, err := uc.ChangeStatus(context.Background(), "prod-1", actor, "in-distribution", "Ruta", "")

	ft, ok := domain.IsForbiddenTransition(err)
	require.True(t, ok, "debe devolver ForbiddenTransitionError")
	assert.Equal(t, entity.RoleDistributor, ft.Role)
	assert.Equal(t, "quality-check", ft.From)
	assert.Equal(t, "in-distribution", ft.To)

	stored := s.products["prod-1"]
	assert.Equal(t, entity.StatusQualityCheck, stored.Status, "el estado no debe cambiar")
	assert.Equal(t, "user-manufacturer", stored.CurrentOwnerID)
	assert.Len(t, stored.Timeline, timelineLen, "el timeline no debe crecer")
	assert.Empty(t, s.txs, "el ledger no debe recibir entradas")
	assert.Equal(t, int64(1), stored.Version, "la versión no debe avanzar")
}

func TestChangeStatus_EstadoDesconocido(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusManufactured, "user-manufacturer")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "u", Role: entity.RoleAdmin}
	_, err := uc.ChangeStatus(context.Background(), "prod-1", actor, "teleported", "X", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStatus_ProductoInexistente(t *testing.T) {
	s := newFakeStore()
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "u", Role: entity.RoleAdmin}
	_, err := uc.ChangeStatus(context.Background(), "nope", actor, "in-supply", "X", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// QualityCheckPass
// ──────────────────────────────────────────────────────────────────────────────

func TestQualityCheckPass_SiempreApruebaYAnotaTimeline(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusQualityCheck, "user-manufacturer")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-qi", Role: entity.RoleQualityInspector}
	p, err := uc.QualityCheckPass(context.Background(), "prod-1", actor, "", nil)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusInSupply, p.Status)
	require.Len(t, p.Timeline, 2)
	last := p.Timeline[len(p.Timeline)-1]
	assert.Equal(t, "Quality Check: Passed", last.Title)
	assert.Equal(t, "Automated quality check passed", last.Description)
	assert.JSONEq(t, `{"automated":true}`, string(last.Metadata))
	assert.Empty(t, s.txs, "el control de calidad no escribe en el ledger")
}

func TestQualityCheckPass_DobleEjecucion(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusQualityCheck, "user-manufacturer")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-qi", Role: entity.RoleQualityInspector}
	_, err := uc.QualityCheckPass(context.Background(), "prod-1", actor, "", nil)
	require.NoError(t, err)
	p, err := uc.QualityCheckPass(context.Background(), "prod-1", actor, "segunda pasada", nil)
	require.NoError(t, err)

	// idempotente en estado final, no en longitud del timeline
	assert.Equal(t, entity.StatusInSupply, p.Status)
	assert.Len(t, p.Timeline, 3, "cada ejecución agrega su propia entrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// TransferOwnership
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferOwnership_ReasignaYRegistraEnLedger(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusInSupply, "user-supplier")
	s.users["user-distributor"] = &entity.User{ID: "user-distributor", Role: entity.RoleDistributor}
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-supplier", Role: entity.RoleSupplier}
	p, err := uc.TransferOwnership(context.Background(), "prod-1", actor, "user-distributor", "Muelle 3", "")
	require.NoError(t, err)

	assert.Equal(t, "user-distributor", p.CurrentOwnerID)
	assert.Equal(t, entity.StatusInSupply, p.Status, "la transferencia no cambia el estado")
	assert.Equal(t, "Muelle 3", p.CurrentLocation)

	require.Len(t, s.txs, 1, "toda transferencia queda en el ledger")
	for _, tx := range s.txs {
		assert.Equal(t, "user-supplier", tx.FromUserID)
		assert.Equal(t, "user-distributor", tx.ToUserID)
	}

	last := p.Timeline[len(p.Timeline)-1]
	assert.Equal(t, "Ownership Transferred", last.Title)
	assert.JSONEq(t, `{"from_user":"user-supplier","to_user":"user-distributor"}`, string(last.Metadata))
}

func TestTransferOwnership_DestinoInexistente(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusInSupply, "user-supplier")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-supplier", Role: entity.RoleSupplier}
	_, err := uc.TransferOwnership(context.Background(), "prod-1", actor, "ghost", "Muelle", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	stored := s.products["prod-1"]
	assert.Equal(t, "user-supplier", stored.CurrentOwnerID, "nada debe mutar")
	assert.Empty(t, s.txs)
}

func TestTransferOwnership_DestinoVacio(t *testing.T) {
	s := newFakeStore()
	seedProduct(s, entity.StatusInSupply, "user-supplier")
	uc := newEngine(s)

	actor := applifecycle.Actor{ID: "user-supplier", Role: entity.RoleSupplier}
	_, err := uc.TransferOwnership(context.Background(), "prod-1", actor, "", "Muelle", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
