package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/tu-usuario/cadena-pro/internal/application/ledger"
	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
	"github.com/tu-usuario/cadena-pro/internal/domain/repository"
)

// Fakes mínimos en memoria: el runner pasa los repos directo y restaura el
// estado previo cuando el fn devuelve error (simula el rollback).

type memStore struct {
	products map[string]*entity.Product
	txs      map[string]*entity.Transaction
	users    map[string]*entity.User
}

func newMemStore() *memStore {
	return &memStore{
		products: map[string]*entity.Product{},
		txs:      map[string]*entity.Transaction{},
		users:    map[string]*entity.User{},
	}
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Timeline = append([]entity.TimelineEntry(nil), p.Timeline...)
	cp.Transactions = append([]entity.TransactionRef(nil), p.Transactions...)
	return &cp
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = copyProduct(p); return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return copyProduct(r.s.products[id]), nil
}
func (r *memProductRepo) GetByTrackingNumber(tn string) (*entity.Product, error) { return nil, nil }
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return copyProduct(r.s.products[id]), nil
}
func (r *memProductRepo) UpdateWithVersion(p *entity.Product) error {
	stored := r.s.products[p.ID]
	if stored == nil {
		return domain.ErrNotFound
	}
	if stored.Version != p.Version {
		return domain.ErrVersionConflict
	}
	p.Version++
	r.s.products[p.ID] = copyProduct(p)
	return nil
}
func (r *memProductRepo) List(repository.ProductFilter) ([]*entity.Product, int, error) {
	return nil, 0, nil
}
func (r *memProductRepo) Delete(id string) error { delete(r.s.products, id); return nil }

type memTxRepo struct{ s *memStore }

func (r *memTxRepo) Create(t *entity.Transaction) error { r.s.txs[t.ID] = t; return nil }
func (r *memTxRepo) GetByID(id string) (*entity.Transaction, error) {
	return r.s.txs[id], nil
}
func (r *memTxRepo) Update(t *entity.Transaction) error { r.s.txs[t.ID] = t; return nil }
func (r *memTxRepo) List(limit, offset int) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.s.txs {
		out = append(out, t)
	}
	return out, nil
}
func (r *memTxRepo) ListByProduct(productID string) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	for _, t := range r.s.txs {
		if t.ProductID == productID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(u *entity.User) error                       { r.s.users[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error)           { return r.s.users[id], nil }
func (r *memUserRepo) FindByEmail(string) (*entity.User, error)          { return nil, nil }
func (r *memUserRepo) List(int, int) ([]*entity.User, error)             { return nil, nil }
func (r *memUserRepo) ListPendingVerification() ([]*entity.User, error)  { return nil, nil }
func (r *memUserRepo) UpdateVerification(string, string) error           { return nil }

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.TransactionRepository,
) error) error {
	backupProducts := map[string]*entity.Product{}
	for k, v := range r.s.products {
		backupProducts[k] = copyProduct(v)
	}
	backupTxs := map[string]*entity.Transaction{}
	for k, v := range r.s.txs {
		backupTxs[k] = v
	}
	if err := fn(&memProductRepo{s: r.s}, &memTxRepo{s: r.s}); err != nil {
		r.s.products = backupProducts
		r.s.txs = backupTxs
		return err
	}
	return nil
}

func seed(s *memStore) {
	s.products["prod-1"] = &entity.Product{
		ID:              "prod-1",
		TrackingNumber:  "TRK-TEST-00002",
		Name:            "Caja de repuestos",
		CurrentOwnerID:  "user-supplier",
		CurrentLocation: "Bodega Sur",
		Status:          entity.StatusInSupply,
		Quantity:        5,
		Price:           decimal.NewFromInt(100),
		Version:         1,
	}
	s.users["user-distributor"] = &entity.User{ID: "user-distributor", Role: entity.RoleDistributor}
}

func newLedger(s *memStore) *appledger.UseCase {
	return appledger.NewUseCase(&memTxRunner{s: s}, &memTxRepo{s: s}, &memUserRepo{s: s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYCalculaMonto(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	tx, err := uc.Create(context.Background(), "prod-1", "user-supplier", "user-distributor", 3, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, tx.Quantity)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(300)),
		"totalAmount debe ser precio × cantidad")
	assert.Equal(t, entity.TxProcessing, tx.Status)
	assert.Equal(t, "Internal", tx.ShipmentDetails.Carrier)
	require.Len(t, tx.Timeline, 1)
	assert.Equal(t, "Transaction initiated", tx.Timeline[0].Notes)

	stored := s.products["prod-1"]
	assert.Equal(t, 2, stored.Quantity, "el stock debe quedar descontado")
	require.Len(t, stored.Transactions, 1)
	assert.Equal(t, tx.ID, stored.Transactions[0].ID)
}

func TestCreate_StockInsuficiente_NoMutaNada(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	_, err := uc.Create(context.Background(), "prod-1", "user-supplier", "user-distributor", 8, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	stored := s.products["prod-1"]
	assert.Equal(t, 5, stored.Quantity, "el stock no debe cambiar")
	assert.Empty(t, stored.Transactions)
	assert.Empty(t, s.txs, "el ledger no debe recibir entradas")
}

func TestCreate_CantidadInvalida(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	_, err := uc.Create(context.Background(), "prod-1", "user-supplier", "user-distributor", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_DestinoInexistente(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	_, err := uc.Create(context.Background(), "prod-1", "user-supplier", "ghost", 1, nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreate_ConDatosDeEnvio(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	tx, err := uc.Create(context.Background(), "prod-1", "user-supplier", "user-distributor", 1,
		&appledger.ShipmentInput{Carrier: "CoordiExpress", DestinationAddress: "Calle 80 #12-34"})
	require.NoError(t, err)

	assert.Equal(t, "CoordiExpress", tx.ShipmentDetails.Carrier)
	assert.Equal(t, "Calle 80 #12-34", tx.ShipmentDetails.Destination.Address)
	assert.Equal(t, "Bodega Sur", tx.ShipmentDetails.Origin.Address,
		"el origen es la ubicación actual del producto")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_AgregaEventoYSincronizaEstado(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	tx, err := uc.Create(context.Background(), "prod-1", "user-supplier", "user-distributor", 1, nil)
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(context.Background(), tx.ID, "in-transit", "Peaje Norte", "")
	require.NoError(t, err)

	assert.Equal(t, entity.TxInTransit, updated.Status,
		"el estado de nivel superior debe seguir al último evento")
	require.Len(t, updated.Timeline, 2)
	last := updated.Timeline[len(updated.Timeline)-1]
	assert.Equal(t, entity.TxInTransit, last.Status)
	assert.Equal(t, "Peaje Norte", last.Location.Address)
	assert.Equal(t, "Status updated to in-transit", last.Notes)
	assert.Nil(t, updated.ShipmentDetails.ActualDelivery)
}

func TestUpdateStatus_CompletedFijaEntregaReal(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	tx, err := uc.Create(context.Background(), "prod-1", "user-supplier", "user-distributor", 1, nil)
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(context.Background(), tx.ID, "completed", "", "entregado y firmado")
	require.NoError(t, err)

	assert.Equal(t, entity.TxCompleted, updated.Status)
	require.NotNil(t, updated.ShipmentDetails.ActualDelivery, "completed debe fijar actualDelivery")
}

func TestUpdateStatus_EstadoDesconocido(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	_, err := uc.UpdateStatus(context.Background(), "TXN-X", "vaporized", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateStatus_TransaccionInexistente(t *testing.T) {
	s := newMemStore()
	seed(s)
	uc := newLedger(s)

	_, err := uc.UpdateStatus(context.Background(), "TXN-NOPE", "in-transit", "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_Inexistente(t *testing.T) {
	s := newMemStore()
	uc := newLedger(s)

	_, err := uc.GetByID(context.Background(), "TXN-NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
