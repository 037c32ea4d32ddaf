package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus es el estado del producto dentro del ciclo de vida.
type ProductStatus string

// Estados del ciclo de vida de un producto. El orden nominal es
// manufactured → quality-check → in-supply → in-distribution → delivered,
// pero las transiciones permitidas dependen del rol (ver lifecycle).
const (
	StatusManufactured   ProductStatus = "manufactured"
	StatusQualityCheck   ProductStatus = "quality-check"
	StatusInSupply       ProductStatus = "in-supply"
	StatusInDistribution ProductStatus = "in-distribution"
	StatusDelivered      ProductStatus = "delivered"
)

// AllProductStatuses lista cerrada de estados, en orden de avance nominal.
var AllProductStatuses = []ProductStatus{
	StatusManufactured,
	StatusQualityCheck,
	StatusInSupply,
	StatusInDistribution,
	StatusDelivered,
}

// ParseProductStatus valida y convierte un string a ProductStatus.
func ParseProductStatus(s string) (ProductStatus, bool) {
	switch ProductStatus(s) {
	case StatusManufactured, StatusQualityCheck, StatusInSupply, StatusInDistribution, StatusDelivered:
		return ProductStatus(s), true
	}
	return "", false
}

// TimelineEntry es un registro de auditoría de un evento del ciclo de vida.
// El timeline es append-only: nunca se reordena ni se borra.
type TimelineEntry struct {
	Status      ProductStatus   `json:"status"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	Location    string          `json:"location"`
	HandlerID   string          `json:"handler"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// TransactionRef es el registro ligero de una transacción embebido en el
// producto para mostrar rápido; la entidad Transaction es la autoritativa.
type TransactionRef struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Quantity int       `json:"quantity"`
	Status   string    `json:"status"`
}

// Product representa un producto o lote rastreado en la cadena de suministro.
// Version es un contador monotónico que la persistencia verifica e incrementa
// en cada escritura para evitar lost updates concurrentes.
type Product struct {
	ID              string
	TrackingNumber  string // único, generado si viene vacío
	Name            string
	Description     string
	Category        string
	SubCategory     string
	Specs           json.RawMessage // material, dimensiones, propiedades mecánicas, etc.
	ManufacturerID  string
	CurrentOwnerID  string
	CurrentLocation string
	Status          ProductStatus
	Quantity        int // >= 0 siempre
	Price           decimal.Decimal
	Timeline        []TimelineEntry
	Transactions    []TransactionRef
	BatchNumber     string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppendTimeline agrega una entrada al final del timeline (orden de inserción
// = orden cronológico).
func (p *Product) AppendTimeline(e TimelineEntry) {
	p.Timeline = append(p.Timeline, e)
}

// AppendTransactionRef agrega el registro ligero de una transacción.
func (p *Product) AppendTransactionRef(ref TransactionRef) {
	p.Transactions = append(p.Transactions, ref)
}
