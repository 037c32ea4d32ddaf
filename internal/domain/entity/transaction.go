package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus es el estado de una transacción del ledger.
type TransactionStatus string

// Estados válidos de una transacción.
const (
	TxPending    TransactionStatus = "pending"
	TxProcessing TransactionStatus = "processing"
	TxInTransit  TransactionStatus = "in-transit"
	TxDelivered  TransactionStatus = "delivered"
	TxCompleted  TransactionStatus = "completed"
	TxCancelled  TransactionStatus = "cancelled"
	TxDelayed    TransactionStatus = "delayed"
)

// ParseTransactionStatus valida y convierte un string a TransactionStatus.
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	switch TransactionStatus(s) {
	case TxPending, TxProcessing, TxInTransit, TxDelivered, TxCompleted, TxCancelled, TxDelayed:
		return TransactionStatus(s), true
	}
	return "", false
}

// Estados de pago de una transacción.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// GeoPoint es un punto con dirección en texto libre y coordenadas [lon, lat].
type GeoPoint struct {
	Address     string     `json:"address"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Delay registra una demora reportada sobre el envío.
type Delay struct {
	Reason     string     `json:"reason"`
	Location   string     `json:"location"`
	ReportedAt time.Time  `json:"reported_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// ShipmentDetails datos del envío asociado a la transacción. En el camino de
// cambio de estado origen y destino apuntan a la misma dirección: la entrada
// registra "movido en este lugar", no un envío punto a punto.
type ShipmentDetails struct {
	Carrier           string     `json:"carrier"`
	TrackingNumber    string     `json:"tracking_number"`
	Origin            GeoPoint   `json:"origin"`
	Destination       GeoPoint   `json:"destination"`
	CurrentLocation   *GeoPoint  `json:"current_location,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	Delays            []Delay    `json:"delays,omitempty"`
}

// TransactionEvent es una entrada del timeline de la transacción.
type TransactionEvent struct {
	Status    TransactionStatus `json:"status"`
	Location  GeoPoint          `json:"location"`
	Timestamp time.Time         `json:"timestamp"`
	Notes     string            `json:"notes"`
}

// Transaction es el registro durable de un movimiento de producto entre dos
// identidades. Es append-only: una vez creada solo se le agregan eventos al
// timeline; nunca se borra.
//
// Invariantes:
//   - TotalAmount se calcula una vez al crear (precio × cantidad) y no se
//     recalcula después.
//   - Status siempre es igual al estado del último evento del timeline;
//     usar AppendEvent para mantenerlo.
type Transaction struct {
	ID                     string // TXN-..., único
	ProductID              string
	ProductTrackingNumber  string
	FromUserID             string
	ToUserID               string
	Quantity               int // > 0
	Status                 TransactionStatus
	TotalAmount            decimal.Decimal
	ShipmentDetails        ShipmentDetails
	Timeline               []TransactionEvent
	PaymentStatus          string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// AppendEvent agrega un evento al timeline y sincroniza el Status de nivel
// superior con él.
func (t *Transaction) AppendEvent(status TransactionStatus, location GeoPoint, at time.Time, notes string) {
	t.Timeline = append(t.Timeline, TransactionEvent{
		Status:    status,
		Location:  location,
		Timestamp: at,
		Notes:     notes,
	})
	t.Status = status
	t.UpdatedAt = at
}
