package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
)

// CreateTransactionRequest entrada para crear una transacción explícita
// (venta/envío con cantidad real, distinta del camino de cambio de estado).
type CreateTransactionRequest struct {
	ProductID       string                  `json:"product_id"`
	ToUserID        string                  `json:"to_user_id"`
	Quantity        int                     `json:"quantity"`
	ShipmentDetails *ShipmentDetailsRequest `json:"shipment_details"`
}

// ShipmentDetailsRequest datos de envío opcionales al crear la transacción.
type ShipmentDetailsRequest struct {
	Carrier            string     `json:"carrier"`
	DestinationAddress string     `json:"destination_address"`
	EstimatedDelivery  *time.Time `json:"estimated_delivery"`
}

// UpdateTransactionStatusRequest entrada para avanzar el estado del envío.
type UpdateTransactionStatusRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// TransactionEventResponse una entrada del timeline de la transacción.
type TransactionEventResponse struct {
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes"`
}

// TransactionResponse salida de una transacción del ledger.
type TransactionResponse struct {
	ID                    string                     `json:"id"`
	ProductID             string                     `json:"product_id"`
	ProductTrackingNumber string                     `json:"product_tracking_number"`
	FromUser              string                     `json:"from_user"`
	ToUser                string                     `json:"to_user"`
	Quantity              int                        `json:"quantity"`
	Status                string                     `json:"status"`
	TotalAmount           decimal.Decimal            `json:"total_amount"`
	Carrier               string                     `json:"carrier"`
	Origin                string                     `json:"origin"`
	Destination           string                     `json:"destination"`
	EstimatedDelivery     *time.Time                 `json:"estimated_delivery,omitempty"`
	ActualDelivery        *time.Time                 `json:"actual_delivery,omitempty"`
	PaymentStatus         string                     `json:"payment_status"`
	Timeline              []TransactionEventResponse `json:"timeline"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

// TransactionListResponse lista de transacciones.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ToTransactionResponse mapea la entidad a su DTO de salida.
func ToTransactionResponse(t *entity.Transaction) *TransactionResponse {
	if t == nil {
		return nil
	}
	timeline := make([]TransactionEventResponse, 0, len(t.Timeline))
	for _, e := range t.Timeline {
		timeline = append(timeline, TransactionEventResponse{
			Status:    string(e.Status),
			Location:  e.Location.Address,
			Timestamp: e.Timestamp,
			Notes:     e.Notes,
		})
	}
	return &TransactionResponse{
		ID:                    t.ID,
		ProductID:             t.ProductID,
		ProductTrackingNumber: t.ProductTrackingNumber,
		FromUser:              t.FromUserID,
		ToUser:                t.ToUserID,
		Quantity:              t.Quantity,
		Status:                string(t.Status),
		TotalAmount:           t.TotalAmount,
		Carrier:               t.ShipmentDetails.Carrier,
		Origin:                t.ShipmentDetails.Origin.Address,
		Destination:           t.ShipmentDetails.Destination.Address,
		EstimatedDelivery:     t.ShipmentDetails.EstimatedDelivery,
		ActualDelivery:        t.ShipmentDetails.ActualDelivery,
		PaymentStatus:         t.PaymentStatus,
		Timeline:              timeline,
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}
