package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	SubCategory     string          `json:"sub_category"`
	Specs           json.RawMessage `json:"specifications"`
	CurrentLocation string          `json:"current_location"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	BatchNumber     string          `json:"batch_number"`
	TrackingNumber  string          `json:"tracking_number"` // opcional, se genera si viene vacío
}

// UpdateProductRequest entrada para actualizar datos descriptivos. El
// timeline, el estado y el dueño no se tocan por esta vía.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	SubCategory *string          `json:"sub_category"`
	Specs       json.RawMessage  `json:"specifications"`
	Quantity    *int             `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	BatchNumber *string          `json:"batch_number"`
}

// ChangeStatusRequest entrada para una transición de estado.
type ChangeStatusRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// QualityCheckRequest entrada para el endpoint de control de calidad.
type QualityCheckRequest struct {
	Notes        string          `json:"notes"`
	CheckDetails json.RawMessage `json:"check_details"`
}

// TransferRequest entrada para transferir la propiedad de un producto.
type TransferRequest struct {
	DestinationUserID string `json:"destination_user_id"`
	Location          string `json:"location"`
	Notes             string `json:"notes"`
}

// TimelineEntryResponse una entrada del timeline del producto.
type TimelineEntryResponse struct {
	Status      string          `json:"status"`
	Title       string          `json:"title"`
	Date        time.Time       `json:"date"`
	Location    string          `json:"location"`
	Handler     string          `json:"handler"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// TransactionRefResponse registro ligero embebido para mostrar rápido.
type TransactionRefResponse struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Quantity int       `json:"quantity"`
	Status   string    `json:"status"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string                   `json:"id"`
	TrackingNumber  string                   `json:"tracking_number"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description"`
	Category        string                   `json:"category"`
	SubCategory     string                   `json:"sub_category"`
	Specs           json.RawMessage          `json:"specifications,omitempty"`
	Manufacturer    string                   `json:"manufacturer"`
	CurrentOwner    string                   `json:"current_owner"`
	CurrentLocation string                   `json:"current_location"`
	Status          string                   `json:"status"`
	Quantity        int                      `json:"quantity"`
	Price           decimal.Decimal          `json:"price"`
	Timeline        []TimelineEntryResponse  `json:"timeline"`
	Transactions    []TransactionRefResponse `json:"transactions"`
	BatchNumber     string                   `json:"batch_number,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse mapea la entidad a su DTO de salida.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	timeline := make([]TimelineEntryResponse, 0, len(p.Timeline))
	for _, e := range p.Timeline {
		timeline = append(timeline, TimelineEntryResponse{
			Status:      string(e.Status),
			Title:       e.Title,
			Date:        e.Date,
			Location:    e.Location,
			Handler:     e.HandlerID,
			Description: e.Description,
			Metadata:    e.Metadata,
		})
	}
	refs := make([]TransactionRefResponse, 0, len(p.Transactions))
	for _, r := range p.Transactions {
		refs = append(refs, TransactionRefResponse{
			ID: r.ID, Date: r.Date, From: r.From, To: r.To,
			Quantity: r.Quantity, Status: r.Status,
		})
	}
	return &ProductResponse{
		ID:              p.ID,
		TrackingNumber:  p.TrackingNumber,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Specs:           p.Specs,
		Manufacturer:    p.ManufacturerID,
		CurrentOwner:    p.CurrentOwnerID,
		CurrentLocation: p.CurrentLocation,
		Status:          string(p.Status),
		Quantity:        p.Quantity,
		Price:           p.Price,
		Timeline:        timeline,
		Transactions:    refs,
		BatchNumber:     p.BatchNumber,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
