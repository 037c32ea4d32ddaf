package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cadena-pro/internal/application/dto"
	"github.com/tu-usuario/cadena-pro/internal/application/ledger"
	"github.com/tu-usuario/cadena-pro/internal/domain"
	"github.com/tu-usuario/cadena-pro/internal/domain/entity"
)

// TransactionHandler expone el ledger de transacciones.
type TransactionHandler struct {
	uc *ledger.UseCase
}

// NewTransactionHandler construye el handler del ledger.
func NewTransactionHandler(uc *ledger.UseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear una transacción explícita
// @Description  Descuenta la cantidad del stock del producto y registra el
// @Description  movimiento en el ledger.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateTransactionRequest  true  "product_id, to_user_id, quantity"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.ToUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y to_user_id son requeridos"})
	}
	var shipment *ledger.ShipmentInput
	if in.ShipmentDetails != nil {
		shipment = &ledger.ShipmentInput{
			Carrier:            in.ShipmentDetails.Carrier,
			DestinationAddress: in.ShipmentDetails.DestinationAddress,
			EstimatedDelivery:  in.ShipmentDetails.EstimatedDelivery,
		}
	}
	t, err := h.uc.Create(c.Context(), in.ProductID, GetUserID(c), in.ToUserID, in.Quantity, shipment)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransactionResponse(t))
}

// List godoc
// @Summary      Listar transacciones del ledger
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "tamaño de página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	txs, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toTransactionList(txs, page))
}

// Get godoc
// @Summary      Consultar una transacción
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "TXN-..."
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	t, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToTransactionResponse(t))
}

// ListByProduct godoc
// @Summary      Transacciones asociadas a un producto
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        productId  path  string  true  "id del producto"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions/product/{productId} [get]
func (h *TransactionHandler) ListByProduct(c *fiber.Ctx) error {
	txs, err := h.uc.ListByProduct(c.Context(), c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		items = append(items, *dto.ToTransactionResponse(t))
	}
	return c.JSON(items)
}

// UpdateStatus godoc
// @Summary      Avanzar el estado del envío de una transacción
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                              true  "TXN-..."
// @Param        body  body  dto.UpdateTransactionStatusRequest  true  "status"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/status [put]
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransactionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), in.Status, in.Location, in.Notes)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToTransactionResponse(t))
}

func toTransactionList(txs []*entity.Transaction, page dto.PageRequest) dto.TransactionListResponse {
	items := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		items = append(items, *dto.ToTransactionResponse(t))
	}
	return dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}

func (h *TransactionHandler) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción o producto no encontrado"})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario destino no existe"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_QUANTITY", Message: "el producto no tiene stock suficiente"})
	case errors.Is(err, domain.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VERSION_CONFLICT", Message: "el producto fue modificado por otra operación, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
