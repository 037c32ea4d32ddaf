package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/cadena-pro/internal/application/dto"
	"github.com/tu-usuario/cadena-pro/internal/application/lifecycle"
	"github.com/tu-usuario/cadena-pro/internal/application/usecase"
	"github.com/tu-usuario/cadena-pro/internal/domain"
)

// ProductHandler expone el CRUD de productos, el motor de ciclo de vida
// (cambio de estado, control de calidad, transferencia) y el reporte PDF.
type ProductHandler struct {
	products  *usecase.ProductUseCase
	lifecycle *lifecycle.UseCase
	reports   *usecase.ReportUseCase
}

// NewProductHandler construye el handler de productos.
func NewProductHandler(products *usecase.ProductUseCase, lc *lifecycle.UseCase, reports *usecase.ReportUseCase) *ProductHandler {
	return &ProductHandler{products: products, lifecycle: lc, reports: reports}
}

// actor arma el actor del motor de ciclo de vida desde el token.
func actor(c *fiber.Ctx) lifecycle.Actor {
	return lifecycle.Actor{ID: GetUserID(c), Role: GetRole(c)}
}

// Create godoc
// @Summary      Registrar producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateProductRequest  true  "datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.products.Create(GetUserID(c), GetRole(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name, category y current_location son requeridos; quantity y price no pueden ser negativos"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el número de rastreo ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos visibles para el rol
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        category  query  string  false  "filtrar por categoría"
// @Param        limit     query  int     false  "tamaño de página"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.products.List(GetRole(c), c.Query("category"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Consultar producto por id
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "id del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	out, err := h.products.GetByID(c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Track godoc
// @Summary      Consultar producto por número de rastreo
// @Tags         products
// @Produce      json
// @Param        trackingNumber  path  string  true  "TRK-..."
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/track/{trackingNumber} [get]
func (h *ProductHandler) Track(c *fiber.Ctx) error {
	out, err := h.products.Track(c.Params("trackingNumber"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Timeline godoc
// @Summary      Historial completo del producto
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "id del producto"
// @Success      200  {array}   dto.TimelineEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/timeline [get]
func (h *ProductHandler) Timeline(c *fiber.Ctx) error {
	out, err := h.products.Timeline(c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos descriptivos del producto
// @Description  No permite cambiar estado, dueño ni timeline; para eso están
// @Description  los endpoints de ciclo de vida.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "id del producto"
// @Param        body  body  dto.UpdateProductRequest true  "campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.products.Update(c.Params("id"), in)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "id del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Params("id")); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangeStatus godoc
// @Summary      Transicionar el estado del producto
// @Description  Valida la transición contra la tabla rol → estado origen →
// @Description  estados destino. Las llegadas a in-supply, in-distribution y
// @Description  delivered quedan registradas en el ledger; in-distribution
// @Description  además transfiere la propiedad al actor.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "id del producto"
// @Param        body  body  dto.ChangeStatusRequest  true  "status destino"
// @Success      200   {object}  dto.ProductResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/status [put]
func (h *ProductHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.lifecycle.ChangeStatus(c.Context(), c.Params("id"), actor(c), in.Status, in.Location, in.Notes)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// QualityCheck godoc
// @Summary      Ejecutar el control de calidad automático
// @Description  El control siempre aprueba y deja el producto en in-supply.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "id del producto"
// @Param        body  body  dto.QualityCheckRequest  false "notas y detalle del chequeo"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/quality-check [post]
func (h *ProductHandler) QualityCheck(c *fiber.Ctx) error {
	var in dto.QualityCheckRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	p, err := h.lifecycle.QualityCheckPass(c.Context(), c.Params("id"), actor(c), in.Notes, in.CheckDetails)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Transfer godoc
// @Summary      Transferir la propiedad del producto
// @Description  Reasigna el dueño sin pasar por la tabla de transiciones; el
// @Description  estado no cambia y el movimiento queda en el ledger.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "id del producto"
// @Param        body  body  dto.TransferRequest  true  "destination_user_id"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/transfer [post]
func (h *ProductHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DestinationUserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "destination_user_id es requerido"})
	}
	p, err := h.lifecycle.TransferOwnership(c.Context(), c.Params("id"), actor(c), in.DestinationUserID, in.Location, in.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario destino no existe"})
		}
		return h.mapError(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Report godoc
// @Summary      Reporte PDF de trazabilidad del producto
// @Tags         products
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "id del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/report.pdf [get]
func (h *ProductHandler) Report(c *fiber.Ctx) error {
	pdfBytes, err := h.reports.TrackingReport(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tracking-report.pdf"`)
	return c.Send(pdfBytes)
}

// mapError traduce errores de dominio a respuestas HTTP.
func (h *ProductHandler) mapError(c *fiber.Ctx, err error) error {
	if ft, ok := domain.IsForbiddenTransition(err); ok {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "FORBIDDEN_TRANSITION",
			Message: "el rol " + ft.Role + " no puede cambiar el estado de " + ft.From + " a " + ft.To,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VERSION_CONFLICT", Message: "el producto fue modificado por otra operación, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
