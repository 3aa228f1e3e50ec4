package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
	"github.com/jhoicas/clinic-console/internal/application/walkin"
)

// WalkInHandler mostrador de reservas walk-in.
type WalkInHandler struct {
	svc      *walkin.Service
	sessions *session.Registry
}

// NewWalkInHandler construye el handler.
func NewWalkInHandler(svc *walkin.Service, sessions *session.Registry) *WalkInHandler {
	return &WalkInHandler{svc: svc, sessions: sessions}
}

// Search godoc
// @Summary      Buscar cliente por teléfono
// @Description  Cada llamada reinicia el debounce; el resultado se consulta en /lookup
// @Tags         walkin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WalkInSearchRequest  true  "phone"
// @Success      202  {object}  dto.WalkInLookupView
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/walkin/search [post]
func (h *WalkInHandler) Search(c *fiber.Ctx) error {
	var in dto.WalkInSearchRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	view, err := h.svc.Search(sess, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(view)
}

// Lookup GET /console/walkin/lookup
func (h *WalkInHandler) Lookup(c *fiber.Ctx) error {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	view, err := h.svc.Lookup(sess)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Reset POST /console/walkin/reset
func (h *WalkInHandler) Reset(c *fiber.Ctx) error {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	if err := h.svc.Reset(sess); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateCustomer godoc
// @Summary      Crear el cliente buscado que no existe
// @Description  Requiere búsqueda previa en not_found y confirm=true
// @Tags         walkin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WalkInCustomerInput  true  "Cliente"
// @Success      201  {object}  entity.Customer
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      428  {object}  dto.ErrorResponse
// @Router       /console/walkin/customers [post]
func (h *WalkInHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.WalkInCustomerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	created, err := h.svc.CreateCustomer(c.UserContext(), sess, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Grid godoc
// @Summary      Grilla de disponibilidad
// @Tags         walkin
// @Security     Bearer
// @Produce      json
// @Param        service_id             query  string  true   "Servicio"
// @Param        outlet_id              query  string  true   "Sede"
// @Param        staff_id               query  string  false  "Staff"
// @Param        start_date             query  string  true   "YYYY-MM-DD"
// @Param        num_days               query  int     false  "Días (default 1, max 14)"
// @Param        slot_interval_minutes  query  int     false  "Intervalo (default 30)"
// @Success      200  {object}  dto.WalkInGridResponse
// @Router       /console/walkin/grid [get]
func (h *WalkInHandler) Grid(c *fiber.Ctx) error {
	var q dto.WalkInGridRequest
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros inválidos")
	}
	res, err := h.svc.Grid(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Book godoc
// @Summary      Reservar para el cliente del mostrador
// @Description  Verifica la franja y crea la reserva con source walk_in
// @Tags         walkin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.WalkInBookingRequest  true  "Reserva"
// @Success      201  {object}  dto.WalkInBookingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/walkin/bookings [post]
func (h *WalkInHandler) Book(c *fiber.Ctx) error {
	var in dto.WalkInBookingRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	res, err := h.svc.Book(c.UserContext(), sess, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Slip godoc
// @Summary      Comprobante PDF de una reserva walk-in
// @Tags         walkin
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /console/walkin/bookings/{id}/slip [get]
func (h *WalkInHandler) Slip(c *fiber.Ctx) error {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	id := c.Params("id")
	pdf, err := h.svc.Slip(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="reserva-%s.pdf"`, id))
	return c.Send(pdf)
}
