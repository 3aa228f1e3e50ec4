package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/customers"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UndoRequest token de la ventana de deshacer (vacío = ventana actual).
type UndoRequest struct {
	Token string `json:"token"`
}

// CustomerHandler maneja las peticiones HTTP de la página de clientes.
type CustomerHandler struct {
	svc      *customers.Service
	sessions *session.Registry
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(svc *customers.Service, sessions *session.Registry) *CustomerHandler {
	return &CustomerHandler{svc: svc, sessions: sessions}
}

// List godoc
// @Summary      Listar clientes
// @Description  Página del backend con segmentos y resumen calculados; statistics es null si el resumen no estuvo disponible
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        page          query  int     false  "Página (default 1)"
// @Param        size          query  int     false  "Tamaño (default 20, max 100)"
// @Param        search        query  string  false  "Búsqueda en el backend"
// @Param        created_from  query  string  false  "YYYY-MM-DD"
// @Param        created_to    query  string  false  "YYYY-MM-DD"
// @Param        segment       query  string  false  "new | loyal | vip | inactive"
// @Param        text          query  string  false  "Filtro local por nombre, teléfono o email"
// @Success      200  {object}  dto.CustomerListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var q dto.CustomerListRequest
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros inválidos")
	}
	res, err := h.svc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Export godoc
// @Summary      Exportar la página de clientes a Excel
// @Tags         customers
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /console/customers/export [get]
func (h *CustomerHandler) Export(c *fiber.Ctx) error {
	var q dto.CustomerListRequest
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros inválidos")
	}
	file, err := h.svc.Export(c.UserContext(), q)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="clientes-%s.xlsx"`, GetTenantID(c)))
	return c.Send(file)
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerInput  true  "Cliente; phone en formato nacional (8…)"
// @Success      201  {object}  entity.Customer
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	created, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update PUT /console/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerInput
	if err := bind(c, &in); err != nil {
		return err
	}
	updated, err := h.svc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// Delete godoc
// @Summary      Eliminar cliente (borrado lógico con ventana de deshacer)
// @Description  Un nuevo borrado reemplaza la ventana anterior
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del cliente"
// @Param        label  query  string  false  "Texto a mostrar en el aviso de deshacer"
// @Success      202  {object}  softdelete.Pending
// @Router       /console/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	pending, err := h.svc.Delete(c.UserContext(), sess, c.Params("id"), c.Query("label"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(pending)
}

// Undo POST /console/customers/undo
func (h *CustomerHandler) Undo(c *fiber.Ctx) error {
	var in UndoRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &in); err != nil {
			return err
		}
	}
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	restored, err := h.svc.Undo(c.UserContext(), sess, in.Token)
	if err != nil {
		return err
	}
	return c.JSON(restored)
}

// PendingUndo GET /console/customers/undo
func (h *CustomerHandler) PendingUndo(c *fiber.Ctx) error {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	pending, err := h.svc.PendingUndo(sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"pending": pending})
}
