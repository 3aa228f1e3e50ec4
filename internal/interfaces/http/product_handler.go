package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/products"
	"github.com/jhoicas/clinic-console/internal/application/session"
)

// ProductHandler maneja las peticiones HTTP del catálogo de servicios.
type ProductHandler struct {
	svc      *products.Service
	sessions *session.Registry
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *products.Service, sessions *session.Registry) *ProductHandler {
	return &ProductHandler{svc: svc, sessions: sessions}
}

// List godoc
// @Summary      Listar servicios
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        page      query  int     false  "Página"
// @Param        size      query  int     false  "Tamaño (max 100)"
// @Param        search    query  string  false  "Búsqueda"
// @Param        category  query  string  false  "Categoría"
// @Success      200  {object}  repository.ServicePage
// @Router       /console/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductListRequest
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parámetros inválidos")
	}
	page, err := h.svc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// Categories GET /console/products/categories
func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	items, err := h.svc.CategoryTemplates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// Create godoc
// @Summary      Crear servicio
// @Description  Valida precios (promoción menor al precio base y con vigencia futura) y el tope del plan
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Servicio con pricing"
// @Success      201  {object}  entity.Service
// @Failure      402  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	created, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Update PUT /console/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	updated, err := h.svc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// Delete DELETE /console/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
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

// Undo POST /console/products/undo
func (h *ProductHandler) Undo(c *fiber.Ctx) error {
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
