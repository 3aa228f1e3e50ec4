package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/clinic-console/internal/application/dto"
	"github.com/jhoicas/clinic-console/internal/application/onboarding"
	"github.com/jhoicas/clinic-console/internal/application/session"
)

// OnboardingHandler puerta y asistente de onboarding de la sesión.
type OnboardingHandler struct {
	svc      *onboarding.Service
	sessions *session.Registry
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(svc *onboarding.Service, sessions *session.Registry) *OnboardingHandler {
	return &OnboardingHandler{svc: svc, sessions: sessions}
}

func (h *OnboardingHandler) wizard(c *fiber.Ctx) (*onboarding.Wizard, error) {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return nil, err
	}
	return h.svc.Wizard(c.UserContext(), sess)
}

// Status godoc
// @Summary      Decidir si se muestra el asistente
// @Description  Omite rutas públicas y usuarios no admin; si no está completado, reanuda en el primer recurso vacío
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Param        route  query  string  false  "Ruta que está abriendo la consola"
// @Success      200  {object}  dto.GateResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /console/onboarding/status [get]
func (h *OnboardingHandler) Status(c *fiber.Ctx) error {
	sess, err := sessionFor(c, h.sessions)
	if err != nil {
		return err
	}
	res, err := h.svc.Status(c.UserContext(), sess, c.Query("route", "/"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// Mount godoc
// @Summary      Montar el asistente
// @Description  El paso inicial se fija solo en el primer montaje de la sesión
// @Tags         onboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MountRequest  false  "initial_step"
// @Success      200  {object}  dto.WizardView
// @Router       /console/onboarding/wizard/mount [post]
func (h *OnboardingHandler) Mount(c *fiber.Ctx) error {
	var in dto.MountRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &in); err != nil {
			return err
		}
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	return c.JSON(w.Mount(c.UserContext(), in.InitialStep))
}

// View GET /console/onboarding/wizard
func (h *OnboardingHandler) View(c *fiber.Ctx) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	return c.JSON(w.View())
}

// AddOutlet godoc
// @Summary      Crear sede en el paso 1
// @Tags         onboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OutletInput  true  "Sede"
// @Success      201  {object}  entity.OutletDraft
// @Failure      402  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/onboarding/wizard/outlets [post]
func (h *OnboardingHandler) AddOutlet(c *fiber.Ctx) error {
	var in dto.OutletInput
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	draft, err := w.AddOutlet(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// AddProduct POST /console/onboarding/wizard/products
func (h *OnboardingHandler) AddProduct(c *fiber.Ctx) error {
	var in dto.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	draft, err := w.AddProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// CategoryTemplates GET /console/onboarding/wizard/products/categories
func (h *OnboardingHandler) CategoryTemplates(c *fiber.Ctx) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	items, err := w.Products.CategoryTemplates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// AddStaff POST /console/onboarding/wizard/staff
func (h *OnboardingHandler) AddStaff(c *fiber.Ctx) error {
	var in dto.StaffInput
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	draft, err := w.AddStaff(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// PositionTemplates GET /console/onboarding/wizard/staff/positions
func (h *OnboardingHandler) PositionTemplates(c *fiber.Ctx) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	items, err := w.Staff.PositionTemplates(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// SelectSubTab POST /console/onboarding/wizard/staff/subtab
func (h *OnboardingHandler) SelectSubTab(c *fiber.Ctx) error {
	var in dto.SubTabRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	if err := w.SelectSubTab(in); err != nil {
		return err
	}
	return c.JSON(w.View())
}

// AddAvailability godoc
// @Summary      Crear disponibilidad semanal para un miembro del staff
// @Description  days usa 0=domingo … 6=sábado; se envía al backend como 0=lunes … 6=domingo
// @Tags         onboarding
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AvailabilityInput  true  "Disponibilidad"
// @Success      201  {object}  entity.AvailabilityDraft
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /console/onboarding/wizard/availability [post]
func (h *OnboardingHandler) AddAvailability(c *fiber.Ctx) error {
	var in dto.AvailabilityInput
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	draft, err := w.AddAvailability(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// Next POST /console/onboarding/wizard/next
func (h *OnboardingHandler) Next(c *fiber.Ctx) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	view, err := w.Next(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Back POST /console/onboarding/wizard/back
func (h *OnboardingHandler) Back(c *fiber.Ctx) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	view, err := w.Back(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// Complete godoc
// @Summary      Completar el onboarding
// @Description  Persiste la marca de completado y limpia el progreso. Idempotente.
// @Tags         onboarding
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompletionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /console/onboarding/wizard/complete [post]
func (h *OnboardingHandler) Complete(c *fiber.Ctx) error {
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	res, err := w.Complete(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// ClearAll POST /console/onboarding/wizard/clear
func (h *OnboardingHandler) ClearAll(c *fiber.Ctx) error {
	var in dto.ClearAllRequest
	if err := bind(c, &in); err != nil {
		return err
	}
	w, err := h.wizard(c)
	if err != nil {
		return err
	}
	view, err := w.ClearAll(c.UserContext(), in.Confirm)
	if err != nil {
		return err
	}
	return c.JSON(view)
}
