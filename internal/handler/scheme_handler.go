package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-go-api/internal/dto"
	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/middleware"
	"github.com/noah-isme/gradebook-go-api/internal/service"
	"github.com/noah-isme/gradebook-go-api/internal/utils"
)

// SchemeHandler manages grading scheme endpoints.
type SchemeHandler struct {
	service service.SchemeService
	logger  zerolog.Logger
}

// NewSchemeHandler builds a scheme handler instance.
func NewSchemeHandler(service service.SchemeService, logger zerolog.Logger) *SchemeHandler {
	return &SchemeHandler{
		service: service,
		logger:  logger.With().Str("component", "scheme_handler").Logger(),
	}
}

// Register attaches the class-scoped scheme routes.
func (h *SchemeHandler) Register(router fiber.Router) {
	router.Get("/:classID/grading-scheme", h.get)
	router.Put("/:classID/grading-scheme", middleware.WithAuth(h.upsert, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
}

func (h *SchemeHandler) upsert(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradingSchemeUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	scheme, err := h.service.Upsert(c.Context(), actorFromContext(c), classID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grading scheme configured", scheme)
}

func (h *SchemeHandler) get(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	scheme, err := h.service.Get(c.Context(), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grading scheme retrieved", scheme)
}

func (h *SchemeHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrSchemeNotConfigured):
		return utils.SendError(c, fiber.StatusNotFound, "no grading scheme configured")
	case errors.Is(err, service.ErrNotClassOwner):
		return utils.SendError(c, fiber.StatusForbidden, "only the owning teacher may configure the scheme")
	case errors.Is(err, grading.ErrWeightsInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, "category weights must sum to 100")
	case errors.Is(err, grading.ErrTableEmpty),
		errors.Is(err, grading.ErrTableGap),
		errors.Is(err, grading.ErrTableOverlap),
		errors.Is(err, grading.ErrRuleBoundsInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
