package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-go-api/internal/grading"
	"github.com/noah-isme/gradebook-go-api/internal/middleware"
	"github.com/noah-isme/gradebook-go-api/internal/service"
	"github.com/noah-isme/gradebook-go-api/internal/utils"
)

// GradeHandler exposes computed grade reports and rosters.
type GradeHandler struct {
	service service.GradeService
	logger  zerolog.Logger
}

// NewGradeHandler builds a grade handler instance.
func NewGradeHandler(service service.GradeService, logger zerolog.Logger) *GradeHandler {
	return &GradeHandler{
		service: service,
		logger:  logger.With().Str("component", "grade_handler").Logger(),
	}
}

// RegisterClassRoutes attaches the class-scoped grade routes.
func (h *GradeHandler) RegisterClassRoutes(router fiber.Router) {
	router.Get("/:classID/students/:studentID/grades", h.studentGrades)
	router.Get("/:classID/grade-summary", middleware.WithAuth(h.classSummary, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
}

// RegisterActivityRoutes attaches the activity-scoped roster route.
func (h *GradeHandler) RegisterActivityRoutes(router fiber.Router) {
	router.Get("/:id/roster", middleware.WithAuth(h.roster, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
}

func (h *GradeHandler) studentGrades(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.ComputeStudentGrades(c.Context(), actorFromContext(c), classID, studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade report computed", report)
}

func (h *GradeHandler) classSummary(c *fiber.Ctx) error {
	classID, err := parseUintParam(c, "classID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.ClassGradeSummary(c.Context(), actorFromContext(c), classID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade summary computed", summary)
}

func (h *GradeHandler) roster(c *fiber.Ctx) error {
	activityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.service.MissingRoster(c.Context(), actorFromContext(c), activityID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "roster retrieved", roster)
}

func (h *GradeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, service.ErrNotClassOwner):
		return utils.SendError(c, fiber.StatusForbidden, "only the owning teacher may view this")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own grades")
	case errors.Is(err, service.ErrSchemeNotConfigured):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "no grading scheme configured for class")
	case errors.Is(err, grading.ErrTableEmpty),
		errors.Is(err, grading.ErrTableGap),
		errors.Is(err, grading.ErrTableOverlap),
		errors.Is(err, grading.ErrRuleBoundsInvalid):
		h.logger.Error().Err(err).Msg("transmutation table misconfigured")
		return utils.SendError(c, fiber.StatusInternalServerError, "transmutation table misconfigured")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
