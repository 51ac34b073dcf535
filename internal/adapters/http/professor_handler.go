package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/ports"
)

// ProfessorHandler handles professor-related requests
type ProfessorHandler struct {
	professorService ports.ProfessorService
	logger           *logger.Logger
}

// NewProfessorHandler creates a new professor handler
func NewProfessorHandler(professorService ports.ProfessorService, logger *logger.Logger) *ProfessorHandler {
	return &ProfessorHandler{
		professorService: professorService,
		logger:           logger,
	}
}

// ListProfessors godoc
// @Summary List professors
// @Description List every professor sorted ascending by id
// @Tags professors
// @Produce json
// @Success 200 {array} entities.Professor
// @Failure 500 {object} ErrorResponse
// @Router /professors [get]
func (h *ProfessorHandler) ListProfessors(c echo.Context) error {
	professors, err := h.professorService.ListProfessors(c.Request().Context())
	if err != nil {
		return storeError(err, "Could not get list of professors.")
	}

	return c.JSON(http.StatusOK, professors)
}

// GetProfessor godoc
// @Summary Get professor by ID
// @Tags professors
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} entities.Professor
// @Failure 404 {object} ErrorResponse
// @Router /professors/{id} [get]
func (h *ProfessorHandler) GetProfessor(c echo.Context) error {
	id, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}

	professor, err := h.professorService.GetProfessor(c.Request().Context(), id)
	if err != nil {
		return storeError(err, "Could not get professor.")
	}

	return c.JSON(http.StatusOK, professor)
}

// CreateProfessor godoc
// @Summary Create a new professor
// @Tags professors
// @Accept json
// @Produce json
// @Param request body ports.CreateProfessorRequest true "Professor data"
// @Success 200 {object} entities.Professor
// @Success 202 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse
// @Router /professors [post]
func (h *ProfessorHandler) CreateProfessor(c echo.Context) error {
	var req ports.CreateProfessorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	professor, err := h.professorService.CreateProfessor(c.Request().Context(), req)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Professor was added in memory, but the addition has not been committed.")
	}
	if err != nil {
		h.logger.Errorw("Create professor failed", "error", err)
		return storeError(err, "Could not add professor.")
	}

	return c.JSON(http.StatusOK, professor)
}

// UpdateProfessor godoc
// @Summary Update a professor
// @Description Overwrite name and dept, and desc when supplied. Id and papers never change.
// @Tags professors
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param request body ports.UpdateProfessorRequest true "Professor fields"
// @Success 200 {object} entities.Professor
// @Success 202 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /professors/{id} [patch]
func (h *ProfessorHandler) UpdateProfessor(c echo.Context) error {
	id, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}

	var req ports.UpdateProfessorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	professor, err := h.professorService.UpdateProfessor(c.Request().Context(), id, req)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Professor was edited in memory, but the edit has not been committed.")
	}
	if err != nil {
		return storeError(err, "Could not edit professor.")
	}

	return c.JSON(http.StatusOK, professor)
}

// DeleteProfessor godoc
// @Summary Delete a professor
// @Tags professors
// @Param id path int true "Professor ID"
// @Success 204
// @Success 202 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /professors/{id} [delete]
func (h *ProfessorHandler) DeleteProfessor(c echo.Context) error {
	id, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}

	err = h.professorService.DeleteProfessor(c.Request().Context(), id)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Professor was deleted in memory, but the deletion has not been committed.")
	}
	if err != nil {
		return storeError(err, "Could not delete professor.")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetDescription godoc
// @Summary Generate a professor description
// @Description Summarize the professor's paper titles with the description generator and store the result in desc
// @Tags professors
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} ports.DescriptionResponse
// @Success 202 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /professors/{id}/description [get]
func (h *ProfessorHandler) GetDescription(c echo.Context) error {
	id, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}

	desc, err := h.professorService.GenerateDescription(c.Request().Context(), id)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Description was saved in memory but has not yet been committed.")
	}
	if errors.Is(err, entities.ErrGenerationFailed) {
		h.logger.Errorw("Generate description failed", "error", err, "professor_id", id)
		return storeError(err, "An error occurred while generating the description.")
	}
	if err != nil {
		return storeError(err, "Could not get professor description.")
	}

	return c.JSON(http.StatusOK, ports.DescriptionResponse{Description: desc})
}
