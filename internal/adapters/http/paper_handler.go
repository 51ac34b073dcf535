package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/infrastructure/logger"
	"github.com/scholarsync/core/internal/ports"
)

// PaperHandler handles requests on a professor's papers
type PaperHandler struct {
	professorService ports.ProfessorService
	logger           *logger.Logger
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(professorService ports.ProfessorService, logger *logger.Logger) *PaperHandler {
	return &PaperHandler{
		professorService: professorService,
		logger:           logger,
	}
}

// ListPapers godoc
// @Summary List a professor's papers
// @Tags papers
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {array} entities.Paper
// @Failure 404 {object} ErrorResponse
// @Router /professors/{id}/papers [get]
func (h *PaperHandler) ListPapers(c echo.Context) error {
	profID, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}

	papers, err := h.professorService.ListPapers(c.Request().Context(), profID)
	if err != nil {
		return storeError(err, "Could not get papers.")
	}

	return c.JSON(http.StatusOK, papers)
}

// CreatePaper godoc
// @Summary Add a paper to a professor
// @Tags papers
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param request body ports.PaperRequest true "Paper data"
// @Success 200 {object} entities.Paper
// @Success 202 {object} ErrorResponse
// @Failure 400 {object} ErrorResponse
// @Router /professors/{id}/papers [post]
func (h *PaperHandler) CreatePaper(c echo.Context) error {
	profID, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}

	var req ports.PaperRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	paper, err := h.professorService.CreatePaper(c.Request().Context(), profID, req)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Paper was added in memory, but the addition has not been committed.")
	}
	if errors.Is(err, entities.ErrProfessorNotFound) {
		// The professor in the path is a bad reference for the new paper.
		return echo.NewHTTPError(http.StatusBadRequest, "Professor not found.").SetInternal(err)
	}
	if err != nil {
		return storeError(err, "Could not add paper.")
	}

	return c.JSON(http.StatusOK, paper)
}

// UpdatePaper godoc
// @Summary Change a paper's title
// @Tags papers
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param pid path int true "Paper ID"
// @Param request body ports.PaperRequest true "Paper data"
// @Success 200 {object} entities.Paper
// @Success 202 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /professors/{id}/papers/{pid} [put]
func (h *PaperHandler) UpdatePaper(c echo.Context) error {
	profID, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}
	paperID, err := parseID(c, "pid", "paper")
	if err != nil {
		return err
	}

	var req ports.PaperRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	paper, err := h.professorService.UpdatePaper(c.Request().Context(), profID, paperID, req)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Paper was edited in memory, but the edit has not been committed.")
	}
	if err != nil {
		return storeError(err, "Could not edit paper.")
	}

	return c.JSON(http.StatusOK, paper)
}

// DeletePaper godoc
// @Summary Remove a paper
// @Tags papers
// @Param id path int true "Professor ID"
// @Param pid path int true "Paper ID"
// @Success 204
// @Success 202 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /professors/{id}/papers/{pid} [delete]
func (h *PaperHandler) DeletePaper(c echo.Context) error {
	profID, err := parseID(c, "id", "professor")
	if err != nil {
		return err
	}
	paperID, err := parseID(c, "pid", "paper")
	if err != nil {
		return err
	}

	err = h.professorService.DeletePaper(c.Request().Context(), profID, paperID)
	if errors.Is(err, entities.ErrNotCommitted) {
		return accepted(c, "Paper was deleted in memory, but the deletion has not been committed.")
	}
	if err != nil {
		return storeError(err, "Could not delete paper.")
	}

	return c.NoContent(http.StatusNoContent)
}
