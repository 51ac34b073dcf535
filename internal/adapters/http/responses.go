package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scholarsync/core/internal/domain/entities"
	"github.com/scholarsync/core/internal/ports"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse = ports.MessageResponse

// parseID reads a uint32 path parameter.
func parseID(c echo.Context, name, label string) (uint32, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+label+" ID.")
	}
	return uint32(id), nil
}

// bindAndValidate decodes the JSON body into req and runs its validation tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format.")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// accepted answers a change that lives only in memory.
func accepted(c echo.Context, message string) error {
	return c.JSON(http.StatusAccepted, ports.MessageResponse{Message: message})
}

// storeError maps store errors onto status codes. fallback is the message
// used for internal errors.
func storeError(err error, fallback string) error {
	switch {
	case errors.Is(err, entities.ErrPaperNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Paper not found.").SetInternal(err)
	case errors.Is(err, entities.ErrProfessorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Professor not found.").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fallback).SetInternal(err)
	}
}
