package controllers

import (
	"errors"
	"net/http"

	"rta-backend/pkg/resp"
	"rta-backend/services"

	"github.com/gin-gonic/gin"
)

// handleError maps service errors onto the envelope and status code.
func handleError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUnknownAction),
		errors.Is(err, services.ErrInvalidTemplate):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		resp.Conflict(c, err.Error())
	default:
		resp.Fail(c, http.StatusInternalServerError, err.Error())
	}
}

func badBody(c *gin.Context, err error) {
	_ = c.Error(err)
	resp.BadRequest(c, "invalid request body: "+err.Error())
}
