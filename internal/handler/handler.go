package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaydenmetz/real-estate-crm-sub015/internal/service"
)

// IdentityKey is the gin context key the router's identity middleware fills.
const IdentityKey = "identity"

func identityFrom(c *gin.Context) service.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(service.Identity); ok {
			return id
		}
	}
	return service.Identity{}
}

// respondError maps service sentinels onto HTTP statuses. Not-found answers
// are identical for missing, deleted, and other-team rows.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrTemplateTaskNotFound),
		errors.Is(err, service.ErrChecklistNotFound),
		errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoUpdates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
