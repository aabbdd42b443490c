package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskly/internal/domain"
)

// Closed set of error kinds carried in the response envelope. Clients switch
// on the kind, never on message text.
const (
	kindValidationFailed      = "validation_failed"
	kindInvalidCredentials    = "invalid_credentials"
	kindForbidden             = "forbidden"
	kindNotFound              = "not_found"
	kindDuplicateRegistration = "duplicate_registration"
	kindConflict              = "conflict"
	kindUnexpected            = "unexpected"
)

type errorBody struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError translates a service-layer failure into the structured error
// envelope. Unexpected errors are logged in full and returned opaque.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		duplicateErr  *domain.DuplicateRegistrationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorEnvelope{Error: errorBody{
			Kind:    kindValidationFailed,
			Message: "validation failed",
			Fields:  validationErr.Fields,
		}})
	case errors.As(err, &duplicateErr):
		fields := make(map[string]string, len(duplicateErr.Fields))
		for _, f := range duplicateErr.Fields {
			fields[f] = "already taken"
		}
		c.JSON(http.StatusConflict, errorEnvelope{Error: errorBody{
			Kind:    kindDuplicateRegistration,
			Message: "this " + strings.Join(duplicateErr.Fields, " and ") + " is already taken",
			Fields:  fields,
		}})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorEnvelope{Error: errorBody{
			Kind:    kindInvalidCredentials,
			Message: "invalid credentials",
		}})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorEnvelope{Error: errorBody{
			Kind:    kindForbidden,
			Message: "you do not have access to this resource",
		}})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorEnvelope{Error: errorBody{
			Kind:    kindNotFound,
			Message: "not found",
		}})
	default:
		h.logger.WithError(err).Errorf("unhandled error on %s %s", c.Request.Method, c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: errorBody{
			Kind:    kindUnexpected,
			Message: "something went wrong",
		}})
	}
}

// writeBindError reports malformed or incomplete request bodies.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorEnvelope{Error: errorBody{
		Kind:    kindValidationFailed,
		Message: "invalid request body: " + err.Error(),
	}})
}
