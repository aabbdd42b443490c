package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const contextKeyUserID = "user_id"

// callerID returns the authenticated user's id set by requireAuth.
// Empty when the route is unprotected.
func callerID(c *gin.Context) string {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return ""
	}
	id, ok := v.(string)
	if !ok {
		return ""
	}
	return id
}

// requireAuth verifies the bearer credential and resolves the caller once per
// request. Every failure collapses to the same 401 response.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := h.tokens.Verify(parts[1], time.Now().UTC())
		if err != nil {
			abortUnauthorized(c)
			return
		}

		if _, err := h.auth.GetUser(c.Request.Context(), claims.Subject); err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(contextKeyUserID, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorEnvelope{
		Error: errorBody{
			Kind:    kindInvalidCredentials,
			Message: "invalid or missing credentials",
		},
	})
}
