package handlers

import (
	"errors"
	"net/http"

	"social-ledger/internal/auth"
	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
)

// callerKey is the context key carrying the authenticated collaborator name
const callerKey = "caller_service"

// RequireServiceToken guards mutating routes: the request must carry a valid
// service token in the Authorization header.
func RequireServiceToken(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		service, err := tokens.Verify(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, service)
		c.Next()
	}
}

// respondError maps the core error taxonomy onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}
	var nfe *services.NotFoundError
	if errors.As(err, &nfe) {
		c.JSON(http.StatusNotFound, gin.H{"error": nfe.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
