package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scholaris/resultportal/internal/app/models"
	"github.com/scholaris/resultportal/internal/app/models/dto"
	"github.com/scholaris/resultportal/internal/app/session"
	"github.com/scholaris/resultportal/internal/pkg/apperrors"
	"github.com/scholaris/resultportal/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	sessionKey = "session"
	claimsKey  = "claims"
)

// Identifier resolves an access token to the session it stands for
type Identifier interface {
	Identify(ctx context.Context, token string) (*session.Store, *auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	identifier Identifier
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(identifier Identifier) *AuthMiddleware {
	return &AuthMiddleware{identifier: identifier}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth validates the bearer token and puts the session on the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		// Swagger UI sometimes sends the token as a query parameter
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		store, claims, err := m.identifier.Identify(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
			case errors.Is(err, apperrors.ErrTokenRevoked):
				abortUnauthorized(c, dto.ErrorCodeRevokedToken, "Token has been revoked")
			case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
				abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			default:
				HandleAPIError(c, err)
				c.Abort()
			}
			return
		}

		c.Set(sessionKey, store)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RoleRequired lets through only sessions of the given actor type
func (m *AuthMiddleware) RoleRequired(required models.ActorType) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := SessionFrom(c)
		if store == nil || !store.Authenticated() {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Session not found")
			return
		}

		actor := store.Actor()
		if actor.Kind() != required {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// SessionFrom returns the session placed on the context by JWTAuth
func SessionFrom(c *gin.Context) *session.Store {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	store, _ := v.(*session.Store)
	return store
}

// ClaimsFrom returns the verified token claims
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// CurrentAdmin returns the logged-in administrator, if any
func CurrentAdmin(c *gin.Context) *models.Admin {
	if store := SessionFrom(c); store != nil {
		return store.Admin()
	}
	return nil
}

// CurrentStudent returns the logged-in student, if any
func CurrentStudent(c *gin.Context) *models.Student {
	if store := SessionFrom(c); store != nil {
		return store.Student()
	}
	return nil
}
