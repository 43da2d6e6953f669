package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/octavehouse/storefront/internal/audit"
	"github.com/octavehouse/storefront/internal/config"
	ierr "github.com/octavehouse/storefront/internal/errors"
	"github.com/octavehouse/storefront/internal/logger"
	"github.com/octavehouse/storefront/internal/types"
)

// OwnerClaims are the JWT claims carried by owner tokens
type OwnerClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// OwnerAuthMiddleware guards admin routes: a valid owner JWT is required and
// every rejected attempt is audited
func OwnerAuthMiddleware(cfg *config.Configuration, auditLog audit.Logger, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := bearerToken(c)
		if token == "" {
			auditLog.Record(ctx, "admin.access", c.FullPath(), audit.OutcomeUnauthorized, map[string]any{
				"reason": "missing_token",
			})
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims := &OwnerClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ierr.NewError("unexpected signing method").
					Mark(ierr.ErrPermissionDenied)
			}
			return []byte(cfg.Auth.Secret), nil
		})
		if err != nil || !parsed.Valid {
			log.Debugw("owner token rejected", "error", err)
			auditLog.Record(ctx, "admin.access", c.FullPath(), audit.OutcomeUnauthorized, map[string]any{
				"reason": "invalid_token",
			})
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if !cfg.Auth.IsOwnerEmail(claims.Email) {
			auditLog.Record(ctx, "admin.access", c.FullPath(), audit.OutcomeUnauthorized, map[string]any{
				"reason": "not_owner",
				"email":  claims.Email,
			})
			abortUnauthorized(c, "Not authorized for admin access")
			return
		}

		ctx = types.SetUserEmail(ctx, claims.Email)
		ctx = context.WithValue(ctx, types.CtxIsOwner, true)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, hint string) {
	_ = c.Error(ierr.NewError("unauthorized").
		WithHint(hint).
		Mark(ierr.ErrPermissionDenied))
	c.Abort()
}
