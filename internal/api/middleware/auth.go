package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-events/backend/pkg/jwt"
	"campus-events/backend/pkg/response"
)

// Context keys set by JWTAuth.
const (
	CtxUserID      = "user_id"
	CtxRole        = "role"
	CtxIsAdmin     = "is_admin"
	CtxDisplayName = "display_name"
	CtxTokenID     = "token_jti"
	CtxTokenExp    = "token_exp"
)

// Blacklist reports revoked token ids. *redis.Client implements it.
type Blacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth authenticates Authorization: Bearer <access token>.
// A nil blacklist skips the revocation check.
func JWTAuth(jwtMgr *jwt.Manager, blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseTyped(parts[1], jwt.TypeAccess)
		if err != nil {
			response.Unauthorized(c, 10002, "Session expired. Please log in again.")
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			// Redis errors fall through; the token signature was already verified.
			if err == nil && revoked {
				response.Unauthorized(c, 10002, "Session expired. Please log in again.")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Set(CtxDisplayName, claims.Name)
		c.Set(CtxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// OptionalJWT sets the caller when a valid access token is present and never rejects.
func OptionalJWT(jwtMgr *jwt.Manager, blacklist Blacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}
		claims, err := jwtMgr.ParseTyped(parts[1], jwt.TypeAccess)
		if err != nil {
			c.Next()
			return
		}
		if blacklist != nil && claims.ID != "" {
			if revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID); err == nil && revoked {
				c.Next()
				return
			}
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxIsAdmin, claims.IsAdmin)
		c.Set(CtxDisplayName, claims.Name)
		c.Next()
	}
}

// RoleAuth allows only the listed roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.Unauthorized(c, 10002, "Please log in first.")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "Unauthorized access.")
		c.Abort()
	}
}

// AdminOnly allows faculty accounts carrying the admin flag.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRole) != "faculty" || !c.GetBool(CtxIsAdmin) {
			response.Forbidden(c, 10003, "Unauthorized access.")
			c.Abort()
			return
		}
		c.Next()
	}
}
