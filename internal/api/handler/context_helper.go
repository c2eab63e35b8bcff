package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/api/middleware"
	"campus-events/backend/internal/model"
	"campus-events/backend/pkg/response"
)

// MustGetPrincipal rebuilds the caller from the values JWTAuth put on the context.
// On failure it writes a 401 and returns false; the caller should return.
func MustGetPrincipal(c *gin.Context) (model.Principal, bool) {
	p, ok := principalFrom(c)
	if !ok {
		response.Unauthorized(c, 10002, "Please log in first.")
		return model.Principal{}, false
	}
	return p, true
}

// OptionalPrincipal the caller on public routes that ran JWTAuth optionally.
func OptionalPrincipal(c *gin.Context) *model.Principal {
	p, ok := principalFrom(c)
	if !ok {
		return nil
	}
	return &p
}

func principalFrom(c *gin.Context) (model.Principal, bool) {
	id, ok := c.Value(middleware.CtxUserID).(int64)
	role := model.Role(c.GetString(middleware.CtxRole))
	if !ok || id <= 0 || !role.Valid() {
		return model.Principal{}, false
	}
	return model.Principal{
		UserID:      id,
		Role:        role,
		IsAdmin:     c.GetBool(middleware.CtxIsAdmin),
		DisplayName: c.GetString(middleware.CtxDisplayName),
	}, true
}

// MustGetIDParam parses a positive integer path parameter; writes a 400 otherwise.
func MustGetIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "Invalid "+name+".")
		return 0, false
	}
	return id, true
}

// tokenSession the jti and expiry of the access token on the request.
func tokenSession(c *gin.Context) (string, time.Time) {
	exp, _ := c.Value(middleware.CtxTokenExp).(time.Time)
	return c.GetString(middleware.CtxTokenID), exp
}
