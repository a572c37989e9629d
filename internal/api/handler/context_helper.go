package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"club-lodging/backend/pkg/response"
)

// Context keys set by middleware.JWTAuth.
const (
	CtxUserID     = "user_id"
	CtxRole       = "role"
	CtxMemberType = "member_type"
	CtxTokenJTI   = "token_jti"
	CtxTokenExp   = "token_exp"
)

// MustGetUserID reads the caller's id. When the auth middleware did not run
// it writes a 401 and returns false; callers return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxUserID)
}

func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxRole)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "No autenticado")
		return "", false
	}
	return s, true
}

// tokenFromContext returns the id and expiry of the access token in use.
func tokenFromContext(c *gin.Context) (string, time.Time) {
	jti := c.GetString(CtxTokenJTI)
	exp, _ := c.Get(CtxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}
