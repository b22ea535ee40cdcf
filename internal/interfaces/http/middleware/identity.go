// Package middleware holds the gin middleware stack of the API server.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// Identity headers set by the OIDC proxy in front of the API.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserName  = "X-User-Name"
	HeaderUserRoles = "X-User-Roles"
)

const identityKey = "identity"

// Identity is the authenticated caller.
type Identity struct {
	UserID common.UserID
	Name   string
	Roles  []common.Role
}

// HasRole reports whether the caller carries the role.
func (i Identity) HasRole(r common.Role) bool {
	return common.HasRole(i.Roles, r)
}

// RequireIdentity rejects requests the proxy did not authenticate.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "COMMON_003",
				"message": "missing identity",
			})
			return
		}

		var roles []common.Role
		for _, raw := range strings.Split(c.GetHeader(HeaderUserRoles), ",") {
			if r := strings.TrimSpace(raw); r != "" {
				roles = append(roles, common.Role(r))
			}
		}
		if len(roles) == 0 {
			roles = []common.Role{common.RoleParticipant}
		}

		c.Set(identityKey, Identity{
			UserID: common.UserID(userID),
			Name:   strings.TrimSpace(c.GetHeader(HeaderUserName)),
			Roles:  roles,
		})
		c.Next()
	}
}

// RequireRole rejects callers missing the role. Must run after
// RequireIdentity.
func RequireRole(role common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || !id.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "COMMON_004",
				"message": "requires the " + string(role) + " role",
			})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the caller identity stored by RequireIdentity.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
