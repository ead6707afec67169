package api

import (
	"net/http"
	"strings"

	"licensing-map/internal/users"

	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Shown whenever a signed-in user lacks the role for a route.
const accessRestrictedMessage = "This sector is reserved for verified administrators only. Please sign in with appropriate credentials to continue."

// requireAuth accepts a Bearer token for an approved account that still exists.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization required",
				"message": "Sign in to continue",
			})
			return
		}

		claims, err := s.tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "The provided token is invalid or expired",
			})
			return
		}

		account, err := s.users.Get(claims.UserID)
		if err != nil || (!account.Approved && account.Role != users.RoleSuperAdmin) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "The account for this token is no longer active",
			})
			return
		}

		c.Set(claimsKey, account)
		c.Next()
	}
}

// requireRole rejects signed-in users whose role is not listed.
func requireRole(roles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := currentAccount(c)
		if ok {
			for _, r := range roles {
				if account.Role == r {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Access Restricted",
			"message": accessRestrictedMessage,
		})
	}
}

func currentAccount(c *gin.Context) (users.Account, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return users.Account{}, false
	}
	account, ok := v.(users.Account)
	return account, ok
}
