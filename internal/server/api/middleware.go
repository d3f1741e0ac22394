package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dr-Stone27/Researchub/internal/common"
	"github.com/Dr-Stone27/Researchub/internal/logging"
	"github.com/Dr-Stone27/Researchub/internal/server/auth"
	"github.com/Dr-Stone27/Researchub/internal/server/models"
)

const accountContextKey = "account"

// RequestLogger logs one line per request with method, path, status, and
// latency.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"addr", GetClientIP(c),
		)
	}
}

// SessionAuth validates the Bearer token and reloads the account for every
// request. A token whose embedded version no longer matches the account's
// current token version was revoked by a password reset; an account that is
// no longer active cannot use old sessions either.
func SessionAuth(secretKey []byte, loadAccount func(c *gin.Context, id string) (*models.Account, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" || !strings.HasPrefix(header, common.BearerPrefix) {
			RespondError(c, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerPrefix), secretKey)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
			c.Abort()
			return
		}

		account, err := loadAccount(c, claims.AccountID)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
			c.Abort()
			return
		}

		if claims.TokenVersion != account.TokenVersion ||
			!account.IsActive || account.Status != models.AccountActive {
			RespondError(c, http.StatusUnauthorized, "unauthorized", "Session has been revoked")
			c.Abort()
			return
		}

		c.Set(accountContextKey, account)
		c.Next()
	}
}

// CurrentAccount returns the account attached by SessionAuth.
func CurrentAccount(c *gin.Context) *models.Account {
	v, ok := c.Get(accountContextKey)
	if !ok {
		return nil
	}
	return v.(*models.Account)
}
