// backend-go/internal/api/middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/repository"
)

// CompanyContextKey is where the authenticated tenant lives in the request
// context. Every handler scopes its reads to this company and nothing else.
const CompanyContextKey = "company"

// Auth validates the Bearer token, resolves the company_id claim against the
// database and attaches the company to the request context.
func Auth(secret string, companies repository.CompanyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Debug().Err(err).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}
		companyClaim, ok := claims["company_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing company_id"})
			return
		}

		company, err := companies.GetCompany(c.Request.Context(), int64(companyClaim))
		if err != nil {
			log.Error().Err(err).Int64("company_id", int64(companyClaim)).Msg("failed to resolve company")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve company"})
			return
		}
		if company == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown company"})
			return
		}

		c.Set(CompanyContextKey, company)
		c.Next()
	}
}

// CompanyFromContext returns the tenant attached by Auth.
func CompanyFromContext(c *gin.Context) (*domain.Company, bool) {
	value, ok := c.Get(CompanyContextKey)
	if !ok {
		return nil, false
	}
	company, ok := value.(*domain.Company)
	return company, ok
}
