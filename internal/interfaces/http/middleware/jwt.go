package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Context keys set by the JWT middleware
const (
	ContextKeyJWTClaims = "jwt_claims"
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyRoles     = "roles"
)

// JWTMiddlewareConfig configures the JWT authentication middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService

	// Blacklist is consulted for revoked token IDs. Optional; when nil
	// no revocation check is performed.
	Blacklist auth.TokenBlacklist

	// SkipPaths lists exact paths that bypass authentication
	SkipPaths []string

	// SkipPathPrefixes lists path prefixes that bypass authentication
	SkipPathPrefixes []string

	Logger *zap.Logger
}

// JWTAuthMiddlewareWithConfig validates the Bearer token on every
// request, rejects revoked tokens, and stores the claims in the gin
// context for handlers.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			handleAuthError(c, err)
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Revocation storage being down should not take the API
				// down with it; log and continue with signature-only auth.
				if cfg.Logger != nil {
					cfg.Logger.Warn("Token revocation check failed",
						zap.String("jti", claims.ID),
						zap.Error(err),
					)
				}
			} else if revoked {
				abortUnauthorized(c, "Token has been revoked")
				return
			}
		}

		c.Set(ContextKeyJWTClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRoles, claims.Roles)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed authorization header")
	}
	return parts[1], nil
}

func handleAuthError(c *gin.Context, err error) {
	message := "Invalid token"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		message = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		message = "Token is not yet valid"
	case errors.Is(err, auth.ErrInvalidTokenType):
		message = "Wrong token type"
	}
	abortUnauthorized(c, message)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}

// GetJWTClaims returns the validated claims for the current request,
// or nil when the request was not authenticated.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(ContextKeyJWTClaims)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetActor builds the authenticated actor from the request claims.
// The second return value is false when the request carries no valid
// authentication.
func GetActor(c *gin.Context) (identity.Actor, bool) {
	claims := GetJWTClaims(c)
	if claims == nil {
		return identity.Actor{}, false
	}
	actor, err := claims.Actor()
	if err != nil {
		return identity.Actor{}, false
	}
	return actor, true
}
