package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"kurtis-boutique/config"
	"kurtis-boutique/internal/util"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	principalKey = "auth.principal"
	RoleAdmin    = "admin"
)

var ErrMissingToken = errors.New("missing bearer token")

// Principal is the authenticated caller
type Principal struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenVerifier turns a raw bearer token into a principal
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

// OIDCVerifier checks tokens issued by the hosted auth provider against its JWKS
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier builds a verifier from the configured issuer and JWKS URL.
// The key set is fetched lazily on first use.
func NewOIDCVerifier(ctx context.Context, cfg config.AuthConfig) *OIDCVerifier {
	keySet := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
	v := oidc.NewVerifier(cfg.Issuer, keySet, &oidc.Config{
		ClientID:             cfg.Audience,
		SkipClientIDCheck:    cfg.Audience == "",
		SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
	})
	return &OIDCVerifier{verifier: v}
}

type tokenClaims struct {
	Email       string `json:"email"`
	Role        string `json:"role"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

// Verify validates signature, issuer, audience and expiry
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}
	return principalFromClaims(token.Subject, claims), nil
}

// app_metadata.role is set by the provider's admin API and wins over the
// generic role claim, which is usually "authenticated"
func principalFromClaims(subject string, claims tokenClaims) *Principal {
	role := claims.Role
	if claims.AppMetadata.Role != "" {
		role = claims.AppMetadata.Role
	}
	return &Principal{
		UserID: subject,
		Email:  strings.ToLower(claims.Email),
		Role:   role,
	}
}

// Authenticate rejects requests without a valid bearer token
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	logger := util.GetLogger()
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil || principal.UserID == "" {
			logger.Debug("Rejected bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin allows principals with the admin role or a listed email
func RequireAdmin(adminEmails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		allowed[strings.ToLower(e)] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if _, listed := allowed[p.Email]; p.Role != RoleAdmin && !listed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

// UserID returns the authenticated user id, or "" outside Authenticate
func UserID(c *gin.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return p.UserID
	}
	return ""
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
