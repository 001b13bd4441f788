package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/brandforge/pipeline/internal/domain"
)

// JWK is a single JSON Web Key from a provider's JWKS document.
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS is a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Validator validates bearer tokens presented to the HTTP surface against
// a configured issuer's JWKS, independent of which identity provider
// issued them (Cognito, Auth0, a homegrown STS, ...).
type Validator struct {
	jwksURL       string
	issuer        string
	audience      string
	logger        *zap.Logger
	keys          map[string]*rsa.PublicKey
	keysMu        sync.RWMutex
	lastFetchTime time.Time
}

// NewValidator creates a new JWT validator for the given issuer.
func NewValidator(jwksURL, issuer, audience string, logger *zap.Logger) *Validator {
	return &Validator{
		jwksURL:  jwksURL,
		issuer:   issuer,
		audience: audience,
		logger:   logger,
		keys:     make(map[string]*rsa.PublicKey),
	}
}

// FetchJWKS refreshes the validator's cached public keys.
func (v *Validator) FetchJWKS() error {
	v.logger.Info("fetching JWKS", zap.String("url", v.jwksURL))

	resp, err := http.Get(v.jwksURL)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	v.keysMu.Lock()
	defer v.keysMu.Unlock()

	for _, key := range jwks.Keys {
		if key.Kty != "RSA" {
			continue
		}
		pubKey, err := jwkToRSAPublicKey(key)
		if err != nil {
			v.logger.Warn("failed to convert JWK to RSA public key", zap.String("kid", key.Kid), zap.Error(err))
			continue
		}
		v.keys[key.Kid] = pubKey
	}

	v.lastFetchTime = time.Now()
	v.logger.Info("JWKS fetched", zap.Int("key_count", len(v.keys)))
	return nil
}

func jwkToRSAPublicKey(jwk JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	var e int
	for _, b := range eBytes {
		e = e<<8 + int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}

func (v *Validator) getPublicKey(kid string) (*rsa.PublicKey, error) {
	v.keysMu.RLock()
	key, exists := v.keys[kid]
	v.keysMu.RUnlock()
	if exists {
		return key, nil
	}

	if time.Since(v.lastFetchTime) > 5*time.Minute {
		if err := v.FetchJWKS(); err != nil {
			return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
		}
		v.keysMu.RLock()
		key, exists = v.keys[kid]
		v.keysMu.RUnlock()
		if exists {
			return key, nil
		}
	}

	return nil, fmt.Errorf("public key not found for kid: %s", kid)
}

// ValidateToken validates a bearer token and extracts its claims.
func (v *Validator) ValidateToken(tokenString string) (*domain.CallerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.CallerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid not found in token header")
		}
		return v.getPublicKey(kid)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*domain.CallerClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	issuer, err := claims.GetIssuer()
	if err != nil || issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, issuer)
	}

	audience, err := claims.GetAudience()
	if err != nil || len(audience) == 0 || audience[0] != v.audience {
		return nil, fmt.Errorf("invalid audience")
	}

	if claims.IsExpired() {
		return nil, fmt.Errorf("token has expired")
	}

	return claims, nil
}
