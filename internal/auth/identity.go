package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the profile gate needs from the signed-in user: the
// provider subject and the email claim.
type Identity struct {
	Subject string
	Email   string
}

// ResolveIdentity extracts subject and email from a raw ID token. When a
// verifier is configured the signature is checked; otherwise the claims are
// parsed without verification, which is acceptable for tokens the client
// itself just received from the provider.
func (p *Provider) ResolveIdentity(ctx context.Context, rawIDToken string) (Identity, error) {
	if p.verifier != nil {
		idToken, err := p.verifier.Verify(ctx, rawIDToken)
		if err != nil {
			return Identity{}, fmt.Errorf("verifying ID token: %w", err)
		}
		var claims struct {
			Email string `json:"email"`
		}
		if err := idToken.Claims(&claims); err != nil {
			return Identity{}, fmt.Errorf("reading ID token claims: %w", err)
		}
		return Identity{Subject: idToken.Subject, Email: claims.Email}, nil
	}

	return IdentityFromToken(rawIDToken)
}

// IdentityFromToken parses the token without validating the signature.
func IdentityFromToken(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, errors.New("empty token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, errors.New("subject claim not found in token")
	}

	email, _ := claims["email"].(string)
	return Identity{Subject: sub, Email: email}, nil
}
