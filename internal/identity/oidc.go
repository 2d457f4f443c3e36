package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

type oidcProvider struct {
	verifier *oidc.IDTokenVerifier
}

// New creates an OIDC provider from cfg. With a JWKS URL the signing keys
// are fetched lazily; otherwise the issuer's discovery document is read now.
func New(ctx context.Context, cfg *Config) (Provider, error) {
	verifierConfig := &oidc.Config{ClientID: cfg.ClientID}

	if cfg.JWKSURL != "" {
		keys := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		return NewVerifier(oidc.NewVerifier(cfg.Issuer, keys, verifierConfig)), nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer %s: %w", cfg.Issuer, err)
	}
	return NewVerifier(provider.Verifier(verifierConfig)), nil
}

// NewVerifier wraps an ID token verifier as a Provider.
func NewVerifier(verifier *oidc.IDTokenVerifier) Provider {
	return &oidcProvider{verifier: verifier}
}

func (p *oidcProvider) Identify(ctx context.Context, rawToken string) (*Identity, error) {
	token, err := p.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return &Identity{
		CallerID:    token.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}, nil
}
