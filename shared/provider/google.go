package provider

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrMissingGoogleEmail = errors.New("google userinfo has no email")

// ExternalIdentity is the verified identity claim an OAuth provider hands
// back after a successful authorization-code exchange.
type ExternalIdentity struct {
	Email         string
	GivenName     string
	FamilyName    string
	Picture       string
	EmailVerified bool
}

// GoogleOAuthProvider exchanges Google authorization codes for identity
// claims.
type GoogleOAuthProvider struct {
	config *oauth2.Config
}

// NewGoogleOAuthProvider creates a provider for the given OAuth client.
func NewGoogleOAuthProvider(clientID, clientSecret, redirectURL string) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				goauth2.UserinfoEmailScope,
				goauth2.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

// ExchangeCode trades an authorization code for the user's identity claim.
func (p *GoogleOAuthProvider) ExchangeCode(ctx context.Context, code string) (*ExternalIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	service, err := goauth2.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	if userInfo.Email == "" {
		return nil, ErrMissingGoogleEmail
	}

	verified := userInfo.VerifiedEmail != nil && *userInfo.VerifiedEmail

	return &ExternalIdentity{
		Email:         userInfo.Email,
		GivenName:     userInfo.GivenName,
		FamilyName:    userInfo.FamilyName,
		Picture:       userInfo.Picture,
		EmailVerified: verified,
	}, nil
}
