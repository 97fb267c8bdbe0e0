package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPProviderVerifier checks social-login tokens against each provider's
// userinfo endpoint.  The endpoints vouch for the token by returning the
// identity it was issued for; signature-level verification stays with the
// provider, per the login contract.
type HTTPProviderVerifier struct {
	Client    *http.Client
	Endpoints map[string]string // provider name -> userinfo URL
}

// NewHTTPProviderVerifier returns a verifier for the supported providers.
func NewHTTPProviderVerifier() *HTTPProviderVerifier {
	return &HTTPProviderVerifier{
		Client: &http.Client{Timeout: 5 * time.Second},
		Endpoints: map[string]string{
			"google":   "https://www.googleapis.com/oauth2/v3/userinfo",
			"facebook": "https://graph.facebook.com/me?fields=id,name,email",
		},
	}
}

// providerProfile covers the fields both providers return.  Google reports
// email_verified; Facebook omits it, which we treat as verified since
// Facebook only exposes confirmed emails.
type providerProfile struct {
	Sub           string `json:"sub"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
}

// Verify calls the provider's userinfo endpoint with the supplied bearer
// token and maps the response to a ProviderClaim.
func (v *HTTPProviderVerifier) Verify(ctx context.Context, provider, token string) (ProviderClaim, error) {
	endpoint, ok := v.Endpoints[provider]
	if !ok {
		return ProviderClaim{}, fmt.Errorf("unsupported provider %q", provider)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ProviderClaim{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := v.Client.Do(req)
	if err != nil {
		return ProviderClaim{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return ProviderClaim{}, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	var p providerProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return ProviderClaim{}, err
	}
	sub := p.Sub
	if sub == "" {
		sub = p.ID
	}
	verified := p.EmailVerified
	if provider == "facebook" {
		verified = true
	}
	return ProviderClaim{Email: p.Email, Name: p.Name, Subject: sub, EmailVerified: verified}, nil
}
