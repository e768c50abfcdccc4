package ado

import (
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// AuthType selects how credentials are sent.
type AuthType string

const (
	// AuthPAT sends a personal access token with HTTP basic auth.
	AuthPAT AuthType = "pat"
	// AuthBearer sends the token as an OAuth bearer token.
	AuthBearer AuthType = "bearer"
)

// patTransport adds basic auth with an empty user name, which is what
// Azure DevOps expects for personal access tokens.
type patTransport struct {
	token string
	base  http.RoundTripper
}

func (t *patTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.SetBasicAuth("", t.token)
	return t.base.RoundTrip(r)
}

// authTransport wraps base with the credentials for authType.
func authTransport(authType AuthType, token string, base http.RoundTripper) (http.RoundTripper, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	if token == "" {
		return nil, fmt.Errorf("no access token configured")
	}

	switch authType {
	case AuthPAT, "":
		return &patTransport{token: token, base: base}, nil
	case AuthBearer:
		return &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   base,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", authType)
	}
}
