// Package identity exposes the narrow slice of authentication the sync engine
// needs: who the current user is and a bearer credential for outgoing
// requests. Login, logout and device approval live elsewhere.
package identity

import "errors"

// ErrNotAuthenticated indicates no usable credential is available.
var ErrNotAuthenticated = errors.New("not authenticated")

// Provider supplies the current identity and credential.
type Provider interface {
	// UserID returns the current user identifier, or "" when signed out.
	UserID() string

	// Token returns the bearer credential for remote submissions.
	Token() (string, error)

	// IsAuthenticated reports whether a usable identity is present.
	IsAuthenticated() bool
}

// StaticProvider is a Provider backed by fixed values from configuration.
type StaticProvider struct {
	userID string
	token  string
}

// NewStaticProvider creates a provider with a fixed user id and token.
func NewStaticProvider(userID, token string) *StaticProvider {
	return &StaticProvider{userID: userID, token: token}
}

func (p *StaticProvider) UserID() string {
	return p.userID
}

func (p *StaticProvider) Token() (string, error) {
	if p.token == "" {
		return "", ErrNotAuthenticated
	}
	return p.token, nil
}

func (p *StaticProvider) IsAuthenticated() bool {
	return p.userID != "" && p.token != ""
}
