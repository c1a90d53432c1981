package ports

import "context"

// OAuthTokens is the credential pair returned by the provider's token
// endpoint.
type OAuthTokens struct {
	AccessToken string
	IDToken     string
}

// OAuthIdentity is the federated identity attached to an authorization code.
type OAuthIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}

// OAuthProvider abstracts the external identity provider. Consumed as two
// plain operations: exchange the code, then fetch the identity.
type OAuthProvider interface {
	ExchangeCode(ctx context.Context, code string) (*OAuthTokens, error)
	FetchIdentity(ctx context.Context, tokens *OAuthTokens) (*OAuthIdentity, error)
}
