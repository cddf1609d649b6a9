package middleware

import "context"

// CredentialVerifier checks a basic-auth username and password.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) bool
}
