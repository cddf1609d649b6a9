package middleware

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apierrors "gradesdash/internal/errors"
	"gradesdash/internal/infrastructure"
)

const userKey contextKey = "auth-user"

// StaticCredentials is the single configured credential pair. Password is
// either plaintext or a bcrypt hash ("$2a$", "$2b$", "$2y$").
type StaticCredentials struct {
	Username string
	Password string
}

// IsBcryptHash reports whether password looks like a bcrypt hash.
func IsBcryptHash(password string) bool {
	if len(password) != 60 || !strings.HasPrefix(password, "$2") {
		return false
	}
	_, err := bcrypt.Cost([]byte(password))
	return err == nil
}

// Verify compares in constant time. The username is hashed first so the
// comparison length does not depend on the input.
func (c StaticCredentials) Verify(_ context.Context, username, password string) bool {
	wantUser := sha256.Sum256([]byte(c.Username))
	gotUser := sha256.Sum256([]byte(username))
	userOK := subtle.ConstantTimeCompare(wantUser[:], gotUser[:]) == 1

	var passOK bool
	if IsBcryptHash(c.Password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
	} else {
		wantPass := sha256.Sum256([]byte(c.Password))
		gotPass := sha256.Sum256([]byte(password))
		passOK = subtle.ConstantTimeCompare(wantPass[:], gotPass[:]) == 1
	}
	return userOK && passOK
}

// BasicAuth guards the dashboard with HTTP basic authentication. Failures
// get 401, a WWW-Authenticate challenge and an RFC 7807 body.
type BasicAuth struct {
	realm        string
	verifier     CredentialVerifier
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	metrics      *infrastructure.BusinessMetrics
}

// NewBasicAuth creates the middleware. metrics may be nil.
func NewBasicAuth(realm string, verifier CredentialVerifier, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, metrics *infrastructure.BusinessMetrics) *BasicAuth {
	return &BasicAuth{
		realm:        realm,
		verifier:     verifier,
		logger:       logger.With(slog.String("component", "basic_auth")),
		errorHandler: errorHandler,
		metrics:      metrics,
	}
}

// Handler implements the middleware.
func (a *BasicAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username, password, ok := r.BasicAuth()
		if !ok {
			a.reject(w, r, "missing")
			return
		}
		if !a.verifier.Verify(ctx, username, password) {
			a.logger.WarnContext(ctx, "authentication failed",
				"user", username,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			a.reject(w, r, "invalid")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userKey, username)))
	})
}

func (a *BasicAuth) reject(w http.ResponseWriter, r *http.Request, reason string) {
	infrastructure.RecordAuthFailure(r.Context(), a.metrics, reason)
	w.Header().Set("WWW-Authenticate", "Basic realm="+strconv.Quote(a.realm)+", charset=\"UTF-8\"")
	a.errorHandler.HandleError(w, r, apierrors.ErrUnauthorized)
}

// AuthenticatedUser returns the basic-auth user set by BasicAuth, or "".
func AuthenticatedUser(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}
