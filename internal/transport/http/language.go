package http

import (
	"net/http"

	"gradesdash/internal/i18n"
	"gradesdash/internal/security"
)

// LanguageResolver picks the response language: the lang query parameter,
// then the signed preference cookie, then Accept-Language, then English.
// A valid lang parameter is remembered in the cookie.
type LanguageResolver struct {
	signer *security.Signer
}

// NewLanguageResolver creates a resolver. A nil signer disables the cookie.
func NewLanguageResolver(signer *security.Signer) *LanguageResolver {
	return &LanguageResolver{signer: signer}
}

// Resolve returns the language for r.
func (lr *LanguageResolver) Resolve(w http.ResponseWriter, r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); i18n.Supported(lang) {
		if lr.signer != nil {
			if current, ok := lr.signer.Language(r); !ok || current != lang {
				lr.signer.SetLanguage(w, r, lang)
			}
		}
		return lang
	}
	if lr.signer != nil {
		if lang, ok := lr.signer.Language(r); ok && i18n.Supported(lang) {
			return lang
		}
	}
	return i18n.Negotiate(r.Header.Get("Accept-Language"))
}
