package narrate

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/hpungsan/lectern/internal/llm"
)

// ErrorKind is the retry class of a backend error.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindAuth
	KindRateLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "error"
	}
}

// Classify sorts err into auth, rate-limit or other. A structured
// *llm.APIError is checked first; otherwise the message is scanned for the
// provider's status tokens.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindOther
	}

	var apiErr *llm.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized,
			apiErr.Status == http.StatusForbidden,
			apiErr.Code == "PERMISSION_DENIED",
			apiErr.Code == "UNAUTHENTICATED":
			return KindAuth
		case apiErr.Status == http.StatusTooManyRequests,
			apiErr.Code == "RESOURCE_EXHAUSTED":
			return KindRateLimit
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "403"), strings.Contains(msg, "PERMISSION_DENIED"):
		return KindAuth
	case strings.Contains(msg, "429"), strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return KindRateLimit
	}
	return KindOther
}
