package domain

import (
	"strings"

	dErrors "cadastre/pkg/domain-errors"
)

// Principal is an opaque, comparable caller identity. The registry never
// authenticates anybody itself; principals arrive already authenticated from
// the transport layer and are compared by value.
//
// The zero Principal is expressible on purpose: ownership transfers to it are
// legal, matching the registry's declared (and test-covered) footgun.
type Principal string

// ZeroPrincipal is the empty caller identity.
const ZeroPrincipal Principal = ""

// ParsePrincipal constructs a Principal from external input.
//
// Usage: call from handlers/adapters when parsing requests. Direct casting
// bypasses validation and is reserved for the transfer-target case where the
// zero principal is allowed.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	return Principal(s), nil
}

// IsZero reports whether the principal is the empty identity.
func (p Principal) IsZero() bool { return p == ZeroPrincipal }

// String returns the string representation of the principal.
func (p Principal) String() string { return string(p) }
