package auth

import "errors"

// ErrInvalidToken indicates a token that is malformed, unsigned, issued by
// someone else, or past its expiry. Callers must not distinguish between
// those cases.
var ErrInvalidToken = errors.New("auth: invalid or expired token")
