package utils

type contextKey struct {
	name string
}

// String returns the key name, used for gin's string keyed context store.
func (k *contextKey) String() string {
	return k.name
}

var (
	// TraceIdKey holds the request trace id, in the gin context and in the request context.
	TraceIdKey = &contextKey{"traceId"}
	// UserKey holds the *schemas.User resolved by the authentication middleware.
	UserKey = &contextKey{"user"}
	// SanitizedPayloadKey holds the bound, sanitized and validated request body.
	SanitizedPayloadKey = &contextKey{"sanitizedPayload"}
)
