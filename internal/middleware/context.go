package middleware

// Context keys set by the middleware chain.
const (
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"
