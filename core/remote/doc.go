// Package remote implements the session.Syncer boundary over HTTP.
//
// It talks to a rental-manager instance (or any API serving the same
// inventory resource shape) and maps its error payloads into the
// session error model: code-400 payloads become field-addressable
// *session.ValidationError values, anything else stays a generic,
// retryable error.
//
// The client sends no cancellation beyond the request context. The
// session layer is responsible for discarding responses that arrive
// after it was closed.
package remote
