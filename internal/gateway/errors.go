package gateway

import "fmt"

// Remote failures map to exactly one of three kinds so callers can branch on
// them with errors.As: ConnectivityError (redirect the user to the domain /
// connectivity settings), ServerError (the tenant answered with a non-2xx),
// DecodeError (the tenant answered 2xx with a payload we cannot parse).

// ConnectivityError covers DNS failures, unreachable hosts and transport
// timeouts — anything where the tenant never produced an HTTP response.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("tenant unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// UserMessage points the cashier at configuration rather than a blind retry.
func (e *ConnectivityError) UserMessage() string {
	return "Unable to reach the server. Check your internet connection and domain settings."
}

// ServerError is a non-2xx HTTP response.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("tenant returned HTTP %d", e.Status)
}

// UserMessage maps the status to a coarse cashier-facing message by range.
func (e *ServerError) UserMessage() string {
	switch {
	case e.Status == 400:
		return "Invalid request. Please check your input."
	case e.Status == 401 || e.Status == 403:
		return "Access denied by the server."
	case e.Status == 404:
		return "Resource not found on the server."
	case e.Status >= 500:
		return "Server error. Please try again later."
	default:
		return fmt.Sprintf("Request failed (code %d).", e.Status)
	}
}

// DecodeError wraps a malformed or unexpected payload. It must never crash
// the caller; the upstream API is known to emit inconsistent shapes.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
