package graphql

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// TransportError describes a failed GraphQL request.
type TransportError struct {
	// StatusCode is the HTTP status, or 0 when no response was received
	StatusCode int

	// Body is an excerpt of a non-2xx response body
	Body string

	// GraphQLErrors holds the errors array of an otherwise successful response
	GraphQLErrors []Error

	Err error
}

func (e *TransportError) Error() string {
	switch {
	case len(e.GraphQLErrors) > 0:
		msgs := make([]string, 0, len(e.GraphQLErrors))
		for _, ge := range e.GraphQLErrors {
			msgs = append(msgs, ge.Message)
		}
		return "graphql errors: " + strings.Join(msgs, "; ")
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("HTTP %d: %v: %s", e.StatusCode, e.Err, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "transport error"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Kind classifies a request failure for diagnostics. No kind is retried.
type Kind int

const (
	KindOther Kind = iota
	// KindTimeout is a client or network timeout.
	KindTimeout
	// KindRateLimited is an HTTP 429 rejection.
	KindRateLimited
	// KindServer is any other non-2xx status.
	KindServer
	// KindGraphQL is an errors array in a 2xx response.
	KindGraphQL
	// KindNetwork is a refused, reset or unreachable connection or a DNS failure.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate limited"
	case KindServer:
		return "server error"
	case KindGraphQL:
		return "graphql error"
	case KindNetwork:
		return "network error"
	default:
		return "error"
	}
}

// Classify returns the Kind of err.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var te *TransportError
	if errors.As(err, &te) {
		switch {
		case len(te.GraphQLErrors) > 0:
			return KindGraphQL
		case te.StatusCode == http.StatusTooManyRequests:
			return KindRateLimited
		case te.StatusCode >= 300:
			return KindServer
		}
	}

	if isTimeout(err) {
		return KindTimeout
	}
	if isNetworkError(err) {
		return KindNetwork
	}
	return KindOther
}

// Describe renders the kind of err with its HTTP status when one is known,
// e.g. "rate limited, HTTP 429".
func Describe(err error) string {
	kind := Classify(err)
	var te *TransportError
	if errors.As(err, &te) && te.StatusCode >= 300 {
		return fmt.Sprintf("%s, HTTP %d", kind, te.StatusCode)
	}
	return kind.String()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
