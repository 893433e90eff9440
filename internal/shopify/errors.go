package shopify

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidPrice is returned for prices that are not plain decimal strings.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrNoVariant is returned when a created product has no variant to price.
	ErrNoVariant = errors.New("product has no variants")
)

// RemoteError is a network, HTTP or API-level failure of a remote call.
// It is reported to the user and never retried.
type RemoteError struct {
	Op         string   // GraphQL operation name
	StatusCode int      // HTTP status, 0 if no response
	Messages   []string // GraphQL errors or userErrors
	Err        error    // Underlying transport or decode error
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shopify: %s failed", e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func userErrorsToRemote(op string, errs []userError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			msgs = append(msgs, strings.Join(e.Field, ".")+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	return &RemoteError{Op: op, Messages: msgs}
}
