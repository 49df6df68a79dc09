package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnknownQuery = errors.New("unknown query")

	ErrResponseTooLarge = errors.New("response body too large")
)

// RemoteError describes a failed remote operation.
type RemoteError struct {
	// Op is the action or query that failed.
	Op string
	// Code is the transport status (gRPC code name or HTTP status).
	Code string
	// Permanent is set when retrying the same request cannot succeed.
	Permanent bool
	Err       error
}

func (e *RemoteError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}
	return fmt.Sprintf("%s failed (%s, %s): %v", e.Op, e.Code, kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err carries a permanent RemoteError.
func IsPermanent(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Permanent
}
