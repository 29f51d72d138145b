package agent

import (
	"fmt"
	"strings"
)

// APIError is a non-2xx answer (or an in-band error payload) from the
// drafting backend. Detail carries the server's `detail` message and
// is surfaced to the user verbatim when present.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("agent api: status %d", e.Status)
	}
	return fmt.Sprintf("agent api: status %d: %s", e.Status, e.Detail)
}

// UserMessage is the text shown in the transcript for this failure.
func (e *APIError) UserMessage() string {
	return strings.TrimSpace(e.Detail)
}

// DecodeError marks a protocol error: an empty, undecodable, or
// unrecognized agent response. It is never treated as success and
// never partially applied.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "unexpected agent response: " + e.Reason
}

func (e *DecodeError) ProtocolError() bool { return true }
