package errs

import "fmt"

// ConfigurationError marks a call that failed because a required credential or
// setting was missing at startup. It is returned on every call without
// attempting a network request.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is not set", e.Key)
}

// UpstreamCallError marks a failed call to an external service. Calls are
// never retried internally; the upstream cause is carried verbatim.
type UpstreamCallError struct {
	Service string
	Cause   string
	Err     error
}

func (e *UpstreamCallError) Error() string {
	return fmt.Sprintf("%s call failed: %s", e.Service, e.Cause)
}

func (e *UpstreamCallError) Unwrap() error {
	return e.Err
}

// MalformedInputError marks caller-supplied input that violates a structural
// invariant, such as a conversation history with a standalone system role.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s", e.Reason)
}
