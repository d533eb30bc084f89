package llm

import "fmt"

// ExtractionError indicates the model could not read a job posting URL: both
// the primary response text and the candidate fallback produced nothing
// usable. The caller typically falls back to asking for pasted text.
type ExtractionError struct {
	URL string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract job posting from %s: content unreadable (likely blocked or paywalled)", e.URL)
}

// MalformedResponseError indicates the model returned text that is not the
// JSON shape we asked for. Raw carries the cleaned payload for logging.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("model returned malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ConnectivityError wraps a transport-level failure talking to the provider.
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }
