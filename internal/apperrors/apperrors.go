// Package apperrors defines the error-kind taxonomy shared by the fetcher,
// adapter, and engine layers, following the same Source/Code/Message/Err
// shape the rest of the codebase uses for wrapped errors.
package apperrors

import "errors"

// Kind classifies a fetch/adapter failure into one of a closed set of
// categories the resilience layer reacts to differently.
type Kind string

const (
	KindBotDetection     Kind = "bot_detection"
	KindNetwork          Kind = "network"
	KindStructureChange  Kind = "structure_change"
	KindAuthentication   Kind = "authentication"
	KindConfiguration    Kind = "configuration"
	KindParsing          Kind = "parsing"
	KindTimeout          Kind = "timeout"
	KindUnknown          Kind = "unknown"
)

// AdapterError is the error type every adapter and fetcher engine wraps
// failures in. Source is the adapter or engine name; Kind drives retry and
// circuit-breaker behavior upstream.
type AdapterError struct {
	Source  string
	Kind    Kind
	Message string
	URL     string
	Status  int
	Err     error
}

func (e *AdapterError) Error() string {
	msg := e.Source + ": " + string(e.Kind) + ": " + e.Message
	if e.Err != nil {
		msg += " (" + e.Err.Error() + ")"
	}
	return msg
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// New constructs an AdapterError with the given kind.
func New(source string, kind Kind, message string, err error) *AdapterError {
	return &AdapterError{Source: source, Kind: kind, Message: message, Err: err}
}

// WithURL attaches the originating URL, used by the ManualOverrideManager
// to key pending bot-block recoveries.
func (e *AdapterError) WithURL(url string) *AdapterError {
	e.URL = url
	return e
}

// WithStatus attaches the HTTP status code that produced this error.
func (e *AdapterError) WithStatus(status int) *AdapterError {
	e.Status = status
	return e
}

// Sentinel errors for conditions that don't carry adapter-specific context.
var (
	ErrNoEnginesAvailable = errors.New("no fetch engines available")
	ErrCircuitOpen        = errors.New("circuit breaker open")
	ErrBotBlocked         = errors.New("bot-block signature detected in response")
)

// ClassifyHTTPStatus maps an HTTP status code to an error Kind, following
// the per-adapter failure semantics: 401/403 are authentication failures,
// 429 and 5xx are network-layer (retryable), everything else is unknown.
func ClassifyHTTPStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuthentication
	case status == 429:
		return KindNetwork
	case status >= 500:
		return KindNetwork
	case status >= 400:
		return KindUnknown
	default:
		return KindUnknown
	}
}
