package types

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies why an analysis failed.
type ErrorKind string

const (
	InvalidInput              ErrorKind = "InvalidInput"
	MisconfiguredCredential   ErrorKind = "MisconfiguredCredential"
	ProviderUnavailable       ErrorKind = "ProviderUnavailable"
	ProviderError             ErrorKind = "ProviderError"
	MalformedProviderResponse ErrorKind = "MalformedProviderResponse"
	InternalFault             ErrorKind = "InternalFault"
)

// Fixed messages returned in the "error" field.
const (
	MsgInvalidInput      = "Invalid input: expected a non-empty array whose first item has chapterName"
	MsgMissingCredential = "Inference provider credential is not configured"
	MsgProviderDown      = "Inference provider is unavailable"
	MsgProviderError     = "Inference provider returned an error"
	MsgMalformedResponse = "Unexpected response format from inference provider"
	MsgInternalFault     = "Internal server error"
)

// HTTPStatus maps a kind to the status code sent to the caller.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case ProviderError, ProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AnalysisError carries everything the response formatter needs.
type AnalysisError struct {
	Kind    ErrorKind
	Message string
	Details string // provider text for ProviderError / ProviderUnavailable
	Raw     string // offending payload for MalformedProviderResponse
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func NewInvalidInput() *AnalysisError {
	return &AnalysisError{Kind: InvalidInput, Message: MsgInvalidInput}
}

func NewMisconfiguredCredential(provider string) *AnalysisError {
	return &AnalysisError{
		Kind:    MisconfiguredCredential,
		Message: MsgMissingCredential,
		Err:     fmt.Errorf("no credential configured for provider %q", provider),
	}
}

func NewProviderUnavailable(err error) *AnalysisError {
	return &AnalysisError{
		Kind:    ProviderUnavailable,
		Message: MsgProviderDown,
		Details: err.Error(),
		Err:     err,
	}
}

func NewInternalFault(err error) *AnalysisError {
	return &AnalysisError{Kind: InternalFault, Message: MsgInternalFault, Err: err}
}
