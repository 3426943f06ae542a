package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// ErrorKind classifies a provider failure
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorUnreachable
	ErrorAuth
	ErrorQuota
	ErrorRateLimit
	ErrorTimeout
	ErrorEmptyResponse
	ErrorModelNotFound
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorUnreachable:
		return "unreachable"
	case ErrorAuth:
		return "authentication"
	case ErrorQuota:
		return "quota"
	case ErrorRateLimit:
		return "rate limit"
	case ErrorTimeout:
		return "timeout"
	case ErrorEmptyResponse:
		return "empty response"
	case ErrorModelNotFound:
		return "model not found"
	default:
		return "unknown"
	}
}

// Hint returns a user-actionable suggestion for the error kind
func (k ErrorKind) Hint() string {
	switch k {
	case ErrorUnreachable:
		return "check that the service is running and that baseUrl is correct"
	case ErrorAuth:
		return "check the API key in the config file or environment"
	case ErrorQuota:
		return "the account has no credits or quota left"
	case ErrorRateLimit:
		return "too many requests, wait a moment and try again"
	case ErrorTimeout:
		return "the model did not answer in time, try again or use a faster model"
	case ErrorEmptyResponse:
		return "the model returned no text"
	case ErrorModelNotFound:
		return "the model is not available, check the model name (for ollama: ollama pull <model>)"
	default:
		return ""
	}
}

// ProviderError is a classified failure of one provider
type ProviderError struct {
	Kind     ErrorKind
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s error", e.Provider, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if hint := e.Kind.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a classified error, or ErrorUnknown
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ErrorUnknown
}

// FallbackError reports that both the primary and the fallback provider failed
type FallbackError struct {
	Primary  error
	Fallback error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("primary provider failed: %v; fallback provider failed: %v", e.Primary, e.Fallback)
}

func (e *FallbackError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

// HTTPStatusError is an interface for errors that have HTTP status codes
type HTTPStatusError interface {
	error
	HTTPStatusCode() int
}

// Classify wraps err in a ProviderError. Already classified errors are returned unchanged.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Kind: classifyKind(err), Provider: provider, Err: err}
}

func classifyKind(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}

	if statusErr, ok := err.(HTTPStatusError); ok {
		if kind := classifyHTTPStatus(statusErr.HTTPStatusCode(), err.Error()); kind != ErrorUnknown {
			return kind
		}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if kind := classifyHTTPStatus(apiErr.Code, apiErr.Message); kind != ErrorUnknown {
			return kind
		}
	}

	var netErr *net.OpError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrorTimeout
		}
		return ErrorUnreachable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorUnreachable
	}

	return classifyMessage(strings.ToLower(err.Error()))
}

// classifyHTTPStatus classifies HTTP status codes
func classifyHTTPStatus(statusCode int, msg string) ErrorKind {
	lower := strings.ToLower(msg)
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorAuth
	case http.StatusPaymentRequired:
		return ErrorQuota
	case http.StatusTooManyRequests:
		if containsAny(lower, quotaKeywords) {
			return ErrorQuota
		}
		return ErrorRateLimit
	case http.StatusNotFound:
		return ErrorModelNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrorTimeout
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrorUnreachable
	}
	return ErrorUnknown
}

var (
	quotaKeywords = []string{"insufficient_quota", "insufficient quota", "insufficient balance", "quota", "credit", "billing", "status code: 402"}
	authKeywords  = []string{"status code: 401", "status code: 403", "unauthorized", "invalid api key", "incorrect api key", "invalid_api_key", "authentication", "permission denied"}
	rateKeywords  = []string{"status code: 429", "rate limit", "rate_limit", "too many requests"}
	modelKeywords = []string{"model not found", "model_not_found", "does not exist", "status code: 404"}
	netKeywords   = []string{"connection refused", "no such host", "connection reset", "network is unreachable", "unexpected eof"}
	timeKeywords  = []string{"deadline exceeded", "timeout", "timed out"}
)

func classifyMessage(msg string) ErrorKind {
	switch {
	case containsAny(msg, timeKeywords):
		return ErrorTimeout
	case containsAny(msg, quotaKeywords):
		return ErrorQuota
	case containsAny(msg, authKeywords):
		return ErrorAuth
	case containsAny(msg, rateKeywords):
		return ErrorRateLimit
	case containsAny(msg, modelKeywords):
		return ErrorModelNotFound
	case containsAny(msg, netKeywords):
		return ErrorUnreachable
	}
	return ErrorUnknown
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
