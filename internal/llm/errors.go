package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderError is returned when the upstream model endpoint is unreachable
// or rejects the request. Status is the HTTP status code, or 0 when the
// request never got a response.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// regionSignatures are message fragments that indicate the provider rejected
// the request for access or region reasons rather than a transient fault.
var regionSignatures = []string{
	"not available",
	"your region",
	"provider returned error",
	"permission denied",
	"unauthorized",
}

// IsRegionOrAvailability classifies a completion failure. A true result
// means switching provider is the actionable fix; false means the user
// should just retry later. The check inspects the declared status first and
// falls back to known message substrings.
func IsRegionOrAvailability(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Status == 401 || pe.Status == 403 {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "403") {
		return true
	}
	for _, sig := range regionSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
