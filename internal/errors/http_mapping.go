package errors

import (
	"fmt"
	"net/http"
)

// Resource identifies which remote collection an error relates to. Each
// resource carries its own human-readable wording; the mapping algorithm is
// shared.
type Resource string

const (
	ResourceProvider      Resource = "event provider"
	ResourceEventMetadata Resource = "event metadata"
	ResourceRegistration  Resource = "registration"
	ResourceGeneric       Resource = "resource"
)

// statusMessage maps an HTTP status to resource-specific wording.
func statusMessage(statusCode int, resource Resource) string {
	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Sprintf("Bad request while accessing %s data", resource)
	case http.StatusUnauthorized:
		return fmt.Sprintf("Authentication failed while accessing %s data", resource)
	case http.StatusForbidden:
		return fmt.Sprintf("Access to %s data is forbidden", resource)
	case http.StatusNotFound:
		return fmt.Sprintf("The requested %s was not found", resource)
	case http.StatusConflict:
		return fmt.Sprintf("Conflict while modifying %s data", resource)
	case http.StatusInternalServerError:
		return fmt.Sprintf("Internal server error while accessing %s data", resource)
	default:
		return fmt.Sprintf("HTTP %d error while accessing %s data", statusCode, resource)
	}
}

func timeoutMessage(resource Resource) string {
	return fmt.Sprintf("Request timeout while accessing %s data", resource)
}
