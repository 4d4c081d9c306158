package errors

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// httpStatusPattern is the signature the generic REST transport embeds in its
// error messages on a non-2xx response.
var httpStatusPattern = regexp.MustCompile(`HTTP error! status: (\d+)`)

// validationMarkers identify errors raised by input validation before any
// network call was made.
var validationMarkers = []string{
	"is required",
	"cannot exceed",
	"contains invalid characters",
}

// Normalize maps any failure into an APIError. First matching rule wins:
//  1. an APIError passes through unchanged;
//  2. validation-style messages become 400/VALIDATION_ERROR verbatim;
//  3. transport "HTTP error! status: <n>" messages map the extracted status
//     through the resource wording table (unparsable status defaults to 500);
//  4. errors carrying a response (HTTPError) use the response status and any
//     body message, falling back to the wording table;
//  5. timeout markers become 408;
//  6. JSON/parse markers become 500/PARSE_ERROR;
//  7. anything else becomes a 500 network error.
func Normalize(err error, resource Resource) *APIError {
	if err == nil {
		return nil
	}
	if resource == "" {
		resource = ResourceGeneric
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	msg := err.Error()

	for _, marker := range validationMarkers {
		if strings.Contains(msg, marker) {
			return New(http.StatusBadRequest, CodeValidation, msg)
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		status := httpErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		bodyMsg := gjson.GetBytes(httpErr.Body, "message").String()
		out := New(status, "", firstNonEmpty(bodyMsg, statusMessage(status, resource)))
		if len(httpErr.Body) > 0 {
			out.Details = map[string]interface{}{"body": string(httpErr.Body)}
		}
		return out
	}

	if strings.Contains(msg, "HTTP error! status:") {
		status := http.StatusInternalServerError
		if m := httpStatusPattern.FindStringSubmatch(msg); len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				status = n
			}
		}
		return New(status, "", statusMessage(status, resource))
	}

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return New(http.StatusRequestTimeout, "", timeoutMessage(resource))
	}

	if strings.Contains(msg, "JSON") || strings.Contains(msg, "parse") {
		return New(http.StatusInternalServerError, CodeParse, msg)
	}

	return New(http.StatusInternalServerError, "", "Network error: "+msg)
}
