// Package response defines the JSON payload shapes returned by the HTTP API.
package response

import (
	"github.com/labstack/echo/v4"
)

// Body is the unified API response envelope. Only the fields relevant to an
// operation are populated; everything else is omitted from the JSON output.
type Body struct {
	Message string `json:"message,omitempty"` // Human-readable outcome description
	Error   string `json:"error,omitempty"`   // User-facing failure reason
	Auth    string `json:"auth,omitempty"`    // Authentication failure marker
	User    any    `json:"user,omitempty"`    // Account payload for the operation
	Access  string `json:"access,omitempty"`  // Issued session token
	Exists  *bool  `json:"exists,omitempty"`  // Email existence check result
}

// OK writes a success payload with the given status code.
func OK(c echo.Context, statusCode int, body Body) error {
	return c.JSON(statusCode, body)
}

// Error writes a failure payload carrying the user-facing reason.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Body{Error: message})
}

// AuthFailure writes an authentication failure payload. The auth field carries
// the failure marker, the message the reason.
func AuthFailure(c echo.Context, statusCode int, auth, message string) error {
	return c.JSON(statusCode, Body{Auth: auth, Message: message})
}
