// Package httperr defines the closed set of errors that may cross the
// HTTP boundary. Every error carries a stable machine-readable name for
// clients plus a human-readable message; anything outside this set is
// logged server-side and collapsed to a generic internal error.
package httperr

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Error is a client-visible error. Status is the HTTP status it maps
// to; Fields is only set for validation errors.
type Error struct {
	Name    string            `json:"name"`
	Message string            `json:"message"`
	Status  int               `json:"-"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an error with the given HTTP status, stable name and message.
func New(status int, name string, message string) *Error {
	return &Error{Name: name, Message: message, Status: status}
}

var (
	// Basic auth errors
	EmailExists       = New(fiber.StatusConflict, "auth:email_exists", "That email address is already in use")
	UsernameExists    = New(fiber.StatusConflict, "auth:username_exists", "That username is already in use")
	EmailNotFound     = New(fiber.StatusNotFound, "auth:email_not_found", "No account with that email address")
	IncorrectPassword = New(fiber.StatusBadRequest, "auth:incorrect_password", "Incorrect password provided")
	TokenCreateFailed = New(fiber.StatusInternalServerError, "auth:token_create_failed", "Failed to create token, try logging in again")

	// Token errors
	InvalidToken        = New(fiber.StatusBadRequest, "auth:invalid_token", "Authentication token is invalid or expired")
	InvalidRefreshToken = New(fiber.StatusBadRequest, "auth:invalid_refresh_token", "Refresh token is invalid or expired")
	MissingToken        = New(fiber.StatusUnauthorized, "auth:missing_token", "Authentication is required for this request")

	// OpenID errors
	NotLinked            = New(fiber.StatusConflict, "oid:not_linked", "An account already exists with the same email, please use the existing account password. Once logged in you can link your account in settings")
	ProviderUnavailable  = New(fiber.StatusInternalServerError, "oid:provider_unavailable", "That authentication provider is currently unavailable, try again later.")
	UnknownProvider      = New(fiber.StatusBadRequest, "oid:unknown_provider", "Unknown authentication provider")
	OpenIDInvalidToken   = New(fiber.StatusBadRequest, "oid:invalid_token", "Authentication token is invalid, try again.")
	AuthenticationFailed = New(fiber.StatusBadRequest, "oid:auth_failed", "Failed to authenticate with OpenID provider")
	ClaimMissingEmail    = New(fiber.StatusBadRequest, "oid:claim_missing_email", "Failed to determine account email address.")

	// Captcha errors
	CaptchaMissing = New(fiber.StatusBadRequest, "captcha:missing_token", "Missing captcha token")
	CaptchaFailed  = New(fiber.StatusBadRequest, "captcha:failed", "Failed captcha validation")
	CaptchaRequest = New(fiber.StatusInternalServerError, "captcha:request_failed", "Failed to request captcha validation")

	// Quiz / resource errors
	QuizNotFound      = New(fiber.StatusNotFound, "quiz:not_found", "No quiz with that ID")
	MissingPermission = New(fiber.StatusForbidden, "quiz:missing_permission", "You don't have permission to access this quiz")
	ResourceNotFound  = New(fiber.StatusNotFound, "resource:not_found", "No resource with that ID")

	// Request parsing
	MalformedBody = New(fiber.StatusBadRequest, "json_parse", "Request body could not be parsed")
)

// internalError is what clients see when something unexpected happened;
// the real cause stays in the server logs.
var internalError = New(fiber.StatusInternalServerError, "server", "Internal server error")

// Validation builds a field-level validation error from a field -> reason map.
func Validation(fields map[string]string) *Error {
	return &Error{
		Name:    "validation",
		Message: "Validation error occurred",
		Status:  fiber.StatusBadRequest,
		Fields:  fields,
	}
}

// ErrorHandler is the Fiber error handler mapping errors to the JSON
// error shape. Unrecognized errors (storage failures and friends) are
// logged with full detail and replaced with a generic internal error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*Error); ok {
		return c.Status(appErr.Status).JSON(appErr)
	}
	if fiberErr, ok := err.(*fiber.Error); ok {
		return c.Status(fiberErr.Code).JSON(Error{
			Name:    "server",
			Message: fiberErr.Message,
		})
	}

	log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(internalError.Status).JSON(internalError)
}
