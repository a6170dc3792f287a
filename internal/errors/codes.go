package errors

// ErrorCode represents a standardized error code returned by the list backend
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
)

// Resource error codes (RESOURCE_*)
const (
	ResourceUnknown ErrorCode = "RESOURCE_001"
)

// Item error codes (ITEM_*)
const (
	ItemNotFound  ErrorCode = "ITEM_001"
	ItemInvalidID ErrorCode = "ITEM_002"
)

// Title error codes (TITLE_*)
const (
	TitleNotFound        ErrorCode = "TITLE_001"
	TitleCategoryInvalid ErrorCode = "TITLE_002"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",

	ResourceUnknown: "Unknown resource",

	ItemNotFound:  "Item not found",
	ItemInvalidID: "Invalid item ID",

	TitleNotFound:        "Title not found",
	TitleCategoryInvalid: "Title category is invalid",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}

// IsNotFound reports whether the code describes a missing record or collection
func IsNotFound(code ErrorCode) bool {
	switch code {
	case ItemNotFound, TitleNotFound, ResourceUnknown:
		return true
	}
	return false
}
