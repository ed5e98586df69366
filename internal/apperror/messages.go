package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Arithmetic
	CodeMathError:         "Math operation overflowed or divided by zero",
	CodeCalculationFailed: "Calculation failure",

	// Market data
	CodePriceError:    "No usable price for the requested side",
	CodeDecodingError: "Malformed market account data",

	// Order construction
	CodeAmountIsZero:        "Amount is zero",
	CodeInsufficientBalance: "Insufficient balance",
	CodeUnknownVenue:        "Unknown venue",

	// Solana RPC
	CodeRPCError:        "Solana RPC call failed",
	CodeAccountNotFound: "Account not found",

	// Venue execution
	CodeVenueInvocationFailed: "Venue invocation failed",

	// Outcome sink
	CodeSinkWriteFailed: "Failed to write outcome record",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
