package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Routing error codes
const (
	// Arithmetic
	CodeMathError         Code = "MATH_ERROR"
	CodeCalculationFailed Code = "CALCULATION_FAILURE"

	// Market data
	CodePriceError    Code = "PRICE_ERROR"
	CodeDecodingError Code = "DECODING_ERROR"

	// Order construction
	CodeAmountIsZero        Code = "AMOUNT_IS_ZERO"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeUnknownVenue        Code = "UNKNOWN_VENUE"

	// Solana RPC
	CodeRPCError        Code = "RPC_ERROR"
	CodeAccountNotFound Code = "ACCOUNT_NOT_FOUND"

	// Venue execution
	CodeVenueInvocationFailed Code = "VENUE_INVOCATION_FAILED"

	// Outcome sink
	CodeSinkWriteFailed Code = "SINK_WRITE_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
