package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Market-data acquisition error codes
const (
	CodeVenueUnavailable  Code = "VENUE_UNAVAILABLE"
	CodeVenueAPIError     Code = "VENUE_API_ERROR"
	CodeVenueRateLimited  Code = "VENUE_RATE_LIMITED"
	CodeOrderBookFetch    Code = "ORDER_BOOK_FETCH_FAILED"
	CodeOrderBookParse    Code = "ORDER_BOOK_PARSE_FAILED"
	CodeOrderBookInvalid  Code = "ORDER_BOOK_INVALID"
	CodeMatchingOrders    Code = "ORDER_BOOK_MATCHING_ORDERS"
	CodeCircuitOpen       Code = "CIRCUIT_OPEN"
)
