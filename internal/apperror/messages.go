package apperror

// messages maps error codes to their default human-readable messages.
var messages = map[Code]string{
	CodeInvalidInput:       "invalid input",
	CodeConfigurationError: "invalid configuration",
	CodeServiceTimeout:     "operation timed out",
	CodeInternalError:      "internal error",
	CodeUnknownError:       "unknown error",

	CodeVenueUnavailable: "venue is unavailable",
	CodeVenueAPIError:    "venue API returned an error",
	CodeVenueRateLimited: "venue rate limit exceeded",
	CodeOrderBookFetch:   "failed to fetch order book",
	CodeOrderBookParse:   "failed to parse order book",
	CodeOrderBookInvalid: "order book failed validation",
	CodeMatchingOrders:   "order book contains matching orders",
	CodeCircuitOpen:      "circuit breaker is open",
}
