package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Token resolution and routing
	CodeInvalidToken:       "Token is unknown or not a valid ERC-20",
	CodeNoRoute:            "No liquidity route between tokens",
	CodeLiquidityTooThin:   "Pool liquidity too thin for this trade",
	CodePriceImpactTooHigh: "Price impact exceeds the allowed ceiling",
	CodeZeroOutput:         "Swap would return zero output",

	// Execution
	CodeApprovalFailed: "Token approval failed",
	CodeNonceConflict:  "Nonce already used or reserved",
	CodeReverted:       "Transaction reverted on chain",
	CodeTimeout:        "Operation timed out",
	CodeSigningFailed:  "Transaction signing failed",

	// Chain access errors
	CodeRpcUnavailable:        "RPC endpoint unavailable",
	CodeChainConnectionFailed: "Failed to connect to chain node",
	CodeGasEstimationFailed:   "Gas estimation failed",
	CodeGasPriceUnavailable:   "Gas price unavailable",
	CodeContractCallFailed:    "Smart contract call failed",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
