package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Trading error codes. These are the failure kinds that surface on trade
// results; everything else folds into CodeUnknownError via GetCode.
const (
	// Token resolution and routing
	CodeInvalidToken       Code = "INVALID_TOKEN"
	CodeNoRoute            Code = "NO_ROUTE"
	CodeLiquidityTooThin   Code = "LIQUIDITY_TOO_THIN"
	CodePriceImpactTooHigh Code = "PRICE_IMPACT_TOO_HIGH"
	CodeZeroOutput         Code = "ZERO_OUTPUT"

	// Execution
	CodeApprovalFailed Code = "APPROVAL_FAILED"
	CodeNonceConflict  Code = "NONCE_CONFLICT"
	CodeReverted       Code = "REVERTED"
	CodeTimeout        Code = "TIMEOUT"
	CodeSigningFailed  Code = "SIGNING_FAILED"

	// Chain access errors
	CodeRpcUnavailable        Code = "RPC_UNAVAILABLE"
	CodeChainConnectionFailed Code = "CHAIN_CONNECTION_FAILED"
	CodeGasEstimationFailed   Code = "GAS_ESTIMATION_FAILED"
	CodeGasPriceUnavailable   Code = "GAS_PRICE_UNAVAILABLE"
	CodeContractCallFailed    Code = "CONTRACT_CALL_FAILED"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
