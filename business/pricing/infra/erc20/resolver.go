// Package erc20 reads token metadata from ERC20 contracts.
package erc20

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/pricing/app"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/circuitbreaker"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
)

// MetadataABI covers the two reads the resolver needs.
const MetadataABI = `[
	{
		"constant": true,
		"inputs": [],
		"name": "symbol",
		"outputs": [{"internalType": "string", "name": "", "type": "string"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	},
	{
		"constant": true,
		"inputs": [],
		"name": "decimals",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"payable": false,
		"stateMutability": "view",
		"type": "function"
	}
]`

// Ensure Reader implements TokenMetadataReader.
var _ app.TokenMetadataReader = (*Reader)(nil)

// Reader resolves ERC20 symbol and decimals on chain.
type Reader struct {
	client      *ethclient.Client
	erc20ABI    abi.ABI
	callTimeout time.Duration

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]
	tracer trace.Tracer
}

// NewReader creates a metadata reader.
func NewReader(client *ethclient.Client, ethCfg config.EthereumConfig, log logger.LoggerInterface) (*Reader, error) {
	parsedABI, err := abi.JSON(strings.NewReader(MetadataABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	r := &Reader{
		client:      client,
		erc20ABI:    parsedABI,
		callTimeout: ethCfg.CallTimeout,
		logger:      log,
		tracer:      otel.Tracer("erc20"),
	}

	cbCfg := circuitbreaker.DefaultConfig("erc20-metadata")
	r.cb = circuitbreaker.New[[]byte](cbCfg)

	return r, nil
}

// ReadMetadata returns the token's symbol and decimals. A contract that
// reverts or returns garbage is an invalid token; transport failures
// are RpcUnavailable.
func (r *Reader) ReadMetadata(ctx context.Context, token common.Address) (string, uint8, error) {
	ctx, span := r.tracer.Start(ctx, "erc20.read_metadata",
		trace.WithAttributes(attribute.String("token", token.Hex())),
	)
	defer span.End()

	symbolRaw, err := r.call(ctx, token, "symbol")
	if err != nil {
		span.SetStatus(codes.Error, "symbol read failed")
		return "", 0, err
	}
	symbolOut, err := r.erc20ABI.Unpack("symbol", symbolRaw)
	if err != nil || len(symbolOut) != 1 {
		span.SetStatus(codes.Error, "symbol decode failed")
		return "", 0, apperror.New(apperror.CodeInvalidToken,
			apperror.WithCause(err),
			apperror.WithContext("symbol() returned malformed data"))
	}
	symbol, ok := symbolOut[0].(string)
	if !ok {
		return "", 0, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("symbol() is not a string"))
	}

	decimalsRaw, err := r.call(ctx, token, "decimals")
	if err != nil {
		span.SetStatus(codes.Error, "decimals read failed")
		return "", 0, err
	}
	decimalsOut, err := r.erc20ABI.Unpack("decimals", decimalsRaw)
	if err != nil || len(decimalsOut) != 1 {
		span.SetStatus(codes.Error, "decimals decode failed")
		return "", 0, apperror.New(apperror.CodeInvalidToken,
			apperror.WithCause(err),
			apperror.WithContext("decimals() returned malformed data"))
	}
	decimals, ok := decimalsOut[0].(uint8)
	if !ok {
		return "", 0, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("decimals() is not uint8"))
	}

	span.SetAttributes(
		attribute.String("symbol", symbol),
		attribute.Int("decimals", int(decimals)),
	)
	span.SetStatus(codes.Ok, "metadata read")

	return symbol, decimals, nil
}

func (r *Reader) call(ctx context.Context, token common.Address, method string) ([]byte, error) {
	callData, err := r.erc20ABI.Pack(method)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	raw, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(callCtx, ethereum.CallMsg{
			To:   &token,
			Data: callData,
		}, nil)
	})
	if err != nil {
		if strings.Contains(err.Error(), "execution reverted") {
			return nil, apperror.New(apperror.CodeInvalidToken,
				apperror.WithCause(err),
				apperror.WithContext(method+"() reverted"))
		}
		return nil, apperror.New(apperror.CodeRpcUnavailable,
			apperror.WithCause(err),
			apperror.WithContext(method+"() call failed"))
	}
	if len(raw) == 0 {
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext(method+"() returned no data"))
	}

	return raw, nil
}
