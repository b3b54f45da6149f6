package app

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
	"github.com/fbellman/swapdesk/internal/logger"
)

// TokenResolver maps token addresses to asset metadata. Results live in
// the shared registry for the rest of the process; the zero address
// resolves to the chain's native coin without touching the chain.
type TokenResolver struct {
	chainID  uint64
	native   *asset.Asset
	registry *asset.Registry
	reader   TokenMetadataReader
	logger   logger.LoggerInterface

	// mu serializes cold lookups so a pair of concurrent resolves for
	// the same address costs a single chain read.
	mu sync.Mutex
}

// NewTokenResolver creates a resolver over the given registry. The
// registry must already contain the chain's native asset.
func NewTokenResolver(chainID uint64, registry *asset.Registry, reader TokenMetadataReader, log logger.LoggerInterface) (*TokenResolver, error) {
	native, ok := registry.GetNative(chainID)
	if !ok {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("no native asset registered for chain"))
	}

	return &TokenResolver{
		chainID:  chainID,
		native:   native,
		registry: registry,
		reader:   reader,
		logger:   log,
	}, nil
}

// Resolve returns the asset for a token address. The zero address is
// the native coin. Unknown ERC20s are read from the chain once and
// cached for the life of the process.
func (r *TokenResolver) Resolve(ctx context.Context, addr common.Address) (*asset.Asset, error) {
	if addr == (common.Address{}) {
		return r.native, nil
	}

	if a, ok := r.registry.GetToken(r.chainID, addr); ok {
		return a, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another resolve may have filled the registry while we waited.
	if a, ok := r.registry.GetToken(r.chainID, addr); ok {
		return a, nil
	}

	symbol, decimals, err := r.reader.ReadMetadata(ctx, addr)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeRpcUnavailable {
			return nil, err
		}
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithCause(err),
			apperror.WithContext("token metadata read failed: "+addr.Hex()))
	}
	if symbol == "" || decimals > 30 {
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("malformed token metadata: "+addr.Hex()))
	}

	a := asset.MustNewToken(r.chainID, addr, symbol, symbol, decimals)
	a = r.registry.RegisterIfAbsent(a)

	r.logger.Debug(ctx, "resolved token",
		"address", addr.Hex(),
		"symbol", symbol,
		"decimals", decimals,
	)

	return a, nil
}

// Native returns the chain's native asset.
func (r *TokenResolver) Native() *asset.Asset {
	return r.native
}
