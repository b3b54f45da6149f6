// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RouterClient reads swap amounts from the AMM router.
type RouterClient interface {
	// GetAmountsOut returns the router's output amounts along the path
	// for the given input. The last element is the final output.
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
}

// TokenMetadataReader reads ERC20 metadata from the chain.
type TokenMetadataReader interface {
	// ReadMetadata returns the token's symbol and decimals.
	ReadMetadata(ctx context.Context, token common.Address) (symbol string, decimals uint8, err error)
}

// GasPriceSource supplies the current gas price for quote cost figures.
type GasPriceSource interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}
