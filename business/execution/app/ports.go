// Package app contains the application services for the execution context.
package app

//go:generate mockgen -source=ports.go -destination=mocks_test.go -package=app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fbellman/swapdesk/business/execution/domain"
	pricingDomain "github.com/fbellman/swapdesk/business/pricing/domain"
)

// Quoter prices a swap before execution. Satisfied by the pricing
// context's service.
type Quoter interface {
	GetQuote(ctx context.Context, req pricingDomain.QuoteRequest) (*pricingDomain.Quote, error)
}

// ChainReader performs read-only chain calls: simulation and gas
// estimation.
type ChainReader interface {
	Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// TxSubmitter broadcasts signed transactions and waits for receipts.
type TxSubmitter interface {
	Submit(ctx context.Context, tx *types.Transaction) (common.Hash, error)
	AwaitConfirmation(ctx context.Context, hash common.Hash, timeout time.Duration) (*domain.Receipt, error)
}

// NonceCoordinator hands out nonces per wallet. A mined transaction,
// reverted or not, consumes its nonce; only a transaction that never
// reached the mempool frees it.
type NonceCoordinator interface {
	ReserveNonce(ctx context.Context, wallet common.Address) (uint64, error)
	MarkConfirmed(wallet common.Address, nonce uint64)
	MarkFailed(wallet common.Address, nonce uint64)
}

// GasPolicy supplies the gas price for submissions and the ceiling it
// is clamped to.
type GasPolicy interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	MaxGasPrice() *big.Int
}

// Signer signs transactions for the wallets it holds keys for.
type Signer interface {
	SignTx(ctx context.Context, wallet common.Address, tx *types.Transaction) (*types.Transaction, error)
	Addresses() []common.Address
}

// AllowanceReader reads ERC20 allowances.
type AllowanceReader interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// SwapEncoder packs router and ERC20 calldata.
type SwapEncoder interface {
	EncodeSwap(variant domain.SwapVariant, amountIn, minOut *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error)
	EncodeApprove(spender common.Address, amount *big.Int) ([]byte, error)
}
