// Package ethereum implements the execution ports against a go-ethereum
// client and a V2-style AMM router.
package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/business/execution/domain"
)

// Ensure Codec implements SwapEncoder.
var _ app.SwapEncoder = (*Codec)(nil)

// Codec packs router swap and ERC20 approve calldata.
type Codec struct {
	routerABI abi.ABI
	erc20ABI  abi.ABI
}

// NewCodec parses the contract ABIs once.
func NewCodec() (*Codec, error) {
	routerABI, err := abi.JSON(strings.NewReader(RouterSwapABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse router swap ABI: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(ERC20WriteABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}
	return &Codec{routerABI: routerABI, erc20ABI: erc20ABI}, nil
}

// EncodeSwap packs the router call for the given variant. The native-in
// variant omits amountIn from calldata; it rides as the tx value.
func (c *Codec) EncodeSwap(variant domain.SwapVariant, amountIn, minOut *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	switch variant {
	case domain.SwapNativeForTokens:
		return c.routerABI.Pack(string(variant), minOut, path, to, deadline)
	case domain.SwapTokensForNative, domain.SwapTokensForTokens:
		return c.routerABI.Pack(string(variant), amountIn, minOut, path, to, deadline)
	default:
		return nil, fmt.Errorf("unknown swap variant %q", variant)
	}
}

// EncodeApprove packs an ERC20 approve call.
func (c *Codec) EncodeApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return c.erc20ABI.Pack("approve", spender, amount)
}
