package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/circuitbreaker"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
)

// Ensure AllowanceClient implements AllowanceReader.
var _ app.AllowanceReader = (*AllowanceClient)(nil)

// AllowanceClient reads ERC20 allowances on chain.
type AllowanceClient struct {
	client      *ethclient.Client
	erc20ABI    abi.ABI
	callTimeout time.Duration

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]
}

// NewAllowanceClient creates an allowance reader.
func NewAllowanceClient(client *ethclient.Client, ethCfg config.EthereumConfig, log logger.LoggerInterface) (*AllowanceClient, error) {
	parsedABI, err := abi.JSON(strings.NewReader(ERC20WriteABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	c := &AllowanceClient{
		client:      client,
		erc20ABI:    parsedABI,
		callTimeout: ethCfg.CallTimeout,
		logger:      log,
	}
	c.cb = circuitbreaker.New[[]byte](circuitbreaker.DefaultConfig("erc20-allowance"))

	return c, nil
}

// Allowance returns how much of token the spender may move for owner.
func (c *AllowanceClient) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	callData, err := c.erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to encode allowance: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := c.cb.Execute(func() ([]byte, error) {
		return c.client.CallContract(callCtx, ethereum.CallMsg{
			To:   &token,
			Data: callData,
		}, nil)
	})
	if err != nil {
		if isRevert(err) {
			return nil, apperror.New(apperror.CodeInvalidToken,
				apperror.WithCause(err),
				apperror.WithContext("allowance() reverted"))
		}
		return nil, apperror.New(apperror.CodeRpcUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("allowance() call failed"))
	}

	outputs, err := c.erc20ABI.Unpack("allowance", raw)
	if err != nil || len(outputs) != 1 {
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithCause(err),
			apperror.WithContext("allowance() returned malformed data"))
	}
	allowance, ok := outputs[0].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("allowance() is not uint256"))
	}

	return allowance, nil
}
