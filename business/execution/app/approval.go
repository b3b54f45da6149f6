package app

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/logger"
)

// maxUint256 is the unlimited-approval sentinel. One approval per
// (wallet, token) for the lifetime of the wallet.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ApprovalCoordinator ensures the router may spend a wallet's tokens
// before a swap. Requests for the same (wallet, token) pair are
// serialized so concurrent trades never race an approval.
type ApprovalCoordinator struct {
	allowances AllowanceReader
	encoder    SwapEncoder
	sender     *TxSender
	spender    common.Address

	mu    sync.Mutex
	locks map[approvalKey]*sync.Mutex

	logger logger.LoggerInterface
	tracer trace.Tracer
}

type approvalKey struct {
	wallet common.Address
	token  common.Address
}

// NewApprovalCoordinator creates a coordinator approving the given
// spender (the router).
func NewApprovalCoordinator(
	allowances AllowanceReader,
	encoder SwapEncoder,
	sender *TxSender,
	spender common.Address,
	log logger.LoggerInterface,
) *ApprovalCoordinator {
	return &ApprovalCoordinator{
		allowances: allowances,
		encoder:    encoder,
		sender:     sender,
		spender:    spender,
		locks:      make(map[approvalKey]*sync.Mutex),
		logger:     log,
		tracer:     otel.Tracer("approval"),
	}
}

// EnsureApproved guarantees the spender can move at least required of
// token from wallet. The native coin needs no approval. A sufficient
// existing allowance writes nothing. Returns true when an approval
// transaction was actually sent.
func (c *ApprovalCoordinator) EnsureApproved(ctx context.Context, wallet, token common.Address, required *big.Int) (bool, error) {
	if token == (common.Address{}) {
		return false, nil
	}

	ctx, span := c.tracer.Start(ctx, "approval.ensure",
		trace.WithAttributes(
			attribute.String("wallet", wallet.Hex()),
			attribute.String("token", token.Hex()),
		),
	)
	defer span.End()

	lock := c.lockFor(wallet, token)
	lock.Lock()
	defer lock.Unlock()

	current, err := c.allowances.Allowance(ctx, token, wallet, c.spender)
	if err != nil {
		span.SetStatus(codes.Error, "allowance read failed")
		return false, err
	}
	if current.Cmp(required) >= 0 {
		span.SetStatus(codes.Ok, "allowance sufficient")
		return false, nil
	}

	data, err := c.encoder.EncodeApprove(c.spender, maxUint256)
	if err != nil {
		span.SetStatus(codes.Error, "encode failed")
		return false, apperror.New(apperror.CodeApprovalFailed,
			apperror.WithCause(err),
			apperror.WithContext("could not encode approve"))
	}

	receipt, err := c.sender.Send(ctx, wallet, token, big.NewInt(0), data, domain.GasFallbackNativeIn)
	if err != nil {
		span.SetStatus(codes.Error, "approval send failed")
		return false, apperror.New(apperror.CodeApprovalFailed,
			apperror.WithCause(err),
			apperror.WithContext("approval transaction failed"))
	}
	if receipt.Reverted() {
		span.SetStatus(codes.Error, "approval reverted")
		return false, apperror.New(apperror.CodeApprovalFailed,
			apperror.WithContext("approval transaction reverted"))
	}

	c.logger.Info(ctx, "token approved",
		"wallet", wallet.Hex(),
		"token", token.Hex(),
		"tx", receipt.TxHash.Hex(),
	)
	span.SetStatus(codes.Ok, "approved")
	return true, nil
}

func (c *ApprovalCoordinator) lockFor(wallet, token common.Address) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := approvalKey{wallet: wallet, token: token}
	if m, ok := c.locks[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	c.locks[key] = m
	return m
}
