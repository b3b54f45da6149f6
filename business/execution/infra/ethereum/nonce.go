package ethereum

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/logger"
)

// pendingNonceReader is the slice of ethclient the manager needs.
type pendingNonceReader interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
}

// Ensure NonceManager implements NonceCoordinator.
var _ app.NonceCoordinator = (*NonceManager)(nil)

// NonceManager tracks the next nonce per wallet. It syncs lazily from
// the node's pending count and advances locally; a failed submission
// forces a resync so a burned reservation cannot wedge the wallet.
type NonceManager struct {
	remote pendingNonceReader

	mu      sync.Mutex
	wallets map[common.Address]*walletNonce

	logger logger.LoggerInterface
}

type walletNonce struct {
	mu     sync.Mutex
	next   uint64
	synced bool
}

// NewNonceManager creates a nonce manager backed by the node.
func NewNonceManager(remote pendingNonceReader, log logger.LoggerInterface) *NonceManager {
	return &NonceManager{
		remote:  remote,
		wallets: make(map[common.Address]*walletNonce),
		logger:  log,
	}
}

// ReserveNonce returns the next nonce for the wallet and advances the
// local counter.
func (m *NonceManager) ReserveNonce(ctx context.Context, wallet common.Address) (uint64, error) {
	w := m.walletFor(wallet)
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.synced {
		pending, err := m.remote.PendingNonceAt(ctx, wallet)
		if err != nil {
			return 0, apperror.New(apperror.CodeRpcUnavailable,
				apperror.WithCause(err),
				apperror.WithContext("could not sync nonce for "+wallet.Hex()))
		}
		w.next = pending
		w.synced = true
		m.logger.Debug(ctx, "nonce synced", "wallet", wallet.Hex(), "nonce", pending)
	}

	nonce := w.next
	w.next++
	return nonce, nil
}

// MarkConfirmed acknowledges a spent nonce. The local counter already
// advanced at reservation, so nothing moves.
func (m *NonceManager) MarkConfirmed(wallet common.Address, nonce uint64) {}

// MarkFailed releases a reservation that never reached the mempool by
// forcing a resync on the next reserve.
func (m *NonceManager) MarkFailed(wallet common.Address, nonce uint64) {
	w := m.walletFor(wallet)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.synced = false
}

func (m *NonceManager) walletFor(wallet common.Address) *walletNonce {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.wallets[wallet]; ok {
		return w
	}
	w := &walletNonce{}
	m.wallets[wallet] = w
	return w
}
