package ethereum

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fbellman/swapdesk/internal/logger"
)

type fakePendingNonce struct {
	pending atomic.Uint64
	calls   atomic.Int32
	err     error
}

func (f *fakePendingNonce) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	f.calls.Add(1)
	if f.err != nil {
		return 0, f.err
	}
	return f.pending.Load(), nil
}

func nonceTestLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func TestNonceManager_SyncsOnceThenAdvancesLocally(t *testing.T) {
	remote := &fakePendingNonce{}
	remote.pending.Store(42)
	m := NewNonceManager(remote, nonceTestLogger())
	wallet := common.HexToAddress("0x01")

	n1, err := m.ReserveNonce(context.Background(), wallet)
	require.NoError(t, err)
	n2, err := m.ReserveNonce(context.Background(), wallet)
	require.NoError(t, err)

	require.Equal(t, uint64(42), n1)
	require.Equal(t, uint64(43), n2)
	require.Equal(t, int32(1), remote.calls.Load(), "only the first reserve hits the node")
}

func TestNonceManager_MarkFailedForcesResync(t *testing.T) {
	remote := &fakePendingNonce{}
	remote.pending.Store(10)
	m := NewNonceManager(remote, nonceTestLogger())
	wallet := common.HexToAddress("0x01")

	n1, err := m.ReserveNonce(context.Background(), wallet)
	require.NoError(t, err)
	require.Equal(t, uint64(10), n1)

	m.MarkFailed(wallet, n1)
	remote.pending.Store(10) // nothing mined, node still at 10

	n2, err := m.ReserveNonce(context.Background(), wallet)
	require.NoError(t, err)
	require.Equal(t, uint64(10), n2, "a burned reservation must be reclaimed")
	require.Equal(t, int32(2), remote.calls.Load())
}

func TestNonceManager_WalletsAreIndependent(t *testing.T) {
	remote := &fakePendingNonce{}
	remote.pending.Store(5)
	m := NewNonceManager(remote, nonceTestLogger())

	a, err := m.ReserveNonce(context.Background(), common.HexToAddress("0x01"))
	require.NoError(t, err)
	b, err := m.ReserveNonce(context.Background(), common.HexToAddress("0x02"))
	require.NoError(t, err)

	require.Equal(t, uint64(5), a)
	require.Equal(t, uint64(5), b)
}
