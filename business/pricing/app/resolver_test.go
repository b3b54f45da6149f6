package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
)

var addrUNI = common.HexToAddress("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984")

type fakeMetadataReader struct {
	symbol   string
	decimals uint8
	err      error
	delay    time.Duration
	calls    atomic.Int32
}

func (f *fakeMetadataReader) ReadMetadata(_ context.Context, _ common.Address) (string, uint8, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", 0, f.err
	}
	return f.symbol, f.decimals, nil
}

func newTestResolver(t *testing.T, reader TokenMetadataReader) *TokenResolver {
	t.Helper()
	resolver, err := NewTokenResolver(asset.ChainIDEthereum, asset.DefaultRegistry(), reader, testLogger())
	require.NoError(t, err)
	return resolver
}

func TestTokenResolver_ZeroAddressIsNative(t *testing.T) {
	reader := &fakeMetadataReader{symbol: "UNI", decimals: 18}
	resolver := newTestResolver(t, reader)

	a, err := resolver.Resolve(context.Background(), common.Address{})

	require.NoError(t, err)
	require.True(t, a.IsNative())
	require.Equal(t, "ETH", a.Symbol())
	require.Equal(t, int32(0), reader.calls.Load(), "native resolution must not touch the chain")
}

func TestTokenResolver_WellKnownSkipsChainRead(t *testing.T) {
	reader := &fakeMetadataReader{symbol: "UNI", decimals: 18}
	resolver := newTestResolver(t, reader)

	a, err := resolver.Resolve(context.Background(), asset.AddrUSDCEthereum)

	require.NoError(t, err)
	require.Equal(t, "USDC", a.Symbol())
	require.Equal(t, uint8(6), a.Decimals())
	require.Equal(t, int32(0), reader.calls.Load())
}

func TestTokenResolver_ColdReadCachedForProcessLifetime(t *testing.T) {
	reader := &fakeMetadataReader{symbol: "UNI", decimals: 18}
	resolver := newTestResolver(t, reader)

	first, err := resolver.Resolve(context.Background(), addrUNI)
	require.NoError(t, err)
	require.Equal(t, "UNI", first.Symbol())
	require.Equal(t, int32(1), reader.calls.Load())

	second, err := resolver.Resolve(context.Background(), addrUNI)
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, int32(1), reader.calls.Load(), "second resolve must be served from the registry")
}

func TestTokenResolver_ConcurrentResolvesSingleRead(t *testing.T) {
	reader := &fakeMetadataReader{symbol: "UNI", decimals: 18, delay: 10 * time.Millisecond}
	resolver := newTestResolver(t, reader)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := resolver.Resolve(context.Background(), addrUNI)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), reader.calls.Load())
}

func TestTokenResolver_MalformedMetadata(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		decimals uint8
	}{
		{"empty_symbol", "", 18},
		{"absurd_decimals", "BAD", 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeMetadataReader{symbol: tt.symbol, decimals: tt.decimals}
			resolver := newTestResolver(t, reader)

			_, err := resolver.Resolve(context.Background(), addrUNI)

			require.Error(t, err)
			require.Equal(t, apperror.CodeInvalidToken, apperror.GetCode(err))
		})
	}
}

func TestTokenResolver_ReaderFailureMapsToInvalidToken(t *testing.T) {
	reader := &fakeMetadataReader{err: apperror.New(apperror.CodeInvalidToken,
		apperror.WithContext("symbol() reverted"))}
	resolver := newTestResolver(t, reader)

	_, err := resolver.Resolve(context.Background(), addrUNI)

	require.Error(t, err)
	require.Equal(t, apperror.CodeInvalidToken, apperror.GetCode(err))
}

func TestTokenResolver_RpcFailurePropagates(t *testing.T) {
	reader := &fakeMetadataReader{err: apperror.New(apperror.CodeRpcUnavailable,
		apperror.WithContext("connection refused"))}
	resolver := newTestResolver(t, reader)

	_, err := resolver.Resolve(context.Background(), addrUNI)

	require.Error(t, err)
	require.Equal(t, apperror.CodeRpcUnavailable, apperror.GetCode(err),
		"transport failures must not be misreported as invalid tokens")
}
