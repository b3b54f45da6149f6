package app

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/fbellman/swapdesk/business/pricing/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
)

// fakeRouter prices linearly (out = 3x in) and can be told to revert
// for inputs above a threshold, or for everything.
type fakeRouter struct {
	mu        sync.Mutex
	calls     []*big.Int
	err       error
	failAbove *big.Int // nil means every read fails when err is set
}

func (f *fakeRouter) GetAmountsOut(_ context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, new(big.Int).Set(amountIn))
	f.mu.Unlock()

	if f.err != nil && (f.failAbove == nil || amountIn.Cmp(f.failAbove) > 0) {
		return nil, f.err
	}

	out := new(big.Int).Mul(amountIn, big.NewInt(3))
	return []*big.Int{new(big.Int).Set(amountIn), out}, nil
}

func (f *fakeRouter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRouter) sawInput(amountIn *big.Int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.Cmp(amountIn) == 0 {
			return true
		}
	}
	return false
}

type fakeGasSource struct{}

func (fakeGasSource) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(30_000_000_000), nil
}

func newTestService(t *testing.T, router RouterClient) *PricingService {
	t.Helper()

	resolver, err := NewTokenResolver(asset.ChainIDEthereum, asset.DefaultRegistry(), &fakeMetadataReader{}, testLogger())
	require.NoError(t, err)

	svc, err := NewPricingService(
		router,
		resolver,
		NewQuoteCache(time.Minute),
		fakeGasSource{},
		domain.SlippagePolicy{MinBps: 50, MaxBps: 500},
		asset.AddrWETHEthereum,
		testLogger(),
	)
	require.NoError(t, err)
	return svc
}

func TestPricingService_QuoteSizedToRequest(t *testing.T) {
	router := &fakeRouter{}
	svc := newTestService(t, router)
	ctx := context.Background()

	small, err := svc.GetQuote(ctx, domain.QuoteRequest{
		TokenIn:  asset.AddrWETHEthereum,
		TokenOut: asset.AddrUSDCEthereum,
		AmountIn: big.NewInt(1e18),
	})
	require.NoError(t, err)
	require.Equal(t, "1000000000000000000", small.AmountIn.Raw().String())
	require.Equal(t, "3000000000000000000", small.AmountOut.Raw().String())

	// A 5x larger trade lands in the same notional bucket; its quote
	// must still price the requested size.
	large, err := svc.GetQuote(ctx, domain.QuoteRequest{
		TokenIn:  asset.AddrWETHEthereum,
		TokenOut: asset.AddrUSDCEthereum,
		AmountIn: big.NewInt(5e18),
	})
	require.NoError(t, err)
	require.Equal(t, "5000000000000000000", large.AmountIn.Raw().String())
	require.Equal(t, "15000000000000000000", large.AmountOut.Raw().String())
	require.True(t, router.sawInput(big.NewInt(5e18)), "large trade must read the router at its own size")

	// Linear pool, zero impact: the 50 bps floor applies.
	require.Zero(t, large.ImpactBps)
	require.Equal(t, int64(50), large.EffectiveSlippageBps)
	require.Equal(t, "14925000000000000000", large.MinimumReceived.Raw().String())
}

func TestPricingService_ReferenceSampleCachedAcrossQuotes(t *testing.T) {
	router := &fakeRouter{}
	svc := newTestService(t, router)
	ctx := context.Background()

	for _, amountIn := range []*big.Int{big.NewInt(1e18), big.NewInt(5e18)} {
		_, err := svc.GetQuote(ctx, domain.QuoteRequest{
			TokenIn:  asset.AddrWETHEthereum,
			TokenOut: asset.AddrUSDCEthereum,
			AmountIn: amountIn,
		})
		require.NoError(t, err)
	}

	// Two trade-size reads plus a single shared reference read.
	require.Equal(t, 3, router.callCount())
	require.True(t, router.sawInput(big.NewInt(1e15)))
}

func TestPricingService_ThinLiquidityAtBothSizes(t *testing.T) {
	router := &fakeRouter{
		err: apperror.New(apperror.CodeNoRoute, apperror.WithContext("router rejected path")),
	}
	svc := newTestService(t, router)

	_, err := svc.GetQuote(context.Background(), domain.QuoteRequest{
		TokenIn:  asset.AddrWETHEthereum,
		TokenOut: asset.AddrUSDCEthereum,
		AmountIn: big.NewInt(1e18),
	})
	require.Error(t, err)
	require.Equal(t, apperror.CodeLiquidityTooThin, apperror.GetCode(err))
	require.Equal(t, 2, router.callCount(), "must confirm at the reference size before settling on the code")
}

func TestPricingService_TradeSizeRevertOnlyStaysNoRoute(t *testing.T) {
	router := &fakeRouter{
		err:       apperror.New(apperror.CodeNoRoute, apperror.WithContext("router rejected path")),
		failAbove: big.NewInt(1e16),
	}
	svc := newTestService(t, router)

	_, err := svc.GetQuote(context.Background(), domain.QuoteRequest{
		TokenIn:  asset.AddrWETHEthereum,
		TokenOut: asset.AddrUSDCEthereum,
		AmountIn: big.NewInt(1e18),
	})
	require.Error(t, err)
	require.Equal(t, apperror.CodeNoRoute, apperror.GetCode(err))
}

func TestPricingService_RpcFailureNotMaskedAsThinLiquidity(t *testing.T) {
	router := &fakeRouter{
		err: apperror.New(apperror.CodeRpcUnavailable, apperror.WithContext("read failed after retries")),
	}
	svc := newTestService(t, router)

	_, err := svc.GetQuote(context.Background(), domain.QuoteRequest{
		TokenIn:  asset.AddrWETHEthereum,
		TokenOut: asset.AddrUSDCEthereum,
		AmountIn: big.NewInt(1e18),
	})
	require.Error(t, err)
	require.Equal(t, apperror.CodeRpcUnavailable, apperror.GetCode(err))
	require.Equal(t, 1, router.callCount(), "transport failures skip the reference confirmation")
}
