package app

import (
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fbellman/swapdesk/business/execution/domain"
	pricingDomain "github.com/fbellman/swapdesk/business/pricing/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
	"github.com/fbellman/swapdesk/internal/logger"
)

var (
	testWallet = common.HexToAddress("0xA0Cf024D03D05F2910Ea1418eb02fA4b5BAc6829")
	testRouter = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	testWETH   = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testUSDC   = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

// harness bundles the executor with every mocked port.
type harness struct {
	executor  *TradeExecutor
	sender    *TxSender
	quoter    *MockQuoter
	reader    *MockChainReader
	submitter *MockTxSubmitter
	nonces    *MockNonceCoordinator
	gas       *MockGasPolicy
	signer    *MockSigner
	allowance *MockAllowanceReader
	encoder   *MockSwapEncoder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		quoter:    NewMockQuoter(ctrl),
		reader:    NewMockChainReader(ctrl),
		submitter: NewMockTxSubmitter(ctrl),
		nonces:    NewMockNonceCoordinator(ctrl),
		gas:       NewMockGasPolicy(ctrl),
		signer:    NewMockSigner(ctrl),
		allowance: NewMockAllowanceReader(ctrl),
		encoder:   NewMockSwapEncoder(ctrl),
	}

	log := testLogger()
	h.sender = NewTxSender(h.reader, h.submitter, h.nonces, h.gas, h.signer, 1, time.Second, log)
	approvals := NewApprovalCoordinator(h.allowance, h.encoder, h.sender, testRouter, log)

	executor, err := NewTradeExecutor(h.quoter, approvals, h.encoder, h.reader, h.sender, testRouter, 120, log)
	require.NoError(t, err)
	h.executor = executor
	return h
}

func testQuote(t *testing.T, impactBps int64) *pricingDomain.Quote {
	t.Helper()

	weth := asset.NewClassifiedAsset(
		asset.NewTokenAssetID(asset.ChainIDEthereum, testWETH),
		"WETH", "Wrapped Ether", 18, asset.ClassMajor,
	)
	usdc := asset.NewClassifiedAsset(
		asset.NewTokenAssetID(asset.ChainIDEthereum, testUSDC),
		"USDC", "USD Coin", 6, asset.ClassStable,
	)

	amountIn := asset.NewAmount(weth, big.NewInt(1_000_000_000_000_000_000))
	amountOut := asset.NewAmount(usdc, big.NewInt(3_000_000_000))
	minReceived, err := amountOut.MulDiv(10_000-60, 10_000)
	require.NoError(t, err)

	return &pricingDomain.Quote{
		TokenIn:                weth,
		TokenOut:               usdc,
		AmountIn:               amountIn,
		AmountOut:              amountOut,
		Path:                   []common.Address{testWETH, testUSDC},
		ImpactBps:              impactBps,
		Band:                   pricingDomain.ClassifyImpact(impactBps),
		RecommendedSlippageBps: 60,
		EffectiveSlippageBps:   60,
		MinimumReceived:        minReceived,
		Timestamp:              time.Now(),
	}
}

func TestTradeExecutor_DryRunSimulatesWithoutSubmitting(t *testing.T) {
	h := newHarness(t)

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 42), nil)
	h.encoder.EXPECT().
		EncodeSwap(domain.SwapTokensForTokens, gomock.Any(), gomock.Any(), gomock.Any(), testWallet, gomock.Any()).
		Return([]byte{0x01}, nil)
	h.reader.EXPECT().Call(gomock.Any(), gomock.Any()).Return([]byte{}, nil)

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  testWETH,
		TokenOut: testUSDC,
		AmountIn: big.NewInt(1_000_000_000_000_000_000),
		DryRun:   true,
	})

	require.True(t, result.Success)
	require.Equal(t, domain.StateConfirmed, result.State)
	require.Equal(t, common.Hash{}, result.TxHash, "dry runs must not carry a tx hash")
	require.Contains(t, result.Timings, domain.StateSimulating)
	require.NotContains(t, result.Timings, domain.StateSubmitting)
}

func TestTradeExecutor_DryRunRevertFails(t *testing.T) {
	h := newHarness(t)

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 42), nil)
	h.encoder.EXPECT().
		EncodeSwap(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte{0x01}, nil)
	h.reader.EXPECT().Call(gomock.Any(), gomock.Any()).
		Return(nil, apperror.New(apperror.CodeReverted, apperror.WithContext("execution reverted")))

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  testWETH,
		TokenOut: testUSDC,
		AmountIn: big.NewInt(1_000_000_000_000_000_000),
		DryRun:   true,
	})

	require.False(t, result.Success)
	require.Equal(t, domain.StateFailed, result.State)
	require.Equal(t, apperror.CodeReverted, result.ErrorCode)
}

func TestTradeExecutor_ImpactAtCeilingFails(t *testing.T) {
	h := newHarness(t)

	// Exactly 500 bps sits on the hard ceiling and must not pass.
	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 500), nil)

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  testWETH,
		TokenOut: testUSDC,
		AmountIn: big.NewInt(1_000_000_000_000_000_000),
		DryRun:   true,
	})

	require.False(t, result.Success)
	require.Equal(t, domain.StateFailed, result.State)
	require.Equal(t, apperror.CodePriceImpactTooHigh, result.ErrorCode)
}

func TestTradeExecutor_ResultAmountInMatchesRequest(t *testing.T) {
	h := newHarness(t)

	// The quote fixture carries a 1e18 input; the result must still
	// report the size the caller asked for.
	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 42), nil)
	h.encoder.EXPECT().
		EncodeSwap(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte{0x01}, nil)
	h.reader.EXPECT().Call(gomock.Any(), gomock.Any()).Return([]byte{}, nil)

	requested := big.NewInt(5_000_000_000_000_000_000)
	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  testWETH,
		TokenOut: testUSDC,
		AmountIn: requested,
		DryRun:   true,
	})

	require.True(t, result.Success)
	require.Zero(t, result.AmountIn.Raw().Cmp(requested))
}

func TestTradeExecutor_RequestCeilingTightensHardLimit(t *testing.T) {
	h := newHarness(t)

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 120), nil)

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:       testWallet,
		TokenIn:      testWETH,
		TokenOut:     testUSDC,
		AmountIn:     big.NewInt(1_000_000_000_000_000_000),
		MaxImpactBps: 100,
		DryRun:       true,
	})

	require.False(t, result.Success)
	require.Equal(t, apperror.CodePriceImpactTooHigh, result.ErrorCode)
}

func TestTradeExecutor_RequestCeilingCannotLoosenHardLimit(t *testing.T) {
	h := newHarness(t)

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 600), nil)

	// A ceiling above 500 bps must not take effect.
	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:       testWallet,
		TokenIn:      testWETH,
		TokenOut:     testUSDC,
		AmountIn:     big.NewInt(1_000_000_000_000_000_000),
		MaxImpactBps: 2000,
		DryRun:       true,
	})

	require.False(t, result.Success)
	require.Equal(t, apperror.CodePriceImpactTooHigh, result.ErrorCode)
}

func TestTradeExecutor_QuoteFailurePropagatesCode(t *testing.T) {
	h := newHarness(t)

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).
		Return(nil, apperror.New(apperror.CodeNoRoute, apperror.WithContext("no pair")))

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  testWETH,
		TokenOut: testUSDC,
		AmountIn: big.NewInt(1),
	})

	require.False(t, result.Success)
	require.Equal(t, domain.StateFailed, result.State)
	require.Equal(t, apperror.CodeNoRoute, result.ErrorCode)
}

func TestTradeExecutor_NativeInSubmitsAndConfirms(t *testing.T) {
	h := newHarness(t)

	amountIn := big.NewInt(1_000_000_000_000_000_000)
	hash := common.HexToHash("0xabc1")

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 42), nil)
	h.encoder.EXPECT().
		EncodeSwap(domain.SwapNativeForTokens, gomock.Any(), gomock.Any(), gomock.Any(), testWallet, gomock.Any()).
		Return([]byte{0x01}, nil)

	h.gas.EXPECT().SuggestGasPrice(gomock.Any()).Return(gwei(50), nil)
	h.gas.EXPECT().MaxGasPrice().Return(gwei(300))
	h.reader.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(100_000), nil)
	h.nonces.EXPECT().ReserveNonce(gomock.Any(), testWallet).Return(uint64(7), nil)
	h.signer.EXPECT().SignTx(gomock.Any(), testWallet, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.Address, tx *types.Transaction) (*types.Transaction, error) {
			require.Equal(t, amountIn, tx.Value(), "native input must ride as tx value")
			require.Equal(t, uint64(110_000), tx.Gas(), "estimate must carry a 10% margin")
			return tx, nil
		})
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(hash, nil)
	h.submitter.EXPECT().AwaitConfirmation(gomock.Any(), hash, gomock.Any()).
		Return(&domain.Receipt{
			TxHash:            hash,
			BlockNumber:       100,
			GasUsed:           150_000,
			Status:            domain.ReceiptStatusSuccess,
			EffectiveGasPrice: gwei(50),
		}, nil)
	h.nonces.EXPECT().MarkConfirmed(testWallet, uint64(7))

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  common.Address{},
		TokenOut: testUSDC,
		AmountIn: amountIn,
	})

	require.True(t, result.Success)
	require.Equal(t, domain.StateConfirmed, result.State)
	require.Equal(t, hash, result.TxHash)
	require.Equal(t, uint64(150_000), result.GasUsed)
}

func TestTradeExecutor_RevertedSwapConsumesNonce(t *testing.T) {
	h := newHarness(t)

	hash := common.HexToHash("0xabc2")

	h.quoter.EXPECT().GetQuote(gomock.Any(), gomock.Any()).Return(testQuote(t, 42), nil)
	h.encoder.EXPECT().
		EncodeSwap(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]byte{0x01}, nil)

	h.gas.EXPECT().SuggestGasPrice(gomock.Any()).Return(gwei(50), nil)
	h.gas.EXPECT().MaxGasPrice().Return(gwei(300))
	h.reader.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(100_000), nil)
	h.nonces.EXPECT().ReserveNonce(gomock.Any(), testWallet).Return(uint64(7), nil)
	h.signer.EXPECT().SignTx(gomock.Any(), testWallet, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		})
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(hash, nil)
	h.submitter.EXPECT().AwaitConfirmation(gomock.Any(), hash, gomock.Any()).
		Return(&domain.Receipt{
			TxHash:  hash,
			GasUsed: 60_000,
			Status:  domain.ReceiptStatusFailed,
		}, nil)
	h.nonces.EXPECT().MarkConfirmed(testWallet, uint64(7))

	result := h.executor.Execute(context.Background(), domain.TradeRequest{
		Wallet:   testWallet,
		TokenIn:  common.Address{},
		TokenOut: testUSDC,
		AmountIn: big.NewInt(1_000_000_000_000_000_000),
	})

	require.False(t, result.Success)
	require.Equal(t, apperror.CodeReverted, result.ErrorCode)
	require.Equal(t, hash, result.TxHash, "a mined revert still has a hash")
}

func TestTxSender_NonceConflictRetriesExactlyOnce(t *testing.T) {
	h := newHarness(t)

	hash := common.HexToHash("0xabc3")
	data := []byte{0x01}

	h.gas.EXPECT().SuggestGasPrice(gomock.Any()).Return(gwei(50), nil)
	h.gas.EXPECT().MaxGasPrice().Return(gwei(300))
	h.reader.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(100_000), nil)

	gomock.InOrder(
		h.nonces.EXPECT().ReserveNonce(gomock.Any(), testWallet).Return(uint64(7), nil),
		h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
			Return(common.Hash{}, apperror.New(apperror.CodeNonceConflict, apperror.WithContext("nonce too low"))),
		h.nonces.EXPECT().MarkFailed(testWallet, uint64(7)),
		h.nonces.EXPECT().ReserveNonce(gomock.Any(), testWallet).Return(uint64(8), nil),
		h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(hash, nil),
		h.submitter.EXPECT().AwaitConfirmation(gomock.Any(), hash, gomock.Any()).
			Return(&domain.Receipt{TxHash: hash, Status: domain.ReceiptStatusSuccess}, nil),
		h.nonces.EXPECT().MarkConfirmed(testWallet, uint64(8)),
	)

	h.signer.EXPECT().SignTx(gomock.Any(), testWallet, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		}).Times(2)

	receipt, err := h.sender.Send(context.Background(), testWallet, testRouter, big.NewInt(0), data, 200_000)

	require.NoError(t, err)
	require.Equal(t, hash, receipt.TxHash)
}

func TestTxSender_GasPriceClampedToCeiling(t *testing.T) {
	h := newHarness(t)

	hash := common.HexToHash("0xabc4")

	h.gas.EXPECT().SuggestGasPrice(gomock.Any()).Return(gwei(100), nil)
	h.gas.EXPECT().MaxGasPrice().Return(gwei(80))
	h.reader.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).Return(uint64(50_000), nil)
	h.nonces.EXPECT().ReserveNonce(gomock.Any(), testWallet).Return(uint64(1), nil)
	h.signer.EXPECT().SignTx(gomock.Any(), testWallet, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.Address, tx *types.Transaction) (*types.Transaction, error) {
			require.Equal(t, gwei(80), tx.GasPrice())
			return tx, nil
		})
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(hash, nil)
	h.submitter.EXPECT().AwaitConfirmation(gomock.Any(), hash, gomock.Any()).
		Return(&domain.Receipt{TxHash: hash, Status: domain.ReceiptStatusSuccess}, nil)
	h.nonces.EXPECT().MarkConfirmed(testWallet, uint64(1))

	_, err := h.sender.Send(context.Background(), testWallet, testRouter, big.NewInt(0), []byte{0x01}, 200_000)

	require.NoError(t, err)
}

func TestTxSender_EstimateFailureUsesFallback(t *testing.T) {
	h := newHarness(t)

	hash := common.HexToHash("0xabc5")

	h.gas.EXPECT().SuggestGasPrice(gomock.Any()).Return(gwei(50), nil)
	h.gas.EXPECT().MaxGasPrice().Return(gwei(300))
	h.reader.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).
		Return(uint64(0), apperror.New(apperror.CodeGasEstimationFailed))
	h.nonces.EXPECT().ReserveNonce(gomock.Any(), testWallet).Return(uint64(1), nil)
	h.signer.EXPECT().SignTx(gomock.Any(), testWallet, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.Address, tx *types.Transaction) (*types.Transaction, error) {
			require.Equal(t, uint64(260_000), tx.Gas())
			return tx, nil
		})
	h.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(hash, nil)
	h.submitter.EXPECT().AwaitConfirmation(gomock.Any(), hash, gomock.Any()).
		Return(&domain.Receipt{TxHash: hash, Status: domain.ReceiptStatusSuccess}, nil)
	h.nonces.EXPECT().MarkConfirmed(testWallet, uint64(1))

	_, err := h.sender.Send(context.Background(), testWallet, testRouter, big.NewInt(0), []byte{0x01}, 260_000)

	require.NoError(t, err)
}
