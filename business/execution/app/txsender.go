package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/logger"
)

// estimateMarginPct pads on-chain gas estimates so swaps that shift
// pool state between estimation and inclusion still fit.
const estimateMarginPct = 10

// TxSender builds, signs and submits a transaction and waits for its
// receipt. Approvals and swaps share this path.
type TxSender struct {
	reader    ChainReader
	submitter TxSubmitter
	nonces    NonceCoordinator
	gas       GasPolicy
	signer    Signer

	chainID        *big.Int
	confirmTimeout time.Duration

	logger logger.LoggerInterface
}

// NewTxSender wires the sending pipeline.
func NewTxSender(
	reader ChainReader,
	submitter TxSubmitter,
	nonces NonceCoordinator,
	gas GasPolicy,
	signer Signer,
	chainID uint64,
	confirmTimeout time.Duration,
	log logger.LoggerInterface,
) *TxSender {
	return &TxSender{
		reader:         reader,
		submitter:      submitter,
		nonces:         nonces,
		gas:            gas,
		signer:         signer,
		chainID:        new(big.Int).SetUint64(chainID),
		confirmTimeout: confirmTimeout,
		logger:         log,
	}
}

// Send submits calldata to a contract from the given wallet and blocks
// until the transaction is mined or the confirmation window elapses.
// gasFallback is used when on-chain estimation fails. A nonce conflict
// on submission is retried exactly once with a fresh nonce.
func (s *TxSender) Send(ctx context.Context, wallet, to common.Address, value *big.Int, data []byte, gasFallback uint64) (*domain.Receipt, error) {
	gasPrice, err := s.gas.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("no gas price for submission"))
	}
	if max := s.gas.MaxGasPrice(); max != nil && max.Sign() > 0 && gasPrice.Cmp(max) > 0 {
		gasPrice = new(big.Int).Set(max)
	}

	gasLimit := s.estimateGas(ctx, wallet, to, value, data, gasFallback)

	receipt, err := s.signAndSubmit(ctx, wallet, to, value, data, gasPrice, gasLimit)
	if apperror.GetCode(err) == apperror.CodeNonceConflict {
		s.logger.Warn(ctx, "nonce conflict, retrying with fresh nonce",
			"wallet", wallet.Hex(),
		)
		receipt, err = s.signAndSubmit(ctx, wallet, to, value, data, gasPrice, gasLimit)
	}
	return receipt, err
}

func (s *TxSender) estimateGas(ctx context.Context, wallet, to common.Address, value *big.Int, data []byte, fallback uint64) uint64 {
	estimate, err := s.reader.EstimateGas(ctx, ethereum.CallMsg{
		From:  wallet,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		s.logger.Warn(ctx, "gas estimation failed, using fallback",
			"fallback", fallback,
			"error", err,
		)
		return fallback
	}
	return estimate + estimate*estimateMarginPct/100
}

func (s *TxSender) signAndSubmit(ctx context.Context, wallet, to common.Address, value *big.Int, data []byte, gasPrice *big.Int, gasLimit uint64) (*domain.Receipt, error) {
	nonce, err := s.nonces.ReserveNonce(ctx, wallet)
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := s.signer.SignTx(ctx, wallet, tx)
	if err != nil {
		s.nonces.MarkFailed(wallet, nonce)
		return nil, apperror.New(apperror.CodeSigningFailed,
			apperror.WithCause(err),
			apperror.WithContext("could not sign transaction"))
	}

	hash, err := s.submitter.Submit(ctx, signed)
	if err != nil {
		s.nonces.MarkFailed(wallet, nonce)
		return nil, err
	}

	s.logger.Info(ctx, "transaction submitted",
		"wallet", wallet.Hex(),
		"tx", hash.Hex(),
		"nonce", nonce,
		"gas_limit", gasLimit,
	)

	receipt, err := s.submitter.AwaitConfirmation(ctx, hash, s.confirmTimeout)
	if err != nil {
		// The transaction may still mine later; the nonce is spent
		// either way once it reached the mempool.
		s.nonces.MarkConfirmed(wallet, nonce)
		return nil, err
	}

	// A mined revert consumes its nonce too.
	s.nonces.MarkConfirmed(wallet, nonce)
	return receipt, nil
}
