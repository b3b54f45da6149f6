// Package batchfile loads trade batches from yaml or json files.
package batchfile

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fbellman/swapdesk/business/batch/domain"
	executionDomain "github.com/fbellman/swapdesk/business/execution/domain"
	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/asset"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
)

// AssetResolver resolves token addresses to asset metadata. Satisfied
// by the pricing context's token resolver.
type AssetResolver interface {
	Resolve(ctx context.Context, addr common.Address) (*asset.Asset, error)
}

// tradeEntry is one trade in the batch file. Amounts are in whole
// token units and scaled by the token's decimals on load.
type tradeEntry struct {
	Wallet       string `mapstructure:"wallet"`
	TokenIn      string `mapstructure:"token_in"`
	TokenOut     string `mapstructure:"token_out"`
	Amount       string `mapstructure:"amount"`
	SlippageBps  int64  `mapstructure:"slippage_bps"`
	MaxImpactBps int64  `mapstructure:"max_impact_bps"`
	DryRun       bool   `mapstructure:"dry_run"`
}

// batchFile is the on-disk schema.
type batchFile struct {
	Strategy      string        `mapstructure:"strategy"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	InterOpDelay  time.Duration `mapstructure:"inter_op_delay"`
	DryRun        bool          `mapstructure:"dry_run"`
	Trades        []tradeEntry  `mapstructure:"trades"`
}

// Loader turns batch files into trade requests.
type Loader struct {
	resolver AssetResolver
	wallets  []common.Address
	logger   logger.LoggerInterface
}

// NewLoader creates a loader. Wallets are the signer's addresses;
// entries may reference them by index or by address.
func NewLoader(resolver AssetResolver, wallets []common.Address, log logger.LoggerInterface) *Loader {
	return &Loader{
		resolver: resolver,
		wallets:  wallets,
		logger:   log,
	}
}

// Load parses the file at path and returns the trade requests plus the
// batch config, falling back to the given defaults for scheduling
// parameters the file omits.
func (l *Loader) Load(ctx context.Context, path string, defaults config.BatchConfig) ([]executionDomain.TradeRequest, domain.Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.Config{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("failed to read batch file "+path))
	}

	var file batchFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, domain.Config{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("failed to parse batch file "+path))
	}
	if len(file.Trades) == 0 {
		return nil, domain.Config{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("batch file contains no trades"))
	}

	strategy, err := domain.ParseStrategy(file.Strategy)
	if err != nil {
		return nil, domain.Config{}, err
	}

	cfg := domain.Config{
		Strategy:      strategy,
		MaxConcurrent: file.MaxConcurrent,
		InterOpDelay:  file.InterOpDelay,
		DryRun:        file.DryRun || defaults.DryRun,
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = defaults.MaxConcurrent
	}
	if cfg.InterOpDelay == 0 {
		cfg.InterOpDelay = defaults.InterOpDelay
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.Config{}, err
	}

	requests := make([]executionDomain.TradeRequest, 0, len(file.Trades))
	for i, entry := range file.Trades {
		req, err := l.buildRequest(ctx, i, entry)
		if err != nil {
			return nil, domain.Config{}, err
		}
		requests = append(requests, req)
	}

	l.logger.Info(ctx, "batch file loaded",
		"path", path,
		"trades", len(requests),
		"strategy", string(cfg.Strategy),
	)
	return requests, cfg, nil
}

func (l *Loader) buildRequest(ctx context.Context, index int, entry tradeEntry) (executionDomain.TradeRequest, error) {
	var req executionDomain.TradeRequest

	wallet, err := l.resolveWallet(entry.Wallet)
	if err != nil {
		return req, entryError(index, err)
	}

	tokenIn, err := parseToken(entry.TokenIn)
	if err != nil {
		return req, entryError(index, err)
	}
	tokenOut, err := parseToken(entry.TokenOut)
	if err != nil {
		return req, entryError(index, err)
	}

	assetIn, err := l.resolver.Resolve(ctx, tokenIn)
	if err != nil {
		return req, entryError(index, err)
	}

	amountIn, err := parseAmount(entry.Amount, assetIn)
	if err != nil {
		return req, entryError(index, err)
	}

	return executionDomain.TradeRequest{
		Wallet:              wallet,
		TokenIn:             tokenIn,
		TokenOut:            tokenOut,
		AmountIn:            amountIn,
		SlippageBpsOverride: entry.SlippageBps,
		MaxImpactBps:        entry.MaxImpactBps,
		DryRun:              entry.DryRun,
	}, nil
}

// resolveWallet accepts an index into the signer's wallet list or a
// hex address that must belong to it. Empty means the first wallet.
func (l *Loader) resolveWallet(s string) (common.Address, error) {
	if len(l.wallets) == 0 {
		return common.Address{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("no wallets configured"))
	}
	if s == "" {
		return l.wallets[0], nil
	}

	if common.IsHexAddress(s) {
		addr := common.HexToAddress(s)
		for _, w := range l.wallets {
			if w == addr {
				return addr, nil
			}
		}
		return common.Address{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("wallet "+s+" has no configured key"))
	}

	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 || idx >= len(l.wallets) {
		return common.Address{}, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("invalid wallet reference: "+s))
	}
	return l.wallets[idx], nil
}

// parseToken maps "native" or empty to the zero-address sentinel.
func parseToken(s string) (common.Address, error) {
	if s == "" || s == "native" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, apperror.New(apperror.CodeInvalidToken,
			apperror.WithContext("invalid token address: "+s))
	}
	return common.HexToAddress(s), nil
}

// parseAmount scales a whole-unit decimal amount into the token's
// smallest units.
func parseAmount(s string, a *asset.Asset) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("invalid amount: "+s))
	}
	if !d.IsPositive() {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("amount must be positive: "+s))
	}

	scaled := d.Shift(int32(a.Decimals()))
	if !scaled.IsInteger() {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext(fmt.Sprintf("amount %s has more than %d decimal places", s, a.Decimals())))
	}
	return scaled.BigInt(), nil
}

func entryError(index int, err error) error {
	return apperror.New(apperror.GetCode(err),
		apperror.WithCause(err),
		apperror.WithContext(fmt.Sprintf("trade %d", index)))
}
