// Package gasapi reads gas prices from an external gas station HTTP
// API. It backs the gas policy when the node cannot answer.
package gasapi

import (
	"context"
	"math/big"

	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/httpclient"
	"github.com/fbellman/swapdesk/internal/logger"
)

// gasStationResponse is the wire format of the gas station API. Prices
// are in gwei.
type gasStationResponse struct {
	Fast     float64 `json:"fast"`
	Standard float64 `json:"standard"`
	Slow     float64 `json:"slow"`
}

// Provider fetches gas prices over HTTP.
type Provider struct {
	client httpclient.Client
	logger logger.LoggerInterface
}

// NewProvider creates a gas station client. Returns nil when no URL is
// configured; the gas policy treats a nil fallback as absent.
func NewProvider(cfg config.GasStationConfig, log logger.LoggerInterface) (*Provider, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(cfg.URL),
		httpclient.WithProviderName("gas-station"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, err
	}

	return &Provider{client: client, logger: log}, nil
}

// GasPriceWei returns the standard gas price in wei. The API reports
// gwei; sub-gwei precision is kept by scaling before truncation.
func (p *Provider) GasPriceWei(ctx context.Context) (*big.Int, error) {
	var out gasStationResponse

	resp, err := p.client.NewRequest().SetResult(&out).Get(ctx, "")
	if err != nil {
		return nil, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("gas station unreachable"))
	}
	if resp.IsError() {
		return nil, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithContext("gas station returned "+resp.Status))
	}

	gwei := out.Standard
	if gwei <= 0 {
		gwei = out.Fast
	}
	if gwei <= 0 {
		return nil, apperror.New(apperror.CodeGasPriceUnavailable,
			apperror.WithContext("gas station returned no usable price"))
	}

	milliGwei := big.NewInt(int64(gwei * 1000))
	return milliGwei.Mul(milliGwei, big.NewInt(1_000_000)), nil
}
