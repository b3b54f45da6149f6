package gasapi

import (
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fbellman/swapdesk/internal/apperror"
	"github.com/fbellman/swapdesk/internal/config"
	"github.com/fbellman/swapdesk/internal/logger"
)

func testLogger() logger.LoggerInterface {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewProvider(config.GasStationConfig{
		URL:     server.URL,
		Timeout: 2 * time.Second,
	}, testLogger())
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func TestProvider_DisabledWithoutURL(t *testing.T) {
	p, err := NewProvider(config.GasStationConfig{}, testLogger())
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestProvider_ParsesStandardPrice(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fast": 40, "standard": 30, "slow": 20}`))
	})

	wei, err := p.GasPriceWei(context.Background())

	require.NoError(t, err)
	require.Equal(t, big.NewInt(30_000_000_000), wei) // 30 gwei
}

func TestProvider_FallsBackToFast(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"fast": 12.5}`))
	})

	wei, err := p.GasPriceWei(context.Background())

	require.NoError(t, err)
	require.Equal(t, big.NewInt(12_500_000_000), wei)
}

func TestProvider_ServerErrorMapsToGasPriceUnavailable(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := p.GasPriceWei(context.Background())

	require.Error(t, err)
	require.Equal(t, apperror.CodeGasPriceUnavailable, apperror.GetCode(err))
}

func TestProvider_EmptyBodyFails(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	_, err := p.GasPriceWei(context.Background())

	require.Error(t, err)
	require.Equal(t, apperror.CodeGasPriceUnavailable, apperror.GetCode(err))
}
