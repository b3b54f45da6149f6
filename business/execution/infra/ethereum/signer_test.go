package ethereum

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/fbellman/swapdesk/internal/apperror"
)

// Throwaway key, never funded.
const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestKeyringSigner_SignsForKnownWallet(t *testing.T) {
	signer, err := NewKeyringSigner([]string{testKeyHex}, 1)
	require.NoError(t, err)

	addrs := signer.Addresses()
	require.Len(t, addrs, 1)

	key, _ := crypto.HexToECDSA(testKeyHex)
	require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addrs[0])

	to := common.HexToAddress("0x02")
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    1,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})

	signed, err := signer.SignTx(context.Background(), addrs[0], tx)
	require.NoError(t, err)

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), signed)
	require.NoError(t, err)
	require.Equal(t, addrs[0], sender)
}

func TestKeyringSigner_UnknownWalletFails(t *testing.T) {
	signer, err := NewKeyringSigner([]string{testKeyHex}, 1)
	require.NoError(t, err)

	to := common.HexToAddress("0x02")
	tx := types.NewTx(&types.LegacyTx{Nonce: 0, To: &to, Gas: 21000, GasPrice: big.NewInt(1)})

	_, err = signer.SignTx(context.Background(), common.HexToAddress("0xdead"), tx)
	require.Error(t, err)
	require.Equal(t, apperror.CodeSigningFailed, apperror.GetCode(err))
}

func TestKeyringSigner_RejectsEmptyAndMalformedKeys(t *testing.T) {
	_, err := NewKeyringSigner(nil, 1)
	require.Error(t, err)

	_, err = NewKeyringSigner([]string{"not-a-key"}, 1)
	require.Error(t, err)
	require.Equal(t, apperror.CodeConfigurationError, apperror.GetCode(err))
}

func TestKeyringSigner_AcceptsHexPrefix(t *testing.T) {
	signer, err := NewKeyringSigner([]string{"0x" + testKeyHex}, 1)
	require.NoError(t, err)
	require.Len(t, signer.Addresses(), 1)
}
