package ethereum

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fbellman/swapdesk/business/execution/app"
	"github.com/fbellman/swapdesk/internal/apperror"
)

// Ensure KeyringSigner implements Signer.
var _ app.Signer = (*KeyringSigner)(nil)

// KeyringSigner signs transactions with in-memory private keys loaded
// from configuration. Keys never leave this type.
type KeyringSigner struct {
	keys    map[common.Address]*ecdsa.PrivateKey
	order   []common.Address
	chainID *big.Int
}

// NewKeyringSigner parses hex-encoded private keys. Order is preserved
// so wallet indexes in batch files stay stable.
func NewKeyringSigner(hexKeys []string, chainID uint64) (*KeyringSigner, error) {
	if len(hexKeys) == 0 {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("no wallet keys configured"))
	}

	s := &KeyringSigner{
		keys:    make(map[common.Address]*ecdsa.PrivateKey, len(hexKeys)),
		chainID: new(big.Int).SetUint64(chainID),
	}

	for _, hk := range hexKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hk), "0x"))
		if err != nil {
			return nil, apperror.New(apperror.CodeConfigurationError,
				apperror.WithCause(err),
				apperror.WithContext("malformed wallet key"))
		}
		addr := crypto.PubkeyToAddress(key.PublicKey)
		if _, dup := s.keys[addr]; dup {
			continue
		}
		s.keys[addr] = key
		s.order = append(s.order, addr)
	}

	return s, nil
}

// SignTx signs for the given wallet.
func (s *KeyringSigner) SignTx(ctx context.Context, wallet common.Address, tx *types.Transaction) (*types.Transaction, error) {
	key, ok := s.keys[wallet]
	if !ok {
		return nil, apperror.New(apperror.CodeSigningFailed,
			apperror.WithContext("no key for wallet "+wallet.Hex()))
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), key)
	if err != nil {
		return nil, apperror.New(apperror.CodeSigningFailed,
			apperror.WithCause(err),
			apperror.WithContext("signing failed for "+wallet.Hex()))
	}
	return signed, nil
}

// Addresses lists the wallets the signer holds keys for, in
// configuration order.
func (s *KeyringSigner) Addresses() []common.Address {
	out := make([]common.Address, len(s.order))
	copy(out, s.order)
	return out
}
