package account

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is an unlocked keystore account.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
}

func NewWallet(key *keystore.Key) *Wallet {
	return &Wallet{
		privateKey: key.PrivateKey,
	}
}

func (w *Wallet) Address() common.Address {
	return crypto.PubkeyToAddress(w.privateKey.PublicKey)
}
