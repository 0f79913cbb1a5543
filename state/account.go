// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/trie"
)

// ErrInsufficientBalance is returned when a balance subtraction would make
// the balance negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Account is the consensus representation of an account.
// RLP encoded objects are stored in the main accounts trie.
type Account struct {
	Nonce       uint256.Int
	Balance     uint256.Int
	StorageRoot ember.Bytes32 // merkle root of the storage trie
	CodeHash    ember.Bytes32 // hash of code
}

// NewAccount returns a fresh zero account.
func NewAccount() Account {
	return Account{
		StorageRoot: ember.EmptyRootHash,
		CodeHash:    ember.EmptyCodeHash,
	}
}

// IsContract returns whether the account holds contract code.
func (a *Account) IsContract() bool {
	return a.CodeHash != ember.EmptyCodeHash
}

// IsEmpty returns if an account is empty.
// An empty account has zero nonce, zero balance and the empty code hash.
func (a *Account) IsEmpty() bool {
	return a.Nonce.IsZero() && a.Balance.IsZero() && !a.IsContract()
}

// AddBalance adds amount to the account's balance.
func (a *Account) AddBalance(amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	a.Balance.Add(&a.Balance, amount)
}

// SubBalance subtracts amount from the account's balance.
// The balance must never go negative, so overdraw is rejected.
func (a *Account) SubBalance(amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if a.Balance.Lt(amount) {
		return ErrInsufficientBalance
	}
	a.Balance.Sub(&a.Balance, amount)
	return nil
}

// decodeAccount deserializes an account from trie value bytes.
// Empty bytes yield a fresh zero account.
func decodeAccount(data []byte) (Account, error) {
	if len(data) == 0 {
		return NewAccount(), nil
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return Account{}, errors.Wrap(err, "decode account")
	}
	return a, nil
}

// encodeAccount serializes an account into trie value bytes.
func encodeAccount(a *Account) ([]byte, error) {
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return nil, errors.Wrap(err, "encode account")
	}
	return data, nil
}

// loadAccount loads an account by address from the trie.
// It returns a fresh zero account if no account is found at the address.
func loadAccount(tr *trie.Trie, addr ember.Address) (Account, error) {
	data, err := tr.Get(addr[:])
	if err != nil {
		return Account{}, err
	}
	return decodeAccount(data)
}
