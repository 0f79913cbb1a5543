// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/emberchain/ember/ember"
)

func TestNewAccount(t *testing.T) {
	a := NewAccount()
	assert.True(t, a.IsEmpty())
	assert.False(t, a.IsContract())
	assert.Equal(t, ember.EmptyRootHash, a.StorageRoot)
	assert.Equal(t, ember.EmptyCodeHash, a.CodeHash)
}

func TestAccountBalance(t *testing.T) {
	a := NewAccount()
	a.AddBalance(uint256.NewInt(10))
	assert.Equal(t, uint64(10), a.Balance.Uint64())

	assert.Nil(t, a.SubBalance(uint256.NewInt(4)))
	assert.Equal(t, uint64(6), a.Balance.Uint64())

	// the balance must never go negative
	err := a.SubBalance(uint256.NewInt(7))
	assert.Equal(t, ErrInsufficientBalance, err)
	assert.Equal(t, uint64(6), a.Balance.Uint64())
}

func TestDecodeEmpty(t *testing.T) {
	// empty trie bytes deserialize as a fresh zero account
	a, err := decodeAccount(nil)
	assert.Nil(t, err)
	assert.Equal(t, NewAccount(), a)
}

func TestAccountCodec(t *testing.T) {
	a := NewAccount()
	a.Nonce.SetUint64(3)
	a.Balance.SetUint64(1e18)
	a.CodeHash = ember.Keccak256([]byte("code"))

	data, err := encodeAccount(&a)
	assert.Nil(t, err)

	decoded, err := decodeAccount(data)
	assert.Nil(t, err)
	assert.Equal(t, a, decoded)
}
