// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/emberchain/ember/ember"
)

// Header is the block context of execution, read-only inside the core.
type Header struct {
	Beneficiary ember.Address
	Number      uint64
	GasLimit    uint64
	Timestamp   uint64
	Difficulty  *uint256.Int
}

// Hash returns the hash of the header.
func (h *Header) Hash() ember.Bytes32 {
	data, _ := rlp.EncodeToBytes(h)
	return ember.Keccak256(data)
}

// Synthesized returns a header standing in when no block is provided.
// Its gas limit exceeds any tx.
func Synthesized() *Header {
	return &Header{
		GasLimit:   ember.MaxBlockGasLimit,
		Difficulty: new(uint256.Int),
	}
}
