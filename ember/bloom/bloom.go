// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bloom

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// Length length of bloom filter in bytes.
	Length = 256
	// BitLength length of bloom filter in bits.
	BitLength = Length * 8
)

// Bloom the 2048-bit log filter.
// Items are inserted by setting three bits, each picked from a pair of bytes
// of the item's keccak256 hash, modulo the filter width.
type Bloom [Length]byte

// bitIndexes computes the three bit positions for the given item.
func bitIndexes(item []byte) [3]uint {
	h := crypto.Keccak256(item)
	var idx [3]uint
	for i := 0; i < 3; i++ {
		idx[i] = uint(binary.BigEndian.Uint16(h[i*2:])) % BitLength
	}
	return idx
}

// Add inserts the item into the filter.
func (b *Bloom) Add(item []byte) {
	for _, i := range bitIndexes(item) {
		b[Length-1-i/8] |= 1 << (i % 8)
	}
}

// Contains tests if the item is contained (false positive possible).
func (b *Bloom) Contains(item []byte) bool {
	for _, i := range bitIndexes(item) {
		if b[Length-1-i/8]&(1<<(i%8)) == 0 {
			return false
		}
	}
	return true
}

// Or merges the other filter into this one.
func (b *Bloom) Or(other *Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// IsZero returns whether no bit is set.
func (b *Bloom) IsZero() bool {
	return *b == Bloom{}
}

// Bytes returns byte slice form of the filter.
func (b *Bloom) Bytes() []byte {
	return b[:]
}
