// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import "github.com/emberchain/ember/ember"

// SuicideSet collects addresses self-destructed during a tx. It is shared
// across all frames and append-only during interpretation; the marked
// accounts are removed at end-of-tx.
type SuicideSet map[ember.Address]struct{}

// NewSuicideSet creates an empty set.
func NewSuicideSet() SuicideSet {
	return make(SuicideSet)
}

// Add marks the address.
func (s SuicideSet) Add(addr ember.Address) {
	s[addr] = struct{}{}
}

// Contains returns whether the address is marked.
func (s SuicideSet) Contains(addr ember.Address) bool {
	_, ok := s[addr]
	return ok
}

// Slice returns the marked addresses. Order is unspecified.
func (s SuicideSet) Slice() []ember.Address {
	addrs := make([]ember.Address, 0, len(s))
	for addr := range s {
		addrs = append(addrs, addr)
	}
	return addrs
}
