// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import "github.com/emberchain/ember/ember"

// The precompiled contracts live at fixed low addresses. Their cost schedule
// is enforced by the interpreter, not here.
var precompiles = map[ember.Address][]byte{
	ember.BytesToAddress([]byte{1}): {1}, // ecrecover
	ember.BytesToAddress([]byte{2}): {2}, // sha256
	ember.BytesToAddress([]byte{3}): {3}, // ripemd160
	ember.BytesToAddress([]byte{4}): {4}, // identity
}

// IsPrecompiled returns whether addr belongs to the precompile set.
func IsPrecompiled(addr ember.Address) bool {
	_, ok := precompiles[addr]
	return ok
}

// PrecompiledCode returns the dispatch code of the precompiled contract at
// addr, if any.
func PrecompiledCode(addr ember.Address) ([]byte, bool) {
	code, ok := precompiles[addr]
	return code, ok
}
