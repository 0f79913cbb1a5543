// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/kv"
	"github.com/emberchain/ember/trie"
)

// storageTries registers per-contract storage tries, created lazily on first
// touch within a tx and living until committed or dropped.
type storageTries struct {
	store kv.GetPutter
	tries map[ember.Address]*trie.Trie
}

func newStorageTries(store kv.GetPutter) *storageTries {
	return &storageTries{
		store: store,
		tries: make(map[ember.Address]*trie.Trie),
	}
}

// get returns the registered storage trie for addr, opening a copy rooted at
// root on first touch.
func (st *storageTries) get(addr ember.Address, root ember.Bytes32) (*trie.Trie, error) {
	if tr, ok := st.tries[addr]; ok {
		return tr, nil
	}
	tr, err := trie.New(st.store, root)
	if err != nil {
		return nil, err
	}
	st.tries[addr] = tr
	return tr, nil
}

// snapshot captures the registry, trie contents included.
func (st *storageTries) snapshot() map[ember.Address]*trie.Trie {
	snap := make(map[ember.Address]*trie.Trie, len(st.tries))
	for addr, tr := range st.tries {
		snap[addr] = tr.Copy()
	}
	return snap
}

// restore replaces the registry with a snapshot.
func (st *storageTries) restore(snap map[ember.Address]*trie.Trie) {
	st.tries = snap
}

// commitAll persists every registered trie and removes it, reporting the new
// root to update before each removal.
func (st *storageTries) commitAll(update func(addr ember.Address, root ember.Bytes32) error) error {
	for addr, tr := range st.tries {
		root, commit := tr.Stage()
		if err := commit(); err != nil {
			return err
		}
		if err := update(addr, root); err != nil {
			return err
		}
		delete(st.tries, addr)
	}
	return nil
}

// dropAll discards all registered tries without committing.
func (st *storageTries) dropAll() {
	st.tries = make(map[ember.Address]*trie.Trie)
}
