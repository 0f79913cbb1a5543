// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"sort"

	ethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/pkg/errors"

	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/kv"
	"github.com/emberchain/ember/stackedmap"
)

// Trie is an authenticated key-value store with nested savepoints.
//
// Contents live in a stack of in-memory levels; Checkpoint/Commit/Revert
// push, merge and pop levels. Root is the Merkle-Patricia root of the
// effective content. Committed revisions are persisted to the backing kv
// store keyed by root, so a trie can be reopened at any staged root. The
// node-structured Merkle-Patricia tree itself is not materialized here.
type Trie struct {
	store kv.GetPutter
	kvs   *stackedmap.StackedMap[string, []byte]
}

// New creates a trie rooted at root, backed by the given revision store.
// A zero or empty-trie root yields an empty trie. store may be nil for a
// purely ephemeral trie.
func New(store kv.GetPutter, root ember.Bytes32) (*Trie, error) {
	t := &Trie{
		store: store,
		kvs:   stackedmap.New[string, []byte](nil),
	}
	if root.IsZero() || root == ember.EmptyRootHash {
		return t, nil
	}
	if store == nil {
		return nil, errors.New("trie: no store to open root " + root.AbbrevString())
	}
	data, err := store.Get(root[:])
	if err != nil {
		return nil, errors.Wrap(err, "trie: open root "+root.AbbrevString())
	}
	entries, err := decodeRevision(data)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		t.kvs.Put(string(e.Key), e.Val)
	}
	return t, nil
}

// Get returns the value for the given key, or nil if absent.
func (t *Trie) Get(key []byte) ([]byte, error) {
	v, _, err := t.kvs.Get(string(key))
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}

// Put saves the key value pair. An empty value deletes the key.
func (t *Trie) Put(key, value []byte) error {
	if len(value) == 0 {
		return t.Delete(key)
	}
	t.kvs.Put(string(key), append([]byte(nil), value...))
	return nil
}

// Delete removes the key and its value.
func (t *Trie) Delete(key []byte) error {
	// nil marks deletion, shadowing lower levels
	t.kvs.Put(string(key), nil)
	return nil
}

// Checkpoint makes a savepoint of current content.
// It returns the depth of the savepoint stack before the call.
func (t *Trie) Checkpoint() int {
	return t.kvs.Push()
}

// Commit makes all changes since the matching Checkpoint permanent at the
// enclosing savepoint.
func (t *Trie) Commit() {
	t.kvs.Merge()
}

// Revert discards all changes since the matching Checkpoint.
func (t *Trie) Revert() {
	t.kvs.Pop()
}

// Copy makes an independent copy of the trie, sharing the backing store.
func (t *Trie) Copy() *Trie {
	return &Trie{store: t.store, kvs: t.kvs.Copy()}
}

// Root computes the Merkle-Patricia root of the effective content.
func (t *Trie) Root() ember.Bytes32 {
	root, _ := deriveRoot(t.effective())
	return root
}

// Stage computes the root and returns a commit function which persists the
// content as a revision at that root.
func (t *Trie) Stage() (ember.Bytes32, func() error) {
	entries := t.effective()
	root, data := deriveRoot(entries)
	commit := func() error {
		if t.store == nil || root == ember.EmptyRootHash {
			return nil
		}
		if err := t.store.Put(root[:], data); err != nil {
			return errors.Wrap(err, "trie: save revision")
		}
		return nil
	}
	return root, commit
}

type revEntry struct {
	Key, Val []byte
}

func (t *Trie) effective() []revEntry {
	var entries []revEntry
	t.kvs.Each(func(key string, val []byte) bool {
		if len(val) > 0 {
			entries = append(entries, revEntry{[]byte(key), val})
		}
		return true
	})
	sort.Slice(entries, func(i, j int) bool {
		return string(entries[i].Key) < string(entries[j].Key)
	})
	return entries
}

// deriveRoot computes the Merkle-Patricia root of the sorted entries, and
// returns the encoded revision alongside.
func deriveRoot(entries []revEntry) (ember.Bytes32, []byte) {
	st := ethtrie.NewStackTrie(nil)
	for _, e := range entries {
		// error impossible: keys are fed in sorted order
		_ = st.Update(e.Key, e.Val)
	}
	data, _ := encodeRevision(entries)
	return ember.Bytes32(st.Hash()), data
}
