// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/stackedmap"
)

// ErrCacheMiss is returned by Cache.Get for an address that was neither
// warmed nor loaded.
var ErrCacheMiss = errors.New("account cache miss")

// entry is a cached account record.
// Warm entries produced by warming are not dirty until mutated.
type entry struct {
	data    Account
	dirty   bool
	deleted bool
	warm    bool
}

// Cache is a write-back layer in front of the accounts trie.
// Checkpoints snapshot the entry table; Commit discards the snapshot and
// Revert restores it. Flush walks dirty entries writing them through.
type Cache struct {
	sm *stackedmap.StackedMap[ember.Address, *entry]
}

// TrieWriter is the write half of the accounts trie, the flush target.
type TrieWriter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

func newCache() *Cache {
	return &Cache{
		sm: stackedmap.New[ember.Address, *entry](nil),
	}
}

// Get returns the cached account. The address must have been warmed or
// loaded before, otherwise ErrCacheMiss is returned.
func (c *Cache) Get(addr ember.Address) (Account, error) {
	e, ok, _ := c.sm.Get(addr)
	if !ok {
		metricCacheCounter().AddWithLabel(1, map[string]string{"event": "miss"})
		return Account{}, errors.WithMessage(ErrCacheMiss, addr.String())
	}
	metricCacheCounter().AddWithLabel(1, map[string]string{"event": "hit"})
	if e.deleted {
		return NewAccount(), nil
	}
	return e.data, nil
}

// GetOrLoad returns the cached account, calling load for the serialized
// record on a miss. The loaded entry is recorded warm and clean.
func (c *Cache) GetOrLoad(addr ember.Address, load func(ember.Address) ([]byte, error)) (Account, error) {
	if e, ok, _ := c.sm.Get(addr); ok {
		metricCacheCounter().AddWithLabel(1, map[string]string{"event": "hit"})
		if e.deleted {
			return NewAccount(), nil
		}
		return e.data, nil
	}
	metricCacheCounter().AddWithLabel(1, map[string]string{"event": "load"})
	data, err := load(addr)
	if err != nil {
		return Account{}, err
	}
	a, err := decodeAccount(data)
	if err != nil {
		return Account{}, err
	}
	c.sm.Put(addr, &entry{data: a, warm: true})
	return a, nil
}

// Put writes the account to the cache. Warm puts record a clean entry;
// all other puts mark the entry dirty, scheduling a trie write on flush.
func (c *Cache) Put(addr ember.Address, a Account, warm bool) {
	c.sm.Put(addr, &entry{data: a, dirty: !warm, warm: true})
}

// Del marks the account deleted. Flush will remove the key from the trie.
func (c *Cache) Del(addr ember.Address) {
	c.sm.Put(addr, &entry{deleted: true, dirty: true, warm: true})
}

// Checkpoint makes a snapshot of the entry table.
// It returns the depth of the snapshot stack before the call.
func (c *Cache) Checkpoint() int {
	return c.sm.Push()
}

// Commit pops the latest snapshot, discarding it.
func (c *Cache) Commit() {
	c.sm.Merge()
}

// Revert pops the latest snapshot, restoring it.
func (c *Cache) Revert() {
	c.sm.Pop()
}

// Flush writes dirty entries through to w: deleted entries remove the key,
// others write the serialized account. Warm entries that remained clean are
// never written. Flushed entries become clean.
func (c *Cache) Flush(w TrieWriter) error {
	var ferr error
	c.sm.Each(func(addr ember.Address, e *entry) bool {
		if !e.dirty {
			return true
		}
		if e.deleted {
			if ferr = w.Delete(addr[:]); ferr != nil {
				return false
			}
		} else {
			var data []byte
			if data, ferr = encodeAccount(&e.data); ferr != nil {
				return false
			}
			if ferr = w.Put(addr[:], data); ferr != nil {
				return false
			}
		}
		e.dirty = false
		metricCacheCounter().AddWithLabel(1, map[string]string{"event": "flush"})
		return true
	})
	return ferr
}

// Clear drops all entries and snapshots.
func (c *Cache) Clear() {
	c.sm = stackedmap.New[ember.Address, *entry](nil)
}
