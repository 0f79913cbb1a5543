// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"

	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/kv"
	"github.com/emberchain/ember/trie"
)

const (
	trieStoreName = "state.trie"
	codeStoreName = "state.code"
)

var codeCache, _ = lru.NewARC(512)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// checkpoint spans the cache snapshot, the trie savepoint, the storage-tries
// snapshot and the revert handlers registered under it.
type checkpoint struct {
	tries map[ember.Address]*trie.Trie
	hooks []func()
}

// State manages the world state: a unified facade over the account cache,
// the accounts trie, per-contract storage tries and the code store, with
// coordinated nested savepoints.
type State struct {
	store        kv.GetPutter
	trie         *trie.Trie
	cache        *Cache
	tries        *storageTries
	codes        map[ember.Bytes32][]byte
	checkpoints  []*checkpoint
	getBlockHash func(uint64) (ember.Bytes32, error)
}

// New creates a state object rooted at root, backed by the given store.
func New(store kv.GetPutter, root ember.Bytes32) (*State, error) {
	revs := kv.Bucket(trieStoreName).NewGetPutter(store)
	tr, err := trie.New(revs, root)
	if err != nil {
		return nil, &Error{err}
	}
	return &State{
		store: store,
		trie:  tr,
		cache: newCache(),
		tries: newStorageTries(revs),
		codes: make(map[ember.Bytes32][]byte),
	}, nil
}

// SetBlockHashFunc sets the blockchain collaborator queried by GetBlockHash.
func (s *State) SetBlockHashFunc(fn func(num uint64) (ember.Bytes32, error)) {
	s.getBlockHash = fn
}

func (s *State) loadAccount(addr ember.Address) ([]byte, error) {
	return s.trie.Get(addr[:])
}

// GetAccount gets the account at the given address.
// It never fails on a missing key, yielding a fresh zero account instead.
func (s *State) GetAccount(addr ember.Address) (Account, error) {
	a, err := s.cache.GetOrLoad(addr, s.loadAccount)
	if err != nil {
		return Account{}, &Error{err}
	}
	return a, nil
}

// PutAccount writes the account to the cache, scheduling a trie write on
// flush.
func (s *State) PutAccount(addr ember.Address, a Account) {
	s.cache.Put(addr, a, false)
}

// DeleteAccount marks the account deleted; flush removes it from the trie.
// Any registered storage trie of the account is dropped.
func (s *State) DeleteAccount(addr ember.Address) {
	s.cache.Del(addr)
	delete(s.tries.tries, addr)
}

// Exists returns whether a non-empty account exists at the given address.
func (s *State) Exists(addr ember.Address) (bool, error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return false, err
	}
	return !a.IsEmpty(), nil
}

// IncrementNonce increments the account nonce by one.
func (s *State) IncrementNonce(addr ember.Address) error {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	a.Nonce.AddUint64(&a.Nonce, 1)
	s.PutAccount(addr, a)
	return nil
}

// GetNonce returns the account nonce.
func (s *State) GetNonce(addr ember.Address) (uint256.Int, error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return uint256.Int{}, err
	}
	return a.Nonce, nil
}

// GetBalance returns the account balance.
func (s *State) GetBalance(addr ember.Address) (uint256.Int, error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return uint256.Int{}, err
	}
	return a.Balance, nil
}

// SetBalance sets the account balance, preserving the other fields.
func (s *State) SetBalance(addr ember.Address, balance *uint256.Int) error {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	a.Balance = *balance
	s.PutAccount(addr, a)
	return nil
}

// AddBalance adds amount to the account balance.
func (s *State) AddBalance(addr ember.Address, amount *uint256.Int) error {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	a.AddBalance(amount)
	s.PutAccount(addr, a)
	return nil
}

// SubBalance subtracts amount from the account balance.
// ErrInsufficientBalance is returned when the balance would go negative.
func (s *State) SubBalance(addr ember.Address, amount *uint256.Int) error {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	if err := a.SubBalance(amount); err != nil {
		return err
	}
	s.PutAccount(addr, a)
	return nil
}

// GetCodeHash returns the code hash of the account.
func (s *State) GetCodeHash(addr ember.Address) (ember.Bytes32, error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return ember.Bytes32{}, err
	}
	return a.CodeHash, nil
}

// GetCode returns the code of the account, nil for an EOA.
func (s *State) GetCode(addr ember.Address) ([]byte, error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if !a.IsContract() {
		return nil, nil
	}
	if code, ok := s.codes[a.CodeHash]; ok {
		return code, nil
	}
	if code, ok := codeCache.Get(a.CodeHash); ok {
		return code.([]byte), nil
	}
	code, err := kv.Bucket(codeStoreName).NewGetPutter(s.store).Get(a.CodeHash[:])
	if err != nil {
		return nil, &Error{err}
	}
	codeCache.Add(a.CodeHash, code)
	return code, nil
}

// SetCode stores the code blob keyed by its hash and updates the account's
// code hash. The blob reaches the code store on flush.
func (s *State) SetCode(addr ember.Address, code []byte) error {
	a, err := s.GetAccount(addr)
	if err != nil {
		return err
	}
	if len(code) > 0 {
		hash := ember.Bytes32(crypto.Keccak256Hash(code))
		s.codes[hash] = code
		codeCache.Add(hash, code)
		a.CodeHash = hash
	} else {
		a.CodeHash = ember.EmptyCodeHash
	}
	s.PutAccount(addr, a)
	return nil
}

// GetStorage returns the storage value for the given address and key.
func (s *State) GetStorage(addr ember.Address, key ember.Bytes32) (ember.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return ember.Bytes32{}, err
	}
	if len(raw) == 0 {
		return ember.Bytes32{}, nil
	}
	_, content, _, err := rlp.Split(raw)
	if err != nil {
		return ember.Bytes32{}, &Error{err}
	}
	return ember.BytesToBytes32(content), nil
}

// SetStorage sets the storage value for the given address and key.
// A zero value deletes the key.
func (s *State) SetStorage(addr ember.Address, key, value ember.Bytes32) error {
	if value.IsZero() {
		return s.SetRawStorage(addr, key, nil)
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	return s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns the storage value in RLP raw form.
func (s *State) GetRawStorage(addr ember.Address, key ember.Bytes32) (rlp.RawValue, error) {
	tr, err := s.storageTrie(addr)
	if err != nil {
		return nil, err
	}
	raw, err := tr.Get(key[:])
	if err != nil {
		return nil, &Error{err}
	}
	return raw, nil
}

// SetRawStorage sets the storage value in RLP raw form.
func (s *State) SetRawStorage(addr ember.Address, key ember.Bytes32, raw rlp.RawValue) error {
	tr, err := s.storageTrie(addr)
	if err != nil {
		return err
	}
	if err := tr.Put(key[:], raw); err != nil {
		return &Error{err}
	}
	return nil
}

// storageTrie returns the registered storage trie of the account, opened at
// the account's current storage root on first touch. The account is always
// read fresh from the cache here.
func (s *State) storageTrie(addr ember.Address) (*trie.Trie, error) {
	a, err := s.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	tr, err := s.tries.get(addr, a.StorageRoot)
	if err != nil {
		return nil, &Error{err}
	}
	return tr, nil
}

// GetBlockHash returns the hash of the block at the given number, delegating
// to the blockchain collaborator. Without one, a zero hash is returned.
func (s *State) GetBlockHash(num uint64) (ember.Bytes32, error) {
	if s.getBlockHash == nil {
		return ember.Bytes32{}, nil
	}
	return s.getBlockHash(num)
}

// WarmCache bulk pre-loads the addresses from the trie into the cache as
// warm and clean entries.
func (s *State) WarmCache(addrs ...ember.Address) error {
	for _, addr := range addrs {
		if _, err := s.GetAccount(addr); err != nil {
			return err
		}
	}
	return nil
}

// Checkpoint makes a savepoint of the current state: the account cache, the
// accounts trie, the storage-tries registry and the revert handlers roll
// back together. It returns the checkpoint depth before the call.
func (s *State) Checkpoint() int {
	depth := s.cache.Checkpoint()
	s.trie.Checkpoint()
	s.checkpoints = append(s.checkpoints, &checkpoint{tries: s.tries.snapshot()})
	return depth
}

// Commit discards the latest checkpoint, keeping all changes made since.
// Revert handlers registered under it survive with the enclosing checkpoint.
func (s *State) Commit() {
	s.cache.Commit()
	s.trie.Commit()
	n := len(s.checkpoints)
	top := s.checkpoints[n-1]
	s.checkpoints = s.checkpoints[:n-1]
	if n >= 2 {
		below := s.checkpoints[n-2]
		below.hooks = append(below.hooks, top.hooks...)
	}
}

// Revert restores the latest checkpoint: cache contents, trie content,
// storage tries, and invokes the revert handlers registered under it in
// reverse order.
func (s *State) Revert() {
	s.cache.Revert()
	s.trie.Revert()
	n := len(s.checkpoints)
	top := s.checkpoints[n-1]
	s.checkpoints = s.checkpoints[:n-1]
	s.tries.restore(top.tries)
	for i := len(top.hooks) - 1; i >= 0; i-- {
		top.hooks[i]()
	}
}

// OnRevert registers fn to be invoked when the current checkpoint is
// reverted. Without an open checkpoint the handler is dropped.
func (s *State) OnRevert(fn func()) {
	if n := len(s.checkpoints); n > 0 {
		top := s.checkpoints[n-1]
		top.hooks = append(top.hooks, fn)
	}
}

// CommitContracts commits every registered storage trie, updating the
// referenced account's storage root in the cache before removal.
func (s *State) CommitContracts() error {
	err := s.tries.commitAll(func(addr ember.Address, root ember.Bytes32) error {
		a, err := s.cache.Get(addr)
		if err != nil {
			return err
		}
		if a.StorageRoot == root {
			return nil
		}
		a.StorageRoot = root
		s.cache.Put(addr, a, false)
		return nil
	})
	if err != nil {
		return &Error{err}
	}
	return nil
}

// RevertContracts discards all registered storage tries without committing.
func (s *State) RevertContracts() {
	s.tries.dropAll()
}

// Flush writes pending code blobs and dirty cached accounts through to the
// trie and persists the trie revision.
func (s *State) Flush() error {
	_, err := s.flush()
	return err
}

// GetStateRoot flushes the cache and returns the root of the accounts trie.
func (s *State) GetStateRoot() (ember.Bytes32, error) {
	return s.flush()
}

func (s *State) flush() (ember.Bytes32, error) {
	if len(s.codes) > 0 {
		codeStore := kv.Bucket(codeStoreName).NewGetPutter(s.store)
		for hash, code := range s.codes {
			if err := codeStore.Put(hash[:], code); err != nil {
				return ember.Bytes32{}, &Error{err}
			}
		}
		s.codes = make(map[ember.Bytes32][]byte)
	}
	if err := s.cache.Flush(s.trie); err != nil {
		return ember.Bytes32{}, &Error{err}
	}
	root, commit := s.trie.Stage()
	if err := commit(); err != nil {
		return ember.Bytes32{}, &Error{err}
	}
	return root, nil
}

// ClearCache drops all cached accounts.
func (s *State) ClearCache() {
	s.cache.Clear()
}
