// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides a logical bucket over a kv store, by prefixing keys.
type Bucket string

// NewGetPutter creates a bucket view over the source store.
func (b Bucket) NewGetPutter(src GetPutter) GetPutter {
	return &bucketStore{string(b), src}
}

type bucketStore struct {
	prefix string
	src    GetPutter
}

func (s *bucketStore) key(key []byte) []byte {
	return append(append(make([]byte, 0, len(s.prefix)+len(key)), s.prefix...), key...)
}

func (s *bucketStore) Get(key []byte) ([]byte, error) {
	return s.src.Get(s.key(key))
}

func (s *bucketStore) Has(key []byte) (bool, error) {
	return s.src.Has(s.key(key))
}

func (s *bucketStore) IsNotFound(err error) bool {
	return s.src.IsNotFound(err)
}

func (s *bucketStore) Put(key, value []byte) error {
	return s.src.Put(s.key(key), value)
}

func (s *bucketStore) Delete(key []byte) error {
	return s.src.Delete(s.key(key))
}
