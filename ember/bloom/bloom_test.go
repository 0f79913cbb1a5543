// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bloom_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberchain/ember/ember/bloom"
)

func TestBloom(t *testing.T) {
	var b bloom.Bloom
	assert.True(t, b.IsZero())

	items := make([][]byte, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, []byte(fmt.Sprintf("item-%d", i)))
	}
	for _, item := range items {
		b.Add(item)
	}
	assert.False(t, b.IsZero())
	for _, item := range items {
		assert.True(t, b.Contains(item))
	}
	assert.False(t, b.Contains([]byte("never inserted")))
}

func TestBloomOr(t *testing.T) {
	var a, b bloom.Bloom
	a.Add([]byte("in a"))
	b.Add([]byte("in b"))

	a.Or(&b)
	assert.True(t, a.Contains([]byte("in a")))
	assert.True(t, a.Contains([]byte("in b")))
}
