// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberchain/ember/stackedmap"
)

func M(a ...interface{}) []interface{} {
	return a
}

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, r := src[key]
		return v, r, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []interface{}
	}{
		{func() {}, 1, "", "", "foo", []interface{}{"bar", true, nil}},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", []interface{}{"baz", true, nil}},
		{func() {}, 2, "foo", "baz1", "foo", []interface{}{"baz1", true, nil}},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", []interface{}{"qux", true, nil}},
		{func() { sm.Pop() }, 2, "", "", "foo", []interface{}{"baz1", true, nil}},
		{func() { sm.Pop() }, 1, "", "", "foo", []interface{}{"bar", true, nil}},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(1) }, 1, "", "", "", nil},

		{func() { sm.Push() }, 2, "merged", "v", "", nil},
		{func() { sm.Merge() }, 1, "", "", "merged", []interface{}{"v", true, nil}},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestEach(t *testing.T) {
	sm := stackedmap.New[string, int](nil)
	sm.Put("a", 1)
	sm.Push()
	sm.Put("a", 2)
	sm.Put("b", 3)

	effective := make(map[string]int)
	sm.Each(func(k string, v int) bool {
		effective[k] = v
		return true
	})
	assert.Equal(t, map[string]int{"a": 2, "b": 3}, effective)

	sm.Pop()
	effective = make(map[string]int)
	sm.Each(func(k string, v int) bool {
		effective[k] = v
		return true
	})
	assert.Equal(t, map[string]int{"a": 1}, effective)
}

func TestCopy(t *testing.T) {
	sm := stackedmap.New[string, string](nil)
	sm.Put("k", "v")

	cpy := sm.Copy()
	cpy.Put("k", "changed")

	v, _, _ := sm.Get("k")
	assert.Equal(t, "v", v)
	v, _, _ = cpy.Get("k")
	assert.Equal(t, "changed", v)
}

func TestPopBasePanics(t *testing.T) {
	sm := stackedmap.New[string, string](nil)
	assert.Panics(t, func() { sm.Pop() })
	assert.Panics(t, func() { sm.Merge() })
}
