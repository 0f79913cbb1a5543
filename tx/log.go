// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/ember/bloom"
)

// Log is one log record emitted during execution.
type Log struct {
	Address ember.Address
	Topics  []ember.Bytes32
	Data    []byte
}

// LogsBloom derives the 2048-bit filter over the logs: the address and every
// topic of each log is inserted. Log data is not included.
func LogsBloom(logs []*Log) bloom.Bloom {
	var b bloom.Bloom
	for _, l := range logs {
		b.Add(l.Address[:])
		for _, topic := range l.Topics {
			b.Add(topic[:])
		}
	}
	return b
}
