// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package trie

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// A revision is the RLP-encoded flat content of a trie at some root,
// as a list of key/value pairs sorted by key.

func encodeRevision(entries []revEntry) ([]byte, error) {
	data, err := rlp.EncodeToBytes(entries)
	if err != nil {
		return nil, errors.Wrap(err, "trie: encode revision")
	}
	return data, nil
}

func decodeRevision(data []byte) ([]revEntry, error) {
	var entries []revEntry
	if err := rlp.DecodeBytes(data, &entries); err != nil {
		return nil, errors.Wrap(err, "trie: decode revision")
	}
	return entries, nil
}
