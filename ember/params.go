// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ember

import (
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
)

// Constants of the execution core.
const (
	// TxGas fixed overhead charged for every transaction.
	TxGas uint64 = params.TxGas
	// TxGasContractCreation overhead charged for a contract-creating transaction.
	TxGasContractCreation uint64 = params.TxGasContractCreation
	// TxDataZeroGas per-byte cost of zero bytes in tx data.
	TxDataZeroGas uint64 = params.TxDataZeroGas
	// TxDataNonZeroGas per-byte cost of non-zero bytes in tx data.
	TxDataNonZeroGas uint64 = params.TxDataNonZeroGasFrontier
	// CreateDataGas per-byte surcharge for installing returned contract code.
	CreateDataGas uint64 = params.CreateDataGas

	// MaxBlockGasLimit gas limit of the synthesized block, exceeding any tx.
	MaxBlockGasLimit uint64 = (1 << 52) - 1
)

var (
	// EmptyRootHash root hash of the empty trie, the storage root sentinel of
	// accounts without storage.
	EmptyRootHash = Bytes32(types.EmptyRootHash)

	// EmptyCodeHash hash of empty code, the code hash sentinel of EOAs.
	EmptyCodeHash = Bytes32(types.EmptyCodeHash)
)
