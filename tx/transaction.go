// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/emberchain/ember/ember"
)

// Transaction is the execution input of one transaction.
// The sender is recovered upstream and carried in From.
type Transaction struct {
	From     ember.Address
	To       *ember.Address // nil denotes contract creation
	Nonce    uint64
	GasPrice *uint256.Int
	GasLimit uint64
	Value    *uint256.Int
	Data     []byte
}

// IsCreation returns whether the tx creates a contract.
func (t *Transaction) IsCreation() bool {
	return t.To == nil
}

// IntrinsicGas returns the intrinsic gas of the tx: the fixed overhead plus
// per-data-byte costs and the contract-creation surcharge.
func (t *Transaction) IntrinsicGas() (uint64, error) {
	gas := ember.TxGas
	if t.IsCreation() {
		gas = ember.TxGasContractCreation
	}
	if len(t.Data) > 0 {
		var nz uint64
		for _, b := range t.Data {
			if b != 0 {
				nz++
			}
		}
		if (math.MaxUint64-gas)/ember.TxDataNonZeroGas < nz {
			return 0, errors.New("intrinsic gas too large")
		}
		gas += nz * ember.TxDataNonZeroGas

		z := uint64(len(t.Data)) - nz
		if (math.MaxUint64-gas)/ember.TxDataZeroGas < z {
			return 0, errors.New("intrinsic gas too large")
		}
		gas += z * ember.TxDataZeroGas
	}
	return gas, nil
}

// UpfrontCost returns gasLimit·gasPrice + value, the amount the sender must
// hold for the tx to be accepted.
func (t *Transaction) UpfrontCost() *uint256.Int {
	cost := t.GasFee(t.GasLimit)
	if t.Value != nil {
		cost.Add(cost, t.Value)
	}
	return cost
}

// GasFee returns gas·gasPrice. A nil gas price counts as zero.
func (t *Transaction) GasFee(gas uint64) *uint256.Int {
	fee := new(uint256.Int)
	if t.GasPrice != nil {
		fee.SetUint64(gas)
		fee.Mul(fee, t.GasPrice)
	}
	return fee
}
