// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vm defines the contract between the execution core and the opcode
// interpreter. The interpreter itself is a capability supplied by the caller.
package vm

import (
	"github.com/holiman/uint256"

	"github.com/emberchain/ember/block"
	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/state"
	"github.com/emberchain/ember/tx"
)

// RunOpts carries the inputs of one interpreter dispatch.
type RunOpts struct {
	State    *state.State
	Code     []byte
	Data     []byte
	GasLimit uint64
	GasPrice *uint256.Int
	Account  state.Account // the executing account
	Address  ember.Address // address of the executing account
	Origin   ember.Address
	Caller   ember.Address
	Value    *uint256.Int
	Block    *block.Header
	Depth    int
	Suicides SuicideSet // shared across all frames of one tx
}

// Output is the result record of one interpreter dispatch.
//
// A frame exception is reported via VMErr; it means "reverted frame", not
// system failure. System failures are returned as ordinary errors by the
// interpreter methods instead.
type Output struct {
	Account   state.Account // the executing account, as left by the frame
	GasUsed   uint64
	RefundGas uint64
	Return    []byte
	Logs      []*tx.Log
	Suicides  []ember.Address
	VMErr     error
}

// Interpreter executes EVM code. RunCode interprets bytecode; RunPrecompiled
// dispatches a native precompiled contract.
type Interpreter interface {
	RunCode(opts *RunOpts) (*Output, error)
	RunPrecompiled(opts *RunOpts) (*Output, error)
}
