// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime drives transaction execution: the outer transaction frame
// and the nested CALL/CREATE frames, against a state manager and an opcode
// interpreter capability.
package runtime

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/emberchain/ember/block"
	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/ember/bloom"
	"github.com/emberchain/ember/state"
	"github.com/emberchain/ember/tx"
	"github.com/emberchain/ember/vm"
)

var (
	// ErrTxGasExceedsBlock is returned when tx gas limit exceeds the block gas limit.
	ErrTxGasExceedsBlock = errors.New("tx gas exceeds block gas limit")
	// ErrInsufficientFunds is returned when the sender cannot cover gas·price + value.
	ErrInsufficientFunds = errors.New("insufficient funds for gas price * gas + value")
	// ErrBadNonce is returned when the tx nonce does not match the sender nonce.
	ErrBadNonce = errors.New("bad nonce")
	// ErrIntrinsicGas is returned when tx gas limit cannot cover the intrinsic gas.
	ErrIntrinsicGas = errors.New("intrinsic gas exceeds provided gas")
)

// BlockReader is the blockchain collaborator, looked up for the BLOCKHASH
// semantics. A stub returning nil blocks is acceptable.
type BlockReader interface {
	BlockByNumber(num uint64) (*block.Header, error)
}

// Options configure the execution of one transaction.
type Options struct {
	// Block is the block context; a synthesized one stands in when nil.
	Block *block.Header
	// SkipNonce disables the nonce equality check.
	SkipNonce bool
	// SkipWarmup disables pre-loading of {from, to, coinbase} into the
	// account cache before execution, and the cache clearing afterwards.
	SkipWarmup bool
	// Blockchain backs block hash lookups, optional.
	Blockchain BlockReader
	// BeforeTx is invoked before validation; an error fails the tx.
	BeforeTx func(*tx.Transaction) error
	// AfterTx observes the final results; an error fails the tx unflushed.
	AfterTx func(*Results) error
}

// Results is the outcome of one executed transaction.
type Results struct {
	GasUsed        uint64
	AmountSpent    *uint256.Int
	Bloom          bloom.Bloom
	FromAccount    state.Account
	ToAccount      state.Account
	CreatedAddress *ember.Address
	Output         *vm.Output
}

// Runtime supports transaction execution over a state.
type Runtime struct {
	state  *state.State
	interp vm.Interpreter
}

// New creates a Runtime object.
func New(st *state.State, interp vm.Interpreter) *Runtime {
	return &Runtime{
		state:  st,
		interp: interp,
	}
}

// State returns the state the runtime executes over.
func (rt *Runtime) State() *state.State { return rt.state }

// ExecuteTransaction executes a transaction: validation, fee pre-charge,
// the outer call frame, gas refund capped at half of the gas used, miner
// reward, suicide sweep and the final state flush.
//
// A frame exception is a normal outcome reported on Results.Output.VMErr;
// an error return means the tx was rejected or a system failure occurred.
func (rt *Runtime) ExecuteTransaction(transaction *tx.Transaction, opts *Options) (*Results, error) {
	if opts == nil {
		opts = &Options{}
	}
	blk := opts.Block
	if blk == nil {
		blk = block.Synthesized()
	}
	if transaction.GasLimit > blk.GasLimit {
		return nil, ErrTxGasExceedsBlock
	}
	if opts.Blockchain != nil {
		chain := opts.Blockchain
		rt.state.SetBlockHashFunc(func(num uint64) (ember.Bytes32, error) {
			h, err := chain.BlockByNumber(num)
			if err != nil {
				return ember.Bytes32{}, err
			}
			if h == nil {
				return ember.Bytes32{}, nil
			}
			return h.Hash(), nil
		})
	}

	if !opts.SkipWarmup {
		warm := []ember.Address{transaction.From, blk.Beneficiary}
		if transaction.To != nil {
			warm = append(warm, *transaction.To)
		}
		if err := rt.state.WarmCache(warm...); err != nil {
			return nil, err
		}
	}

	if opts.BeforeTx != nil {
		if err := opts.BeforeTx(transaction); err != nil {
			return nil, err
		}
	}

	// validation, before any state mutation
	from, err := rt.state.GetAccount(transaction.From)
	if err != nil {
		return nil, err
	}
	if from.Balance.Lt(transaction.UpfrontCost()) {
		return nil, ErrInsufficientFunds
	}
	if !opts.SkipNonce && from.Nonce.Uint64() != transaction.Nonce {
		return nil, ErrBadNonce
	}
	basefee, err := transaction.IntrinsicGas()
	if err != nil {
		return nil, err
	}
	if basefee > transaction.GasLimit {
		return nil, ErrIntrinsicGas
	}

	if err := rt.state.IncrementNonce(transaction.From); err != nil {
		return nil, err
	}

	// pre-charge the whole gas allowance
	if err := rt.state.SubBalance(transaction.From, transaction.GasFee(transaction.GasLimit)); err != nil {
		return nil, err
	}

	suicides := vm.NewSuicideSet()
	frame, err := rt.Call(&CallParams{
		Caller:   transaction.From,
		To:       transaction.To,
		Value:    transaction.Value,
		Data:     transaction.Data,
		GasLimit: transaction.GasLimit - basefee,
		GasPrice: transaction.GasPrice,
		Origin:   transaction.From,
		Block:    blk,
		Suicides: suicides,
	})
	if err != nil {
		return nil, err
	}

	// effective gas used, with the refund capped at half of it
	gasUsed := frame.GasUsed + basefee
	if r := frame.Output.RefundGas; r > 0 {
		refund := gasUsed / 2
		if refund > r {
			refund = r
		}
		gasUsed -= refund
	}

	// return the leftover allowance, pay the miner
	if err := rt.state.AddBalance(transaction.From, transaction.GasFee(transaction.GasLimit-gasUsed)); err != nil {
		return nil, err
	}
	if err := rt.state.AddBalance(blk.Beneficiary, transaction.GasFee(gasUsed)); err != nil {
		return nil, err
	}

	for _, addr := range suicides.Slice() {
		rt.state.DeleteAccount(addr)
	}

	if err := rt.state.CommitContracts(); err != nil {
		return nil, err
	}

	fromAccount, err := rt.state.GetAccount(transaction.From)
	if err != nil {
		return nil, err
	}
	var toAccount state.Account
	if frame.CreatedAddress != nil {
		if toAccount, err = rt.state.GetAccount(*frame.CreatedAddress); err != nil {
			return nil, err
		}
	} else {
		if toAccount, err = rt.state.GetAccount(*transaction.To); err != nil {
			return nil, err
		}
	}

	results := &Results{
		GasUsed:        gasUsed,
		AmountSpent:    transaction.GasFee(gasUsed),
		Bloom:          tx.LogsBloom(frame.Output.Logs),
		FromAccount:    fromAccount,
		ToAccount:      toAccount,
		CreatedAddress: frame.CreatedAddress,
		Output:         frame.Output,
	}

	if opts.AfterTx != nil {
		if err := opts.AfterTx(results); err != nil {
			return nil, err
		}
	}

	if err := rt.state.Flush(); err != nil {
		return nil, err
	}
	if !opts.SkipWarmup {
		rt.state.ClearCache()
	}
	return results, nil
}
