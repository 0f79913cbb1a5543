// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/emberchain/ember/block"
	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/state"
	"github.com/emberchain/ember/vm"
)

// CallParams are the inputs of one CALL/CREATE frame.
type CallParams struct {
	Caller   ember.Address
	To       *ember.Address // nil denotes contract creation
	Value    *uint256.Int
	Data     []byte
	Code     []byte // override carrying CALLCODE/DELEGATECALL semantics
	GasLimit uint64
	GasPrice *uint256.Int
	Origin   ember.Address
	Block    *block.Header
	Depth    int
	Suicides vm.SuicideSet
}

// CallResult is the outcome of one CALL/CREATE frame.
// A frame exception is reported on Output.VMErr and is a normal outcome, not
// a failure of Call.
type CallResult struct {
	GasUsed        uint64
	FromAccount    state.Account
	ToAccount      state.Account
	CreatedAddress *ember.Address
	Output         *vm.Output
}

// Call executes one CALL or CREATE frame: value transfer, account
// materialization, code selection, interpreter dispatch and exceptional-halt
// rollback. The frame runs under its own state checkpoint; on a frame
// exception every effect of the frame, the value transfer included, is
// reverted and only the gas consumed stands.
func (rt *Runtime) Call(p *CallParams) (*CallResult, error) {
	if p.Value == nil {
		p.Value = new(uint256.Int)
	}
	if p.Suicides == nil {
		p.Suicides = vm.NewSuicideSet()
	}
	if p.Block == nil {
		p.Block = block.Synthesized()
	}
	st := rt.state

	st.Checkpoint()
	out, createdAddress, err := rt.runFrame(p)
	if err != nil {
		// system failure, not a frame exception. The state is undefined for
		// the caller; unwind the checkpoint to keep savepoints balanced.
		st.Revert()
		return nil, err
	}

	var to ember.Address
	if createdAddress != nil {
		to = *createdAddress
	} else {
		to = *p.To
	}

	if out.VMErr != nil {
		log.Debug("vm returned with error", "err", out.VMErr)
		st.Revert()
	} else {
		st.PutAccount(to, out.Account)
		st.Commit()
		if createdAddress != nil && len(out.Return) > 0 {
			if err := st.SetCode(to, out.Return); err != nil {
				return nil, err
			}
		}
	}

	fromAccount, err := st.GetAccount(p.Caller)
	if err != nil {
		return nil, err
	}
	toAccount, err := st.GetAccount(to)
	if err != nil {
		return nil, err
	}
	return &CallResult{
		GasUsed:        out.GasUsed,
		FromAccount:    fromAccount,
		ToAccount:      toAccount,
		CreatedAddress: createdAddress,
		Output:         out,
	}, nil
}

// runFrame performs the frame's state transition inside the caller-held
// checkpoint and dispatches the interpreter.
func (rt *Runtime) runFrame(p *CallParams) (*vm.Output, *ember.Address, error) {
	st := rt.state

	// debit the caller. Balance sufficiency is the caller's responsibility;
	// overdraw is a programming error and surfaces as a system failure.
	if err := st.SubBalance(p.Caller, p.Value); err != nil {
		return nil, nil, err
	}

	// resolve the target and credit the recipient
	var (
		to             ember.Address
		toAccount      state.Account
		createdAddress *ember.Address
		code           = p.Code
		data           = p.Data
		compiled       bool
		err            error
	)
	if p.To == nil {
		caller, err := st.GetAccount(p.Caller)
		if err != nil {
			return nil, nil, err
		}
		// the caller's nonce was bumped on frame entry; the created address
		// derives from the pre-bump value
		nonce := caller.Nonce.Uint64()
		if nonce > 0 {
			nonce--
		}
		addr := ember.CreateContractAddress(p.Caller, nonce)
		createdAddress = &addr
		to = addr
		code = p.Data
		data = nil

		toAccount = state.NewAccount()
		toAccount.AddBalance(p.Value)
		st.PutAccount(to, toAccount)
	} else {
		to = *p.To
		if err := st.AddBalance(to, p.Value); err != nil {
			return nil, nil, err
		}
		if toAccount, err = st.GetAccount(to); err != nil {
			return nil, nil, err
		}

		// select code when no override was supplied
		if len(code) == 0 {
			if pc, ok := vm.PrecompiledCode(to); ok {
				code, compiled = pc, true
			} else if toAccount.IsContract() {
				if code, err = st.GetCode(to); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	// pure value transfer: no interpreter invocation
	if len(code) == 0 {
		return &vm.Output{Account: toAccount}, createdAddress, nil
	}

	opts := &vm.RunOpts{
		State:    st,
		Code:     code,
		Data:     data,
		GasLimit: p.GasLimit,
		GasPrice: p.GasPrice,
		Account:  toAccount,
		Address:  to,
		Origin:   p.Origin,
		Caller:   p.Caller,
		Value:    p.Value,
		Block:    p.Block,
		Depth:    p.Depth,
		Suicides: p.Suicides,
	}
	var out *vm.Output
	if compiled {
		out, err = rt.interp.RunPrecompiled(opts)
	} else {
		out, err = rt.interp.RunCode(opts)
	}
	if err != nil {
		return nil, nil, err
	}

	// contract-creation tail processing: charge for the returned code, or
	// discard it when the fee exceeds the frame's gas
	if createdAddress != nil && out.VMErr == nil && len(out.Return) > 0 {
		returnFee := out.GasUsed + uint64(len(out.Return))*ember.CreateDataGas
		if returnFee >= out.GasUsed && returnFee <= p.GasLimit {
			out.GasUsed = returnFee
		} else {
			log.Debug("contract creation return discarded", "addr", to, "len", len(out.Return))
			out.Return = nil
		}
	}
	return out, createdAddress, nil
}
