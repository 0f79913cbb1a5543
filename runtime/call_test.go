// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/emberchain/ember/ember"
	"github.com/emberchain/ember/runtime"
	"github.com/emberchain/ember/vm"
)

func TestCallPureTransfer(t *testing.T) {
	st := newTestState(t)
	fund(t, st, addrA, 100)

	interp := &stubInterpreter{}
	interp.run = func(opts *vm.RunOpts) (*vm.Output, error) {
		t.Fatal("a pure value transfer must not invoke the interpreter")
		return nil, nil
	}
	rt := runtime.New(st, interp)

	res, err := rt.Call(&runtime.CallParams{
		Caller:   addrA,
		To:       &addrB,
		Value:    uint256.NewInt(40),
		GasLimit: 1000,
		GasPrice: uint256.NewInt(1),
		Origin:   addrA,
	})
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), res.GasUsed)
	assert.Nil(t, res.Output.VMErr)
	assert.Equal(t, uint64(60), res.FromAccount.Balance.Uint64())
	assert.Equal(t, uint64(40), res.ToAccount.Balance.Uint64())
}

func TestCallCodeOverride(t *testing.T) {
	st := newTestState(t)
	fund(t, st, addrA, 100)

	override := []byte{0xCA, 0x11}
	var ran bool
	interp := &stubInterpreter{}
	interp.run = func(opts *vm.RunOpts) (*vm.Output, error) {
		ran = true
		// the supplied code runs even though the target holds none
		assert.Equal(t, override, opts.Code)
		assert.Equal(t, addrB, opts.Address)
		return &vm.Output{Account: opts.Account, GasUsed: 3}, nil
	}
	rt := runtime.New(st, interp)

	res, err := rt.Call(&runtime.CallParams{
		Caller:   addrA,
		To:       &addrB,
		Code:     override,
		GasLimit: 1000,
		GasPrice: uint256.NewInt(1),
		Origin:   addrA,
	})
	assert.Nil(t, err)
	assert.True(t, ran)
	assert.Equal(t, uint64(3), res.GasUsed)
}

func TestCallCreateAddress(t *testing.T) {
	st := newTestState(t)
	fund(t, st, addrA, 100)

	interp := &stubInterpreter{}
	interp.run = func(opts *vm.RunOpts) (*vm.Output, error) {
		return &vm.Output{Account: opts.Account}, nil
	}
	rt := runtime.New(st, interp)

	// direct frame entry with an unbumped zero nonce
	res, err := rt.Call(&runtime.CallParams{
		Caller:   addrA,
		Value:    uint256.NewInt(7),
		Data:     []byte{0x60},
		GasLimit: 1000,
		GasPrice: uint256.NewInt(1),
		Origin:   addrA,
	})
	assert.Nil(t, err)
	assert.NotNil(t, res.CreatedAddress)
	assert.Equal(t, ember.CreateContractAddress(addrA, 0), *res.CreatedAddress)
	assert.Equal(t, uint64(7), res.ToAccount.Balance.Uint64())
}

func TestCallSystemError(t *testing.T) {
	st := newTestState(t)
	fund(t, st, addrA, 100)
	assert.Nil(t, st.SetCode(addrB, []byte{0xB1}))

	sysErr := errors.New("trie backend gone")
	interp := &stubInterpreter{}
	interp.run = func(opts *vm.RunOpts) (*vm.Output, error) {
		return nil, sysErr
	}
	rt := runtime.New(st, interp)

	_, err := rt.Call(&runtime.CallParams{
		Caller:   addrA,
		To:       &addrB,
		Value:    uint256.NewInt(10),
		GasLimit: 1000,
		GasPrice: uint256.NewInt(1),
		Origin:   addrA,
	})
	assert.Equal(t, sysErr, errors.Cause(err))

	// the frame checkpoint was unwound
	assert.Equal(t, uint64(100), balanceOf(t, st, addrA))
	assert.Equal(t, uint64(0), balanceOf(t, st, addrB))
}

func TestCallFrameException(t *testing.T) {
	st := newTestState(t)
	fund(t, st, addrA, 100)
	assert.Nil(t, st.SetCode(addrB, []byte{0xB1}))

	interp := &stubInterpreter{}
	interp.run = func(opts *vm.RunOpts) (*vm.Output, error) {
		return &vm.Output{Account: opts.Account, GasUsed: 21, VMErr: errors.New("stack underflow")}, nil
	}
	rt := runtime.New(st, interp)

	res, err := rt.Call(&runtime.CallParams{
		Caller:   addrA,
		To:       &addrB,
		Value:    uint256.NewInt(10),
		GasLimit: 1000,
		GasPrice: uint256.NewInt(1),
		Origin:   addrA,
	})
	assert.Nil(t, err)
	assert.Error(t, res.Output.VMErr)
	assert.Equal(t, uint64(21), res.GasUsed)

	// the value transfer is undone; only the gas consumption stands
	assert.Equal(t, uint64(100), res.FromAccount.Balance.Uint64())
	assert.Equal(t, uint64(0), res.ToAccount.Balance.Uint64())
}
