package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "vpiscope.dev/pkg/vpiscope/internal/model"
)

func TestBootstrap_RegistersSystemFunctions(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	compiled := 0

	register := func(e Engine) {
		_, err := e.RegisterSystf(m.SystfData{
			Type:        m.SysFunc,
			SysFuncType: m.IntFunc,
			Name:        "$answer",
			CompileTf: func(any) error {
				compiled++
				return nil
			},
			CallTf: func(userData any) error {
				call := e.HandleOf(m.TypeSysTfCall, 0)
				if call.IsNull() {
					return e.LastError()
				}
				defer e.ReleaseHandle(call)

				if got := e.GetStr(m.PropType, call); got != "vpiSysFuncCall" {
					return errors.New("unexpected call type " + got)
				}

				systf := e.HandleOf(m.TypeUserSystf, call)
				defer e.ReleaseHandle(systf)

				if got := e.GetStr(m.PropName, systf); got != "$answer" {
					return errors.New("unexpected systf " + got)
				}

				_, err := e.PutValue(call, m.Value{Format: m.IntVal, Int: userData.(int32)}, nil, m.NoDelay)

				return err
			},
			UserData: int32(42),
		})
		require.NoError(t, err)
	}

	Bootstrap(e, register)

	for range 2 {
		ret, err := e.CallSystf("$answer")
		require.NoError(t, err)
		assert.Equal(t, m.Value{Format: m.IntVal, Int: 42}, ret)
	}

	assert.Equal(t, 1, compiled, "compiletf runs once")
	assert.Equal(t, 1, e.LiveHandles(), "only the registration handle is left")

	assert.True(t, e.HandleOf(m.TypeSysTfCall, 0).IsNull(), "no call is active")
}

func TestSystemTask_HasNoReturnValue(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	var putErr error

	_, err := e.RegisterSystf(m.SystfData{
		Type: m.SysTask,
		Name: "$poke",
		CallTf: func(any) error {
			call := e.HandleOf(m.TypeSysTfCall, 0)
			defer e.ReleaseHandle(call)

			_, putErr = e.PutValue(call, m.Value{Format: m.IntVal, Int: 1}, nil, m.NoDelay)

			return nil
		},
	})
	require.NoError(t, err)

	ret, err := e.CallSystf("$poke")
	require.NoError(t, err)
	assert.Equal(t, m.Value{}, ret)
	require.ErrorIs(t, putErr, ErrInvalidFormat)
}

func TestRegisterSystf_Rejects(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	noop := func(any) error { return nil }

	tests := []struct {
		name string
		data m.SystfData
		want error
	}{
		{"no dollar", m.SystfData{Type: m.SysTask, Name: "task", CallTf: noop}, ErrInvalidFormat},
		{"bare dollar", m.SystfData{Type: m.SysTask, Name: "$", CallTf: noop}, ErrInvalidFormat},
		{"bad type", m.SystfData{Type: 7, Name: "$t", CallTf: noop}, ErrInvalidFormat},
		{"no calltf", m.SystfData{Type: m.SysTask, Name: "$t"}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.RegisterSystf(tt.data)
			require.ErrorIs(t, err, tt.want)
		})
	}

	h, err := e.RegisterSystf(m.SystfData{Type: m.SysTask, Name: "$t", CallTf: noop})
	require.NoError(t, err)
	assert.Equal(t, "vpiUserSystf", e.GetStr(m.PropType, h))
	assert.Equal(t, "$t", e.GetStr(m.PropName, h))

	_, err = e.RegisterSystf(m.SystfData{Type: m.SysTask, Name: "$t", CallTf: noop})
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestCallSystf_Errors(t *testing.T) {
	e, _ := newTestEngine(t, varModelDesign)

	_, err := e.CallSystf("$missing")
	require.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("boom")

	_, err = e.RegisterSystf(m.SystfData{
		Type:   m.SysTask,
		Name:   "$fails",
		CallTf: func(any) error { return boom },
	})
	require.NoError(t, err)

	_, err = e.CallSystf("$fails")
	require.ErrorIs(t, err, boom)

	_, ok := e.ChkError()
	assert.False(t, ok, "routine errors are not engine errors")
}
