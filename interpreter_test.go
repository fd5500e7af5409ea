package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpreter_StartWhileRunning(t *testing.T) {
	in := NewInterpreter(nil)
	require.True(t, in.Start([]Command{{Type: CommandWait, Time: "1"}}))
	gen := in.Generation()

	assert.False(t, in.Start([]Command{{Type: CommandMove, Value: "1"}}))
	assert.Equal(t, gen, in.Generation())
	assert.Equal(t, RunRunning, in.State())
}

func TestInterpreter_AdvanceWalksSteps(t *testing.T) {
	in := NewInterpreter(nil)
	var st State
	in.Start([]Command{
		{Type: CommandMove, Value: "4"},
		{Type: CommandRepeat, Count: "2"},
		{Type: CommandSay, Message: "yo", Time: "0.25"},
	})

	res := in.Advance(&st)
	assert.Equal(t, StepResult{Change: ChangePosition, Delay: 300 * time.Millisecond}, res)
	assert.Equal(t, 4, st.Position.X)

	for i := 0; i < 2; i++ {
		res = in.Advance(&st)
		assert.Equal(t, repeatDelay, res.Delay)
		assert.True(t, res.Change.Has(ChangePosition))
	}
	assert.Equal(t, 24, st.Position.X)

	res = in.Advance(&st)
	assert.Equal(t, ChangeSay, res.Change)
	assert.Equal(t, 250*time.Millisecond, res.Delay)
	assert.Equal(t, "yo", st.SayText)

	res = in.Advance(&st)
	assert.True(t, res.Done)
	assert.Nil(t, res.Fault)
	assert.Equal(t, ChangeSay, res.Change, "the hide step is reported with completion")
	assert.Empty(t, st.SayText)
	assert.Equal(t, RunIdle, in.State())
}

func TestInterpreter_InputIsCopied(t *testing.T) {
	in := NewInterpreter(nil)
	cmds := []Command{{Type: CommandMove, Value: "1"}, {Type: CommandMove, Value: "1"}}
	in.Start(cmds)
	cmds[1].Value = "100"

	var st State
	in.Advance(&st)
	in.Advance(&st)
	assert.Equal(t, 2, st.Position.X)
}

func TestInterpreter_LargeRepeatIsLazy(t *testing.T) {
	in := NewInterpreter(nil)
	var st State
	in.Start([]Command{{Type: CommandRepeat, Count: "2000000000"}})

	res := in.Advance(&st)
	assert.False(t, res.Done)
	assert.Equal(t, 10, st.Position.X)

	in.Cancel()
	assert.Equal(t, RunIdle, in.State())
	assert.True(t, in.Advance(&st).Done)
}

func TestInterpreter_CancelBumpsGeneration(t *testing.T) {
	in := NewInterpreter(nil)
	in.Start(nil)
	gen := in.Generation()
	in.Cancel()
	assert.Greater(t, in.Generation(), gen)
}

func TestInterpreter_ExpansionPanicBecomesFault(t *testing.T) {
	r := NewRegistry()
	r.Register("bad", func(Command) (Steps, error) { panic("nope") })
	in := NewInterpreter(r)
	in.Start([]Command{{Type: "bad"}})

	var st State
	res := in.Advance(&st)
	require.True(t, res.Done)
	require.NotNil(t, res.Fault)
	assert.Equal(t, 0, res.Fault.Index)
	assert.Contains(t, res.Fault.Error(), "command 0 (bad)")
	assert.Equal(t, RunIdle, in.State())
}

func TestInterpreter_StepErrorKeepsEarlierChange(t *testing.T) {
	errHalf := errors.New("half done")
	r := NewRegistry()
	r.Register("half", func(Command) (Steps, error) {
		return StepsOf(Step{Apply: func(st *State) (Change, error) {
			st.Rotation = 45
			return ChangeRotation, errHalf
		}}), nil
	})
	in := NewInterpreter(r)
	in.Start([]Command{{Type: "half"}})

	var st State
	res := in.Advance(&st)
	assert.True(t, res.Done)
	assert.ErrorIs(t, res.Fault, errHalf)
	assert.Equal(t, ChangeRotation, res.Change)
	assert.Equal(t, 45, st.Rotation)
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()
	for _, tag := range []string{CommandMove, CommandTurn, CommandGoTo, CommandRepeat, CommandWait, CommandSay, CommandThink} {
		_, ok := r.Lookup(tag)
		assert.True(t, ok, tag)
	}
	_, ok := r.Lookup("jump")
	assert.False(t, ok)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "move 10", Command{Type: CommandMove, Value: "10"}.String())
	assert.Equal(t, "goto 1,2", Command{Type: CommandGoTo, X: "1", Y: "2"}.String())
	assert.Equal(t, `say "hi" 2s`, Command{Type: CommandSay, Message: "hi", Time: "2"}.String())
	assert.Equal(t, "jump", Command{Type: "jump"}.String())
}
