package main

import (
	"fmt"
	"time"
)

type RunState int

const (
	RunIdle RunState = iota
	RunRunning
)

func (s RunState) String() string {
	if s == RunRunning {
		return "running"
	}
	return "idle"
}

// RunFault is recorded when a command fails mid-run. The rest of the
// sequence is dropped.
type RunFault struct {
	SpriteID string
	Index    int
	Type     string
	Err      error
}

func (f *RunFault) Error() string {
	if f.SpriteID != "" {
		return fmt.Sprintf("sprite %s: command %d (%s): %v", f.SpriteID, f.Index, f.Type, f.Err)
	}
	return fmt.Sprintf("command %d (%s): %v", f.Index, f.Type, f.Err)
}

func (f *RunFault) Unwrap() error { return f.Err }

// StepResult reports what one call to Advance did. When Done is false the
// caller suspends for Delay before advancing again.
type StepResult struct {
	Change Change
	Delay  time.Duration
	Done   bool
	Fault  *RunFault
}

type run struct {
	commands []Command
	next     int
	current  int
	steps    Steps
	pos      int
}

// Interpreter executes one command sequence at a time against a State.
// Each Start and Cancel bumps the generation, which callers use to tag
// their pending timers so stale ones can be recognized and dropped.
type Interpreter struct {
	registry *Registry
	run      *run
	gen      uint64
}

func NewInterpreter(registry *Registry) *Interpreter {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Interpreter{registry: registry}
}

func (in *Interpreter) State() RunState {
	if in.run != nil {
		return RunRunning
	}
	return RunIdle
}

func (in *Interpreter) Generation() uint64 { return in.gen }

// Start begins a run over a copy of commands. It returns false, and changes
// nothing, when a run is already in progress.
func (in *Interpreter) Start(commands []Command) bool {
	if in.run != nil {
		return false
	}
	in.gen++
	in.run = &run{commands: append([]Command(nil), commands...)}
	return true
}

// Cancel abandons the current run, if any.
func (in *Interpreter) Cancel() {
	in.gen++
	in.run = nil
}

// Advance applies steps until one suspends or the run ends. Steps that do
// not suspend are applied back to back and their changes merged.
func (in *Interpreter) Advance(st *State) StepResult {
	var res StepResult
	r := in.run
	if r == nil {
		res.Done = true
		return res
	}
	for {
		if r.pos >= r.steps.Len() {
			if r.next >= len(r.commands) {
				in.run = nil
				res.Done = true
				return res
			}
			r.current = r.next
			r.next++
			steps, err := in.expand(r.commands[r.current])
			if err != nil {
				return in.abort(res, err)
			}
			r.steps, r.pos = steps, 0
			continue
		}

		step := r.steps.at(r.pos)
		r.pos++
		change, err := applyStep(step, st)
		res.Change |= change
		if err != nil {
			return in.abort(res, err)
		}
		if step.Suspend {
			res.Delay = step.Delay
			return res
		}
	}
}

func (in *Interpreter) abort(res StepResult, err error) StepResult {
	idx := in.run.current
	cmd := in.run.commands[idx]
	in.run = nil
	res.Done = true
	res.Fault = &RunFault{Index: idx, Type: cmd.Type, Err: err}
	return res
}

func (in *Interpreter) expand(cmd Command) (steps Steps, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic expanding command: %v", p)
		}
	}()
	return in.registry.expand(cmd)
}

func applyStep(step Step, st *State) (change Change, err error) {
	if step.Apply == nil {
		return 0, nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic applying step: %v", p)
		}
	}()
	return step.Apply(st)
}
