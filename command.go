package main

import (
	"fmt"
	"time"
)

// Command is one block of a sprite program. Numeric inputs are kept as the
// text the user typed; handlers coerce them when the command runs.
type Command struct {
	Type    string `yaml:"type"`
	Value   string `yaml:"value,omitempty"`
	X       string `yaml:"x,omitempty"`
	Y       string `yaml:"y,omitempty"`
	Count   string `yaml:"count,omitempty"`
	Time    string `yaml:"time,omitempty"`
	Message string `yaml:"message,omitempty"`
}

func (c Command) String() string {
	switch c.Type {
	case CommandMove, CommandTurn:
		return fmt.Sprintf("%s %s", c.Type, c.Value)
	case CommandGoTo:
		return fmt.Sprintf("goto %s,%s", c.X, c.Y)
	case CommandRepeat:
		return fmt.Sprintf("repeat %s", c.Count)
	case CommandWait:
		return fmt.Sprintf("wait %ss", c.Time)
	case CommandSay, CommandThink:
		return fmt.Sprintf("%s %q %ss", c.Type, c.Message, c.Time)
	}
	return c.Type
}

// Change records which parts of a State a step touched.
type Change uint8

const (
	ChangePosition Change = 1 << iota
	ChangeRotation
	ChangeSay
	ChangeThink
)

func (c Change) Has(f Change) bool { return c&f != 0 }

// Step is a single mutation followed by a suspension of Delay when Suspend
// is set. A step that does not suspend hands over to the next one at once.
type Step struct {
	Apply   func(st *State) (Change, error)
	Delay   time.Duration
	Suspend bool
}

// Steps is a lazily indexed list of steps, so a repeat with a large count
// never materializes its iterations up front.
type Steps struct {
	n  int
	at func(i int) Step
}

func (s Steps) Len() int { return s.n }

func StepsOf(steps ...Step) Steps {
	return Steps{n: len(steps), at: func(i int) Step { return steps[i] }}
}

// RepeatStep yields step n times. Non-positive n yields nothing.
func RepeatStep(n int, step Step) Steps {
	if n < 0 {
		n = 0
	}
	return Steps{n: n, at: func(int) Step { return step }}
}

// Handler expands a command into the steps it runs.
type Handler func(cmd Command) (Steps, error)

// Registry maps command tags to handlers. Tags with no handler run as
// no-ops.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// DefaultRegistry returns a registry holding the built-in motion and looks
// commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CommandMove, moveHandler)
	r.Register(CommandTurn, turnHandler)
	r.Register(CommandGoTo, goToHandler)
	r.Register(CommandRepeat, repeatHandler)
	r.Register(CommandWait, waitHandler)
	r.Register(CommandSay, bubbleHandler(func(st *State) *string { return &st.SayText }, ChangeSay))
	r.Register(CommandThink, bubbleHandler(func(st *State) *string { return &st.ThinkText }, ChangeThink))
	return r
}

func (r *Registry) Register(tag string, h Handler) {
	r.handlers[tag] = h
}

func (r *Registry) Lookup(tag string) (Handler, bool) {
	h, ok := r.handlers[tag]
	return h, ok
}

func (r *Registry) expand(cmd Command) (Steps, error) {
	h, ok := r.handlers[cmd.Type]
	if !ok {
		return Steps{}, nil
	}
	return h(cmd)
}

func moveHandler(cmd Command) (Steps, error) {
	steps := parseIntOr0(cmd.Value)
	return StepsOf(Step{
		Apply: func(st *State) (Change, error) {
			st.Position.X += steps
			return ChangePosition, nil
		},
		Delay:   motionDelay,
		Suspend: true,
	}), nil
}

func turnHandler(cmd Command) (Steps, error) {
	degrees := parseIntOr0(cmd.Value)
	return StepsOf(Step{
		Apply: func(st *State) (Change, error) {
			st.Rotation += degrees
			return ChangeRotation, nil
		},
		Delay:   motionDelay,
		Suspend: true,
	}), nil
}

func goToHandler(cmd Command) (Steps, error) {
	target := Point{X: parseIntOr0(cmd.X), Y: parseIntOr0(cmd.Y)}
	return StepsOf(Step{
		Apply: func(st *State) (Change, error) {
			st.Position = target
			return ChangePosition, nil
		},
		Delay:   motionDelay,
		Suspend: true,
	}), nil
}

func repeatHandler(cmd Command) (Steps, error) {
	return RepeatStep(parseIntOr0(cmd.Count), Step{
		Apply: func(st *State) (Change, error) {
			st.Position.X += repeatStride
			return ChangePosition, nil
		},
		Delay:   repeatDelay,
		Suspend: true,
	}), nil
}

func waitHandler(cmd Command) (Steps, error) {
	return StepsOf(Step{
		Apply:   func(*State) (Change, error) { return 0, nil },
		Delay:   secondsToDelay(parseFloatOr0(cmd.Time)),
		Suspend: true,
	}), nil
}

// bubbleHandler builds say and think. Their seconds go through strict
// numeric conversion rather than the lenient parse the other commands use,
// so "2s" shows the bubble for zero time.
func bubbleHandler(text func(st *State) *string, change Change) Handler {
	return func(cmd Command) (Steps, error) {
		show := Step{
			Apply: func(st *State) (Change, error) {
				*text(st) = cmd.Message
				return change, nil
			},
			Delay:   secondsToDelay(numberOrNaN(cmd.Time)),
			Suspend: true,
		}
		hide := Step{
			Apply: func(st *State) (Change, error) {
				*text(st) = ""
				return change, nil
			},
		}
		return StepsOf(show, hide), nil
	}
}
