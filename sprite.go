package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Scheduler arranges for msg to come back through Update after d.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

func tickScheduler(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// stepMsg resumes a suspended run. gen ties it to the run that scheduled it.
type stepMsg struct {
	spriteID string
	gen      uint64
}

type shakeMsg struct {
	spriteID string
	gen      uint64
}

// Sprite is a single actor on the stage. Its state changes only through
// its own interpreter, drag reports round-tripped through the host, the
// host's position prop, and collision signals.
//
// A Sprite is not safe for concurrent use; it lives on the bubbletea loop.
type Sprite struct {
	props     Props
	callbacks Callbacks
	state     State
	interp    *Interpreter
	schedule  Scheduler
	mounted   bool

	shakeGen   uint64
	shakeFrame int

	lastFault error
}

type SpriteOption func(*Sprite)

func WithScheduler(s Scheduler) SpriteOption {
	return func(sp *Sprite) { sp.schedule = s }
}

func WithRegistry(r *Registry) SpriteOption {
	return func(sp *Sprite) { sp.interp = NewInterpreter(r) }
}

// NewSprite mounts a sprite at props.Position. Call Init to deliver the
// mount notifications.
func NewSprite(props Props, callbacks Callbacks, opts ...SpriteOption) *Sprite {
	s := &Sprite{
		props:     props,
		callbacks: callbacks,
		state:     State{Position: props.Position},
		schedule:  tickScheduler,
		mounted:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interp == nil {
		s.interp = NewInterpreter(nil)
	}
	return s
}

// Init reports the initial position and starts a run if the sprite was
// mounted active.
func (s *Sprite) Init() tea.Cmd {
	s.notifyPosition()
	if s.props.IsActive {
		return s.start()
	}
	return nil
}

func (s *Sprite) ID() string          { return s.props.ID }
func (s *Sprite) State() State        { return s.state }
func (s *Sprite) Props() Props        { return s.props }
func (s *Sprite) RunState() RunState  { return s.interp.State() }
func (s *Sprite) Mounted() bool       { return s.mounted }
func (s *Sprite) LastFault() error    { return s.lastFault }
func (s *Sprite) Commands() []Command { return s.props.Commands }

// SetProps applies a new set of host inputs. A changed position resets the
// sprite's position even while a run is moving it; hosts should not reset
// positions of running sprites. A rising IsActive starts a run unless one is
// already in progress.
func (s *Sprite) SetProps(p Props) tea.Cmd {
	if !s.mounted {
		return nil
	}
	prev := s.props
	p.ID = prev.ID
	s.props = p

	if p.Position != prev.Position && p.Position != s.state.Position {
		s.state.Position = p.Position
		s.notifyPosition()
	}
	if p.IsActive && !prev.IsActive {
		return s.start()
	}
	return nil
}

func (s *Sprite) start() tea.Cmd {
	if !s.interp.Start(s.props.Commands) {
		Log.Debug("activation ignored, run in progress", zap.String("sprite", s.props.ID))
		return nil
	}
	Log.Debug("run started",
		zap.String("sprite", s.props.ID),
		zap.Int("commands", len(s.props.Commands)),
		zap.Uint64("gen", s.interp.Generation()))
	return s.advance()
}

func (s *Sprite) advance() tea.Cmd {
	res := s.interp.Advance(&s.state)
	if res.Change.Has(ChangePosition) {
		s.notifyPosition()
	}
	if !res.Done {
		return s.schedule(res.Delay, stepMsg{spriteID: s.props.ID, gen: s.interp.Generation()})
	}

	if res.Fault != nil {
		res.Fault.SpriteID = s.props.ID
		s.lastFault = res.Fault
		Log.Error("run aborted",
			zap.String("sprite", s.props.ID),
			zap.Int("index", res.Fault.Index),
			zap.String("type", res.Fault.Type),
			zap.Error(res.Fault.Err))
	} else {
		Log.Debug("run done", zap.String("sprite", s.props.ID))
	}
	if s.callbacks.OnExecutionDone != nil {
		s.callbacks.OnExecutionDone(s.props.ID)
	}
	return nil
}

// Update consumes the timer messages this sprite scheduled. Messages from
// abandoned runs or an unmounted sprite are dropped.
func (s *Sprite) Update(msg tea.Msg) tea.Cmd {
	if !s.mounted {
		return nil
	}
	switch msg := msg.(type) {
	case stepMsg:
		if msg.spriteID != s.props.ID || msg.gen != s.interp.Generation() || s.interp.State() != RunRunning {
			return nil
		}
		return s.advance()

	case shakeMsg:
		if msg.spriteID != s.props.ID || msg.gen != s.shakeGen || !s.state.Colliding {
			return nil
		}
		s.shakeFrame++
		if time.Duration(s.shakeFrame)*shakeFrameDelay >= collisionDuration {
			s.state.Colliding = false
			s.shakeFrame = 0
			return nil
		}
		return s.schedule(shakeFrameDelay, shakeMsg{spriteID: s.props.ID, gen: s.shakeGen})
	}
	return nil
}

// Collide marks the sprite as colliding and plays the shake animation,
// which clears the flag once it finishes. A new collision restarts it.
func (s *Sprite) Collide() tea.Cmd {
	if !s.mounted {
		return nil
	}
	s.state.Colliding = true
	s.shakeFrame = 0
	s.shakeGen++
	return s.schedule(shakeFrameDelay, shakeMsg{spriteID: s.props.ID, gen: s.shakeGen})
}

// ShakeOffset is the horizontal jitter, in cells, of the current shake
// frame.
func (s *Sprite) ShakeOffset() int {
	if !s.state.Colliding {
		return 0
	}
	if s.shakeFrame%2 == 0 {
		return -1
	}
	return 1
}

// Drag reports a pointer position, in stage units, while the sprite is
// being dragged. The sprite is centred under the pointer. A pointer at
// exactly (0, 0) is what a cancelled drag reports and is ignored.
func (s *Sprite) Drag(px, py int) {
	if !s.mounted || (px == 0 && py == 0) {
		return
	}
	pos := Point{X: px - spriteSize/2, Y: py - spriteSize/2}
	Log.Debug("drag", zap.String("sprite", s.props.ID), zap.Int("x", pos.X), zap.Int("y", pos.Y))
	if s.callbacks.OnPositionUpdate != nil {
		s.callbacks.OnPositionUpdate(s.props.ID, pos)
	}
}

func (s *Sprite) Click() {
	if s.mounted && s.callbacks.OnSelect != nil {
		s.callbacks.OnSelect()
	}
}

// Contains reports whether p falls inside the sprite's box.
func (s *Sprite) Contains(p Point) bool {
	pos := s.state.Position
	return p.X >= pos.X && p.X < pos.X+spriteSize && p.Y >= pos.Y && p.Y < pos.Y+spriteSize
}

// Overlaps reports whether the boxes of s and o intersect.
func (s *Sprite) Overlaps(o *Sprite) bool {
	a, b := s.state.Position, o.state.Position
	return a.X < b.X+spriteSize && b.X < a.X+spriteSize &&
		a.Y < b.Y+spriteSize && b.Y < a.Y+spriteSize
}

// Unmount abandons any run in flight. Pending timers become stale and no
// completion is reported.
func (s *Sprite) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	if s.interp.State() == RunRunning {
		Log.Debug("run abandoned", zap.String("sprite", s.props.ID))
	}
	s.interp.Cancel()
	s.shakeGen++
}

func (s *Sprite) notifyPosition() {
	if s.callbacks.OnPositionUpdate != nil {
		s.callbacks.OnPositionUpdate(s.props.ID, s.state.Position)
	}
}
