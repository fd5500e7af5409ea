package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type spriteEntry struct {
	props  Props
	sprite *Sprite
}

type spritePair struct{ a, b string }

// Stage hosts the sprites. It owns their props, keeps the authoritative
// layout from position reports, and signals collisions between sprites.
type Stage struct {
	entries  []*spriteEntry
	selected string
	registry *Registry
	schedule Scheduler
	nextID   int
	overlaps map[spritePair]bool
	// pending is set when a callback changed props that still need pushing
	// to the sprites.
	pending bool
}

type StageOption func(*Stage)

func WithStageScheduler(s Scheduler) StageOption {
	return func(st *Stage) { st.schedule = s }
}

func NewStage(registry *Registry, opts ...StageOption) *Stage {
	if registry == nil {
		registry = DefaultRegistry()
	}
	st := &Stage{
		registry: registry,
		schedule: tickScheduler,
		overlaps: make(map[spritePair]bool),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Add mounts a new sprite. An empty or duplicate id is replaced with a
// generated one; the id actually used is returned.
func (st *Stage) Add(id string, pos Point, commands []Command) (string, tea.Cmd) {
	st.nextID++
	if id == "" || st.entry(id) != nil {
		id = fmt.Sprintf("sprite-%d", st.nextID)
		for st.entry(id) != nil {
			st.nextID++
			id = fmt.Sprintf("sprite-%d", st.nextID)
		}
	}
	e := &spriteEntry{props: Props{ID: id, Commands: commands, Position: pos}}
	if st.selected == "" {
		st.selected = id
		e.props.IsSelected = true
	}
	e.sprite = NewSprite(e.props, st.callbacksFor(id), WithScheduler(st.schedule), WithRegistry(st.registry))
	st.entries = append(st.entries, e)
	Log.Info("sprite added", zap.String("sprite", id), zap.Int("commands", len(commands)))
	return id, st.sync(e.sprite.Init())
}

// Remove unmounts a sprite, abandoning its run. When the removed sprite was
// selected the selection moves to the first remaining sprite.
func (st *Stage) Remove(id string) (bool, tea.Cmd) {
	for i, e := range st.entries {
		if e.props.ID != id {
			continue
		}
		e.sprite.Unmount()
		st.entries = append(st.entries[:i], st.entries[i+1:]...)
		for pair := range st.overlaps {
			if pair.a == id || pair.b == id {
				delete(st.overlaps, pair)
			}
		}
		if st.selected == id {
			st.selected = ""
			if len(st.entries) > 0 {
				st.selectID(st.entries[0].props.ID)
			}
		}
		Log.Info("sprite removed", zap.String("sprite", id))
		return true, st.sync()
	}
	return false, nil
}

func (st *Stage) callbacksFor(id string) Callbacks {
	return Callbacks{
		OnSelect: func() { st.selectID(id) },
		OnExecutionDone: func(doneID string) {
			if e := st.entry(doneID); e != nil {
				e.props.IsActive = false
				st.pending = true
			}
		},
		OnPositionUpdate: func(posID string, pos Point) {
			if e := st.entry(posID); e != nil {
				e.props.Position = pos
				st.pending = true
			}
		},
	}
}

func (st *Stage) entry(id string) *spriteEntry {
	for _, e := range st.entries {
		if e.props.ID == id {
			return e
		}
	}
	return nil
}

func (st *Stage) selectID(id string) {
	if st.entry(id) == nil {
		return
	}
	st.selected = id
	for _, e := range st.entries {
		e.props.IsSelected = e.props.ID == id
	}
	st.pending = true
}

// sync pushes changed props down to the sprites until the layout settles,
// then checks for new collisions.
func (st *Stage) sync(cmds ...tea.Cmd) tea.Cmd {
	for rounds := 0; st.pending && rounds < 8; rounds++ {
		st.pending = false
		for _, e := range st.entries {
			cmds = append(cmds, e.sprite.SetProps(e.props))
		}
	}
	cmds = append(cmds, st.detectCollisions()...)
	return tea.Batch(cmds...)
}

// detectCollisions signals both sprites of every pair whose boxes have
// started to overlap since the last check.
func (st *Stage) detectCollisions() []tea.Cmd {
	var cmds []tea.Cmd
	current := make(map[spritePair]bool)
	for i := 0; i < len(st.entries); i++ {
		for j := i + 1; j < len(st.entries); j++ {
			a, b := st.entries[i].sprite, st.entries[j].sprite
			if !a.Overlaps(b) {
				continue
			}
			pair := spritePair{a.ID(), b.ID()}
			current[pair] = true
			if st.overlaps[pair] {
				continue
			}
			Log.Debug("collision", zap.String("a", pair.a), zap.String("b", pair.b))
			cmds = append(cmds, a.Collide(), b.Collide())
		}
	}
	st.overlaps = current
	return cmds
}

// Update routes timer messages to the sprite that scheduled them.
func (st *Stage) Update(msg tea.Msg) tea.Cmd {
	var id string
	switch msg := msg.(type) {
	case stepMsg:
		id = msg.spriteID
	case shakeMsg:
		id = msg.spriteID
	default:
		return nil
	}
	e := st.entry(id)
	if e == nil {
		return nil
	}
	return st.sync(e.sprite.Update(msg))
}

// Activate raises IsActive on one sprite. A sprite that is still running
// ignores it.
func (st *Stage) Activate(id string) tea.Cmd {
	e := st.entry(id)
	if e == nil {
		return nil
	}
	e.props.IsActive = true
	st.pending = true
	return st.sync()
}

func (st *Stage) ActivateAll() tea.Cmd {
	for _, e := range st.entries {
		e.props.IsActive = true
	}
	st.pending = true
	return st.sync()
}

// SetCommands replaces a sprite's program. The new program is used by the
// next run; a run in progress keeps its own copy.
func (st *Stage) SetCommands(id string, commands []Command) tea.Cmd {
	e := st.entry(id)
	if e == nil {
		return nil
	}
	e.props.Commands = commands
	st.pending = true
	return st.sync()
}

// Nudge shifts a sprite's position prop by (dx, dy).
func (st *Stage) Nudge(id string, dx, dy int) tea.Cmd {
	e := st.entry(id)
	if e == nil {
		return nil
	}
	e.props.Position = Point{X: e.props.Position.X + dx, Y: e.props.Position.Y + dy}
	st.pending = true
	return st.sync()
}

func (st *Stage) Click(id string) tea.Cmd {
	if e := st.entry(id); e != nil {
		e.sprite.Click()
	}
	return st.sync()
}

func (st *Stage) Drag(id string, px, py int) tea.Cmd {
	if e := st.entry(id); e != nil {
		e.sprite.Drag(px, py)
	}
	return st.sync()
}

func (st *Stage) SelectNext() tea.Cmd {
	if len(st.entries) == 0 {
		return nil
	}
	next := 0
	for i, e := range st.entries {
		if e.props.ID == st.selected {
			next = (i + 1) % len(st.entries)
			break
		}
	}
	st.selectID(st.entries[next].props.ID)
	return st.sync()
}

// SpriteAt returns the topmost sprite under p. The selected sprite is drawn
// above the others and wins ties.
func (st *Stage) SpriteAt(p Point) (string, bool) {
	if e := st.entry(st.selected); e != nil && e.sprite.Contains(p) {
		return e.props.ID, true
	}
	for i := len(st.entries) - 1; i >= 0; i-- {
		if st.entries[i].sprite.Contains(p) {
			return st.entries[i].props.ID, true
		}
	}
	return "", false
}

func (st *Stage) Selected() *Sprite {
	if e := st.entry(st.selected); e != nil {
		return e.sprite
	}
	return nil
}

func (st *Stage) Sprite(id string) *Sprite {
	if e := st.entry(id); e != nil {
		return e.sprite
	}
	return nil
}

// Sprites returns the sprites in drawing order: insertion order with the
// selected sprite last.
func (st *Stage) Sprites() []*Sprite {
	out := make([]*Sprite, 0, len(st.entries))
	var sel *Sprite
	for _, e := range st.entries {
		if e.props.ID == st.selected {
			sel = e.sprite
			continue
		}
		out = append(out, e.sprite)
	}
	if sel != nil {
		out = append(out, sel)
	}
	return out
}

func (st *Stage) Len() int { return len(st.entries) }
