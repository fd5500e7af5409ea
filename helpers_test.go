package main

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeTimer struct {
	at  time.Duration
	seq int
	msg tea.Msg
}

// fakeTimers is a virtual timeline standing in for tea.Tick. Scheduled
// messages are delivered in due order by advance.
type fakeTimers struct {
	now     time.Duration
	seq     int
	pending []fakeTimer
	delays  []time.Duration
}

func (f *fakeTimers) schedule(d time.Duration, msg tea.Msg) tea.Cmd {
	f.delays = append(f.delays, d)
	f.pending = append(f.pending, fakeTimer{at: f.now + d, seq: f.seq, msg: msg})
	f.seq++
	return func() tea.Msg { return msg }
}

func (f *fakeTimers) advance(d time.Duration, deliver func(tea.Msg) tea.Cmd) {
	end := f.now + d
	for len(f.pending) > 0 {
		sort.SliceStable(f.pending, func(i, j int) bool {
			if f.pending[i].at == f.pending[j].at {
				return f.pending[i].seq < f.pending[j].seq
			}
			return f.pending[i].at < f.pending[j].at
		})
		next := f.pending[0]
		if next.at > end {
			break
		}
		f.pending = f.pending[1:]
		f.now = next.at
		deliver(next.msg)
	}
	f.now = end
}

// drain delivers everything until no timers remain.
func (f *fakeTimers) drain(deliver func(tea.Msg) tea.Cmd) {
	for i := 0; len(f.pending) > 0 && i < 10000; i++ {
		f.advance(time.Hour, deliver)
	}
}

type positionReport struct {
	at  time.Duration
	id  string
	pos Point
}

// hostRecorder collects the callbacks a sprite sends up.
type hostRecorder struct {
	clock     *fakeTimers
	positions []positionReport
	done      []string
	doneAt    []time.Duration
	selects   int
}

func (h *hostRecorder) callbacks() Callbacks {
	return Callbacks{
		OnSelect: func() { h.selects++ },
		OnExecutionDone: func(id string) {
			h.done = append(h.done, id)
			h.doneAt = append(h.doneAt, h.clock.now)
		},
		OnPositionUpdate: func(id string, pos Point) {
			h.positions = append(h.positions, positionReport{at: h.clock.now, id: id, pos: pos})
		},
	}
}

func newTestSprite(props Props, opts ...SpriteOption) (*Sprite, *fakeTimers, *hostRecorder) {
	clock := &fakeTimers{}
	host := &hostRecorder{clock: clock}
	opts = append([]SpriteOption{WithScheduler(clock.schedule)}, opts...)
	s := NewSprite(props, host.callbacks(), opts...)
	return s, clock, host
}

func activate(s *Sprite) tea.Cmd {
	p := s.Props()
	p.IsActive = true
	return s.SetProps(p)
}

func deactivate(s *Sprite) {
	p := s.Props()
	p.IsActive = false
	s.SetProps(p)
}
