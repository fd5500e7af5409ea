package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStage() (*Stage, *fakeTimers) {
	clock := &fakeTimers{}
	return NewStage(DefaultRegistry(), WithStageScheduler(clock.schedule)), clock
}

func TestStage_CompletionDeactivatesSprite(t *testing.T) {
	st, clock := newTestStage()
	id, _ := st.Add("cat", Point{}, []Command{{Type: CommandMove, Value: "10"}})

	st.Activate(id)
	assert.True(t, st.entry(id).props.IsActive)
	clock.drain(st.Update)

	assert.False(t, st.entry(id).props.IsActive)
	assert.Equal(t, Point{X: 10}, st.entry(id).props.Position, "host keeps the reported layout")

	st.Activate(id)
	clock.drain(st.Update)
	assert.Equal(t, 20, st.Sprite(id).State().Position.X, "a fresh activation runs again")
}

func TestStage_SetCommandsAppliesToNextRun(t *testing.T) {
	st, clock := newTestStage()
	id, _ := st.Add("cat", Point{}, []Command{{Type: CommandMove, Value: "10"}, {Type: CommandMove, Value: "10"}})

	st.Activate(id)
	st.SetCommands(id, []Command{{Type: CommandTurn, Value: "30"}})
	clock.drain(st.Update)
	assert.Equal(t, 20, st.Sprite(id).State().Position.X, "the running copy is unaffected")
	assert.Equal(t, 0, st.Sprite(id).State().Rotation)

	st.Activate(id)
	clock.drain(st.Update)
	assert.Equal(t, 30, st.Sprite(id).State().Rotation)
}

func TestStage_DragMovesThroughPositionProp(t *testing.T) {
	st, _ := newTestStage()
	id, _ := st.Add("cat", Point{X: 5, Y: 5}, nil)

	st.Drag(id, 132, 96)
	assert.Equal(t, Point{X: 100, Y: 64}, st.Sprite(id).State().Position)
	assert.Equal(t, Point{X: 100, Y: 64}, st.entry(id).props.Position)

	st.Drag(id, 0, 0)
	assert.Equal(t, Point{X: 100, Y: 64}, st.Sprite(id).State().Position)
}

func TestStage_NudgeShiftsPosition(t *testing.T) {
	st, _ := newTestStage()
	id, _ := st.Add("cat", Point{X: 5, Y: 5}, nil)

	st.Nudge(id, 10, -20)
	assert.Equal(t, Point{X: 15, Y: -15}, st.Sprite(id).State().Position)
	assert.Nil(t, st.Nudge("missing", 1, 1))
}

func TestStage_CollisionSignalsBothSprites(t *testing.T) {
	st, clock := newTestStage()
	a, _ := st.Add("a", Point{X: 0, Y: 0}, nil)
	b, _ := st.Add("b", Point{X: 200, Y: 0}, []Command{{Type: CommandGoTo, X: "30", Y: "0"}})
	assert.False(t, st.Sprite(a).State().Colliding)

	st.Activate(b)
	assert.True(t, st.Sprite(a).State().Colliding)
	assert.True(t, st.Sprite(b).State().Colliding)

	clock.advance(500*time.Millisecond, st.Update)
	assert.False(t, st.Sprite(a).State().Colliding, "shake clears after its window")
	assert.False(t, st.Sprite(b).State().Colliding, "an overlap that persists does not retrigger")

	st.Drag(b, 400, 400)
	st.Drag(b, 40, 40)
	assert.True(t, st.Sprite(a).State().Colliding, "separating and touching again retriggers")
}

func TestStage_RemoveAbandonsRun(t *testing.T) {
	st, clock := newTestStage()
	a, _ := st.Add("a", Point{}, []Command{{Type: CommandMove, Value: "10"}, {Type: CommandMove, Value: "10"}})
	b, _ := st.Add("b", Point{X: 300}, nil)
	st.Activate(a)
	sprite := st.Sprite(a)

	removed, _ := st.Remove(a)
	require.True(t, removed)
	clock.drain(st.Update)

	assert.Equal(t, 10, sprite.State().Position.X)
	assert.False(t, sprite.Mounted())
	assert.Nil(t, st.Sprite(a))
	assert.Equal(t, b, st.Selected().ID(), "selection moves to a remaining sprite")
	assert.True(t, st.entry(b).props.IsSelected)
	removed, cmd := st.Remove(a)
	assert.False(t, removed)
	assert.Nil(t, cmd)
}

func TestStage_RemovePushesNewSelectionToSprite(t *testing.T) {
	st, _ := newTestStage()
	a, _ := st.Add("a", Point{}, nil)
	b, _ := st.Add("b", Point{X: 300, Y: 80}, nil)
	require.True(t, st.Sprite(a).Props().IsSelected)

	st.Remove(a)

	assert.True(t, st.Sprite(b).Props().IsSelected, "the sprite sees its selection without another event")
	screen := strings.Join(renderStage(st, newLayout(nil), 60, 12).Lines(), "\n")
	assert.Contains(t, screen, "╭", "the new selection is outlined")
}

func TestStage_AddGeneratesMissingOrDuplicateIDs(t *testing.T) {
	st, _ := newTestStage()
	first, _ := st.Add("", Point{}, nil)
	dup, _ := st.Add(first, Point{}, nil)
	named, _ := st.Add("cat", Point{}, nil)

	assert.Equal(t, "sprite-1", first)
	assert.NotEqual(t, first, dup)
	assert.Equal(t, "cat", named)
	assert.Equal(t, 3, st.Len())
}

func TestStage_SelectionAndDrawOrder(t *testing.T) {
	st, _ := newTestStage()
	a, _ := st.Add("a", Point{X: 0, Y: 0}, nil)
	b, _ := st.Add("b", Point{X: 32, Y: 0}, nil)

	assert.Equal(t, a, st.Selected().ID(), "first sprite starts selected")
	assert.True(t, st.Sprite(a).Props().IsSelected)

	id, ok := st.SpriteAt(Point{X: 40, Y: 10})
	require.True(t, ok)
	assert.Equal(t, a, id, "selected sprite is on top")

	st.SelectNext()
	assert.Equal(t, b, st.Selected().ID())
	assert.False(t, st.Sprite(a).Props().IsSelected)
	sprites := st.Sprites()
	assert.Equal(t, b, sprites[len(sprites)-1].ID())

	st.Click(a)
	assert.Equal(t, a, st.Selected().ID())

	_, ok = st.SpriteAt(Point{X: 500, Y: 500})
	assert.False(t, ok)
}

func TestStage_ActivateAll(t *testing.T) {
	st, clock := newTestStage()
	a, _ := st.Add("a", Point{}, []Command{{Type: CommandTurn, Value: "15"}})
	b, _ := st.Add("b", Point{X: 300}, []Command{{Type: CommandTurn, Value: "25"}})

	st.ActivateAll()
	clock.drain(st.Update)

	assert.Equal(t, 15, st.Sprite(a).State().Rotation)
	assert.Equal(t, 25, st.Sprite(b).State().Rotation)
	assert.Equal(t, RunIdle, st.Sprite(a).RunState())
}
