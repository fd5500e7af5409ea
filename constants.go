package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag
	ModeConfirm
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteSprite ConfirmAction = iota
	ConfirmQuit
)

// Command tags understood by the default registry.
const (
	CommandMove   = "move"
	CommandTurn   = "turn"
	CommandGoTo   = "goto"
	CommandRepeat = "repeat"
	CommandWait   = "wait"
	CommandSay    = "say"
	CommandThink  = "think"
)

const (
	motionDelay       = 300 * time.Millisecond
	repeatDelay       = 200 * time.Millisecond
	repeatStride      = 10
	collisionDuration = 500 * time.Millisecond
	shakeFrameDelay   = 50 * time.Millisecond

	// spriteSize is the fixed visual size of a sprite in stage units.
	spriteSize = 64

	// maxTimerDelay mirrors the 32-bit millisecond limit of host timers;
	// longer suspensions fire immediately.
	maxTimerDelay = 2147483647 * time.Millisecond
)

const (
	defaultCellWidth  = 8
	defaultCellHeight = 16
	nudgeStep         = 10
)
