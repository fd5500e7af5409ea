package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProgramFile seeds a stage with sprites and their programs.
type ProgramFile struct {
	Sprites []SpriteSpec `yaml:"sprites"`
}

type SpriteSpec struct {
	ID       string    `yaml:"id"`
	Position Point     `yaml:"position"`
	Commands []Command `yaml:"commands"`
}

var errEmptyProgram = errors.New("program is empty")

// LoadProgram reads a program file from disk.
func LoadProgram(path string) (*ProgramFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}
	prog, err := ParseProgram(data)
	if err != nil {
		return nil, fmt.Errorf("parsing program file %s: %w", path, err)
	}
	return prog, nil
}

func ParseProgram(data []byte) (*ProgramFile, error) {
	var prog ProgramFile
	if err := yaml.Unmarshal(data, &prog); err != nil {
		return nil, err
	}
	if len(prog.Sprites) == 0 {
		return nil, errEmptyProgram
	}
	return &prog, nil
}

// ParseCommands reads a single program: either a bare list of commands or
// a mapping with a commands key.
func ParseCommands(data []byte) ([]Command, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, errEmptyProgram
	}
	var list []Command
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc struct {
		Commands []Command `yaml:"commands"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing commands: %w", err)
	}
	if doc.Commands == nil {
		return nil, errEmptyProgram
	}
	return doc.Commands, nil
}

func MarshalCommands(commands []Command) ([]byte, error) {
	data, err := yaml.Marshal(struct {
		Commands []Command `yaml:"commands"`
	}{commands})
	if err != nil {
		return nil, fmt.Errorf("encoding commands: %w", err)
	}
	return data, nil
}

func demoProgram() []Command {
	return []Command{
		{Type: CommandSay, Message: "Hello!", Time: "1"},
		{Type: CommandMove, Value: "40"},
		{Type: CommandTurn, Value: "90"},
		{Type: CommandRepeat, Count: "3"},
		{Type: CommandThink, Message: "Hmm...", Time: "1"},
		{Type: CommandTurn, Value: "-90"},
		{Type: CommandWait, Time: "0.5"},
		{Type: CommandGoTo, X: "16", Y: "48"},
	}
}
