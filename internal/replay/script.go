// Package replay runs YAML edit scripts against a document.
//
// A script gives the initial text and a list of steps, each naming one
// action:
//
//	text: "hello\nworld"
//	steps:
//	  - replace: {text: "X", from: [0, 1], to: [0, 2]}
//	  - select: {anchor: [1, 0], head: [1, 5]}
//	  - type: "there"
//	  - mark: {name: ro, from: [0, 0], to: [0, 2], readOnly: true}
//	  - bookmark: {name: here, at: [1, 2]}
//	  - clear: ro
//	  - undo: 1
//	  - redo: 1
//	  - undoSelection: 1
//	  - checkpoint: before
//	  - operation:
//	      - type: "a"
//	      - type: "b"
//
// Positions are [line, ch] pairs with byte columns.
package replay

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/linedoc/internal/engine"
)

// ErrInvalidScript is returned for scripts that cannot be run.
var ErrInvalidScript = errors.New("invalid script")

// Pos is a position written as [line, ch].
type Pos engine.Pos

// UnmarshalYAML decodes a [line, ch] sequence.
func (p *Pos) UnmarshalYAML(value *yaml.Node) error {
	var pair []int
	if err := value.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: line %d: position needs [line, ch]", ErrInvalidScript, value.Line)
	}
	*p = Pos(engine.P(pair[0], pair[1]))
	return nil
}

// Script is a parsed edit script.
type Script struct {
	Text          string `yaml:"text"`
	LineSeparator string `yaml:"lineSeparator"`
	Steps         []Step `yaml:"steps"`
}

// Step is one action. Exactly one field is set.
type Step struct {
	Replace       *ReplaceStep  `yaml:"replace"`
	Select        *SelectStep   `yaml:"select"`
	Type          *string       `yaml:"type"`
	Mark          *MarkStep     `yaml:"mark"`
	Bookmark      *BookmarkStep `yaml:"bookmark"`
	Clear         string        `yaml:"clear"`
	Undo          int           `yaml:"undo"`
	Redo          int           `yaml:"redo"`
	UndoSelection int           `yaml:"undoSelection"`
	RedoSelection int           `yaml:"redoSelection"`
	Checkpoint    string        `yaml:"checkpoint"`
	Operation     []Step        `yaml:"operation"`

	line int
}

// UnmarshalYAML decodes a step and remembers its line for errors.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	type plain Step
	if err := value.Decode((*plain)(s)); err != nil {
		return err
	}
	s.line = value.Line
	if n := s.actions(); n != 1 {
		return fmt.Errorf("%w: line %d: a step needs exactly one action, got %d", ErrInvalidScript, value.Line, n)
	}
	return nil
}

func (s *Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Replace != nil, s.Select != nil, s.Type != nil, s.Mark != nil,
		s.Bookmark != nil, s.Clear != "", s.Undo > 0, s.Redo > 0,
		s.UndoSelection > 0, s.RedoSelection > 0, s.Checkpoint != "",
		len(s.Operation) > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

// ReplaceStep replaces [From, To] with Text. A missing To inserts at
// From.
type ReplaceStep struct {
	Text   string `yaml:"text"`
	From   Pos    `yaml:"from"`
	To     *Pos   `yaml:"to"`
	Origin string `yaml:"origin"`
}

// SelectStep sets a single-range selection.
type SelectStep struct {
	Anchor Pos    `yaml:"anchor"`
	Head   *Pos   `yaml:"head"`
	Origin string `yaml:"origin"`
}

// MarkStep creates a text marker.
type MarkStep struct {
	Name           string `yaml:"name"`
	From           Pos    `yaml:"from"`
	To             Pos    `yaml:"to"`
	ClassName      string `yaml:"className"`
	InclusiveLeft  bool   `yaml:"inclusiveLeft"`
	InclusiveRight bool   `yaml:"inclusiveRight"`
	Atomic         bool   `yaml:"atomic"`
	Collapsed      bool   `yaml:"collapsed"`
	ReadOnly       bool   `yaml:"readOnly"`
	ClearOnEnter   bool   `yaml:"clearOnEnter"`
	ClearWhenEmpty *bool  `yaml:"clearWhenEmpty"`
	AddToHistory   bool   `yaml:"addToHistory"`
}

// BookmarkStep creates a bookmark.
type BookmarkStep struct {
	Name       string `yaml:"name"`
	At         Pos    `yaml:"at"`
	InsertLeft bool   `yaml:"insertLeft"`
}

// Parse decodes a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &s, nil
}

func (m *MarkStep) options() engine.MarkOptions {
	opts := engine.MarkOptions{
		ClassName:      m.ClassName,
		InclusiveLeft:  m.InclusiveLeft,
		InclusiveRight: m.InclusiveRight,
		Atomic:         m.Atomic,
		Collapsed:      m.Collapsed,
		ReadOnly:       m.ReadOnly,
		ClearOnEnter:   m.ClearOnEnter,
		AddToHistory:   m.AddToHistory,
	}
	if m.ClearWhenEmpty != nil {
		opts.KeepWhenEmpty = !*m.ClearWhenEmpty
	}
	return opts
}
