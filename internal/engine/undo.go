package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dshills/linedoc/internal/engine/cursor"
	"github.com/dshills/linedoc/internal/engine/history"
)

// Undo reverts the last change group.
func (d *Doc) Undo() error { return d.fromHistory(history.Undo, false) }

// Redo reapplies the last undone change group.
func (d *Doc) Redo() error { return d.fromHistory(history.Redo, false) }

// UndoSelection restores the previous selection, reverting a change
// group only when the undo stack holds no different selection before it.
func (d *Doc) UndoSelection() error { return d.fromHistory(history.Undo, true) }

// RedoSelection is the redo counterpart of UndoSelection.
func (d *Doc) RedoSelection() error { return d.fromHistory(history.Redo, true) }

func (d *Doc) fromHistory(dir history.Direction, selectionOnly bool) error {
	if err := d.editable(); err != nil {
		d.log.Debug("history step rejected", zap.Stringer("dir", dir), zap.Error(err))
		return err
	}
	if !d.history.CanStep(dir, selectionOnly, d.sel) {
		if dir == history.Undo {
			return ErrNothingToUndo
		}
		return ErrNothingToRedo
	}
	d.runOp(func() {
		step, ok := d.history.Pop(dir, selectionOnly, d.sel)
		if !ok {
			return
		}
		if step.SelectionOnly {
			d.setSelection(step.Selection, SelectionOptions{KeepRedo: true})
			return
		}
		changes := step.Event.Changes
		for i := len(changes) - 1; i >= 0; i-- {
			c := changes[i].Clone()
			c.Origin = dir.String()
			c.From, c.To = d.Clip(c.From), d.Clip(c.To)
			step.Inverse.Changes = append(step.Inverse.Changes, history.FromChange(c, d.between(c.From, c.To)))

			var after Selection
			if top, ok := d.history.Top(dir); i == 0 && ok {
				after = top
			} else {
				after = cursor.AfterChange(d.sel, c, d.mayTouch)
			}
			d.makeChangeSingleDoc(c, &after, false)

			rebased := map[*history.History]bool{d.history: true}
			d.linkedDocs(func(other *Doc, shared bool) {
				if !shared && !rebased[other.history] {
					other.history.Rebase(c)
					rebased[other.history] = true
				}
				other.makeChangeSingleDoc(c, nil, false)
			}, false)
		}
	})
	return nil
}

// HistorySize returns the number of undoable and redoable change groups.
func (d *Doc) HistorySize() (undo, redo int) { return d.history.Size() }

// ClearHistory empties the history. Documents sharing it see the change.
func (d *Doc) ClearHistory() { d.history.Clear() }

// ChangeGeneration returns a number identifying the current state. With
// forceSplit the next change starts a new undo group.
func (d *Doc) ChangeGeneration(forceSplit bool) int {
	return d.history.ChangeGeneration(forceSplit)
}

// MarkClean records the current state as clean.
func (d *Doc) MarkClean() {
	d.cleanGeneration = d.ChangeGeneration(true)
}

// IsClean reports whether the document is in the state of generation
// gen, or in the state last marked clean when gen is 0.
func (d *Doc) IsClean(gen int) bool {
	if gen == 0 {
		gen = d.cleanGeneration
	}
	return d.history.IsClean(gen)
}

// History returns a copy of both history stacks.
func (d *Doc) History() history.Data { return d.history.ToData() }

// SetHistory replaces both history stacks.
func (d *Doc) SetHistory(data history.Data) { d.history.SetData(data) }

// HistoryJSON encodes the history stacks as JSON.
func (d *Doc) HistoryJSON() ([]byte, error) {
	return d.History().MarshalJSON()
}

// SetHistoryJSON replaces the history stacks with ones decoded from JSON.
func (d *Doc) SetHistoryJSON(b []byte) error {
	var data history.Data
	if err := data.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("set history: %w", err)
	}
	d.SetHistory(data)
	return nil
}
