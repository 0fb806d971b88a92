package engine

import (
	"errors"

	"github.com/dshills/linedoc/internal/engine/history"
)

// Errors returned by document operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrSuppressed indicates an edit was attempted while edits are suppressed.
	ErrSuppressed = errors.New("edits are suppressed")

	// ErrBlocked indicates an edit was attempted while the selection could
	// not be placed outside atomic markers.
	ErrBlocked = errors.New("document is blocked by atomic markers")

	// ErrReadOnlyRange indicates an edit lies entirely inside read-only markers.
	ErrReadOnlyRange = errors.New("edit covers a read-only range")

	// ErrCollapsedOverlap indicates a collapsed marker would partially
	// overlap an existing one. Nothing is changed when it is returned.
	ErrCollapsedOverlap = errors.New("collapsed marker partially overlaps an existing one")

	// ErrNothingToUndo indicates the undo stack has no matching event.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack has no matching event.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrTextCount indicates the number of replacement texts does not
	// match the number of selection ranges.
	ErrTextCount = errors.New("text count does not match selection")

	// ErrNotLinked indicates Unlink was given a document that is not linked.
	ErrNotLinked = errors.New("documents are not linked")
)

// IsRejected returns true for errors that signal a change was not
// applied because of document state rather than bad input.
func IsRejected(err error) bool {
	return errors.Is(err, ErrReadOnly) || errors.Is(err, ErrSuppressed) ||
		errors.Is(err, ErrBlocked) || errors.Is(err, ErrReadOnlyRange)
}
