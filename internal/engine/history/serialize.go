package history

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/linedoc/internal/engine/buffer"
	"github.com/dshills/linedoc/internal/engine/cursor"
)

// ErrInvalidData is returned when serialized history cannot be decoded.
var ErrInvalidData = errors.New("invalid history data")

// Data is the plain form of a history: copies of both stacks, oldest
// first. Generations are not part of it.
type Data struct {
	Done   []*Event
	Undone []*Event
}

func plainEvents(events []*Event) []*Event {
	out := copyEvents(events)
	for _, e := range out {
		e.Generation = 0
	}
	return out
}

// ToData returns a copy of the stacks.
func (h *History) ToData() Data {
	return Data{Done: plainEvents(h.done), Undone: plainEvents(h.undone)}
}

// SetData replaces both stacks with copies of data's, keeping the
// history's settings and generation counters.
func (h *History) SetData(d Data) {
	fresh := NewFrom(h)
	fresh.done = plainEvents(d.Done)
	fresh.undone = plainEvents(d.Undone)
	*h = *fresh
}

// MarshalJSON encodes the data as
//
//	{"done":[...],"undone":[...]}
//
// where a change group is {"changes":[{"from":P,"to":P,"text":[...]}]},
// a selection is {"ranges":[{"anchor":P,"head":P}],"primIndex":n}, and a
// position P is {"line":n,"ch":n}, with "sticky" when set.
func (d Data) MarshalJSON() ([]byte, error) {
	out := `{"done":[],"undone":[]}`
	var err error
	for _, stack := range []struct {
		name   string
		events []*Event
	}{{"done", d.Done}, {"undone", d.Undone}} {
		for _, e := range stack.events {
			raw, encErr := encodeEvent(e)
			if encErr != nil {
				return nil, encErr
			}
			if out, err = sjson.SetRaw(out, stack.name+".-1", raw); err != nil {
				return nil, err
			}
		}
	}
	return []byte(out), nil
}

func encodePos(p buffer.Pos) (string, error) {
	raw, err := sjson.Set(`{}`, "line", p.Line)
	if err != nil {
		return "", err
	}
	if raw, err = sjson.Set(raw, "ch", p.Ch); err != nil {
		return "", err
	}
	if p.Sticky != buffer.StickyNone {
		raw, err = sjson.Set(raw, "sticky", p.Sticky.String())
	}
	return raw, err
}

func encodeEvent(e *Event) (string, error) {
	if e.IsSelection() {
		raw := `{"ranges":[]}`
		for _, r := range e.Selection.Ranges() {
			anchor, err := encodePos(r.Anchor)
			if err != nil {
				return "", err
			}
			head, err := encodePos(r.Head)
			if err != nil {
				return "", err
			}
			item, err := sjson.SetRaw(`{}`, "anchor", anchor)
			if err != nil {
				return "", err
			}
			if item, err = sjson.SetRaw(item, "head", head); err != nil {
				return "", err
			}
			if raw, err = sjson.SetRaw(raw, "ranges.-1", item); err != nil {
				return "", err
			}
		}
		return sjson.Set(raw, "primIndex", e.Selection.PrimaryIndex())
	}

	raw := `{"changes":[]}`
	for _, c := range e.Changes {
		from, err := encodePos(c.From)
		if err != nil {
			return "", err
		}
		to, err := encodePos(c.To)
		if err != nil {
			return "", err
		}
		item, err := sjson.SetRaw(`{"text":[]}`, "from", from)
		if err != nil {
			return "", err
		}
		if item, err = sjson.SetRaw(item, "to", to); err != nil {
			return "", err
		}
		for _, line := range c.Text {
			if item, err = sjson.Set(item, "text.-1", line); err != nil {
				return "", err
			}
		}
		if raw, err = sjson.SetRaw(raw, "changes.-1", item); err != nil {
			return "", err
		}
	}
	return raw, nil
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (d *Data) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("%w: malformed json", ErrInvalidData)
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return fmt.Errorf("%w: expected an object", ErrInvalidData)
	}
	var out Data
	var err error
	if out.Done, err = decodeEvents(root.Get("done")); err != nil {
		return fmt.Errorf("done: %w", err)
	}
	if out.Undone, err = decodeEvents(root.Get("undone")); err != nil {
		return fmt.Errorf("undone: %w", err)
	}
	*d = out
	return nil
}

func decodeEvents(v gjson.Result) ([]*Event, error) {
	if !v.Exists() {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: expected an array", ErrInvalidData)
	}
	var out []*Event
	for i, item := range v.Array() {
		e, err := decodeEvent(item)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodePos(v gjson.Result) (buffer.Pos, error) {
	if !v.IsObject() || !v.Get("line").Exists() || !v.Get("ch").Exists() {
		return buffer.Pos{}, fmt.Errorf("%w: bad position %s", ErrInvalidData, v.Raw)
	}
	p := buffer.P(int(v.Get("line").Int()), int(v.Get("ch").Int()))
	switch v.Get("sticky").String() {
	case "before":
		p.Sticky = buffer.StickyBefore
	case "after":
		p.Sticky = buffer.StickyAfter
	}
	return p, nil
}

func decodeEvent(v gjson.Result) (*Event, error) {
	if ranges := v.Get("ranges"); ranges.Exists() {
		var rs []cursor.Range
		for _, r := range ranges.Array() {
			anchor, err := decodePos(r.Get("anchor"))
			if err != nil {
				return nil, err
			}
			head, err := decodePos(r.Get("head"))
			if err != nil {
				return nil, err
			}
			rs = append(rs, cursor.Range{Anchor: anchor, Head: head})
		}
		if len(rs) == 0 {
			return nil, fmt.Errorf("%w: empty selection", ErrInvalidData)
		}
		return NewSelectionEvent(cursor.New(rs, int(v.Get("primIndex").Int()))), nil
	}
	changes := v.Get("changes")
	if !changes.IsArray() {
		return nil, fmt.Errorf("%w: event has neither ranges nor changes", ErrInvalidData)
	}
	var cs []Change
	for _, c := range changes.Array() {
		from, err := decodePos(c.Get("from"))
		if err != nil {
			return nil, err
		}
		to, err := decodePos(c.Get("to"))
		if err != nil {
			return nil, err
		}
		text := []string{}
		for _, line := range c.Get("text").Array() {
			text = append(text, line.String())
		}
		if len(text) == 0 {
			text = []string{""}
		}
		cs = append(cs, Change{From: from, To: to, Text: text})
	}
	return NewChangeEvent(cs, 0), nil
}
