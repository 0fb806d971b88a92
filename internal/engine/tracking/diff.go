package tracking

import "github.com/pmezard/go-difflib/difflib"

// OpKind is the kind of a diff operation.
type OpKind uint8

const (
	OpEqual  OpKind = iota // Line present in both texts
	OpInsert               // Line only in the new text
	OpDelete               // Line only in the old text
)

// String returns "equal", "insert" or "delete".
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "equal"
	}
}

// Op is one step of an edit script. Old and New are the line indices the
// step sits at in each text.
type Op struct {
	Kind OpKind
	Old  int
	New  int
}

// Hunk is a group of nearby changes with surrounding context. Lines are
// prefixed with ' ', '-' or '+'.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []string
}

// EditScript returns an edit script turning a into b, one Op per line.
func EditScript(a, b []string) []Op {
	return appendOps(nil, difflib.NewMatcher(a, b).GetOpCodes())
}

func appendOps(ops []Op, codes []difflib.OpCode) []Op {
	for _, c := range codes {
		ops = appendOp(ops, c)
	}
	return ops
}

func appendOp(ops []Op, c difflib.OpCode) []Op {
	if c.Tag == 'e' {
		for i := c.I1; i < c.I2; i++ {
			ops = append(ops, Op{Kind: OpEqual, Old: i, New: c.J1 + i - c.I1})
		}
		return ops
	}
	if c.Tag == 'r' || c.Tag == 'd' {
		for i := c.I1; i < c.I2; i++ {
			ops = append(ops, Op{Kind: OpDelete, Old: i, New: c.J1})
		}
	}
	if c.Tag == 'r' || c.Tag == 'i' {
		for j := c.J1; j < c.J2; j++ {
			ops = append(ops, Op{Kind: OpInsert, Old: c.I2, New: j})
		}
	}
	return ops
}

// DiffLines groups the changes from a to b into hunks carrying up to
// context unchanged lines on each side. Identical texts yield no hunks.
func DiffLines(a, b []string, context int) []Hunk {
	var out []Hunk
	for _, group := range difflib.NewMatcher(a, b).GetGroupedOpCodes(max(context, 0)) {
		first, last := group[0], group[len(group)-1]
		h := Hunk{
			OldStart: first.I1,
			OldCount: last.I2 - first.I1,
			NewStart: first.J1,
			NewCount: last.J2 - first.J1,
		}
		for _, op := range appendOps(nil, group) {
			switch op.Kind {
			case OpEqual:
				h.Lines = append(h.Lines, " "+a[op.Old])
			case OpDelete:
				h.Lines = append(h.Lines, "-"+a[op.Old])
			case OpInsert:
				h.Lines = append(h.Lines, "+"+b[op.New])
			}
		}
		out = append(out, h)
	}
	return out
}

// Unified renders the changes from a to b in unified diff format, or ""
// when the texts are identical.
func Unified(a, b []string, oldName, newName string, context int) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminated(a),
		B:        terminated(b),
		FromFile: oldName,
		ToFile:   newName,
		Context:  max(context, 0),
	})
}

// terminated returns lines with a trailing newline each, the form
// difflib writes verbatim.
func terminated(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
