package parser

import (
	"fmt"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindAbsent marks a property with no value at all.
	KindAbsent Kind = iota
	// KindScalar is a single string value.
	KindScalar
	// KindSequence is an ordered list of string values.
	KindSequence
	// KindStructured is an ordered list of string-keyed occurrences.
	KindStructured
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindStructured:
		return "structured"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a canonical property value: absent, a scalar string, an ordered
// sequence of strings, or an ordered list of string-keyed occurrences. The
// zero Value is absent.
type Value struct {
	kind       Kind
	scalar     string
	sequence   []string
	structured []map[string]string
}

// Absent returns the absent value.
func Absent() Value {
	return Value{}
}

// Scalar returns a scalar value. An empty string is a valid scalar; it is
// distinct from absent and directs writes to remove the property's nodes.
func Scalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// Sequence returns a sequence value. No items collapse to absent and a
// single item collapses to a scalar, so the two access paths agree.
func Sequence(items ...string) Value {
	switch len(items) {
	case 0:
		return Absent()
	case 1:
		return Scalar(items[0])
	default:
		return Value{kind: KindSequence, sequence: append([]string(nil), items...)}
	}
}

// Structured returns a structured value from the given occurrences, in
// order. Occurrences whose every entry is empty are dropped; when all are
// dropped the result is absent. Mappings are copied.
func Structured(occurrences ...map[string]string) Value {
	kept := make([]map[string]string, 0, len(occurrences))
	for _, occ := range occurrences {
		if emptyMapping(occ) {
			continue
		}
		copied := make(map[string]string, len(occ))
		for key, val := range occ {
			copied[key] = val
		}
		kept = append(kept, copied)
	}
	if len(kept) == 0 {
		return Value{kind: KindStructured}
	}
	return Value{kind: KindStructured, structured: kept}
}

// Kind returns the variant held by the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the value carries no content: absent, the empty
// scalar, an all-empty sequence, or a structured value with no occurrences.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindScalar:
		return strings.TrimSpace(v.scalar) == ""
	case KindSequence:
		for _, item := range v.sequence {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	default:
		return len(v.structured) == 0
	}
}

// Scalar returns the value as a single string: a sequence yields its first
// item, absent and structured values yield "".
func (v Value) Scalar() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		if len(v.sequence) > 0 {
			return v.sequence[0]
		}
	}
	return ""
}

// Sequence returns the value as an ordered string slice: a scalar yields a
// one-element slice, absent and structured values yield nil.
func (v Value) Sequence() []string {
	switch v.kind {
	case KindScalar:
		return []string{v.scalar}
	case KindSequence:
		return append([]string(nil), v.sequence...)
	}
	return nil
}

// Structured returns a deep copy of the value's occurrences; nil for
// non-structured values.
func (v Value) Structured() []map[string]string {
	if v.kind != KindStructured || len(v.structured) == 0 {
		return nil
	}
	out := make([]map[string]string, len(v.structured))
	for i, occ := range v.structured {
		copied := make(map[string]string, len(occ))
		for key, val := range occ {
			copied[key] = val
		}
		out[i] = copied
	}
	return out
}

// Equal reports whether two values hold the same content. Scalars compare
// equal to one-element sequences with the same item. Structured occurrences
// compare in order; keys empty on both sides are ignored.
func (v Value) Equal(other Value) bool {
	if v.IsEmpty() || other.IsEmpty() {
		return v.IsEmpty() == other.IsEmpty()
	}
	if (v.kind == KindStructured) != (other.kind == KindStructured) {
		return false
	}
	if v.kind == KindStructured {
		if len(v.structured) != len(other.structured) {
			return false
		}
		for i := range v.structured {
			if !equalMapping(v.structured[i], other.structured[i]) {
				return false
			}
		}
		return true
	}
	a, b := v.Sequence(), other.Sequence()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindScalar:
		return v.scalar
	case KindSequence:
		return strings.Join(v.sequence, ", ")
	default:
		return fmt.Sprintf("%v", v.structured)
	}
}

func emptyMapping(mapping map[string]string) bool {
	for _, val := range mapping {
		if strings.TrimSpace(val) != "" {
			return false
		}
	}
	return true
}

func equalMapping(a, b map[string]string) bool {
	for key, val := range a {
		if b[key] != val && !(val == "" && b[key] == "") {
			return false
		}
	}
	for key, val := range b {
		if _, ok := a[key]; !ok && val != "" {
			return false
		}
	}
	return true
}
