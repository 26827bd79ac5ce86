package graph

import "strconv"

// ValueKind tags the variant held by an attribute slot.
type ValueKind int

const (
	ValueText ValueKind = iota + 1
	ValueNumber
	ValueRef
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueRef:
		return "ref"
	default:
		return "invalid"
	}
}

// Value is one attribute slot: a text, a number or a reference to another node.
type Value struct {
	kind ValueKind
	text string
	num  float64
	ref  NodeID
}

func Text(s string) Value    { return Value{kind: ValueText, text: s} }
func Number(f float64) Value { return Value{kind: ValueNumber, num: f} }
func Ref(id NodeID) Value    { return Value{kind: ValueRef, ref: id} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Text() (string, bool) {
	if v.kind != ValueText {
		return "", false
	}
	return v.text, true
}

func (v Value) Number() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	return v.num, true
}

func (v Value) Ref() (NodeID, bool) {
	if v.kind != ValueRef {
		return NoNode, false
	}
	return v.ref, true
}

// Equal compares kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueText:
		return v.text == o.text
	case ValueNumber:
		return v.num == o.num
	case ValueRef:
		return v.ref == o.ref
	}
	return true
}

// String renders text verbatim and numbers in their shortest form.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueRef:
		return "@" + strconv.Itoa(int(v.ref))
	default:
		return ""
	}
}
