// Copyright © 2026 The Tilelisp authors

package lisp

import (
	"fmt"
	"strings"
)

// Type is the type of a Value
type Type uint8

// Possible Type values
const (
	// TInvalid (0) is not a valid value type.
	TInvalid Type = iota
	// TNil is the unit value.  There is exactly one Nil value.
	TNil
	// TString values store immutable text in the Value.Str field.
	TString
	// TCell values are cons cells.  A cell holds a head value and an optional
	// tail cell which marks the end of a list when absent.  The cell with
	// neither head nor tail is the empty list, distinct from Nil.
	TCell
	// TFun values store a FunData.  A function is either native (implemented
	// in Go over the operand stack) or user-defined (a reference to an AST
	// node substituted into the evaluator's work stack when applied).
	TFun
)

var typeStrings = []string{
	TInvalid: "INVALID",
	TNil:     "nil",
	TString:  "string",
	TCell:    "list",
	TFun:     "function",
}

func (t Type) String() string {
	if int(t) >= len(typeStrings) {
		return typeStrings[TInvalid]
	}
	return typeStrings[t]
}

// NativeFunc implements a function in Go.  A NativeFunc pops its own operands
// from s and pushes its own results.  When a NativeFunc returns an error the
// contents of s are unspecified and evaluation of the statement is abandoned.
type NativeFunc func(s *Stack) error

// FunData describes a function value.  Exactly one of Native and Body is set.
type FunData struct {
	Name   string // the name the function was bound under, if any
	Doc    string
	Native NativeFunc
	Body   NodeRef
}

// Value is a runtime value.  Values are immutable after construction and may
// be shared freely, in particular a cell's tail is shared by every list consed
// onto it.  Because no operation can replace the tail of an existing cell,
// lists are acyclic.
type Value struct {
	// Type is the variant stored in the Value.
	Type Type

	// Str used by TString values
	Str string

	head *Value
	tail *Value
	fun  *FunData
}

var (
	nilValue   = &Value{Type: TNil}
	emptyValue = &Value{Type: TCell}
)

// Nil returns the unit value.
func Nil() *Value {
	return nilValue
}

// String returns a string value containing s.
func String(s string) *Value {
	return &Value{Type: TString, Str: s}
}

// EmptyCell returns the canonical empty list.
func EmptyCell() *Value {
	return emptyValue
}

// Cons returns a new cell with head v and tail.  The tail must be a cell,
// which is what keeps cell chains finite and acyclic.
func Cons(v, tail *Value) (*Value, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: cannot cons a missing value", ErrTypeMismatch)
	}
	if tail == nil || tail.Type != TCell {
		return nil, fmt.Errorf("%w: second operand is not a list: %s", ErrTypeMismatch, typeOf(tail))
	}
	cell := &Value{Type: TCell, head: v}
	if !tail.IsEmpty() {
		cell.tail = tail
	}
	return cell, nil
}

// List returns a list containing vals in order.  A nil entry becomes Nil().
func List(vals ...*Value) *Value {
	lis := EmptyCell()
	for i := len(vals) - 1; i >= 0; i-- {
		v := vals[i]
		if v == nil {
			v = Nil()
		}
		lis = &Value{Type: TCell, head: v, tail: lis}
		if lis.tail.IsEmpty() {
			lis.tail = nil
		}
	}
	return lis
}

// Native returns a native function value.
func Native(name string, doc string, fn NativeFunc) *Value {
	return &Value{
		Type: TFun,
		fun:  &FunData{Name: name, Doc: doc, Native: fn},
	}
}

// UserFun returns a user-defined function value whose body is the AST node
// referenced by body.
func UserFun(name string, doc string, body NodeRef) *Value {
	return &Value{
		Type: TFun,
		fun:  &FunData{Name: name, Doc: doc, Body: body},
	}
}

// IsNil returns true if v is the unit value.
func (v *Value) IsNil() bool {
	return v.Type == TNil
}

// IsEmpty returns true if v is the empty list.
func (v *Value) IsEmpty() bool {
	return v.Type == TCell && v.head == nil
}

// IsNative returns true if v is a function implemented in Go.
func (v *Value) IsNative() bool {
	return v.Type == TFun && v.fun.Native != nil
}

// FunData returns the function description of a TFun value, or nil.
func (v *Value) FunData() *FunData {
	if v.Type != TFun {
		return nil
	}
	return v.fun
}

// Head returns the first element of a non-empty list, or nil.
func (v *Value) Head() *Value {
	if v.Type != TCell {
		return nil
	}
	return v.head
}

// Tail returns the rest of a non-empty list.  The tail of a single element
// list is the empty list.  Tail returns nil if v is not a non-empty list.
func (v *Value) Tail() *Value {
	if v.Type != TCell || v.head == nil {
		return nil
	}
	if v.tail == nil {
		return EmptyCell()
	}
	return v.tail
}

// Len returns the number of elements in a list.  Len returns 0 for values
// which are not lists.
func (v *Value) Len() int {
	if v.Type != TCell {
		return 0
	}
	n := 0
	for c := v; c != nil && c.head != nil; c = c.tail {
		n++
	}
	return n
}

// Slice returns the elements of a list.
func (v *Value) Slice() []*Value {
	vals := make([]*Value, 0, v.Len())
	if v.Type != TCell {
		return vals
	}
	for c := v; c != nil && c.head != nil; c = c.tail {
		vals = append(vals, c.head)
	}
	return vals
}

// Equal returns true if v and other have the same structure and contents.
// Functions are only equal to themselves.
func (v *Value) Equal(other *Value) bool {
	type pair struct{ a, b *Value }
	work := []pair{{v, other}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		a, b := p.a, p.b
		if a == b {
			continue
		}
		if a == nil || b == nil || a.Type != b.Type {
			return false
		}
		switch a.Type {
		case TString:
			if a.Str != b.Str {
				return false
			}
		case TCell:
			if a.IsEmpty() || b.IsEmpty() {
				if a.IsEmpty() != b.IsEmpty() {
					return false
				}
				continue
			}
			work = append(work, pair{a.head, b.head}, pair{a.Tail(), b.Tail()})
		case TFun:
			if a.fun != b.fun {
				return false
			}
		}
	}
	return true
}

func (v *Value) String() string {
	var buf strings.Builder
	writeValue(&buf, v)
	return buf.String()
}

// writeValue renders v without host recursion.  Each pending item is either a
// value to render or a literal string (a closing paren or separator).
func writeValue(buf *strings.Builder, v *Value) {
	type item struct {
		v   *Value
		lit string
	}
	work := []item{{v: v}}
	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]
		if it.v == nil {
			buf.WriteString(it.lit)
			continue
		}
		switch it.v.Type {
		case TNil:
			buf.WriteString("nil")
		case TString:
			buf.WriteString(`"`)
			buf.WriteString(it.v.Str)
			buf.WriteString(`"`)
		case TFun:
			if it.v.IsNative() {
				buf.WriteString("native-fn")
			} else {
				buf.WriteString("fn")
			}
		case TCell:
			elems := it.v.Slice()
			buf.WriteString("(")
			work = append(work, item{lit: ")"})
			for i := len(elems) - 1; i >= 0; i-- {
				work = append(work, item{v: elems[i]})
				if i > 0 {
					work = append(work, item{lit: " "})
				}
			}
		default:
			buf.WriteString("#<invalid>")
		}
	}
}

func typeOf(v *Value) string {
	if v == nil {
		return "missing"
	}
	return v.Type.String()
}
