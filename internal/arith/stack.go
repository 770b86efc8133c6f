// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"strconv"
	"strings"
)

// UnaryMinus is the stack token emitted for a negated operand.
const UnaryMinus = "unary -"

// Entry is a single postfix stack item. A plain entry holds an operand or
// operator token. A tagged entry marks a call of Name with Arity arguments
// that precede it on the stack.
type Entry struct {
	Token  string
	Arity  int
	Tagged bool
}

// Leaf returns a plain entry.
func Leaf(token string) Entry { return Entry{Token: token} }

// Call returns a tagged call marker.
func Call(name string, arity int) Entry { return Entry{Token: name, Arity: arity, Tagged: true} }

func (e Entry) String() string {
	if e.Tagged {
		return "(" + e.Token + ", " + strconv.Itoa(e.Arity) + ")"
	}
	return e.Token
}

// Stack is a postfix instruction list. It is built once per parse and
// consumed destructively by evaluation; a stack must not be evaluated twice.
type Stack struct {
	entries []Entry
}

// Push appends an entry.
func (s *Stack) Push(e Entry) { s.entries = append(s.entries, e) }

// Pop removes and returns the last entry.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	e := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return e, true
}

// Len returns the number of remaining entries.
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns a copy of the remaining entries in push order.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Stack) String() string {
	parts := make([]string, len(s.entries))
	for i, e := range s.entries {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
