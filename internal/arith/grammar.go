// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"fmt"
	"strings"
)

// ImportKeyword names the dynamic-import call.
const ImportKeyword = "IMPORT"

// VectorCall is the call name recorded for square-bracket literals.
const VectorCall = "vec"

// Grammar compiles expression strings into postfix stacks.
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := atom ('^' factor)?
//	atom   := ('+' | '-')* primary
//	primary:= name '(' list ')' | '[' list ']' | '(' expr ')' | number | name
//	list   := expr (',' expr)*
//
// The keywords pi and e are matched without regard to case. The grammar is
// static and safe to share.
type Grammar struct {
	caseless []string
}

// NewGrammar builds the expression grammar.
func NewGrammar() *Grammar {
	return &Grammar{caseless: []string{"pi", "e"}}
}

// Parse compiles input and appends its postfix entries to stack. The whole
// input must match; on error stack is left untouched.
func (g *Grammar) Parse(input string, stack *Stack) error {
	toks, err := tokenize(input)
	if err != nil {
		return err
	}
	p := &parser{grammar: g, input: input, toks: toks, out: &Stack{}}
	if err := p.expr(); err != nil {
		return err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return p.errorf(tok, "unexpected %q after complete expression", tok.text)
	}
	for _, e := range p.out.entries {
		stack.Push(e)
	}
	return nil
}

type parser struct {
	grammar *Grammar
	input   string
	toks    []token
	pos     int
	out     *Stack
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Input: p.input, Offset: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isOp(ops string) bool {
	tok := p.peek()
	return tok.kind == tokOp && strings.Contains(ops, tok.text)
}

func (p *parser) expr() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.isOp("+-") {
		op := p.next()
		if err := p.term(); err != nil {
			return err
		}
		p.out.Push(Leaf(op.text))
	}
	return nil
}

func (p *parser) term() error {
	if err := p.factor(); err != nil {
		return err
	}
	for p.isOp("*/") {
		op := p.next()
		if err := p.factor(); err != nil {
			return err
		}
		p.out.Push(Leaf(op.text))
	}
	return nil
}

// factor recurses on its right operand so that ^ associates to the right.
func (p *parser) factor() error {
	if err := p.atom(); err != nil {
		return err
	}
	if p.isOp("^") {
		op := p.next()
		if err := p.factor(); err != nil {
			return err
		}
		p.out.Push(Leaf(op.text))
	}
	return nil
}

func (p *parser) atom() error {
	negations := 0
	for p.isOp("+-") {
		if p.next().text == "-" {
			negations++
		}
	}
	if err := p.primary(); err != nil {
		return err
	}
	if negations%2 == 1 {
		p.out.Push(Leaf(UnaryMinus))
	}
	return nil
}

func (p *parser) primary() error {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		p.out.Push(Leaf(tok.text))
		return nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			p.next()
			n, err := p.list(tokRParen, ")")
			if err != nil {
				return err
			}
			p.out.Push(Call(tok.text, n))
			return nil
		}
		p.out.Push(Leaf(p.keyword(tok.text)))
		return nil
	case tokLBrack:
		n, err := p.list(tokRBrack, "]")
		if err != nil {
			return err
		}
		p.out.Push(Call(VectorCall, n))
		return nil
	case tokLParen:
		if err := p.expr(); err != nil {
			return err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return p.errorf(closing, "expected \")\"")
		}
		return nil
	case tokEOF:
		return p.errorf(tok, "unexpected end of expression")
	default:
		return p.errorf(tok, "expected an operand, found %q", tok.text)
	}
}

// list parses comma separated arguments up to the closing token and returns
// how many there were.
func (p *parser) list(closing tokenKind, text string) (int, error) {
	n := 0
	for {
		if err := p.expr(); err != nil {
			return 0, err
		}
		n++
		tok := p.next()
		switch tok.kind {
		case tokComma:
			continue
		case closing:
			return n, nil
		default:
			return 0, p.errorf(tok, "expected \",\" or %q", text)
		}
	}
}

func (p *parser) keyword(name string) string {
	for _, kw := range p.grammar.caseless {
		if strings.EqualFold(name, kw) {
			return kw
		}
	}
	return name
}
