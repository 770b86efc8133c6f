// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package arith turns the algebraic expression strings found in simulation
// configuration into values.
//
// # Pipeline
//
//   - Grammar: a recursive-descent parser that compiles an expression into a
//     postfix Stack. Operands are pushed before their operators, and function,
//     vector and IMPORT calls are pushed as a single tagged Entry carrying their
//     arity after all of their arguments.
//
//   - Evaluator: consumes a Stack from its tail and reduces it to one value. It
//     reports Liveness: whether the value depends on a model variable (the
//     expression must be parsed again when the variable changes) or on an
//     imported function (the function must be invoked again).
//
//   - ParseValue: the structured-value dispatcher. It recognises coordinate
//     lists and comma separated lists of scalar and vector expressions and
//     evaluates every item.
//
// # Values
//
// Evaluation produces one of: int64, float64, bool, nil (None), string (a bare
// identifier), field.Expr (depends on x, y, z or t), *field.Vector, Coord,
// []Coord, []any (lists), or whatever an imported function returns.
package arith
