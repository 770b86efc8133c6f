// Package params evaluates the expression-valued sections of a simulation
// configuration and keeps them current while a run advances.
//
// Every entry of a section is dispatched once through the arith evaluator when
// the section is loaded. Entries whose value depended on a model variable are
// remembered in the Set's ReParse mapping with their original text; entries
// produced by an imported function keep the resolved callable in Imports.
// Refresh brings both kinds up to date with fresh model variables. Every other
// entry keeps its first value for the lifetime of the run.
package params
