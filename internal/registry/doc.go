// Package registry resolves the functions named by IMPORT calls.
//
// Three resolvers are provided. A Registry holds functions compiled into the
// binary, registered at startup by Modules. An HCLModule reads function
// definitions written as expressions from an import_functions.hcl file in the
// import directory. A Plugin loads them from a Go plugin, import_functions.so,
// in the same directory. A Chain tries resolvers in order and moves on when one
// reports ErrNotFound.
package registry
