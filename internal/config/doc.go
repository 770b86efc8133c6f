// Package config defines the format-agnostic configuration model for a
// simulation run, along with the Loader interface implemented by the
// format-specific adapters.
//
// Every expression-valued setting is kept as the raw string the user wrote.
// Evaluation is the job of the params and arith packages; the model only
// records where each string lives.
package config
