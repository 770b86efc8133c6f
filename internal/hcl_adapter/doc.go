// Package hcl_adapter loads run configurations written in HCL:
//
//	run { model = "heat" }
//	mesh { file = "square.vol" }
//	time {
//	  step  = 0.01
//	  steps = 100
//	}
//	model_variable "u" {
//	  initial = "0"
//	  update  = "u + 0.01"
//	}
//	model_parameters {
//	  kappa  = 0.5
//	  source = "u*sin(pi*x)"
//	}
//	boundary_conditions "dirichlet" {
//	  u = { left = "0", right = "IMPORT(parabolic_inflow)" }
//	}
//
// Section attributes hold expressions. Strings are used verbatim, numbers and
// booleans are converted to their expression text, tuples become vector
// literals and objects become one entry per boundary marker.
package hcl_adapter
