// Package jobfile loads job files into a run.
//
// Two syntaxes are accepted, HCL (.hcl) and YAML (.yaml, .yml). Both decode
// into the same format-agnostic Document, which is validated and then bound
// against the function registry to produce a model.Run:
//
//	group "build" {
//	  case "compile" { run = "pass" }
//	  case "unit" {
//	    command    = "go test ./..."
//	    depends_on = ["compile"]
//	  }
//	}
//
// A directory loads every job file inside it, in lexical order, as if they
// were one file.
package jobfile
