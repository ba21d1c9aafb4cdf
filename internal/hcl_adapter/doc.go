// Package hcl_adapter loads slide plans written in HCL into a config.Model.
//
// Loading happens in two passes per run. The first pass decodes only the
// `variable` blocks, with no evaluation context, and resolves their
// defaults against any overrides from the command line. The second pass
// decodes `model`, `agent` and `step` blocks with an evaluation context
// that exposes `var.<name>` and a small function library, so a task can be
// templated:
//
//	variable "columns" {
//	  default = 3
//	}
//
//	step "relayouter" "r1" {
//	  task                = "Split the body into ${var.columns} columns"
//	  next                = ["e1"]
//	  expected_layout_ids = ["col1", "col2", "col3"]
//	}
package hcl_adapter
