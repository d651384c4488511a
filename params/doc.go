// Package params loads the parameter group of an inline task.
//
// Parameters can be declared on the command line with [ParseSpec] or read
// from a file with [Loader.Load]. YAML and JSON files hold either a list of
// parameters or a mapping with a "parameters" list:
//
//	parameters:
//	  - name: Files
//	    type: ITaskItem[]
//	    required: true
//	  - name: Count
//	    type: int
//	    output: true
//
// HCL files declare one block per parameter:
//
//	parameter "Files" {
//	  type     = "ITaskItem[]"
//	  required = true
//	}
//
// Every group is validated: names must be identifiers and unique, ignoring
// case.
package params
