package cmd

import "github.com/ardnew/codetask/task"

var (
	ErrParameters  = task.NewError("load parameters")
	ErrWriteOutput = task.NewError("write output")
	ErrWriteConfig = task.NewError("write configuration file")
	ErrFileExists  = task.NewError("file exists (use --force to overwrite)")
)
