// Package compiler runs the managed compiler on synthesized task source.
//
// A [Compiler] writes the source of a [task.TaskInfo] to a temporary file,
// writes the compiler switches to a response file next to it, and runs the
// compiler for the task's language. Compiler output in the canonical
// "file(line,col): error CODE: text" form is reported as diagnostics. Every
// other line is reported as a low-importance message.
//
// The compiler executable is found in this order:
//
//  1. The command set with [WithCommand], split into words like a shell.
//  2. The tool under the build tools directory, run through the dotnet host
//     when DOTNET_HOST_PATH is set.
//
// The build tools directory defaults to the directory of MSBUILD_EXE_PATH.
package compiler
