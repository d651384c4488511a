// Package task turns the declarative body of an inline code task into
// compilable source text.
//
// A task body is a small XML fragment holding exactly one <Code> element and
// any number of <Reference> and <Using> elements:
//
//	<Using Namespace="System.Net" />
//	<Reference Include="System.Net.Http" />
//	<Code Type="Fragment" Language="cs">
//	  Log.LogMessage("hello");
//	</Code>
//
// [Load] runs the whole pipeline: [Parse] reads the markup into a
// [Declaration], [Validate] enforces the attribute and element constraints,
// [Resolver.Resolve] fills in defaults and loads external source files, and
// [Synthesize] wraps the code in a generated task class declaring one
// property per [Parameter].
//
// Every expected failure is reported through a [Reporter] as exactly one
// error [Diagnostic], and the first violation found wins. I/O failures while
// reading a source file are reported as an error wrapping [ErrReadSource].
//
// The package does not compile or run the generated source. That is left to
// a [Compiler] and an [Invoker], with [Bind] and [Outputs] defining how
// declared parameters are passed in and read back.
package task
