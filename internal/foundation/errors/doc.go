// Package errors provides the classified error primitives used across readmegen.
//
// Every failure that reaches the command line is a ClassifiedError carrying a
// category, a severity and structured context (the offending key, the file
// that was read). The CLI adapter turns the category into an exit code and the
// context into a diagnostic that names what went wrong.
//
// Example usage:
//
//	err := errors.ReferenceError("unresolved reference key").
//		WithContext("key", key).
//		WithContext("line", line).
//		WithCause(cause).
//		Build()
package errors
