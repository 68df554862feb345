// Package errors provides the classified error type used across doctool.
//
// Every failure that should stop a run (missing inputs, a bad config file, a child process
// exiting non-zero) is built as a ClassifiedError and returned up to main, where the
// CLIErrorAdapter turns it into a stderr message and an exit code.
package errors
