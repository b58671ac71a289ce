// Package idgen issues run identifiers.  Every Runtime.Run gets one; it is
// attached to log entries, trace spans and the final report so that output
// of concurrent runs can be told apart.  Callers must treat identifiers as
// opaque strings.
package idgen
