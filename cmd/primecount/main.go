// Command primecount counts the primes in a stream of whitespace separated
// integers read from a file, an afs URL or standard input.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "primecount:", err)
		os.Exit(1)
	}
}
