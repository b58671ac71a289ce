// Package primecount counts the primes in a stream of integers.
//
// A producer feeds the integers into a lock-free Michael–Scott queue whose
// nodes come from a fixed capacity arena; a pool of workers drains the queue
// and tests every value.  When the input is exhausted the producer marks the
// run done and the workers exit as soon as the queue is empty.
//
//	srv, _ := primecount.New(primecount.WithWorkers(4))
//	report, _ := srv.Runtime().Run(ctx, input.Values(1, 2, 3, 4, 5))
//	fmt.Println(report) // 3 total primes.
//
// Configuration can be loaded from YAML with LoadConfig and the input can be
// any afs URL (see Runtime.Count).
package primecount
