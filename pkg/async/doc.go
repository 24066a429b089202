// Package async provides lightweight structured-concurrency primitives:
// futures started with Async, joined with Await, WaitAll or Settle.
//
// Settle is the combinator behind the notification fan-out contract: all
// branches run to completion and every outcome is observed, so one failing
// channel can never cancel or mask its siblings.
package async
