package async

// Outcome is the settled result of one future: its value and the error it
// finished with, if any.
type Outcome[U any] struct {
	Value U
	Err   error
}

// Settle waits for every future to complete and returns all outcomes,
// never short-circuiting on the first error. One failed branch must not
// hide the results of its siblings, which is what the notification fan-out
// relies on: every channel runs to completion and is counted.
func Settle[U any](futures ...*Future[U]) []Outcome[U] {
	outcomes := make([]Outcome[U], len(futures))
	for i, future := range futures {
		outcomes[i].Value, outcomes[i].Err = future.Await()
	}
	return outcomes
}

// AnySucceeded reports whether at least one outcome finished without error.
func AnySucceeded[U any](outcomes []Outcome[U]) bool {
	for _, o := range outcomes {
		if o.Err == nil {
			return true
		}
	}
	return false
}
