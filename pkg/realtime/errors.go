package realtime

import "errors"

var (
	// ErrAuthExchange is returned when the signed-assertion exchange for a
	// session token fails. The cached token is already discarded when this
	// surfaces; the next call re-authenticates from scratch.
	ErrAuthExchange = errors.New("realtime: credential exchange failed")

	// ErrStoreUnavailable wraps transport-level failures talking to the
	// realtime store.
	ErrStoreUnavailable = errors.New("realtime: store unreachable")

	// ErrWriteRejected is returned when the store rejects an authenticated
	// write with a non-retriable status.
	ErrWriteRejected = errors.New("realtime: write rejected")

	// ErrCASContention is returned when a conditional update could not settle
	// after several attempts because of continuous concurrent writes.
	ErrCASContention = errors.New("realtime: conditional update contention")
)
