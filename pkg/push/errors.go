package push

import "errors"

var (
	// ErrGatewayUnavailable wraps whole-call transport failures against the
	// push gateway. Per-token rejections are never errors; they surface in
	// the multicast Result instead.
	ErrGatewayUnavailable = errors.New("push: gateway unavailable")
)
