package push

import (
	"encoding/json"
	"strconv"
)

// notification is the user-visible part of a push payload.
type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// platformHints carries the per-platform delivery hints: sound and channel
// for the Android family, badge and sound for the Apple family. Sending both
// lets the gateway pick whichever applies to the target device.
type platformHints struct {
	Sound   string `json:"sound"`
	Channel string `json:"channel"`
	Badge   int    `json:"badge"`
}

func defaultHints() platformHints {
	return platformHints{
		Sound:   "default",
		Channel: "orders",
		Badge:   1,
	}
}

// sendRequest is the single-device payload.
type sendRequest struct {
	Token         string            `json:"token"`
	Notification  notification      `json:"notification"`
	Data          map[string]string `json:"data,omitempty"`
	PlatformHints platformHints     `json:"platform_hints"`
}

// multicastRequest sends one payload to many registrations in a single call.
type multicastRequest struct {
	Tokens        []string          `json:"tokens"`
	Notification  notification      `json:"notification"`
	Data          map[string]string `json:"data,omitempty"`
	PlatformHints platformHints     `json:"platform_hints"`
}

// tokenResult is the gateway's per-registration outcome.
type tokenResult struct {
	Token string `json:"token"`
	Error string `json:"error,omitempty"`
}

// multicastResponse mirrors the gateway's multicast reply.
type multicastResponse struct {
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Results      []tokenResult `json:"results"`
}

// invalidTokenError reports whether a per-token gateway error means the
// registration itself is dead and should be pruned, as opposed to a
// transient delivery failure worth keeping the token for.
func invalidTokenError(code string) bool {
	switch code {
	case "unregistered", "invalid-registration", "invalid-argument":
		return true
	}
	return false
}

// coerceData stringifies every payload value. Push gateways generally accept
// only string-to-string data maps, so numbers, booleans and structured
// values are converted before send.
func coerceData(data map[string]any) map[string]string {
	if len(data) == 0 {
		return nil
	}

	coerced := make(map[string]string, len(data))
	for key, value := range data {
		switch v := value.(type) {
		case string:
			coerced[key] = v
		case bool:
			coerced[key] = strconv.FormatBool(v)
		case int:
			coerced[key] = strconv.Itoa(v)
		case int64:
			coerced[key] = strconv.FormatInt(v, 10)
		case float64:
			coerced[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			if raw, err := json.Marshal(v); err == nil {
				coerced[key] = string(raw)
			}
		}
	}
	return coerced
}
