package push

// Config holds push gateway credentials. Both fields are optional: with
// neither a key nor a key file the dispatcher runs disabled and every send
// reports failure without erroring, so the rest of the system degrades
// gracefully with push turned off.
type Config struct {
	GatewayURL    string `env:"PUSH_GATEWAY_URL"`
	ServerKey     string `env:"PUSH_SERVER_KEY"`
	ServerKeyFile string `env:"PUSH_SERVER_KEY_FILE"`
}
