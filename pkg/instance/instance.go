package instance

import "github.com/angelmondragon/doccart/pkg/env"

// ID names the running process in logs. Platform-provided names are used
// when no explicit id is configured.
func ID() string {
	return env.First("local", "DOCCART_INSTANCE_ID", "DYNO", "HOSTNAME")
}
