package telemetry

import (
	"runtime"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/rudderlabs/analytics-go/v4"
	"github.com/urfave/cli/v2"
)

const url = "https://finbitpaykwqnr.dataplane.rudderstack.com"

var (
	TelemetryKey = ""
	OptOut       = false
	AppVersion   = ""
)

func SendEvent(event string, properties analytics.Properties) {
	if OptOut || TelemetryKey == "" {
		return
	}

	client := analytics.New(TelemetryKey, url)
	// Enqueues a track event that will be sent asynchronously.
	_ = client.Enqueue(analytics.Track{
		AnonymousId:       anonymousID(),
		Event:             event,
		OriginalTimestamp: time.Now().In(time.UTC),
		Context: &analytics.Context{
			App: analytics.AppInfo{
				Name:    "BitPay CLI",
				Version: AppVersion,
			},
			OS: analytics.OSInfo{
				Name: runtime.GOOS + " " + runtime.GOARCH,
			},
		},
		Properties: properties,
	})
}

func BeforeCommand(c *cli.Context) error {
	SendEvent("command_start", analytics.Properties{
		"command": c.Command.Name,
	})
	return nil
}

func AfterCommand(c *cli.Context) error {
	SendEvent("command_end", analytics.Properties{
		"command": c.Command.Name,
	})
	return nil
}

// anonymousID prefers the persisted install id and falls back to a machine
// fingerprint when the state file is unavailable.
func anonymousID() string {
	state, _, err := loadOrCreateInstallState(AppVersion)
	if err == nil && state.InstallID != "" {
		return state.InstallID
	}

	id, err := machineid.ID()
	if err != nil {
		return "anonymous"
	}

	return id
}
