// Package uplink pairs the bridge with the OpenSquawk service, uploads
// telemetry on a fixed cadence, and applies any commands the service
// returns on the upload response.
package uplink

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/opensquawk/simbridge/simhost"
)

// Bridge is the slice of the bridge surface the uplink consumes:
// the latest reading and the command setters.
type Bridge interface {
	IsConnected() bool
	Snapshot() (simhost.TelemetryFrame, bool)

	SetTransponderCode(code int) bool
	SetAdfActiveKHz(khz float64) bool
	SetAdfStandbyKHz(khz float64) bool
	SetGearHandle(down bool) bool
	SetFlapsIndex(index int) bool
	SetParkingBrake(on bool) bool
	SetAutopilotMaster(on bool) bool
}

// Config is the runtime config the uplink needs. Zero intervals are a
// caller bug; the daemon normalizes before building.
type Config struct {
	BaseURL      string
	MeURL        string
	TelemetryURL string
	AuthToken    string
	StatePath    string

	Timeout          time.Duration
	SendInterval     time.Duration
	RetryInterval    time.Duration
	PairPollInterval time.Duration
}

// Client drives pairing and the telemetry upload loop.
type Client struct {
	cfg    Config
	bridge Bridge
	http   *http.Client
	log    zerolog.Logger

	token    string
	username string
}

// New creates an uplink client. The pairing token is loaded or minted on
// the first Register call, not here.
func New(cfg Config, bridge Bridge, log zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		bridge: bridge,
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
}

// Token returns the active pairing token, empty before Register.
func (c *Client) Token() string {
	return c.token
}
