package cli

import (
	"fmt"
	"strings"
)

// Globals defines the Firefly III settings shared by all commands. They
// are optional at parse time so that offline commands keep working; the
// commands that talk to the ledger call requireLedgerConfig first.
type Globals struct {
	FireflyURL    string `help:"Base URL of the Firefly III instance." env:"FIREFLY_URL"`
	FireflyToken  string `help:"Personal access token for the Firefly III API." env:"FIREFLY_TOKEN"`
	SourceAccount string `help:"Asset account withdrawals draw from." env:"FIREFLY_SOURCE_ACCOUNT"`
	Threshold     int    `help:"Minimum fuzzy match score accepted, in percent." env:"FIREFLY_MATCH_THRESHOLD" default:"60"`
	LogLevel      string `help:"Log level (trace, debug, info, warn, error)." env:"LOG_LEVEL" default:"info"`
}

type Commands struct {
	Globals

	Run    RunCmd    `cmd:"" help:"Connect to Telegram and record incoming transactions."`
	Doctor DoctorCmd `cmd:"" help:"Verify the Firefly III connection and configuration."`
	Parse  ParseCmd  `cmd:"" help:"Parse a transaction line without recording it."`
}

// requireLedgerConfig reports which Firefly III settings are missing,
// named by their environment variable.
func requireLedgerConfig(globals *Globals) error {
	var missing []string
	if globals.FireflyURL == "" {
		missing = append(missing, "FIREFLY_URL")
	}
	if globals.FireflyToken == "" {
		missing = append(missing, "FIREFLY_TOKEN")
	}
	if globals.SourceAccount == "" {
		missing = append(missing, "FIREFLY_SOURCE_ACCOUNT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
