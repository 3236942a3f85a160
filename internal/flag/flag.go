package flag

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/sprintreport/internal/logging"
	"github.com/gi8lino/sprintreport/internal/utils"
)

// Command selects what sprintreport does after parsing.
type Command string

const (
	CommandReport   Command = "report"    // print the TSV report
	CommandSummary  Command = "summary"   // print the completion line
	CommandInitGoal Command = "init-goal" // label the sprint's issues as goal
	CommandServe    Command = "serve"     // serve reports over HTTP
)

// Config aggregates CLI flags after parsing.
type Config struct {
	Command         Command           // Selected command
	Sprint          string            // Sprint name (all commands except serve)
	Config          string            // Optional path to config file
	JiraURL         *url.URL          // Jira site root, always ending in "/"
	JiraEmail       string            // Basic auth user
	JiraAuth        string            // Basic auth token or secret reference
	JiraBearerToken string            // Bearer token or secret reference
	SkipTLSVerify   bool              // Skip TLS verification for Jira
	JiraTimeout     time.Duration     // Per-request Jira timeout
	Concurrency     int               // Per-issue fetch limit, 0 = use config
	Copy            bool              // Also copy output to the clipboard
	ListenAddr      string            // HTTP bind address (e.g. ":8080")
	RoutePrefix     string            // Canonical path prefix ("" or "/sprintreport")
	Debug           bool              // Enables debug logging
	LogFormat       logging.LogFormat // Log output format (text or json)
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("sprintreport", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("SPRINTREPORT")
	tf.SetOutput(out)

	// Command
	command := tf.String("command", string(CommandReport), "What to do").
		Choices(string(CommandReport), string(CommandSummary), string(CommandInitGoal), string(CommandServe)).
		Short("c").
		Value()
	tf.StringVar(&cfg.Sprint, "sprint", "", "Sprint name").
		Finalize(strings.TrimSpace).
		Short("s").
		Placeholder("NAME").
		Value()
	tf.StringVar(&cfg.Config, "config", "", "Path to optional config file").Value()

	// Jira
	jiraURL := tf.String("jira-url", "", "Jira site URL (e.g. https://example.atlassian.net)").
		Placeholder("URL").
		Value()
	tf.StringVar(&cfg.JiraEmail, "jira-email", "", "Jira user email for basic auth").
		Finalize(strings.TrimSpace).
		Value()
	tf.StringVar(&cfg.JiraAuth, "jira-auth", "", "Jira API token (env:, file: or keyring: reference)").
		Placeholder("TOKEN").
		Value()
	tf.StringVar(&cfg.JiraBearerToken, "jira-bearer-token", "", "Jira bearer token (env:, file: or keyring: reference)").
		Placeholder("TOKEN").
		Value()
	tf.BoolVar(&cfg.SkipTLSVerify, "jira-skip-tls-verify", false, "Skip TLS verification for Jira").Value()
	timeout := tf.String("jira-timeout", "15s", "Timeout per Jira request").
		Placeholder("DURATION").
		Value()
	tf.IntVar(&cfg.Concurrency, "concurrency", 0, "Parallel issue fetches, 0 = use config").
		Placeholder("N").
		Value()

	// Output
	tf.BoolVar(&cfg.Copy, "copy", false, "Also copy the output to the clipboard").Value()

	// Server
	route := tf.String("route-prefix", "", "Path prefix to mount the app (e.g., /sprintreport). Empty = root.").
		Finalize(utils.NormalizeRoutePrefix).
		Placeholder("PATH").
		Value()
	listenAddr := tf.TCPAddr("listen-address", &net.TCPAddr{IP: nil, Port: 8080}, "HTTP server listen address").
		Placeholder("ADDR:PORT").
		Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	// Post-parse
	cfg.Command = Command(*command)
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.ListenAddr = (*listenAddr).String()
	cfg.RoutePrefix = *route

	if err := cfg.finish(*jiraURL, *timeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// finish converts and validates the values tinyflags keeps as strings.
func (c *Config) finish(jiraURL, timeout string) error {
	if strings.TrimSpace(jiraURL) == "" {
		return errors.New("missing required flag --jira-url")
	}
	u, err := utils.ParseSiteURL(jiraURL)
	if err != nil {
		return fmt.Errorf("invalid value for flag --jira-url: %w.", err)
	}
	c.JiraURL = u

	d, err := time.ParseDuration(strings.TrimSpace(timeout))
	if err != nil {
		return fmt.Errorf("invalid value for flag --jira-timeout: %w.", err)
	}
	if d <= 0 {
		return errors.New("invalid value for flag --jira-timeout: timeout must be > 0.")
	}
	c.JiraTimeout = d

	if c.Concurrency < 0 {
		return errors.New("invalid value for flag --concurrency: must not be negative.")
	}

	if c.JiraBearerToken == "" {
		if c.JiraEmail == "" || c.JiraAuth == "" {
			return errors.New("either --jira-bearer-token or --jira-email and --jira-auth must be set")
		}
		if !strings.Contains(c.JiraEmail, "@") {
			return errors.New("invalid value for flag --jira-email: email must contain @.")
		}
	} else if c.JiraEmail != "" || c.JiraAuth != "" {
		return errors.New("--jira-bearer-token cannot be combined with --jira-email or --jira-auth")
	}

	if c.Command != CommandServe && c.Sprint == "" {
		return fmt.Errorf("--sprint is required for --command=%s", c.Command)
	}
	return nil
}
