package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/sprintreport/internal/config"
	"github.com/gi8lino/sprintreport/internal/flag"
	"github.com/gi8lino/sprintreport/internal/jira"
	"github.com/gi8lino/sprintreport/internal/logging"
	"github.com/gi8lino/sprintreport/internal/report"
	"github.com/gi8lino/sprintreport/internal/secret"
	"github.com/gi8lino/sprintreport/internal/server"
	"github.com/gi8lino/sprintreport/internal/sprint"
	"github.com/gi8lino/sprintreport/internal/templates"
	"github.com/gi8lino/sprintreport/internal/utils"
)

// copyToClipboard is swapped in tests; the real clipboard needs a desktop session.
var copyToClipboard = clipboard.WriteAll

// Run starts the sprintreport application. Command output goes to stdout, logs to stderr.
func Run(
	ctx context.Context,
	webFS fs.FS,
	version, commit string,
	args []string,
	stdout, stderr io.Writer,
	getEnv func(string) string,
) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, stdout, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(stdout, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, stderr)
	logger.Debug("Starting sprintreport",
		"version", version,
		"commit", commit,
		"command", flags.Command,
	)

	// Load and validate config
	cfg, err := config.LoadConfig(flags.Config)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}
	if flags.Concurrency > 0 {
		cfg.Concurrency = flags.Concurrency
	}
	if err := config.ValidateConfig(&cfg, templates.TextFuncMap()); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	// Setup jira client
	client, err := newJiraClient(flags, logger)
	if err != nil {
		return err
	}

	svc := sprint.NewService(client, sprint.Options{
		Fields:      cfg.Fields,
		GoalLabels:  cfg.GoalLabels,
		Concurrency: cfg.Concurrency,
	}, logger)

	if flags.Command == flag.CommandInitGoal {
		n, err := svc.InitializeGoal(ctx, flags.Sprint)
		if err != nil {
			return fmt.Errorf("initialize sprint goal: %w", err)
		}
		return emit(stdout, strconv.Itoa(n), false)
	}

	policy, err := report.ParseMissingPoints(cfg.MissingPoints)
	if err != nil {
		return err
	}
	summarize, err := templates.SummaryFunc(cfg.SummaryTemplate)
	if err != nil {
		return err
	}
	builder := report.NewBuilder(svc, policy, summarize)

	switch flags.Command {
	case flag.CommandSummary:
		out, err := builder.PointsSummary(ctx, flags.Sprint)
		if err != nil {
			return fmt.Errorf("points summary: %w", err)
		}
		return emit(stdout, out, flags.Copy)

	case flag.CommandServe:
		tmpl, err := templates.ParseReportTemplates(webFS)
		if err != nil {
			return fmt.Errorf("template parse error: %w", err)
		}
		router := server.NewRouter(builder, tmpl, logger, flags.Debug, version, flags.RoutePrefix)
		if err := server.RunHTTPServer(ctx, router, flags.ListenAddr, logger); err != nil {
			logger.Error("HTTP server exited with error", "error", err)
			return err
		}
		return nil

	default:
		out, err := builder.SprintReport(ctx, flags.Sprint)
		if err != nil {
			return fmt.Errorf("sprint report: %w", err)
		}
		return emit(stdout, out, flags.Copy)
	}
}

// newJiraClient resolves the credential references and builds the Jira client.
func newJiraClient(flags flag.Config, logger *slog.Logger) (*jira.Client, error) {
	bearer, err := secret.Resolve(flags.JiraBearerToken)
	if err != nil {
		return nil, fmt.Errorf("jira bearer token: %w", err)
	}
	token, err := secret.Resolve(flags.JiraAuth)
	if err != nil {
		return nil, fmt.Errorf("jira auth: %w", err)
	}

	auth, method, err := jira.ResolveAuth(bearer, flags.JiraEmail, token)
	if err != nil {
		return nil, err
	}
	logger.Debug("jira auth",
		"method", method,
		"header", utils.ObfuscateHeader(utils.GetAuthorizationHeader(auth)),
	)

	return jira.NewClient(flags.JiraURL, auth, flags.SkipTLSVerify, flags.JiraTimeout), nil
}

// emit prints out and optionally mirrors it to the clipboard.
func emit(w io.Writer, out string, toClipboard bool) error {
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	if toClipboard {
		if err := copyToClipboard(out); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	return nil
}
