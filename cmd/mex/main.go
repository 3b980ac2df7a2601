// mex extracts job-execution metrics from a metrics Elasticsearch and
// exports per-job-type reports as an xlsx workbook.
//
// usage
//
//	mex --log-level verbose --es-url "https://my-venue/metrics_es/logstash-*/_search" --days-back 21
//	mex --es-url "https://my-venue/metrics_es/logstash-*/_search" --time-start 20240101T000000Z --time-end 20240313T000000Z
//	mex --es-url "..." --days-back 7 --cost-estimate-file cost_production_estimate_template.xlsx
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/dm/mex-go/internal/catalog"
	"github.com/dm/mex-go/internal/client"
	"github.com/dm/mex-go/internal/config"
	"github.com/dm/mex-go/internal/engine"
	"github.com/dm/mex-go/internal/format"
	"github.com/dm/mex-go/internal/report"
	"github.com/dm/mex-go/internal/timerange"
)

// exitInvalidInputs is returned when validation fails before any query
// is issued (reads as 253 on POSIX shells).
const exitInvalidInputs = -3

func main() {
	var (
		esURL       = flag.String("es-url", "", "metrics store search URL, e.g. https://host/metrics_es/logstash-*/_search")
		daysBack    = flag.String("days-back", "", "number of days to look back from now")
		timeStart   = flag.String("time-start", "", "window start (20060102T150405Z or 2006-01-02T15:04:05.000Z)")
		timeEnd     = flag.String("time-end", "", "window end (same formats as --time-start)")
		logLevel    = flag.String("log-level", "warning", "log verbosity: debug, verbose, or warning")
		costFile    = flag.String("cost-estimate-file", "", "reference hardware/pricing workbook; enables the product_estimates sheet")
		policyFile  = flag.String("policy", "", "optional YAML file overriding cost-model constants")
		concurrency = flag.Int("concurrency", 1, "concurrent metric cells per job type (1 = sequential)")
		timeout     = flag.Duration("timeout", 30*time.Second, "per-request timeout")
		tlsVerify   = flag.Bool("tls-verify", false, "verify the store's TLS certificate (off by default; the store endpoints use self-signed certificates)")
	)
	flag.Parse()

	log := newLogger(*logLevel)

	inputs := config.Inputs{
		ESURL:     *esURL,
		DaysBack:  *daysBack,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
	}
	lookbackDays, err := inputs.Validate(log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(exitInvalidInputs)
	}

	window, err := timerange.Resolve(lookbackDays, *timeStart, *timeEnd, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(exitInvalidInputs)
	}
	log.Info("time range resolved",
		"start", window.Start.Format(time.RFC3339),
		"end", window.End.Format(time.RFC3339),
		"duration_days", window.DurationDays)

	policy, err := config.LoadPolicy(*policyFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(exitInvalidInputs)
	}

	hostname, err := hostFromURL(*esURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(exitInvalidInputs)
	}
	log.Info("metrics store", "url", *esURL, "host", hostname)

	username, password, err := readCredentials()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	c, err := client.NewDefaultClient(client.Config{
		SearchURL:          *esURL,
		Username:           username,
		Password:           password,
		InsecureSkipVerify: !*tlsVerify,
		RequestTimeout:     *timeout,
	}, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	collector := &engine.Collector{
		Source:      c,
		Log:         log,
		Precision:   policy.RoundingPrecision,
		Concurrency: *concurrency,
	}

	ctx := context.Background()
	nested, err := collector.Collect(ctx, client.Window{Start: window.Start, End: window.End}, window.DurationDays)
	if err != nil {
		// Transport failures are fatal; no partial report is written.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	rows := engine.Flatten(nested)
	rollup := engine.Rollup(rows)

	wb := report.Workbook{Metrics: rows, Rollup: rollup}
	if *costFile != "" {
		cat, err := catalog.Load(*costFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		log.Info("reference catalog loaded", "offerings", cat.Len(), "billing_types", cat.BillingTypes())
		estimator := &engine.Estimator{
			Catalog:               cat,
			BillingType:           policy.BillingType,
			MinimumScratchGB:      policy.MinimumScratchGB,
			StorageCostPerGBMonth: policy.StorageCostPerGBMonth,
		}
		wb.Estimates = estimator.Estimate(rows)
	}

	name := report.Filename(hostname, lookbackDays > 0, window)
	if err := report.Write(name, wb); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log.Info("finished collecting metrics", "workbook", name, "rows", format.Number(int64(len(rows))))
	fmt.Printf("Finished collecting metrics...the results can be found here: %s\n", name)
}

// newLogger builds the run's structured logger at the selected level.
// Components receive it explicitly; nothing configures global state.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "verbose":
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// hostFromURL extracts the hostname used in the output filename.
func hostFromURL(esURL string) (string, error) {
	u, err := url.Parse(esURL)
	if err != nil {
		return "", fmt.Errorf("invalid es_url %q: %w", esURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid es_url %q: host is required", esURL)
	}
	return u.Host, nil
}

// readCredentials collects the store's basic-auth pair: an interactive
// prompt (password unechoed) on a TTY, otherwise two lines from stdin.
func readCredentials() (username, password string, err error) {
	fd := int(os.Stdin.Fd())
	reader := bufio.NewReader(os.Stdin)

	if term.IsTerminal(fd) {
		fmt.Print("Username: ")
		user, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("read username: %w", err)
		}
		fmt.Print("Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(user), string(pw), nil
	}

	user, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("read username from stdin: %w", err)
	}
	pw, err := reader.ReadString('\n')
	if err != nil && pw == "" {
		return "", "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(user, "\r\n"), strings.TrimRight(pw, "\r\n"), nil
}
