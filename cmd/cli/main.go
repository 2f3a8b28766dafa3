package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fieldprof/adapters/excel"
	"fieldprof/adapters/postgres"
	"fieldprof/domain/profile"
	"fieldprof/internal/config"
	"fieldprof/internal/profiler"
	"fieldprof/internal/report"
	"fieldprof/internal/script"
	"fieldprof/ports"
)

func main() {
	_ = godotenv.Load()

	var (
		file       = flag.String("file", "", "xlsx/csv file to profile")
		query      = flag.String("query", "", "SQL table or SELECT to profile (needs DATABASE_URL)")
		fieldsFlag = flag.String("fields", "", "comma-separated field names (default: all)")
		maxRows    = flag.Int("max-rows", 0, "row cap for the source read (0 = all)")
		output     = flag.String("output", "report", "output format: report, script or json")
		delimiter  = flag.String("delimiter", "tab", "script delimiter: tab, pipe, comma or semicolon")
		scriptRows = flag.Int("script-rows", 0, "value/count pairs per field in the script (0 = all retained)")
	)
	flag.Parse()

	if (*file == "") == (*query == "") {
		fatal("exactly one of -file or -query is required")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config: %v", err)
	}

	reader, source, cleanup, err := pickReader(cfg, *file, *query)
	if err != nil {
		fatal("%v", err)
	}
	defer cleanup()

	var fields []string
	if *fieldsFlag != "" {
		for _, f := range strings.Split(*fieldsFlag, ",") {
			fields = append(fields, strings.TrimSpace(f))
		}
	}

	engine := profiler.New(cfg.Profiler.Options())
	profiles, err := engine.ProfileSource(context.Background(), reader, source, *maxRows, fields)
	if err != nil {
		fatal("profiling failed: %v", err)
	}

	switch *output {
	case "report":
		fmt.Print(report.Render(profiles, source))
	case "script":
		text, err := script.Generate(profiles, source, profile.ScriptOptions{
			Delimiter:       profile.Delimiter(*delimiter),
			MaxRowsPerField: *scriptRows,
		})
		if err != nil {
			fatal("script generation failed: %v", err)
		}
		fmt.Print(text)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(profiles); err != nil {
			fatal("encoding failed: %v", err)
		}
	default:
		fatal("unknown output format %q", *output)
	}
}

func pickReader(cfg *config.Config, file, query string) (ports.RowReader, string, func(), error) {
	if file != "" {
		return excel.NewReader(), file, func() {}, nil
	}
	if cfg.Database.URL == "" {
		return nil, "", nil, fmt.Errorf("-query requires DATABASE_URL to be set")
	}
	pg, err := postgres.Connect(cfg.Database.URL)
	if err != nil {
		return nil, "", nil, err
	}
	return pg, query, func() { _ = pg.Close() }, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
