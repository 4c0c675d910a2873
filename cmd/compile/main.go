// Command compile normalizes exported card and account statements into one CSV.
//
//	compile [-spender NAME] [-o FILE] [-policy isolate|all-or-nothing] [-sort KEY] PATH[=FORMAT[:LABEL]]...
//
// Without =FORMAT the format and label are guessed from the file name.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/username/spendfolio/src/logger"
	"github.com/username/spendfolio/src/models"
	"github.com/username/spendfolio/src/parsers"
	"github.com/username/spendfolio/src/services"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	spender := fs.String("spender", "MICHELLE LAM", "spender used when a file has no spender column")
	output := fs.String("o", "", "write the CSV to this file instead of stdout")
	policy := fs.String("policy", string(models.PerFileIsolation), "failure policy: isolate or all-or-nothing")
	sortKey := fs.String("sort", "", "sort rows by source, date, item, amount, category or spender (prefix - for descending)")
	negatePayments := fs.Bool("venmo-negate-payments", false, "make Venmo payments negative")
	negateCharges := fs.Bool("venmo-negate-charges", true, "make Venmo charges negative")
	sanitize := fs.Bool("sanitize-formulas", false, "guard text cells against spreadsheet formula injection")
	logLevel := fs.String("log-level", "warn", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: compile [flags] PATH[=FORMAT[:LABEL]]...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	// stdout may carry the CSV
	logger.InitLoggerTo(os.Stderr, *logLevel)
	lg := logger.L

	if *policy != string(models.PerFileIsolation) && *policy != string(models.AllOrNothing) {
		lg.Error("Unknown failure policy", "policy", *policy)
		return 2
	}

	var key services.SortKey
	var desc bool
	if *sortKey != "" {
		var err error
		if key, desc, err = services.ParseSortKey(*sortKey); err != nil {
			lg.Error("Invalid sort key", "error", err)
			return 2
		}
	}

	sign := models.SignOptions{NegatePayments: *negatePayments, NegateCharges: *negateCharges}
	var inputs []models.FileInput
	for _, arg := range fs.Args() {
		path, meta := parseFileArg(arg)
		if meta.Format == models.FormatVenmo && meta.VenmoSign != nil {
			s := sign
			meta.VenmoSign = &s
		}
		f, err := os.Open(path)
		if err != nil {
			lg.Error("Cannot open input file", "path", path, "error", err)
			return 1
		}
		defer f.Close()
		inputs = append(inputs, models.FileInput{Meta: meta, Reader: f})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	compiler := services.NewCompileService(parsers.NewCSVReader())
	result, err := compiler.Compile(ctx, inputs, models.CompileOptions{
		DefaultSpender: *spender,
		FailurePolicy:  models.FailurePolicy(*policy),
	})
	if err != nil {
		lg.Error("Compilation interrupted", "error", err)
		return 1
	}

	records := result.Records
	if key != "" {
		records = services.SortRecords(records, key, desc)
	}

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			lg.Error("Cannot create output file", "path", *output, "error", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	if err := services.NewExportService(*sanitize).WriteCSV(out, records); err != nil {
		lg.Error("Failed to write CSV", "error", err)
		return 1
	}

	for _, fe := range result.FileErrors {
		lg.Error("File failed", "file", fe.File, "message", fe.Message)
	}
	lg.Info("Compilation finished", "runID", result.RunID, "records", len(records), "fileErrors", len(result.FileErrors))
	if result.HasErrors() {
		return 1
	}
	return 0
}

// parseFileArg splits PATH[=FORMAT[:LABEL]]. Missing parts come from filename hints.
// The metadata name is the base name of the path, as an uploaded file would have.
// An argument naming an existing file, or whose FORMAT part holds a path
// separator, is taken as a plain path even when it contains "=".
func parseFileArg(arg string) (string, models.FileMeta) {
	path, decl, hasDecl := splitDeclaration(arg)
	meta := parsers.InferMetaFromFilename(filepath.Base(path))
	if !hasDecl {
		return path, meta
	}

	formatText, label, _ := strings.Cut(decl, ":")
	if formatText != "" {
		format, err := models.ParseFormat(formatText)
		if err != nil {
			format = models.Format(formatText)
		}
		meta = parsers.ApplyDeclaredFormat(meta, format)
	}
	if label = strings.TrimSpace(label); label != "" {
		meta.Source = label
	}
	return path, meta
}

func splitDeclaration(arg string) (path, decl string, found bool) {
	i := strings.LastIndex(arg, "=")
	if i < 0 {
		return arg, "", false
	}
	formatText, _, _ := strings.Cut(arg[i+1:], ":")
	if strings.ContainsAny(formatText, `/\`) {
		return arg, "", false
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, "", false
	}
	return arg[:i], arg[i+1:], true
}
