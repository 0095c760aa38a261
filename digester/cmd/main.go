// Command digest prints message or file digests using any registered
// algorithm. It can also store and verify .digest sidecar files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/byte4ever/rules_conda/config"
	"github.com/byte4ever/rules_conda/digester"
	"github.com/byte4ever/rules_conda/report"
	"github.com/byte4ever/rules_conda/source"
)

// options are the parsed command-line settings that are not
// part of config.Config.
type options struct {
	configPath string
	message    string
	hasMessage bool
	expect     string
	save       bool
	verify     bool
	list       bool
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := run(ctx, os.Args[1:], os.Stdout)

	stop()

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

//nolint:funlen // CLI flag setup is inherently long
func run(ctx context.Context, args []string, stdout io.Writer) error {
	const errCtx = "digest"

	var (
		opts options
		cfg  = config.Default()
	)

	fs := pflag.NewFlagSet("digest", pflag.ContinueOnError)

	fs.StringVarP(
		&cfg.Algorithm, "algorithm", "a", cfg.Algorithm,
		"digest algorithm name (see --list)",
	)
	fs.StringVarP(
		&opts.message, "message", "m", "",
		"digest this literal instead of files",
	)
	fs.StringVar(
		&cfg.Decompress, "decompress", cfg.Decompress,
		"input codec: none, gzip, zstd, lz4 or auto",
	)
	fs.StringVar(
		&cfg.Format, "format", cfg.Format,
		"report line template",
	)
	fs.StringArrayVar(
		&cfg.StampInfoFiles, "stamp-info-file", nil,
		"path to workspace status file (repeatable)",
	)
	fs.BoolVar(
		&cfg.JSON, "json", cfg.JSON,
		"emit a JSON array instead of lines",
	)
	fs.IntVarP(
		&cfg.Parallelism, "parallelism", "j", cfg.Parallelism,
		"number of concurrent file workers",
	)
	fs.BoolVar(
		&opts.save, "save", false,
		"write .digest sidecars next to the files",
	)
	fs.BoolVar(
		&opts.verify, "verify", false,
		"check files against their .digest sidecars",
	)
	fs.StringVar(
		&opts.expect, "expect", "",
		"expected <algorithm>:<hex> digest",
	)
	fs.StringVar(
		&opts.configPath, "config", "",
		"YAML config file",
	)
	fs.BoolVar(
		&opts.list, "list", false,
		"print supported algorithms and exit",
	)
	fs.BoolVarP(
		&opts.verbose, "verbose", "v", false,
		"enable debug logging",
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}

		return fmt.Errorf("%s: %w", errCtx, err)
	}

	opts.hasMessage = fs.Changed("message")

	if opts.verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(
			os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug},
		)))
	}

	if opts.configPath != "" {
		fileCfg, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		cfg = merge(fs, fileCfg, cfg)
	}

	if opts.list {
		return listAlgorithms(stdout)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if opts.verify {
		if opts.hasMessage {
			return fmt.Errorf(
				"%s: --verify checks files and cannot be combined with --message",
				errCtx,
			)
		}

		return verify(stdout, fs.Args())
	}

	results, err := collect(ctx, cfg, opts, fs.Args())
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if opts.expect != "" {
		if err := checkExpected(opts.expect, results); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if err := write(stdout, cfg, results); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// merge lays explicitly set flags over the file config.
func merge(fs *pflag.FlagSet, fileCfg, flagCfg config.Config) config.Config {
	out := fileCfg

	if fs.Changed("algorithm") {
		out.Algorithm = flagCfg.Algorithm
	}

	if fs.Changed("decompress") {
		out.Decompress = flagCfg.Decompress
	}

	if fs.Changed("format") {
		out.Format = flagCfg.Format
	}

	if fs.Changed("json") {
		out.JSON = flagCfg.JSON
	}

	if fs.Changed("parallelism") {
		out.Parallelism = flagCfg.Parallelism
	}

	if fs.Changed("stamp-info-file") {
		out.StampInfoFiles = flagCfg.StampInfoFiles
	}

	return out
}

// digestResult keeps the digest next to its report row so
// --expect can compare algorithms as well as bytes.
type digestResult struct {
	digest digester.Digest
	row    report.Result
}

func collect(
	ctx context.Context,
	cfg config.Config,
	opts options,
	paths []string,
) ([]digestResult, error) {
	const errCtx = "collecting digests"

	codec, err := source.ParseCodec(cfg.Decompress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if opts.hasMessage {
		if len(paths) > 0 {
			return nil, fmt.Errorf(
				"%s: --message cannot be combined with files",
				errCtx,
			)
		}

		if opts.save {
			return nil, fmt.Errorf(
				"%s: --save needs files and cannot be combined with --message",
				errCtx,
			)
		}

		dg, err := digester.Sum(cfg.Algorithm, []byte(opts.message))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		return []digestResult{{
			digest: dg,
			row: report.NewResult(
				opts.message, dg, int64(len(opts.message)),
			),
		}}, nil
	}

	if len(paths) == 0 {
		paths = []string{source.Stdin}
	}

	if opts.save && codec != source.None {
		return nil, fmt.Errorf(
			"%s: --save stores digests of the raw files and cannot be combined with --decompress",
			errCtx,
		)
	}

	fds, err := digester.SumFiles(
		ctx, source.Opener(codec), cfg.Algorithm, paths, cfg.Parallelism,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	results := make([]digestResult, 0, len(fds))

	for _, fd := range fds {
		if opts.save && fd.Path != source.Stdin {
			if err := digester.WriteDigest(fd.Path, fd.Digest); err != nil {
				return nil, fmt.Errorf("%s: %w", errCtx, err)
			}
		}

		results = append(results, digestResult{
			digest: fd.Digest,
			row:    report.NewResult(fd.Path, fd.Digest, fd.Size),
		})
	}

	return results, nil
}

func checkExpected(expect string, results []digestResult) error {
	const errCtx = "checking expected digest"

	if len(results) != 1 {
		return fmt.Errorf(
			"%s: --expect needs exactly one input, got %d",
			errCtx, len(results),
		)
	}

	want, err := digester.ParseDigest(expect)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	got := results[0].digest
	if !got.Equal(want) {
		return fmt.Errorf(
			"%s: %w: want %s, got %s",
			errCtx, digester.ErrDigestMismatch, want, got,
		)
	}

	return nil
}

func write(
	w io.Writer,
	cfg config.Config,
	results []digestResult,
) error {
	const errCtx = "writing results"

	rows := make([]report.Result, 0, len(results))
	for _, res := range results {
		rows = append(rows, res.row)
	}

	if cfg.JSON {
		if err := report.WriteJSON(w, rows); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	stamps, err := report.LoadStamps(cfg.StampInfoFiles)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := report.WriteLines(
		w,
		report.Formatter{Format: cfg.Format, Stamps: stamps},
		rows,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

func verify(w io.Writer, paths []string) error {
	const errCtx = "digest: verifying"

	if len(paths) == 0 {
		return fmt.Errorf("%s: no files given", errCtx)
	}

	failed := 0

	for _, pa := range paths {
		if _, err := os.Stat(pa); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		ok, err := digester.VerifyDigest(pa)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		status := "OK"
		if !ok {
			status = "FAILED"
			failed++
		}

		if _, err := fmt.Fprintf(w, "%s: %s\n", pa, status); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf(
			"%s: %w: %d of %d files",
			errCtx, digester.ErrDigestMismatch, failed, len(paths),
		)
	}

	return nil
}

func listAlgorithms(w io.Writer) error {
	for _, name := range digester.Algorithms() {
		al, err := digester.Lookup(name)
		if err != nil {
			return fmt.Errorf("listing algorithms: %w", err)
		}

		if _, err := fmt.Fprintf(
			w, "%-12s %-12s %3d\n", al.Name, al.Display, al.Size,
		); err != nil {
			return fmt.Errorf("listing algorithms: %w", err)
		}
	}

	return nil
}
