// internal/cli/options.go
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"seedsearch/internal/config"
	"seedsearch/internal/version"
)

// Handlers run the resolved subcommands.
type Handlers struct {
	Build  func(ctx context.Context, cfg config.Config) error
	Search func(ctx context.Context, cfg config.Config) error
}

// NewRootCommand returns the seqsearch command tree. Errors are returned to the
// caller unprinted.
func NewRootCommand(h Handlers) *cobra.Command {
	root := &cobra.Command{
		Use:   "seqsearch",
		Short: "exact and approximate short-read search over a reference",
		Long: `seqsearch: suffix-array / FM-index query engine

Counts exact and Hamming-bounded occurrences of query sequences in a
FASTA/FASTQ reference, using naive scanning, a suffix array, an FM-index,
or pigeonhole seed-and-verify.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("seqsearch version {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(buildCommand(h.Build), searchCommand(h.Search), versionCommand())
	return root
}

func buildCommand(run func(context.Context, config.Config) error) *cobra.Command {
	var (
		flags   = config.Defaults()
		file    string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and save a suffix-array or FM-index over a reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Resolve(cmd.Flags(), &flags, file, verbose)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.Reference, "reference", "r", "", "reference FASTA/FASTQ (gz/xz/zst ok, - for stdin) [*]")
	f.StringVarP(&flags.Index, "index", "o", "", "output index file [*]")
	f.StringVar(&flags.Backend, "backend", "", "index type: sa | fm [fm]")
	f.StringVar(&flags.Codec, "codec", flags.Codec, "FM-index compression: zstd | lz4 | none")
	addShared(f, &flags, &file, &verbose)
	return cmd
}

func searchCommand(run func(context.Context, config.Config) error) *cobra.Command {
	var (
		flags   = config.Defaults()
		file    string
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Count query occurrences in a reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Resolve(cmd.Flags(), &flags, file, verbose)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.Mode, "mode", "m", "", "search mode: naive | suffixarray | fmindex | pigeon [*]")
	f.StringVarP(&flags.Reference, "reference", "r", "", "reference FASTA/FASTQ [*]")
	f.StringVarP(&flags.Query, "query", "q", "", "query FASTA/FASTQ [*]")
	f.StringVarP(&flags.Index, "index", "i", "", "prebuilt index (built in memory when omitted)")
	f.StringVar(&flags.Backend, "backend", "", "pigeon seed index: sa | fm [fm]")
	f.IntVar(&flags.QueryCount, "query_ct", flags.QueryCount, "number of queries; the query set is duplicated to reach it")
	f.IntVarP(&flags.Errors, "errors", "k", 0, "maximum Hamming errors (substitutions only)")
	f.IntVarP(&flags.Threads, "threads", "t", 0, "worker threads (0 = all CPUs)")
	f.IntVar(&flags.MinBlock, "min_block", flags.MinBlock, "minimum queries per worker block; caps the worker count")
	addShared(f, &flags, &file, &verbose)
	return cmd
}

func addShared(f *pflag.FlagSet, flags *config.Config, file *string, verbose *bool) {
	f.IntVar(&flags.Guard, "guard", flags.Guard, "separator run length between concatenated sequences")
	f.IntVar(&flags.SamplingRate, "sampling-rate", flags.SamplingRate, "FM-index suffix-array sampling distance")
	f.StringVar(file, "config", "", "TOML config file; explicit flags take precedence")
	f.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "log level: debug | info | warn | error")
	f.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "log format: text | json")
	f.BoolVarP(verbose, "verbose", "v", false, "debug logging (same as --log-level debug)")
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write([]byte("seqsearch version " + version.Version + "\n"))
			return err
		},
	}
}

// Resolve layers defaults, the optional config file and explicitly set flags.
func Resolve(fs *pflag.FlagSet, flags *config.Config, file string, verbose bool) (config.Config, error) {
	cfg := config.Defaults()
	if file != "" {
		if err := cfg.LoadFile(file); err != nil {
			return cfg, err
		}
	}
	var changed []string
	fs.Visit(func(f *pflag.Flag) { changed = append(changed, f.Name) })
	cfg.Override(flags, changed...)
	if verbose && !fs.Changed("log-level") {
		cfg.LogLevel = "debug"
	}
	cfg.Mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return cfg, nil
}
