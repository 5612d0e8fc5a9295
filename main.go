package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Input
	basePath        string
	interactiveMode bool

	// Filtering
	extensionList   []string
	noExtensionList []string
	regexStr        string
	regexInv        bool
	scopeStr        string

	// Traversal
	maxDepth          int
	excludePatterns   []string
	noDefaultExcludes bool
	includeHidden     bool
	followSymlinks    bool

	// Output
	readContent     bool
	outputFile      string
	copyToClipboard bool
	absolutePaths   bool
	maxBytes        int64
	quiet           bool
	showGuide       bool

	// Token counting
	countTokens bool
	tokenModel  string

	// Web traversal
	traverseLinks bool
	linkDepth     int
)

// version is the application version, set via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "collect",
	Short:   "Optimized file collector and filtering tool.",
	Long: `Traverses directory trees respecting gitignore, applies filters,
and optionally captures content into a single output stream.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showGuide {
			printGuide()
			return nil
		}
		return run()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Input
	rootCmd.Flags().StringVar(&basePath, "path", ".", "Base directory, file, git URL or web URL to collect from")
	viper.BindPFlag("path", rootCmd.Flags().Lookup("path"))
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick inputs with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))

	// Filtering
	rootCmd.Flags().StringSliceVar(&extensionList, "extension", nil, "Filter by file extensions (comma separated, e.g. rs,toml)")
	viper.BindPFlag("extension", rootCmd.Flags().Lookup("extension"))
	rootCmd.Flags().StringSliceVar(&noExtensionList, "no-extension", nil, "Exclude by file extensions (comma separated)")
	viper.BindPFlag("no_extension", rootCmd.Flags().Lookup("no-extension"))
	rootCmd.MarkFlagsMutuallyExclusive("extension", "no-extension")
	rootCmd.Flags().StringVar(&regexStr, "regex", "", "Regex pattern to apply")
	viper.BindPFlag("regex", rootCmd.Flags().Lookup("regex"))
	rootCmd.Flags().BoolVar(&regexInv, "regex-inv", false, "Invert the regex filter")
	viper.BindPFlag("regex_inv", rootCmd.Flags().Lookup("regex-inv"))
	rootCmd.Flags().StringVar(&scopeStr, "scope", "name", "Scope of the regex: name or path")
	viper.BindPFlag("scope", rootCmd.Flags().Lookup("scope"))

	// Traversal
	rootCmd.Flags().IntVar(&maxDepth, "depth", -1, "Maximum search depth (0 = base only, negative = unlimited)")
	viper.BindPFlag("depth", rootCmd.Flags().Lookup("depth"))
	rootCmd.Flags().StringSliceVar(&excludePatterns, "exclude", nil, `Extra exclude patterns (e.g. "target,*.log")`)
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().BoolVar(&noDefaultExcludes, "no-default-excludes", false, "Disable default excludes (gitignore, .git, target, node_modules, ...)")
	viper.BindPFlag("no_default_excludes", rootCmd.Flags().Lookup("no-default-excludes"))
	rootCmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Include hidden files")
	viper.BindPFlag("include_hidden", rootCmd.Flags().Lookup("include-hidden"))
	rootCmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symbolic links")
	viper.BindPFlag("follow_symlinks", rootCmd.Flags().Lookup("follow-symlinks"))

	// Output
	rootCmd.Flags().BoolVar(&readContent, "content", false, "Include file content in the output")
	viper.BindPFlag("content", rootCmd.Flags().Lookup("content"))
	rootCmd.Flags().StringVar(&outputFile, "output", "", "Output to a file instead of stdout")
	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy output to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.MarkFlagsMutuallyExclusive("output", "clipboard")
	rootCmd.Flags().Int64Var(&maxBytes, "max-bytes", -1, "Max bytes to read per file when using --content (negative = unlimited)")
	viper.BindPFlag("max_bytes", rootCmd.Flags().Lookup("max-bytes"))
	rootCmd.Flags().BoolVar(&absolutePaths, "absolute", false, "Use absolute paths in output headers")
	viper.BindPFlag("absolute", rootCmd.Flags().Lookup("absolute"))
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Reduce warnings and metadata info")
	viper.BindPFlag("quiet", rootCmd.Flags().Lookup("quiet"))
	rootCmd.Flags().BoolVar(&showGuide, "guide", false, "Show the usage guide")

	// Token counting
	rootCmd.Flags().BoolVar(&countTokens, "tokens", false, "Count tokens of collected files in the summary")
	viper.BindPFlag("tokens", rootCmd.Flags().Lookup("tokens"))
	rootCmd.Flags().StringVar(&tokenModel, "model", "", "Model name for the tokenizer (e.g. gpt-4o)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))

	// Web traversal
	rootCmd.Flags().BoolVar(&traverseLinks, "traverse-links", false, "Traverse links when processing web URLs")
	viper.BindPFlag("traverse_links", rootCmd.Flags().Lookup("traverse-links"))
	rootCmd.Flags().IntVar(&linkDepth, "link-depth", 1, "Maximum depth to traverse links")
	viper.BindPFlag("link_depth", rootCmd.Flags().Lookup("link-depth"))

	viper.SetDefault("depth", -1)
	viper.SetDefault("max_bytes", int64(-1))
	viper.SetDefault("scope", "name")
	viper.SetDefault("link_depth", 1)
}

// initConfig reads in the config file and COLLECT_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "collect"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("COLLECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		log.Warnf("Error reading config file: %v", err)
	}

	syncFlagsFromViper()
}

// syncFlagsFromViper copies config-file and environment values back onto the
// package-level flag variables. BindPFlag feeds flag values into viper, not
// the other way around, so without this pass only command-line flags would
// ever reach the variables the pipeline reads. Flags the user set explicitly
// always win.
func syncFlagsFromViper() {
	flags := rootCmd.Flags()
	sync := func(flagName, key string, assign func()) {
		if !flags.Changed(flagName) && viper.IsSet(key) {
			assign()
		}
	}

	sync("path", "path", func() { basePath = viper.GetString("path") })
	sync("interactive", "interactive", func() { interactiveMode = viper.GetBool("interactive") })
	sync("extension", "extension", func() { extensionList = viper.GetStringSlice("extension") })
	sync("no-extension", "no_extension", func() { noExtensionList = viper.GetStringSlice("no_extension") })
	sync("regex", "regex", func() { regexStr = viper.GetString("regex") })
	sync("regex-inv", "regex_inv", func() { regexInv = viper.GetBool("regex_inv") })
	sync("scope", "scope", func() { scopeStr = viper.GetString("scope") })
	sync("depth", "depth", func() { maxDepth = viper.GetInt("depth") })
	sync("exclude", "exclude", func() { excludePatterns = viper.GetStringSlice("exclude") })
	sync("no-default-excludes", "no_default_excludes", func() { noDefaultExcludes = viper.GetBool("no_default_excludes") })
	sync("include-hidden", "include_hidden", func() { includeHidden = viper.GetBool("include_hidden") })
	sync("follow-symlinks", "follow_symlinks", func() { followSymlinks = viper.GetBool("follow_symlinks") })
	sync("content", "content", func() { readContent = viper.GetBool("content") })
	sync("output", "output", func() { outputFile = viper.GetString("output") })
	sync("clipboard", "clipboard", func() { copyToClipboard = viper.GetBool("clipboard") })
	sync("max-bytes", "max_bytes", func() { maxBytes = viper.GetInt64("max_bytes") })
	sync("absolute", "absolute", func() { absolutePaths = viper.GetBool("absolute") })
	sync("quiet", "quiet", func() { quiet = viper.GetBool("quiet") })
	sync("tokens", "tokens", func() { countTokens = viper.GetBool("tokens") })
	sync("model", "model", func() { tokenModel = viper.GetString("model") })
	sync("traverse-links", "traverse_links", func() { traverseLinks = viper.GetBool("traverse_links") })
	sync("link-depth", "link_depth", func() { linkDepth = viper.GetInt("link_depth") })
}

// setupLogging routes diagnostics to stderr with colors only on a terminal.
// Quiet mode suppresses the channel entirely.
func setupLogging(quiet bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		ForceColors:   isatty.IsTerminal(os.Stderr.Fd()),
	})
	if quiet {
		log.SetOutput(io.Discard)
	}
}

func run() error {
	cfg, err := newAppConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg.Quiet)

	inputs := []string{cfg.BasePath}
	if interactiveMode {
		selected, err := runInteractiveFinder(cfg.IncludeHidden)
		if err != nil {
			return fmt.Errorf("interactive mode: %w", err)
		}
		if selected == nil {
			return nil // selection aborted
		}
		inputs = selected
	}

	var counter Tokenizer
	if cfg.CountTokens {
		counter, err = newTokenizer(cfg.TokenModel)
		if err != nil {
			return err
		}
	}

	w, err := newWriter(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	stats := &RunStats{}
	stopped := false

	for _, input := range inputs {
		if err := processInput(input, cfg, w, counter, stats); err != nil {
			if errors.Is(err, errStop) {
				// Downstream consumer closed its end: clean stop, no
				// diagnostic, remaining inputs abandoned.
				stopped = true
				break
			}
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	stats.Elapsed = time.Since(start)
	if stopped {
		return nil
	}
	if cfg.Clipboard {
		log.Info("Output copied to clipboard.")
	}
	if !cfg.Quiet && cfg.Output == "" && !cfg.Clipboard {
		msg := fmt.Sprintf("Done. Processed %d files in %s", stats.FilesProcessed, stats.Elapsed.Round(time.Millisecond))
		if counter != nil {
			msg = fmt.Sprintf("%s (%d tokens)", msg, stats.TotalTokens)
		}
		log.Info(msg)
	}
	return nil
}

// ignoreSigpipe keeps the runtime from killing the process when a write to
// stdout hits a closed pipe. With the default disposition, EPIPE on fd 1
// raises SIGPIPE and the process dies before the error ever reaches the
// broken-pipe classification; ignoring the signal makes the write return
// EPIPE as a plain error instead, which the orchestrator turns into a clean
// stop.
func ignoreSigpipe() {
	signal.Ignore(syscall.SIGPIPE)
}

func main() {
	ignoreSigpipe()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
