package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deadsym/internal/config"
	"deadsym/internal/report"
	"deadsym/internal/slogutil"
	"deadsym/internal/version"
)

var (
	verbosity  int
	quiet      bool
	configPath string
	logFile    string
	formatFlag string
	colorFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "deadsym",
	Short: "deadsym - find unused resources and classes in iOS projects",
	Long: `deadsym reports resource files and Objective-C/Swift classes that nothing
in an iOS project appears to reference.

Resources are matched by base name against the text of every code file;
numbered families such as frame_1.png, frame_2.png are matched through
their common prefix. Classes are matched with reference patterns, and
optionally against the class tables of a compiled binary.

Every result is a heuristic: names built at runtime are invisible, so
confirm each candidate before deleting it.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("deadsym version {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress log output")
	pf.StringVar(&configPath, "config", "", "Configuration file (default: <project-root>/deadsym.toml)")
	pf.StringVar(&logFile, "log-file", "", "Also append log output to this file")
	pf.StringVar(&formatFlag, "format", "", "Output format: human, json, yaml or sarif (default from config)")
	pf.StringVar(&colorFlag, "color", "", "Colored headings: auto, always or never (default from config)")
}

// loadConfig reads --config when given, otherwise deadsym.toml in projectRoot.
func loadConfig(projectRoot string) (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfigFile(configPath)
	}
	return config.LoadConfig(projectRoot)
}

// newLogger writes to stderr, and to --log-file when set. The returned
// closer releases the log file.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, func() error, error) {
	return slogutil.Setup{
		Stderr:     cmd.ErrOrStderr(),
		Verbosity:  verbosity,
		Quiet:      quiet,
		Configured: cfg.Logging.Level,
		File:       logFile,
	}.Open()
}

// reportOptions resolves --format and --color against the configuration.
func reportOptions(out io.Writer, cfg *config.Config, byFile bool) (report.Options, error) {
	name := formatFlag
	if name == "" {
		name = cfg.Output.Format
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return report.Options{}, err
	}

	mode := colorFlag
	if mode == "" {
		mode = cfg.Output.Color
	}
	var useColor bool
	switch mode {
	case "always":
		useColor = true
	case "never":
		useColor = false
	default:
		useColor = out == io.Writer(os.Stdout) && !color.NoColor
	}

	return report.Options{Format: format, Color: useColor, ByFile: byFile}, nil
}
