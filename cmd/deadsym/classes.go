package main

import (
	"github.com/spf13/cobra"

	"deadsym/internal/config"
	"deadsym/internal/deadcode"
)

var (
	clsExts         string
	clsIgnorePrefix string
	clsWhitelist    string
	clsIgnorePaths  string
	clsExclude      []string
	clsBinary       string
	clsLinkMap      string
	clsNoSwift      bool
	clsGrouping     bool
	clsByFile       bool
	clsExport       exportFlags
)

var classesCmd = &cobra.Command{
	Use:   "classes <project-root>",
	Short: "Find declared classes that nothing references",
	Long: `Collects the classes declared under <project-root> (@interface and
@implementation, plus Swift class declarations when built with cgo), then
looks for references to each one in every other file.

With --binary the compiled app's class tables are consulted too: a class
the binary references, or one reached only as a superclass (resolved
through --linkmap), counts as used.

Examples:
  deadsym classes ./MyApp
  deadsym classes ./MyApp -w XY --ignore-prefix "NS;UI;CA"
  deadsym classes ./MyApp --binary build/MyApp.app/MyApp --linkmap build/MyApp-LinkMap.txt
  deadsym classes ./MyApp --by-file`,
	Args: cobra.ExactArgs(1),
	RunE: runClasses,
}

func init() {
	f := classesCmd.Flags()
	f.StringVar(&clsExts, "exts", "", "Comma-separated source extensions (default .h,.m)")
	f.StringVar(&clsIgnorePrefix, "ignore-prefix", "", "Comma- or semicolon-separated class prefixes to ignore (default NS,UI)")
	f.StringVarP(&clsWhitelist, "whitelist", "w", "", "Only consider classes starting with this prefix")
	f.StringVar(&clsIgnorePaths, "ignore-paths", "", "Space-separated path prefixes to skip")
	f.StringSliceVar(&clsExclude, "exclude", nil, "Glob patterns of class names or paths to skip (can be repeated)")
	f.StringVar(&clsBinary, "binary", "", "Compiled Mach-O binary to read class tables from (requires otool)")
	f.StringVar(&clsLinkMap, "linkmap", "", "Link map used to resolve superclass addresses (.txt, .gz or .zst)")
	f.BoolVar(&clsNoSwift, "no-swift", false, "Skip Swift class declarations")
	f.BoolVar(&clsGrouping, "grouping", false, "Group numbered class names (Cell_1, Cell_2)")
	f.BoolVar(&clsByFile, "by-file", false, "List referenced and unreferenced .m files")
	addExportFlags(classesCmd, &clsExport)
	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, args []string) error {
	projectRoot := args[0]

	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("exts") {
		cfg.Classes.Extensions = config.NormalizeExtensions(config.SplitList(clsExts, ",;"))
	}
	if cmd.Flags().Changed("ignore-prefix") {
		cfg.Classes.IgnorePrefixes = config.SplitList(clsIgnorePrefix, ",;")
	}
	if cmd.Flags().Changed("whitelist") {
		cfg.Classes.Whitelist = clsWhitelist
	}
	if cmd.Flags().Changed("ignore-paths") {
		cfg.Code.IgnorePaths = config.SplitList(clsIgnorePaths, " ")
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Classes.ExcludePatterns = clsExclude
	}
	if clsNoSwift {
		cfg.Classes.Swift = false
	}
	if cmd.Flags().Changed("grouping") {
		cfg.Classes.Grouping = clsGrouping
	}
	clsExport.applyEvidence(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := deadcode.ClassOptionsFromConfig(cfg, projectRoot)
	opts.Binary = clsBinary
	opts.LinkMap = clsLinkMap

	ctx := cmd.Context()
	res, err := deadcode.NewAnalyzer(logger).AnalyzeClasses(ctx, opts)
	if err != nil {
		return err
	}
	return finish(ctx, cmd, cfg, &clsExport, logger, res, clsByFile)
}
