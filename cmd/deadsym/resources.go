package main

import (
	"github.com/spf13/cobra"

	"deadsym/internal/config"
	"deadsym/internal/deadcode"
)

var (
	resCodeExts    string
	resExts        string
	resIgnorePaths string
	resExclude     []string
	resNoGrouping  bool
	resExport      exportFlags
)

var resourcesCmd = &cobra.Command{
	Use:   "resources <project-root> <resource-root>",
	Short: "Find resource files whose names appear in no code file",
	Long: `Collects every resource file under <resource-root>, then searches the code
files under <project-root> for each base name. Scale and device suffixes
(@2x, @3x, ~iphone, ~ipad) are stripped from image names, and numbered
families (frame_1, frame_2) are matched through their common prefix.

Examples:
  deadsym resources ./MyApp ./MyApp/Assets
  deadsym resources ./MyApp ./MyApp/Assets --res-exts png,svga --code-exts m,mm
  deadsym resources ./MyApp ./MyApp/Assets --ignore-paths "./MyApp/Pods ./MyApp/Vendor"
  deadsym resources ./MyApp ./MyApp/Assets --format json --db runs.db`,
	Args: cobra.ExactArgs(2),
	RunE: runResources,
}

func init() {
	f := resourcesCmd.Flags()
	f.StringVar(&resCodeExts, "code-exts", "", "Comma-separated code file extensions (default .m)")
	f.StringVar(&resExts, "res-exts", "", "Comma-separated resource extensions (default .png,.svga,.mp3,.mp4)")
	f.StringVar(&resIgnorePaths, "ignore-paths", "", "Space-separated path prefixes to skip")
	f.StringSliceVar(&resExclude, "exclude", nil, "Glob patterns of resource names or paths to skip (can be repeated)")
	f.BoolVar(&resNoGrouping, "no-grouping", false, "Match numbered resources individually")
	addExportFlags(resourcesCmd, &resExport)
	rootCmd.AddCommand(resourcesCmd)
}

func runResources(cmd *cobra.Command, args []string) error {
	projectRoot, resourceRoot := args[0], args[1]

	cfg, err := loadConfig(projectRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("code-exts") {
		cfg.Code.Extensions = config.NormalizeExtensions(config.SplitList(resCodeExts, ",;"))
	}
	if cmd.Flags().Changed("res-exts") {
		cfg.Resources.Extensions = config.NormalizeExtensions(config.SplitList(resExts, ",;"))
	}
	if cmd.Flags().Changed("ignore-paths") {
		cfg.Code.IgnorePaths = config.SplitList(resIgnorePaths, " ")
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Resources.ExcludePatterns = resExclude
	}
	if resNoGrouping {
		cfg.Resources.Grouping = false
	}
	resExport.applyEvidence(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := deadcode.ResourceOptionsFromConfig(cfg, projectRoot, resourceRoot)
	opts.Scan.Progress = progressWriter(cmd, &resExport)

	ctx := cmd.Context()
	res, err := deadcode.NewAnalyzer(logger).AnalyzeResources(ctx, opts)
	if err != nil {
		return err
	}
	return finish(ctx, cmd, cfg, &resExport, logger, res, false)
}
