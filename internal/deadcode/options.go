package deadcode

import (
	"io"
	"time"

	"deadsym/internal/config"
	"deadsym/internal/evidence"
)

// ScanOptions tunes the reference scanner.
type ScanOptions struct {
	Workers          int
	ProgressInterval time.Duration
	// Progress receives status lines; nil disables them.
	Progress       io.Writer
	SkipDuplicates bool
}

// ResourceOptions configures AnalyzeResources.
type ResourceOptions struct {
	// ProjectRoot is searched for references.
	ProjectRoot string
	// ResourceRoot is where candidate resource files are collected.
	ResourceRoot string

	CodeExtensions     []string
	ResourceExtensions []string
	IgnorePaths        []string
	ExcludePatterns    []string
	Grouping           bool
	Scan               ScanOptions

	// KeepFile and SCIPIndex are optional extra evidence.
	KeepFile  string
	SCIPIndex string
}

// ClassOptions configures AnalyzeClasses.
type ClassOptions struct {
	ProjectRoot string

	// Extensions are the files searched for declarations and references.
	Extensions          []string
	DeclarationPatterns []string
	IgnorePrefixes      []string
	Whitelist           string
	IgnorePaths         []string
	ExcludePatterns     []string
	Swift               bool
	Grouping            bool

	// Binary enables binary evidence; LinkMap adds superclass resolution.
	Binary    string
	LinkMap   string
	Inspector evidence.Inspector

	KeepFile  string
	SCIPIndex string
}

// ResourceOptionsFromConfig fills ResourceOptions from a loaded configuration.
func ResourceOptionsFromConfig(cfg *config.Config, projectRoot, resourceRoot string) ResourceOptions {
	return ResourceOptions{
		ProjectRoot:        projectRoot,
		ResourceRoot:       resourceRoot,
		CodeExtensions:     cfg.Code.Extensions,
		ResourceExtensions: cfg.Resources.Extensions,
		IgnorePaths:        cfg.Code.IgnorePaths,
		ExcludePatterns:    cfg.Resources.ExcludePatterns,
		Grouping:           cfg.Resources.Grouping,
		Scan:               scanOptionsFromConfig(cfg),
		KeepFile:           cfg.Evidence.KeepFile,
		SCIPIndex:          cfg.Evidence.ScipIndex,
	}
}

// ClassOptionsFromConfig fills ClassOptions from a loaded configuration.
func ClassOptionsFromConfig(cfg *config.Config, projectRoot string) ClassOptions {
	return ClassOptions{
		ProjectRoot:         projectRoot,
		Extensions:          cfg.Classes.Extensions,
		DeclarationPatterns: cfg.Classes.DeclarationPatterns,
		IgnorePrefixes:      cfg.Classes.IgnorePrefixes,
		Whitelist:           cfg.Classes.Whitelist,
		IgnorePaths:         cfg.Code.IgnorePaths,
		ExcludePatterns:     cfg.Classes.ExcludePatterns,
		Swift:               cfg.Classes.Swift,
		Grouping:            cfg.Classes.Grouping,
		KeepFile:            cfg.Evidence.KeepFile,
		SCIPIndex:           cfg.Evidence.ScipIndex,
	}
}

func scanOptionsFromConfig(cfg *config.Config) ScanOptions {
	return ScanOptions{
		Workers:          cfg.Scan.Workers,
		ProgressInterval: time.Duration(cfg.Scan.ProgressIntervalMs) * time.Millisecond,
		SkipDuplicates:   cfg.Scan.SkipDuplicates,
	}
}
