package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"deadsym/internal/config"
	dserrors "deadsym/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default deadsym.toml",
	Long:  "Writes deadsym.toml with every default value into dir (default: the current directory).",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing deadsym.toml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return dserrors.New(dserrors.RootMissing, "directory not found: "+dir, err)
	}

	path, err := config.WriteDefault(dir, initForce)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}
