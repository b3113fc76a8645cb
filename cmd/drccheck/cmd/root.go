// Package cmd is the drccheck CLI's cobra command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "drccheck",
	Short: "drccheck - PCB design rule checking for KiCad board files",
	Long: `drccheck runs a design-rule-check pass over a KiCad board file:
clearances, drill sizes, zone overlaps, keepouts, courtyards, and
connectivity, independent of the KiCad editor.

Examples:
  drccheck run board.kicad_pcb --config design.yaml
  drccheck run board.kicad_pcb --config design.yaml --rules extra.drc --netlist board.netlist.yaml`,
	Version: "0.1.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})
}
