package cmd

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/config"
	"github.com/OpenTraceLab/pcbdrc/pkg/drc"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/netlist"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	rulesPath    string
	netlistPath  string
	skipZones    bool
	failOnMarker bool
)

var runCmd = &cobra.Command{
	Use:   "run <board_file>",
	Short: "Run the design rule checker against a board file",
	Long: `Parses a KiCad board file, loads design settings and an optional user
rule file, and runs every DRC tester against it, printing one line per
reported marker.`,
	Args: cobra.ExactArgs(1),
	RunE: runDRC,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&configPath, "config", "", "design-settings YAML file (required)")
	runCmd.Flags().StringVar(&rulesPath, "rules", "", "user rule file (drc-rules s-expression grammar)")
	runCmd.Flags().StringVar(&netlistPath, "netlist", "", "netlist YAML file; enables the footprint-vs-netlist check")
	runCmd.Flags().BoolVar(&skipZones, "skip-zones", false, "skip the zone-to-zone tester")
	runCmd.Flags().BoolVar(&failOnMarker, "fail-on-marker", true, "exit with a non-zero status if any marker is reported")
	runCmd.MarkFlagRequired("config")
}

func runDRC(cmd *cobra.Command, args []string) error {
	log := logrus.WithField("component", "drccheck")
	boardPath := args[0]

	b, err := board.ParseFile(boardPath)
	if err != nil {
		return fmt.Errorf("parse board: %w", err)
	}
	log.WithField("board", boardPath).Info("board loaded")

	settings, err := config.Load(configPath, b)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var selectors []rules.Selector
	var parsedRules []rules.Rule
	if rulesPath != "" {
		var rulesErr error
		selectors, parsedRules, rulesErr = rules.LoadRules(rulesPath)
		if rulesErr != nil {
			log.WithField("rules", rulesPath).WithError(rulesErr).Warn("rule file failed to parse; continuing with an empty rule set")
			selectors, parsedRules = nil, nil
		}
	}
	resolver := rules.NewResolver(settings, selectors, parsedRules)

	opts := drc.Options{SkipZones: skipZones}
	if netlistPath != "" {
		nl, err := netlist.Load(netlistPath)
		if err != nil {
			return fmt.Errorf("load netlist: %w", err)
		}
		opts.CheckFootprintNetlist = true
		opts.Netlist = nl
	}

	reporter := marker.NewReporter(settings, func(m marker.Marker) {
		fmt.Printf("%s: %s\n", m.Kind, m.Message)
	})

	result := drc.Run(b, settings, resolver, opts, reporter)
	if result.Aborted {
		return fmt.Errorf("run aborted: %s", result.AbortKind)
	}

	total := len(reporter.Markers())
	fmt.Printf("\n%d marker(s) reported\n", total)
	if failOnMarker && total > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d design rule violation(s) found", total)
	}
	return nil
}
