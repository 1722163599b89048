package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/modelkit/internal/config"
	"github.com/san-kum/modelkit/internal/metrics"
	"github.com/san-kum/modelkit/internal/model"
	"github.com/san-kum/modelkit/internal/orchestrator"
	"github.com/san-kum/modelkit/internal/report"
	"github.com/san-kum/modelkit/internal/tui"
)

var (
	dataFile   string
	scriptFile string
	scriptText string
	seed       int64
	steps      int
	agents     []float64
	configFile string
	preset     string
	pretty     bool
	verbose    bool
	showStats  bool
	series     string
	width      int
	height     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "modelkit",
		Short:        "model, dataset and script runner",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(newOrchestrator(cfg), ".")
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log operations to stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a model and print its results table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runModel,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&scriptFile, "script", "", "script file evaluated after the run")
	runCmd.Flags().StringVarP(&scriptText, "exec", "e", "", "ad hoc script evaluated after the run")
	runCmd.Flags().BoolVar(&pretty, "pretty", false, "render a bordered table instead of TSV")
	runCmd.Flags().BoolVar(&showStats, "stats", false, "print agent population metrics")

	plotCmd := &cobra.Command{
		Use:   "plot [model]",
		Short: "plot one result series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotSeries,
	}
	addRunFlags(plotCmd)
	plotCmd.Flags().StringVar(&series, "series", "", "row label to plot (default: last row)")
	plotCmd.Flags().IntVar(&width, "width", 60, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list model kinds",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range orchestrator.New().Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list agent population presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAGENTS\tSTEPS\tSEED")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", name, len(p.InitialStates), p.Steps, p.Seed)
			}
			return w.Flush()
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [dir]",
		Short: "interactive model and dataset picker",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return tui.Run(newOrchestrator(cfg), dir)
		},
	}
	addAgentFlags(tuiCmd)

	rootCmd.AddCommand(runCmd, plotCmd, modelsCmd, presetsCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "dataset file")
	addAgentFlags(cmd)
}

func addAgentFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", model.DefaultAgentSeed, "random seed (agent model)")
	cmd.Flags().IntVar(&steps, "steps", model.DefaultAgentSteps, "simulation steps (agent model)")
	cmd.Flags().Float64SliceVar(&agents, "agents", []float64{1, 2, 3}, "initial agent states")
	cmd.Flags().StringVar(&preset, "preset", "", "agent population preset")
}

// loadConfig merges config file, preset and flags, with flags taking priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Agents = *p
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Agents.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Agents.Steps = steps
	}
	if flags.Changed("agents") {
		cfg.Agents.InitialStates = agents
	}
	if flags.Changed("data") {
		cfg.Data = dataFile
	}
	if flags.Changed("script") {
		cfg.Script = scriptFile
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newOrchestrator(cfg *config.Config, observers ...model.StepObserver) *orchestrator.Orchestrator {
	var out io.Writer = io.Discard
	if cfg.Verbose {
		out = os.Stderr
	}
	agentCfg := cfg.AgentModelConfig()
	agentCfg.Observers = observers
	return orchestrator.New(
		orchestrator.WithAgentConfig(agentCfg),
		orchestrator.WithLogger(log.New(out, "modelkit ", log.LstdFlags)),
	)
}

// prepare selects, binds and runs the model named by args or the config.
func prepare(cmd *cobra.Command, args []string, observers ...model.StepObserver) (*orchestrator.Orchestrator, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if len(args) > 0 {
		cfg.Model = args[0]
	}

	orch := newOrchestrator(cfg, observers...)
	if err := orch.Select(cfg.Model); err != nil {
		return nil, nil, err
	}

	if orch.UsesDataset() {
		if cfg.Data == "" {
			return nil, nil, fmt.Errorf("%s needs a dataset (--data)", orch.Kind())
		}
		if err := orch.Bind(cfg.Data); err != nil {
			return nil, nil, err
		}
	}

	if err := orch.Run(); err != nil {
		return nil, nil, err
	}
	return orch, cfg, nil
}

func runModel(cmd *cobra.Command, args []string) error {
	rec := metrics.NewRecorder(metrics.Defaults()...)
	orch, cfg, err := prepare(cmd, args, rec)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Script != "" {
		if err := orch.RunScriptFile(ctx, cfg.Script); err != nil {
			return err
		}
	}
	if scriptText != "" {
		if err := orch.RunScript(ctx, scriptText); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if pretty {
		fmt.Fprintln(out, report.Pretty(orch.Table()))
	} else {
		fmt.Fprint(out, orch.ResultsTable())
	}

	if showStats && orch.Kind() == model.KindAgentBased {
		values := rec.Values()
		names := rec.Names()
		sort.Strings(names)
		fmt.Fprintln(out, "\nmetrics:")
		for _, name := range names {
			fmt.Fprintf(out, "  %s: %.6f\n", name, values[name])
		}
	}
	return nil
}

func plotSeries(cmd *cobra.Command, args []string) error {
	orch, _, err := prepare(cmd, args)
	if err != nil {
		return err
	}

	tbl := orch.Table()
	if len(tbl.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	row := tbl.Rows[len(tbl.Rows)-1]
	if series != "" {
		var ok bool
		if row, ok = tbl.Row(series); !ok {
			labels := make([]string, len(tbl.Rows))
			for i, r := range tbl.Rows {
				labels[i] = r.Label
			}
			return fmt.Errorf("unknown series %q (available: %s)", series, strings.Join(labels, ", "))
		}
	}

	graph, err := report.Plot(row, width, height)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), graph)
	return nil
}
