// Command synthctl runs the counterexample-guided synthesis core against a
// .synth problem file and prints whatever hole-filling it converges on.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/holesynth/synthcore/internal/config"
	"github.com/holesynth/synthcore/internal/cost"
	"github.com/holesynth/synthcore/internal/search"
	"github.com/holesynth/synthcore/internal/synth"
	"github.com/holesynth/synthcore/internal/synthcli"
)

func main() {
	configPath := flag.String("config", "synth.yaml", "path to a synth.yaml config file (missing file is not an error)")
	verbose := flag.Bool("verbose", false, "trace every candidate the inner search considers")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: synthctl [-config synth.yaml] [-verbose] <problem.synth>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *configPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("synthctl: %s", err))
		os.Exit(1)
	}
}

func run(problemPath, configPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	src, err := os.ReadFile(problemPath)
	if err != nil {
		return err
	}
	prog, err := synthcli.Parse(problemPath, string(src))
	if err != nil {
		return err
	}

	var cm cost.Model
	if cfg.CostModel == config.CostConstant {
		cm = cost.Constant{}
	} else {
		cm = cost.Runtime{}
	}

	problem, err := synthcli.Build(prog, cm, synthcli.Features{
		Sums:    cfg.BuildSums,
		Maps:    cfg.BuildMaps,
		Filters: cfg.BuildFilters,
		Tuples:  cfg.BuildTuples,
	})
	if err != nil {
		return err
	}

	var tracer search.Tracer = search.NopTracer{}
	if verbose {
		tracer = search.LogTracer{Log: log}
	}

	sess := synth.NewSession()
	found := false
	for mapping := range synth.Run(problem.Spec, sess, log, tracer) {
		found = true
		expanded, err := search.Expand(problem.Spec, mapping)
		if err != nil {
			return err
		}
		fmt.Println(color.GreenString("candidate:"), expanded.String())
		for name, e := range mapping {
			fmt.Printf("  %s = %s\n", name, e.String())
		}
		break
	}
	if !found {
		fmt.Fprintln(os.Stderr, color.YellowString("synthctl: search exhausted without finding a valid candidate"))
		os.Exit(1)
	}
	return nil
}
