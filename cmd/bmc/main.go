// Command bmc is the CLI entry point wiring parsed flags into a
// bmcoptions.Options, building the configured backend and symex
// collaborator, and driving pkg/explore.Loop.
package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opencorebmc/bmc/pkg/backend/emit"
	"github.com/opencorebmc/bmc/pkg/backend/ginisolver"
	"github.com/opencorebmc/bmc/pkg/bmcoptions"
	"github.com/opencorebmc/bmc/pkg/explore"
	"github.com/opencorebmc/bmc/pkg/solverapi"
	"github.com/opencorebmc/bmc/pkg/ssa"
	"github.com/opencorebmc/bmc/pkg/status"
	"github.com/opencorebmc/bmc/pkg/symex"
	"github.com/opencorebmc/bmc/pkg/symex/memexec"
)

var version = "dev"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type flags struct {
	debug bool

	schedule           bool
	uwModel            bool
	fromCheckpoint     bool
	checkpointFile     string
	checkpointOnCex    bool
	kInduction         bool
	baseCase           bool
	forwardCondition   bool
	inductiveStep      bool
	allRuns            bool
	interactiveIleaves bool
	ltl                bool
	noSlice            bool
	sliceByTrace       string
	programOnly        bool
	programToo         bool
	showVCC            bool
	documentSubgoals   bool
	logic              string
	smt                bool
	btor               bool
	smtlibIleaveNum    string
	outfile            string
	doubleAssignCheck  bool
	showCounterExample bool
	keepUnused         bool
	coreSize           int
	oldGUI             bool
	xmlUI              bool
	cpp                bool
	namespace          string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "bmc",
		Short: "bmc",
		Long:  `A bounded model checker driver for a symbolically-executed target equation.`,
		PreRun: func(cmd *cobra.Command, args []string) {
			if f.debug {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.debug, "debug", false, "enable debug logging")
	fl.BoolVar(&f.schedule, "schedule", false, "run in single-equation scheduler mode")
	fl.BoolVar(&f.uwModel, "uw-model", false, "enable underapproximation-widening refinement")
	fl.BoolVar(&f.fromCheckpoint, "from-checkpoint", false, "restore DFS position before the first run")
	fl.StringVar(&f.checkpointFile, "checkpoint-file", "", "checkpoint file path")
	fl.BoolVar(&f.checkpointOnCex, "checkpoint-on-cex", false, "persist DFS position when a counterexample is found")
	fl.BoolVar(&f.kInduction, "k-induction", false, "enable k-induction staging")
	fl.BoolVar(&f.baseCase, "base-case", false, "k-induction base-case stage")
	fl.BoolVar(&f.forwardCondition, "forward-condition", false, "k-induction forward-condition stage")
	fl.BoolVar(&f.inductiveStep, "inductive-step", false, "k-induction inductive-step stage")
	fl.BoolVar(&f.allRuns, "all-runs", false, "do not stop on first counterexample")
	fl.BoolVar(&f.interactiveIleaves, "interactive-ileaves", false, "run at most one interleaving per invocation")
	fl.BoolVar(&f.ltl, "ltl", false, "enable the tri-state LTL protocol")
	fl.BoolVar(&f.noSlice, "no-slice", false, "use the minimal assertion-preserving slice")
	fl.StringVar(&f.sliceByTrace, "slice-by-trace", "", "restrict the equation to the named trace")
	fl.BoolVar(&f.programOnly, "program-only", false, "emit the sliced program and exit")
	fl.BoolVar(&f.programToo, "program-too", false, "emit the sliced program, then continue")
	fl.BoolVar(&f.showVCC, "show-vcc", false, "emit verification conditions and exit")
	fl.BoolVar(&f.documentSubgoals, "document-subgoals", false, "emit subgoal documentation and exit")
	fl.StringVar(&f.logic, "logic", "int-encoding", "logic selection label: int-encoding, bl-bv, or z3-bv")
	fl.BoolVar(&f.smt, "smt", false, "route the encoded formula to a text file instead of solving")
	fl.BoolVar(&f.btor, "btor", false, "route the encoded formula to a BTOR text file instead of solving")
	fl.StringVar(&f.smtlibIleaveNum, "smtlib-ileave-num", "", "filter --smt/--btor emission to a single interleaving number")
	fl.StringVar(&f.outfile, "outfile", "", "output file for --smt/--btor (stdout if empty)")
	fl.BoolVar(&f.doubleAssignCheck, "double-assign-check", false, "reject duplicate SSA assignments")
	fl.BoolVar(&f.showCounterExample, "show-counter-example", false, "print trace even under inductive-step")
	fl.BoolVar(&f.keepUnused, "keep-unused", false, "retain unreferenced symbols")
	fl.IntVar(&f.coreSize, "core-size", 0, "maximum unsat-core size requested from the backend")
	fl.BoolVar(&f.oldGUI, "old-gui", false, "render the legacy GUI status/trace format")
	fl.BoolVar(&f.xmlUI, "xml-ui", false, "render the XML status/trace format")
	fl.BoolVar(&f.cpp, "cpp", false, "the equation came from a C++ translation unit")
	fl.StringVar(&f.namespace, "namespace", "", "symbol namespace passed to the in-process solver")

	return cmd
}

// parseLogic maps the --logic flag's string value onto bmcoptions.Logic.
func parseLogic(s string) (bmcoptions.Logic, error) {
	switch s {
	case "", "int-encoding":
		return bmcoptions.IntEncoding, nil
	case "bl-bv":
		return bmcoptions.BitLevelBV, nil
	case "z3-bv":
		return bmcoptions.Z3BV, nil
	default:
		return 0, fmt.Errorf("cmd/bmc: unknown --logic value %q (want int-encoding, bl-bv, or z3-bv)", s)
	}
}

func (f *flags) toOptions() (bmcoptions.Options, error) {
	ui := bmcoptions.Plain
	switch {
	case f.xmlUI:
		ui = bmcoptions.XMLUI
	case f.oldGUI:
		ui = bmcoptions.OldGUI
	}
	logic, err := parseLogic(f.logic)
	if err != nil {
		return bmcoptions.Options{}, err
	}
	return bmcoptions.New(
		bmcoptions.WithSchedule(f.schedule),
		bmcoptions.WithUWModel(f.uwModel),
		bmcoptions.WithFromCheckpoint(f.fromCheckpoint),
		bmcoptions.WithCheckpointFile(f.checkpointFile),
		bmcoptions.WithCheckpointOnCex(f.checkpointOnCex),
		bmcoptions.WithKInduction(f.kInduction),
		bmcoptions.WithBaseCase(f.baseCase),
		bmcoptions.WithForwardCondition(f.forwardCondition),
		bmcoptions.WithInductiveStep(f.inductiveStep),
		bmcoptions.WithAllRuns(f.allRuns),
		bmcoptions.WithInteractiveIleaves(f.interactiveIleaves),
		bmcoptions.WithLTL(f.ltl),
		bmcoptions.WithNoSlice(f.noSlice),
		bmcoptions.WithSliceByTrace(f.sliceByTrace),
		bmcoptions.WithProgramOnly(f.programOnly),
		bmcoptions.WithProgramToo(f.programToo),
		bmcoptions.WithShowVCC(f.showVCC),
		bmcoptions.WithDocumentSubgoals(f.documentSubgoals),
		bmcoptions.WithLogic(logic),
		bmcoptions.WithSMT(f.smt),
		bmcoptions.WithBTOR(f.btor),
		bmcoptions.WithSMTLibIleaveNum(f.smtlibIleaveNum),
		bmcoptions.WithOutfile(f.outfile),
		bmcoptions.WithDoubleAssignCheck(f.doubleAssignCheck),
		bmcoptions.WithShowCounterExample(f.showCounterExample),
		bmcoptions.WithKeepUnused(f.keepUnused),
		bmcoptions.WithCoreSize(f.coreSize),
		bmcoptions.WithUI(ui),
		bmcoptions.WithCPP(f.cpp),
		bmcoptions.WithNamespace(f.namespace),
		bmcoptions.WithToolVersion(version),
	)
}

func run(ctx context.Context, f *flags) error {
	opts, err := f.toOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logger := log.StandardLogger()
	sink := status.New(os.Stdout, logger, opts.UI)

	newBackend, closeBackend, err := buildBackendFactory(opts, logger)
	if err != nil {
		sink.Error(err.Error())
		return err
	}
	defer closeBackend()

	executor := demoExecutor()

	loop := &explore.Loop{
		Executor:   executor,
		NewBackend: newBackend,
		Options:    opts,
		Sink:       sink,
		Out:        os.Stdout,
		Log:        logger,
		Flag:       &explore.CheckpointFlag{},
		PID:        os.Getpid(),
	}
	stopWatch := explore.WatchCheckpointSignal(loop.Flag)
	defer stopWatch()

	failing, err := loop.Run(ctx)
	if err != nil {
		return err
	}
	if failing {
		os.Exit(1)
	}
	return nil
}

// buildBackendFactory chooses the in-process or text-emitter backend, and
// returns a cleanup func releasing any owned file handle.
func buildBackendFactory(opts bmcoptions.Options, logger log.FieldLogger) (func() solverapi.Backend, func(), error) {
	cfg := ginisolver.Config{
		CPP:             opts.CPP,
		IntegerEncoding: opts.Logic == bmcoptions.IntEncoding,
		Namespace:       opts.Namespace,
		CoreSize:        opts.CoreSize,
	}

	if !opts.SMT && !opts.BTOR {
		return func() solverapi.Backend { return ginisolver.New(cfg) }, func() {}, nil
	}

	out := os.Stdout
	var closer *os.File
	if opts.Outfile != "" {
		file, err := os.Create(opts.Outfile)
		if err != nil {
			return nil, nil, fmt.Errorf("cmd/bmc: create outfile: %w", err)
		}
		out = file
		closer = file
	}

	emitCfg := emit.Config{ToolName: "bmc", ToolVersion: opts.ToolVersion}
	factory := func() solverapi.Backend {
		inner := ginisolver.New(cfg)
		return emit.New(emitCfg, inner, out, closer)
	}
	cleanup := func() {
		if closer != nil {
			_ = closer.Close()
		}
	}
	return factory, cleanup, nil
}

// demoExecutor builds a tiny, self-contained in-memory symex.Executor so
// `bmc` has something real to drive out of the box. Real deployments supply
// their own symex.Executor from the front end's symbolic executor.
func demoExecutor() symex.Executor {
	loc := ssa.SourceLocation{File: "main.c", Line: 4, Function: "main"}
	steps := []*ssa.Step{
		ssa.NewStep(ssa.Assignment, ssa.Atom("x_gt_zero"), "", loc),
		ssa.NewStep(ssa.Assert, ssa.Atom("x_gt_zero"), "bound check", loc),
	}
	steps[0].LHS = "x_gt_zero"
	eq := ssa.NewEquation(steps)
	result := ssa.SymexResult{Equation: eq, TotalClaims: 1, RemainingClaims: 1}
	return &memexec.Executor{
		Schedule:      result,
		Interleavings: []ssa.SymexResult{result},
	}
}
