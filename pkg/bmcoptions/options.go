// Package bmcoptions is the read-only typed view over verification options
// that every component receives explicitly, rather than reaching for
// through an ambient global. Construction follows the functional option
// idiom: New applies a sequence of Option values to build an immutable
// Options.
package bmcoptions

import "fmt"

// UILanguage selects the rendering mode of the status/UI sink.
type UILanguage uint8

const (
	Plain UILanguage = iota
	OldGUI
	XMLUI
)

// Logic selects the messaging label for the chosen encoding; it never
// changes solver behavior by itself.
type Logic uint8

const (
	IntEncoding Logic = iota
	BitLevelBV
	Z3BV
)

// Options is the immutable view passed to every component. Build one with
// New and the With* functions below; there is no mutator once built.
type Options struct {
	Schedule         bool
	UWModel          bool
	FromCheckpoint   bool
	CheckpointFile   string
	CheckpointOnCex  bool
	KInduction       bool
	BaseCase         bool
	ForwardCondition bool
	InductiveStep    bool
	AllRuns          bool
	InteractiveIleaves bool
	LTL              bool
	NoSlice          bool
	SliceByTrace     string
	ProgramOnly      bool
	ProgramToo       bool
	ShowVCC          bool
	DocumentSubgoals bool
	Logic            Logic
	SMT              bool
	BTOR             bool
	SMTLibIleaveNum  string
	Outfile          string
	DoubleAssignCheck bool
	ShowCounterExample bool
	KeepUnused       bool
	CoreSize         int
	UI               UILanguage
	CPP              bool
	Namespace        string
	ToolVersion      string
}

// Option mutates an in-construction Options; see New.
type Option func(*Options) error

// New builds an Options from zero or more Option values, applied in order.
func New(opts ...Option) (Options, error) {
	var o Options
	o.ToolVersion = "dev"
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return Options{}, err
		}
	}
	if o.FromCheckpoint && o.CheckpointFile == "" {
		return Options{}, fmt.Errorf("bmcoptions: from-checkpoint requires a non-empty checkpoint-file")
	}
	return o, nil
}

func WithSchedule(v bool) Option           { return func(o *Options) error { o.Schedule = v; return nil } }
func WithUWModel(v bool) Option            { return func(o *Options) error { o.UWModel = v; return nil } }
func WithFromCheckpoint(v bool) Option     { return func(o *Options) error { o.FromCheckpoint = v; return nil } }
func WithCheckpointFile(v string) Option   { return func(o *Options) error { o.CheckpointFile = v; return nil } }
func WithCheckpointOnCex(v bool) Option    { return func(o *Options) error { o.CheckpointOnCex = v; return nil } }
func WithKInduction(v bool) Option         { return func(o *Options) error { o.KInduction = v; return nil } }
func WithBaseCase(v bool) Option           { return func(o *Options) error { o.BaseCase = v; return nil } }
func WithForwardCondition(v bool) Option   { return func(o *Options) error { o.ForwardCondition = v; return nil } }
func WithInductiveStep(v bool) Option      { return func(o *Options) error { o.InductiveStep = v; return nil } }
func WithAllRuns(v bool) Option            { return func(o *Options) error { o.AllRuns = v; return nil } }
func WithInteractiveIleaves(v bool) Option { return func(o *Options) error { o.InteractiveIleaves = v; return nil } }
func WithLTL(v bool) Option                { return func(o *Options) error { o.LTL = v; return nil } }
func WithNoSlice(v bool) Option            { return func(o *Options) error { o.NoSlice = v; return nil } }
func WithSliceByTrace(v string) Option     { return func(o *Options) error { o.SliceByTrace = v; return nil } }
func WithProgramOnly(v bool) Option        { return func(o *Options) error { o.ProgramOnly = v; return nil } }
func WithProgramToo(v bool) Option         { return func(o *Options) error { o.ProgramToo = v; return nil } }
func WithShowVCC(v bool) Option            { return func(o *Options) error { o.ShowVCC = v; return nil } }
func WithDocumentSubgoals(v bool) Option   { return func(o *Options) error { o.DocumentSubgoals = v; return nil } }
func WithLogic(v Logic) Option             { return func(o *Options) error { o.Logic = v; return nil } }
func WithSMT(v bool) Option                { return func(o *Options) error { o.SMT = v; return nil } }
func WithBTOR(v bool) Option               { return func(o *Options) error { o.BTOR = v; return nil } }
func WithSMTLibIleaveNum(v string) Option  { return func(o *Options) error { o.SMTLibIleaveNum = v; return nil } }
func WithOutfile(v string) Option          { return func(o *Options) error { o.Outfile = v; return nil } }
func WithDoubleAssignCheck(v bool) Option  { return func(o *Options) error { o.DoubleAssignCheck = v; return nil } }
func WithShowCounterExample(v bool) Option { return func(o *Options) error { o.ShowCounterExample = v; return nil } }
func WithKeepUnused(v bool) Option         { return func(o *Options) error { o.KeepUnused = v; return nil } }
func WithCoreSize(v int) Option            { return func(o *Options) error { o.CoreSize = v; return nil } }
func WithUI(v UILanguage) Option           { return func(o *Options) error { o.UI = v; return nil } }
func WithCPP(v bool) Option                { return func(o *Options) error { o.CPP = v; return nil } }
func WithNamespace(v string) Option        { return func(o *Options) error { o.Namespace = v; return nil } }
func WithToolVersion(v string) Option      { return func(o *Options) error { o.ToolVersion = v; return nil } }
