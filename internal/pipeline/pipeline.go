// Package pipeline orchestrates a test scenario generation run: load inputs,
// combine them into one context, generate scenarios, analyze coverage, and
// export the artifacts. A run moves through its states strictly forward.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"scenariogen/internal/agent"
	"scenariogen/internal/source"
)

// State identifies where a run currently is.
type State int

const (
	StateIdle State = iota
	StateLoadingInputs
	StateCombining
	StateGenerating
	StateAnalyzing
	StateExporting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingInputs:
		return "loading_inputs"
	case StateCombining:
		return "combining"
	case StateGenerating:
		return "generating"
	case StateAnalyzing:
		return "analyzing"
	case StateExporting:
		return "exporting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PageLoader retrieves a Confluence page as normalized text.
type PageLoader interface {
	Load(ctx context.Context, loc source.PageLocator) (source.Input, error)
}

// ImageLoader turns UI images into analysis text.
type ImageLoader interface {
	Load(ctx context.Context, paths []string) (source.Input, error)
}

// TableLoader reads an impact-areas spreadsheet into text.
type TableLoader interface {
	Load(ctx context.Context, path, sheet string) (source.Input, error)
}

// ContextBuilder merges loaded inputs into one unified context.
type ContextBuilder interface {
	Combine(ctx context.Context, inputs []source.Input) (string, error)
}

// ScenarioGenerator produces scenarios from a unified context.
type ScenarioGenerator interface {
	Generate(ctx context.Context, unifiedContext string) (agent.ScenarioSet, error)
}

// ScenarioAnalyzer summarizes a generated scenario set.
type ScenarioAnalyzer interface {
	Analyze(ctx context.Context, scenarios agent.ScenarioSet, unifiedContext string) (agent.SummaryReport, error)
}

// ArtifactWriter persists run artifacts. WriteWorkbook must leave nothing at
// the destination on failure.
type ArtifactWriter interface {
	WriteWorkbook(scenarios agent.ScenarioSet, summary agent.SummaryReport, destPath string) (string, error)
	WriteReport(scenarios agent.ScenarioSet, summary agent.SummaryReport, workbookPath string) (string, error)
}

// Request describes one run. At least one source must be set unless
// QuickTest substitutes the built-in sample corpus.
type Request struct {
	Page       source.PageLocator
	ImagePaths []string
	ExcelPath  string
	ExcelSheet string
	OutputPath string
	QuickTest  bool
}

func (r Request) hasSources() bool {
	return !r.Page.IsZero() || len(r.ImagePaths) > 0 || r.ExcelPath != ""
}

// RunResult is what a completed run produced.
type RunResult struct {
	RunID      uuid.UUID
	Scenarios  agent.ScenarioSet
	Summary    agent.SummaryReport
	OutputPath string
	ReportPath string
}

// Pipeline drives a single run from Idle to Done or Failed. It is not
// reusable; build a fresh one per run.
type Pipeline struct {
	pages     PageLoader
	images    ImageLoader
	tables    TableLoader
	combiner  ContextBuilder
	generator ScenarioGenerator
	analyzer  ScenarioAnalyzer
	writer    ArtifactWriter
	logger    *zap.Logger

	mu          sync.Mutex
	state       State
	failedStage State
}

// New assembles a pipeline from its stages.
func New(pages PageLoader, images ImageLoader, tables TableLoader,
	combiner ContextBuilder, generator ScenarioGenerator,
	analyzer ScenarioAnalyzer, writer ArtifactWriter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		pages:     pages,
		images:    images,
		tables:    tables,
		combiner:  combiner,
		generator: generator,
		analyzer:  analyzer,
		writer:    writer,
		logger:    logger.Named("pipeline"),
		state:     StateIdle,
	}
}

// State reports the current run state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// FailedStage reports which stage a failed run died in.
func (p *Pipeline) FailedStage() (State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateFailed {
		return StateIdle, false
	}
	return p.failedStage, true
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// States only advance; Failed is the one terminal exception.
	if s != StateFailed && s <= p.state {
		return
	}
	p.state = s
}

func (p *Pipeline) fail(stage State, err error) error {
	p.mu.Lock()
	p.state = StateFailed
	p.failedStage = stage
	p.mu.Unlock()
	p.logger.Error("run failed", zap.Stringer("stage", stage), zap.Error(err))
	return &StageError{Stage: stage, Err: err}
}

// Run executes the full pipeline for one request.
func (p *Pipeline) Run(ctx context.Context, req Request) (*RunResult, error) {
	runID := uuid.New()
	logger := p.logger.With(zap.String("run_id", runID.String()))
	logger.Info("run started", zap.Bool("quick_test", req.QuickTest))

	p.setState(StateLoadingInputs)
	inputs, err := p.loadInputs(ctx, req, logger)
	if err != nil {
		return nil, p.fail(StateLoadingInputs, err)
	}
	logger.Info("inputs loaded", zap.Int("count", len(inputs)))

	p.setState(StateCombining)
	unified, err := p.combiner.Combine(ctx, inputs)
	if err != nil {
		return nil, p.fail(StateCombining, err)
	}

	p.setState(StateGenerating)
	scenarios, err := p.generator.Generate(ctx, unified)
	if err != nil {
		return nil, p.fail(StateGenerating, err)
	}
	logger.Info("scenarios generated", zap.Int("count", len(scenarios)))

	p.setState(StateAnalyzing)
	summary, err := p.analyzer.Analyze(ctx, scenarios, unified)
	if err != nil {
		return nil, p.fail(StateAnalyzing, err)
	}

	p.setState(StateExporting)
	outPath, err := p.writer.WriteWorkbook(scenarios, summary, req.OutputPath)
	if err != nil {
		return nil, p.fail(StateExporting, err)
	}
	reportPath, err := p.writer.WriteReport(scenarios, summary, outPath)
	if err != nil {
		// The workbook is the deliverable; a missing report is logged, not fatal.
		logger.Warn("analysis report not written", zap.Error(err))
		reportPath = ""
	}

	p.setState(StateDone)
	logger.Info("run complete",
		zap.String("output", outPath),
		zap.Int("scenarios", len(scenarios)))

	return &RunResult{
		RunID:      runID,
		Scenarios:  scenarios,
		Summary:    summary,
		OutputPath: outPath,
		ReportPath: reportPath,
	}, nil
}

// loadInputs fans the requested adapters out concurrently. A *source.LoadError
// from one adapter is absorbed as long as another input survives; any other
// error aborts the fan-out.
func (p *Pipeline) loadInputs(ctx context.Context, req Request, logger *zap.Logger) ([]source.Input, error) {
	if req.QuickTest {
		logger.Info("quick test mode, substituting sample inputs")
		return sampleInputs(), nil
	}
	if !req.hasSources() {
		return nil, ErrInsufficientInput
	}

	var (
		mu     sync.Mutex
		inputs []source.Input
	)
	collect := func(in source.Input) {
		mu.Lock()
		inputs = append(inputs, in)
		mu.Unlock()
	}
	absorb := func(err error) error {
		var loadErr *source.LoadError
		if errors.As(err, &loadErr) {
			logger.Warn("input source unavailable",
				zap.String("source", string(loadErr.Source)),
				zap.Error(loadErr.Err))
			return nil
		}
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if !req.Page.IsZero() {
		g.Go(func() error {
			in, err := p.pages.Load(gctx, req.Page)
			if err != nil {
				return absorb(err)
			}
			collect(in)
			return nil
		})
	}
	if len(req.ImagePaths) > 0 {
		g.Go(func() error {
			in, err := p.images.Load(gctx, req.ImagePaths)
			if err != nil {
				return absorb(err)
			}
			collect(in)
			return nil
		})
	}
	if req.ExcelPath != "" {
		g.Go(func() error {
			in, err := p.tables.Load(gctx, req.ExcelPath, req.ExcelSheet)
			if err != nil {
				return absorb(err)
			}
			collect(in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, ErrInsufficientInput
	}
	return inputs, nil
}
