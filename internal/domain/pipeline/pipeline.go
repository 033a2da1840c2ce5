// Package pipeline orchestrates one statement import end to end: validate,
// sniff, detect the format, parse, map, deduplicate. Stages run strictly in
// sequence and each call carries its own state, so independent imports can
// run concurrently against their own fingerprint snapshots.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/statement-import/internal/domain/catalog"
	"github.com/FACorreiaa/statement-import/internal/domain/dedup"
	"github.com/FACorreiaa/statement-import/internal/domain/detector"
	"github.com/FACorreiaa/statement-import/internal/domain/mapper"
	"github.com/FACorreiaa/statement-import/internal/domain/parser"
	"github.com/FACorreiaa/statement-import/internal/domain/sniffer"
	"github.com/FACorreiaa/statement-import/internal/domain/transaction"
	"github.com/FACorreiaa/statement-import/pkg/config"
)

// Stage labels for progress events and logs.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageValidating      Stage = "validating"
	StageSniffing        Stage = "sniffing"
	StageDetectingFormat Stage = "detecting-format"
	StageParsing         Stage = "parsing"
	StageMapping         Stage = "mapping"
	StageDeduplicating   Stage = "deduplicating"
	StageCompleted       Stage = "completed"
	StageFailed          Stage = "failed"
)

// Fatal conditions. Everything else lands in the summary.
var (
	ErrEmptyInput      = errors.New("input is empty")
	ErrUnreadableInput = errors.New("input could not be decoded")
	ErrFileTooLarge    = errors.New("input exceeds the size ceiling")
	ErrCancelled       = errors.New("import cancelled")
)

// ProgressFunc receives a stage label and a completion percentage at every
// stage transition and at every chunk boundary.
type ProgressFunc func(stage Stage, percent float64)

// Input is one exported file. The filename hint is a weak detection signal
// only; it never affects parsing.
type Input struct {
	Content      []byte
	FilenameHint string
}

// RowIssue is one rejected row, kept in the summary rather than raised.
type RowIssue struct {
	Line   int
	Reason string
}

// ReviewItem is a probable duplicate surfaced for manual review. It is never
// resolved automatically.
type ReviewItem struct {
	Tx         *transaction.Canonical
	Similarity float64
}

// Summary aggregates everything non-fatal that happened during one call.
type Summary struct {
	TotalRows          int
	AcceptedCount      int
	ExactDuplicates    int
	ProbableDuplicates []ReviewItem
	RejectedRows       []RowIssue
	Encoding           string
	Delimiter          rune
	EncodingAmbiguous  bool
	// LowConfidenceDetection is set when sniffing found no consistent
	// delimiter or when no catalog format cleared the threshold.
	LowConfidenceDetection bool
}

// Result is the sole contract handed to the persistence collaborator.
type Result struct {
	ImportID       string
	Accepted       []*transaction.Canonical
	Summary        Summary
	DetectedFormat string
	Confidence     float64
}

// Pipeline is safe for concurrent Run calls; it holds configuration only.
type Pipeline struct {
	cfg      *config.Config
	registry *catalog.Registry
	logger   *slog.Logger
	metrics  *Metrics
}

// New builds a pipeline. metrics may be nil.
func New(cfg *config.Config, registry *catalog.Registry, logger *slog.Logger, metrics *Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, registry: registry, logger: logger, metrics: metrics}
}

// run is the per-call context: one import's state never leaks into another.
type run struct {
	id       string
	stage    Stage
	progress ProgressFunc
	logger   *slog.Logger
}

func (r *run) transition(stage Stage, percent float64) {
	r.stage = stage
	r.logger.Debug("stage transition", "stage", string(stage), "percent", percent)
	if r.progress != nil {
		r.progress(stage, percent)
	}
}

func (r *run) tick(percent float64) {
	if r.progress != nil {
		r.progress(r.stage, percent)
	}
}

// Run executes the import. src is a read-only snapshot of existing
// fingerprints and must stay untouched for the duration of the call.
// Cancellation is honored at chunk boundaries; a cancelled call surfaces
// nothing (all-or-nothing). Row-level issues never abort the call: only
// unreadable or oversized input, an error rate above the ceiling, or
// cancellation reach the Failed state.
func (p *Pipeline) Run(ctx context.Context, in Input, src dedup.FingerprintSource, progress ProgressFunc) (*Result, error) {
	started := time.Now()
	r := &run{
		id:       uuid.NewString(),
		stage:    StageIdle,
		progress: progress,
	}
	r.logger = p.logger.With("import_id", r.id)
	p.metrics.started()

	result, err := p.execute(ctx, r, in, src)
	if err != nil {
		r.transition(StageFailed, 100)
		status := "failed"
		if errors.Is(err, ErrCancelled) {
			status = "cancelled"
		}
		p.metrics.finished(status, float64(time.Since(started).Milliseconds()))
		r.logger.Error("import failed", "error", err, "status", status)
		return nil, err
	}

	r.transition(StageCompleted, 100)
	p.metrics.finished("completed", float64(time.Since(started).Milliseconds()))
	r.logger.Info("import completed",
		"format", result.DetectedFormat,
		"confidence", result.Confidence,
		"accepted", result.Summary.AcceptedCount,
		"exact_duplicates", result.Summary.ExactDuplicates,
		"probable_duplicates", len(result.Summary.ProbableDuplicates),
		"rejected", len(result.Summary.RejectedRows),
	)
	return result, nil
}

func (p *Pipeline) execute(ctx context.Context, r *run, in Input, src dedup.FingerprintSource) (*Result, error) {
	result := &Result{ImportID: r.id}

	// Validating
	r.transition(StageValidating, 0)
	if len(in.Content) == 0 {
		return nil, ErrEmptyInput
	}
	if max := p.cfg.Import.MaxFileSizeBytes; max > 0 && int64(len(in.Content)) > max {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(in.Content))
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	// Sniffing
	r.transition(StageSniffing, 10)
	decoded, sniffed, err := sniffer.Sniff(in.Content)
	if err != nil {
		if errors.Is(err, sniffer.ErrEmptyFile) {
			return nil, fmt.Errorf("%w: %s", ErrEmptyInput, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnreadableInput, err)
	}
	result.Summary.Encoding = sniffed.Encoding
	result.Summary.Delimiter = sniffed.Delimiter
	result.Summary.EncodingAmbiguous = sniffed.EncodingAmbiguous

	// DetectingFormat
	r.transition(StageDetectingFormat, 20)
	header, sampleRows := p.sampleFor(decoded, sniffed)
	match := detector.Detect(p.registry, detector.Sample{
		Content:      samplePrefix(decoded),
		FilenameHint: in.FilenameHint,
		Header:       header,
		Rows:         sampleRows,
	})
	desc := match.Descriptor
	result.DetectedFormat = desc.Key
	result.Confidence = match.Confidence
	result.Summary.LowConfidenceDetection = match.Generic || sniffed.LowConfidence
	r.logger.Info("format detected",
		"format", desc.Key,
		"confidence", match.Confidence,
		"generic", match.Generic,
		"encoding", sniffed.Encoding,
	)
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	// Parsing
	r.transition(StageParsing, 35)
	parsed, err := parser.Parse(decoded, parser.Config{
		Delimiter:        sniffed.Delimiter,
		SkipRows:         desc.SkipRows,
		HasHeader:        desc.HasHeader,
		ErrorRateCeiling: p.cfg.Import.ErrorRateCeiling,
	})
	if err != nil {
		return nil, err
	}
	result.Summary.TotalRows = parsed.Total
	for _, rowErr := range parsed.Errors {
		result.Summary.RejectedRows = append(result.Summary.RejectedRows, RowIssue{Line: rowErr.Line, Reason: rowErr.Reason})
	}

	// Mapping, chunked so cancellation and progress have boundaries.
	r.transition(StageMapping, 55)
	fieldMapper := mapper.New(desc, parsed.Header)
	batch := make([]*transaction.Canonical, 0, len(parsed.Rows))
	chunkSize := p.cfg.Import.ChunkSize
	if chunkSize <= 0 {
		chunkSize = len(parsed.Rows) + 1
	}
	for start := 0; start < len(parsed.Rows); start += chunkSize {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		end := start + chunkSize
		if end > len(parsed.Rows) {
			end = len(parsed.Rows)
		}
		for _, row := range parsed.Rows[start:end] {
			tx, verr := fieldMapper.Map(row)
			if verr != nil {
				result.Summary.RejectedRows = append(result.Summary.RejectedRows, RowIssue{Line: verr.Line, Reason: verr.Error()})
				continue
			}
			batch = append(batch, tx)
		}
		r.tick(55 + 25*float64(end)/float64(len(parsed.Rows)))
	}

	// Parse and validation rejections share one ceiling.
	if ceiling := p.cfg.Import.ErrorRateCeiling; ceiling > 0 && parsed.Total > 0 {
		rate := float64(len(result.Summary.RejectedRows)) / float64(parsed.Total)
		if rate > ceiling {
			return nil, fmt.Errorf("%w: %d of %d rows rejected",
				parser.ErrTooManyBadRows, len(result.Summary.RejectedRows), parsed.Total)
		}
	}
	p.metrics.rows(parsed.Total, len(result.Summary.RejectedRows))

	// Deduplicating
	r.transition(StageDeduplicating, 85)
	if err := cancelled(ctx); err != nil {
		return nil, err
	}
	dupDetector := dedup.NewDetector(dedup.Options{
		Threshold:           p.cfg.Dedup.FuzzyThreshold,
		AmountTolerancePct:  p.cfg.Dedup.AmountTolerancePct,
		DateToleranceDays:   p.cfg.Dedup.DateToleranceDays,
		MerchantTokenCount:  p.cfg.Dedup.MerchantTokenCount,
		FuzzyRoundingFactor: p.cfg.Dedup.FuzzyRoundingFactor,
	})
	for _, outcome := range dupDetector.Classify(batch, src) {
		switch outcome.Class {
		case dedup.ClassExactDuplicate:
			result.Summary.ExactDuplicates++
			p.metrics.duplicate(string(outcome.Class))
		case dedup.ClassProbableDuplicate:
			result.Summary.ProbableDuplicates = append(result.Summary.ProbableDuplicates, ReviewItem{
				Tx:         outcome.Tx,
				Similarity: outcome.Similarity,
			})
			p.metrics.duplicate(string(outcome.Class))
		default:
			result.Accepted = append(result.Accepted, outcome.Tx)
		}
	}
	result.Summary.AcceptedCount = len(result.Accepted)

	return result, nil
}

// sampleFor splits just enough leading lines for format detection. Rows are
// split as-is, without field-count filtering: metadata lines above a header
// are evidence too.
func (p *Pipeline) sampleFor(decoded []byte, sniffed *sniffer.Result) (header []string, rows [][]string) {
	sampleRows := p.cfg.Import.SampleRows
	if sampleRows <= 0 {
		sampleRows = 10
	}

	for _, line := range strings.Split(string(decoded), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := sniffer.SplitLine(line, sniffed.Delimiter)
		if header == nil && sniffed.HasHeader {
			header = cells
			continue
		}
		rows = append(rows, cells)
		if len(rows) >= sampleRows {
			break
		}
	}
	return header, rows
}

// samplePrefix bounds the text handed to identifier scanning.
func samplePrefix(decoded []byte) string {
	const maxSampleBytes = 16 * 1024
	if len(decoded) <= maxSampleBytes {
		return string(decoded)
	}
	return string(decoded[:maxSampleBytes])
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrCancelled, err)
	}
	return nil
}
