package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rmfonseca/glicolog/internal/config"
	"github.com/rmfonseca/glicolog/internal/model"
	"github.com/rmfonseca/glicolog/internal/normalize"
	"github.com/rmfonseca/glicolog/internal/parse"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// RecordStore is the persistence surface the pipeline writes through.
// *db.Store satisfies it; tests substitute an in-memory fake.
type RecordStore interface {
	BeginBatch(ctx context.Context, batchID uuid.UUID) error
	SaveRecord(ctx context.Context, batchID uuid.UUID, rec *model.PatientRecord, sha string) (int64, error)
	SaveFailure(ctx context.Context, batchID uuid.UUID, f model.FileFailure) error
	FinishBatch(ctx context.Context, batchID uuid.UUID, sum *model.BatchSummary) error
}

// Outcome is what a batch run produces: the parsed records in input
// order, the per-file failures, and the counters.
type Outcome struct {
	BatchID  uuid.UUID
	Summary  model.BatchSummary
	Records  []*model.PatientRecord
	Failures []model.FileFailure
}

// fileResult pairs one input file with its parse outcome.
type fileResult struct {
	path string
	rec  *model.PatientRecord
	fail *model.FileFailure
}

// Run executes the full import pipeline: discover → parse → persist.
// Per-file failures never abort the batch; they are collected and
// reported. A nil store (or DryRun) skips the persist phase.
func Run(ctx context.Context, store RecordStore, log zerolog.Logger, cfg *config.Config) (*Outcome, error) {
	totalStart := time.Now()

	// Phase 1: discover
	files, err := Discover(cfg.Paths)
	if err != nil {
		return nil, &PipelineError{Phase: "discover", Err: err}
	}
	if len(files) == 0 {
		return nil, &PipelineError{Phase: "discover", Err: fmt.Errorf("no workbooks under %v", cfg.Paths)}
	}
	log.Info().Int("files", len(files)).Msg("starting parse")

	// Phase 2: parse, one task per file
	parseStart := time.Now()
	results, err := parseAll(ctx, log, files, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: "parse", Err: err}
	}
	durParse := time.Since(parseStart)

	out := &Outcome{BatchID: uuid.New()}
	for _, res := range results {
		if res.rec != nil {
			out.Records = append(out.Records, res.rec)
			out.Summary.RowsAccepted += len(res.rec.Readings)
		}
		if res.fail != nil {
			out.Failures = append(out.Failures, *res.fail)
		}
	}
	out.Summary.BatchID = out.BatchID.String()
	out.Summary.FilesSeen = len(files)
	out.Summary.FilesParsed = len(out.Records)
	out.Summary.FilesFailed = len(out.Failures)
	out.Summary.DurationParse = durParse

	// Phase 3: persist
	if store != nil && !cfg.DryRun {
		persistStart := time.Now()
		if err := persist(ctx, store, log, out, results); err != nil {
			return nil, &PipelineError{Phase: "persist", Err: err}
		}
		out.Summary.DurationPersist = time.Since(persistStart)
	}

	out.Summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int("parsed", out.Summary.FilesParsed).
		Int("failed", out.Summary.FilesFailed).
		Int("rows", out.Summary.RowsAccepted).
		Dur("elapsed", out.Summary.DurationTotal).
		Msg("batch complete")
	return out, nil
}

// parseAll fans the files out over cfg.Concurrency workers. Results land
// in a per-index slice, so no worker ever touches shared state.
func parseAll(ctx context.Context, log zerolog.Logger, files []string, cfg *config.Config) ([]fileResult, error) {
	results := make([]fileResult, len(files))
	jobs := make(chan int)

	workers := cfg.Concurrency
	if workers > len(files) {
		workers = len(files)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = parseOne(log, files[idx], cfg.Policy)
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseOne(log zerolog.Logger, path string, pol parse.Policy) fileResult {
	res := fileResult{path: path}
	rec, err := parse.File(path, pol)
	if err != nil {
		fe, ok := parse.AsFileError(err)
		if !ok {
			fe = &parse.FileError{File: path, Category: model.FailureFormat, Err: err}
		}
		res.fail = &model.FileFailure{
			FileName: fe.File,
			Category: fe.Category,
			Message:  fe.Err.Error(),
		}
		log.Warn().
			Str("file", fe.File).
			Str("category", string(fe.Category)).
			Err(fe.Err).
			Msg("file rejected")
		return res
	}

	res.rec = rec
	log.Info().
		Str("file", rec.SourceFile).
		Str("patient", rec.PatientName).
		Int("readings", len(rec.Readings)).
		Str("age", rec.Age.String()).
		Str("age_source", string(rec.Age.Source)).
		Bool("insulin", rec.UsesInsulin).
		Msg("file parsed")
	for _, w := range rec.Warnings {
		log.Warn().Str("file", rec.SourceFile).Msg(w)
	}
	return res
}

// persist writes the batch through the store. Source hashes are best
// effort; a file that cannot be re-read is stored without one.
func persist(ctx context.Context, store RecordStore, log zerolog.Logger, out *Outcome, results []fileResult) error {
	if err := store.BeginBatch(ctx, out.BatchID); err != nil {
		return err
	}
	for _, res := range results {
		switch {
		case res.rec != nil:
			sha, err := normalize.FileHash(res.path)
			if err != nil {
				log.Warn().Str("file", res.path).Err(err).Msg("could not hash source")
			}
			if _, err := store.SaveRecord(ctx, out.BatchID, res.rec, sha); err != nil {
				return err
			}
			out.Summary.RecordsSaved++
		case res.fail != nil:
			if err := store.SaveFailure(ctx, out.BatchID, *res.fail); err != nil {
				return err
			}
		}
	}
	return store.FinishBatch(ctx, out.BatchID, &out.Summary)
}

// GroupFailures buckets failures under their human-readable category
// labels, preserving batch order inside each bucket.
func GroupFailures(failures []model.FileFailure) map[string][]model.FileFailure {
	if len(failures) == 0 {
		return nil
	}
	groups := make(map[string][]model.FileFailure)
	for _, f := range failures {
		label := f.Category.Label()
		groups[label] = append(groups[label], f)
	}
	return groups
}
