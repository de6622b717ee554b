package batch

import (
	"strings"

	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/evaluate"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/storage"
)

// Options control one batch run.
type Options struct {
	// Limit caps how many calls are evaluated; zero means all available.
	Limit int
	// BatchSize is how many records are fetched from the store at a time.
	BatchSize int
	// StartID sets the first transcription ID explicitly; zero continues
	// from the highest ID already persisted.
	StartID int64
	// ProcessAll re-evaluates calls that already have a persisted result.
	ProcessAll bool
}

// Summary is the user-visible outcome of a batch run. FlaggedOnlyInPrimary
// counts calls where at least one detected occurrence was rejected by the
// second source, the candidate false positives.
type Summary struct {
	Processed            int
	Flagged              int
	ConfirmedInBoth      int
	FlaggedOnlyInPrimary int
	Failed               int
	LastTranscriptionID  int64
}

// Runner processes unevaluated calls sequentially: each call is fully
// extracted, scanned, verified, evaluated and persisted before the next
// begins. A failing call is logged and skipped; it never halts the batch.
type Runner struct {
	store     *storage.Store
	evaluator *evaluate.Evaluator
	logger    *zap.Logger
}

// NewRunner creates a batch runner.
func NewRunner(store *storage.Store, evaluator *evaluate.Evaluator, logger *zap.Logger) *Runner {
	return &Runner{
		store:     store,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Run evaluates calls until the limit is reached or the store runs out of
// records. Only a failure to fetch the next batch aborts the run;
// per-call failures are converted into diagnostics.
func (r *Runner) Run(opts Options) (*Summary, error) {
	nextID := opts.StartID
	if nextID == 0 {
		maxID, err := r.store.MaxTranscriptionID()
		if err != nil {
			return nil, err
		}
		nextID = maxID + 1
	}

	summary := &Summary{}
	var afterCallID int64

	for {
		if opts.Limit > 0 && summary.Processed >= opts.Limit {
			break
		}

		var records []storage.TranscriptRecord
		var err error
		if opts.ProcessAll {
			records, err = r.store.AllTranscripts(afterCallID, opts.BatchSize)
		} else {
			records, err = r.store.NextUnevaluated(afterCallID, opts.BatchSize)
		}
		if err != nil {
			return summary, err
		}
		if len(records) == 0 {
			break
		}

		for _, rec := range records {
			afterCallID = rec.CallID
			if opts.Limit > 0 && summary.Processed >= opts.Limit {
				break
			}
			if strings.TrimSpace(rec.Transcription) == "" {
				r.logger.Debug("skipping empty transcription", zap.Int64("call_id", rec.CallID))
				continue
			}

			result, err := r.evaluator.Evaluate(rec.CallID, rec.Transcription)
			if err != nil {
				summary.Failed++
				r.logger.Error("evaluation failed", zap.Int64("call_id", rec.CallID), zap.Error(err))
				continue
			}

			result.TranscriptionID = nextID
			if err := r.store.InsertEvaluation(result); err != nil {
				summary.Failed++
				r.logger.Error("failed to persist evaluation", zap.Int64("call_id", rec.CallID), zap.Error(err))
				continue
			}

			summary.Processed++
			summary.LastTranscriptionID = nextID
			nextID++

			if !result.Passed {
				summary.Flagged++
			}
			if result.CrossConfirmed > 0 {
				summary.ConfirmedInBoth++
			}
			if result.CrossRejected > 0 {
				summary.FlaggedOnlyInPrimary++
			}

			r.logger.Info("call evaluated",
				zap.Int64("call_id", rec.CallID),
				zap.Int64("transcription_id", result.TranscriptionID),
				zap.Bool("passed", result.Passed),
				zap.Int("matches", len(result.Matches)))
		}
	}

	return summary, nil
}
