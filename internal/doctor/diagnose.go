package doctor

import (
	"fmt"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/config"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/storage"
)

// Diagnostics holds the outcome of a full diagnostic run.
type Diagnostics struct {
	Checks []CheckResult `json:"checks"`
	Issues []string      `json:"issues"`
	Status string        `json:"status"`
}

// CheckResult represents the result of a single check
type CheckResult struct {
	Name     string `json:"name"`
	Status   string `json:"status"` // "pass", "fail", "warn"
	Message  string `json:"message"`
	Severity string `json:"severity"` // "info", "warning", "error"
}

// Runner runs diagnostic checks against the configuration, the lexicon and
// both transcription stores.
type Runner struct {
	config    *config.Config
	lexicon   *lexicon.Lexicon
	store     *storage.Store
	alternate *storage.AlternateStore
}

// NewRunner creates a new diagnostic runner
func NewRunner(cfg *config.Config, lex *lexicon.Lexicon, store *storage.Store, alternate *storage.AlternateStore) *Runner {
	return &Runner{
		config:    cfg,
		lexicon:   lex,
		store:     store,
		alternate: alternate,
	}
}

// RunAll runs all diagnostic checks
func (d *Runner) RunAll() *Diagnostics {
	var results []CheckResult

	results = append(results, d.checkConfiguration()...)
	results = append(results, d.checkLexicon()...)
	results = append(results, d.checkPrimaryStore()...)
	results = append(results, d.checkAlternateStore()...)

	var issues []string
	for _, result := range results {
		if result.Status == "fail" {
			issues = append(issues, result.Message)
		}
	}

	status := "healthy"
	if len(issues) > 0 {
		status = "issues_found"
	}

	return &Diagnostics{
		Checks: results,
		Issues: issues,
		Status: status,
	}
}

func (d *Runner) checkConfiguration() []CheckResult {
	if err := d.config.Validate(); err != nil {
		return []CheckResult{{
			Name:     "configuration_validation",
			Status:   "fail",
			Message:  fmt.Sprintf("Configuration validation failed: %v", err),
			Severity: "error",
		}}
	}
	return []CheckResult{{
		Name:     "configuration_validation",
		Status:   "pass",
		Message:  "Configuration is valid",
		Severity: "info",
	}}
}

func (d *Runner) checkLexicon() []CheckResult {
	var results []CheckResult

	if d.lexicon.Len() == 0 {
		results = append(results, CheckResult{
			Name:     "lexicon_terms",
			Status:   "fail",
			Message:  "Lexicon contains no terms",
			Severity: "error",
		})
		return results
	}
	results = append(results, CheckResult{
		Name:     "lexicon_terms",
		Status:   "pass",
		Message:  fmt.Sprintf("Lexicon contains %d terms", d.lexicon.Len()),
		Severity: "info",
	})

	// Without the alternate store, confirmation-required terms always come
	// back rejected, which silently weakens scoring.
	if len(d.lexicon.ConfirmationTerms()) > 0 {
		total, err := d.alternate.TotalTranscripts()
		if err == nil && total == 0 {
			results = append(results, CheckResult{
				Name:     "confirmation_coverage",
				Status:   "warn",
				Message:  "Lexicon has confirmation-required terms but the alternate store is empty",
				Severity: "warning",
			})
		}
	}

	return results
}

func (d *Runner) checkPrimaryStore() []CheckResult {
	var results []CheckResult

	if err := d.store.Ping(); err != nil {
		results = append(results, CheckResult{
			Name:     "primary_store_connectivity",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot connect to primary store: %v", err),
			Severity: "error",
		})
		return results
	}
	results = append(results, CheckResult{
		Name:     "primary_store_connectivity",
		Status:   "pass",
		Message:  "Primary store connection successful",
		Severity: "info",
	})

	total, err := d.store.TotalTranscriptions()
	if err != nil {
		results = append(results, CheckResult{
			Name:     "primary_store_query",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot query primary store: %v", err),
			Severity: "error",
		})
		return results
	}

	if total == 0 {
		results = append(results, CheckResult{
			Name:     "primary_store_records",
			Status:   "warn",
			Message:  "Primary store contains no transcriptions",
			Severity: "warning",
		})
	} else {
		results = append(results, CheckResult{
			Name:     "primary_store_records",
			Status:   "pass",
			Message:  fmt.Sprintf("Primary store contains %d transcriptions", total),
			Severity: "info",
		})
	}

	return results
}

func (d *Runner) checkAlternateStore() []CheckResult {
	var results []CheckResult

	if err := d.alternate.Ping(); err != nil {
		results = append(results, CheckResult{
			Name:     "alternate_store_connectivity",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot connect to alternate store: %v", err),
			Severity: "error",
		})
		return results
	}
	results = append(results, CheckResult{
		Name:     "alternate_store_connectivity",
		Status:   "pass",
		Message:  "Alternate store connection successful",
		Severity: "info",
	})

	total, err := d.alternate.TotalTranscripts()
	if err != nil {
		results = append(results, CheckResult{
			Name:     "alternate_store_query",
			Status:   "fail",
			Message:  fmt.Sprintf("Cannot query alternate store: %v", err),
			Severity: "error",
		})
		return results
	}
	results = append(results, CheckResult{
		Name:     "alternate_store_records",
		Status:   "pass",
		Message:  fmt.Sprintf("Alternate store contains %d transcriptions", total),
		Severity: "info",
	})

	return results
}
