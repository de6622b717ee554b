package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/app"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/batch"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/doctor"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/lexicon"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/storage"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/verify"
	"github.com/AnSer-AI-Solutions/Evaluations-Slang/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "slangeval",
	Short: "slangeval - slang compliance scoring for call transcriptions",
	Long: `slangeval scans agent speech in call transcriptions for disallowed slang,
cross-checks ambiguous phrases against a second transcription source, and
stores a pass/fail evaluation per call.`,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(doctorCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("slangeval v%s\n", version.Version)
		if !versionCheck {
			return
		}
		latest, err := version.CheckForUpdates()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Update check failed: %v\n", err)
			return
		}
		if latest == "" {
			fmt.Println("You are on the latest release")
			return
		}
		fmt.Printf("A newer release is available: v%s\n", latest)
	},
}

var versionCheck bool

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check GitHub for a newer release")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate stored transcriptions for slang usage",
}

var (
	evalTest       bool
	evalLimit      int
	evalBatchSize  int
	evalStartID    int64
	evalProcessAll bool
)

func init() {
	evaluateCmd.Flags().BoolVar(&evalTest, "test", false, "Run in test mode with 10 entries")
	evaluateCmd.Flags().IntVar(&evalLimit, "limit", 0, "Limit the number of entries to process")
	evaluateCmd.Flags().IntVar(&evalBatchSize, "batch-size", 0, "Number of records to fetch at once")
	evaluateCmd.Flags().Int64Var(&evalStartID, "start-id", 0, "Starting transcription ID (auto-increments from the last used ID if not specified)")
	evaluateCmd.Flags().BoolVar(&evalProcessAll, "process-all", false, "Re-evaluate calls that already have a persisted result")
}

func runEvaluateCmd(a *app.App, cmd *cobra.Command, args []string) error {
	opts := batch.Options{
		BatchSize:  a.Config.BatchSize,
		StartID:    evalStartID,
		ProcessAll: evalProcessAll,
	}
	if evalBatchSize > 0 {
		opts.BatchSize = evalBatchSize
	}
	switch {
	case evalTest:
		opts.Limit = 10
	case evalLimit > 0:
		opts.Limit = evalLimit
	}

	total, err := a.Store.TotalTranscriptions()
	if err != nil {
		return err
	}
	unevaluated, err := a.Store.UnevaluatedCount()
	if err != nil {
		return err
	}
	maxID, err := a.Store.MaxTranscriptionID()
	if err != nil {
		return err
	}

	mode := "full mode"
	if evalTest {
		mode = "test mode"
	} else if evalLimit > 0 {
		mode = "limited mode"
	}
	skip := ", skipping processed call_ids"
	if evalProcessAll {
		skip = ""
	}
	fmt.Printf("Running in %s, batch size: %d%s\n", mode, opts.BatchSize, skip)
	fmt.Printf("Highest existing transcription_id: %d\n", maxID)
	fmt.Printf("Total records in database: %d\n", total)
	fmt.Printf("Unevaluated records available: %d\n", unevaluated)

	summary, err := a.Runner.Run(opts)
	if err != nil {
		return err
	}

	fmt.Println("\nProcessing complete!")
	fmt.Printf("Records processed: %d\n", summary.Processed)
	fmt.Printf("Records flagged: %d\n", summary.Flagged)
	fmt.Printf("Confirmed in both sources: %d\n", summary.ConfirmedInBoth)
	fmt.Printf("Flagged only in primary (candidate false positives): %d\n", summary.FlaggedOnlyInPrimary)
	if summary.Failed > 0 {
		fmt.Printf("Records failed: %d\n", summary.Failed)
	}
	if summary.Processed > 0 {
		fmt.Printf("Last transcription_id used: %d\n", summary.LastTranscriptionID)
	}
	return nil
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-verify detected terms against the alternate transcription source",
}

var (
	verifyLimit  int
	verifyCallID int64
	verifyTerm   string
)

func init() {
	verifyCmd.Flags().IntVar(&verifyLimit, "limit", 0, "Limit the number of call_ids to check")
	verifyCmd.Flags().Int64Var(&verifyCallID, "call-id", 0, "Check a specific call_id")
	verifyCmd.Flags().StringVar(&verifyTerm, "term", "", "Specific term to verify")
}

func runVerifyCmd(a *app.App, cmd *cobra.Command, args []string) error {
	checker := verify.NewChecker(a.Alternate, a.Scanner, a.Config.AgentMarker, a.Logger)

	terms := a.Lexicon.ConfirmationTerms()
	if verifyTerm != "" {
		t, ok := a.Lexicon.Lookup(verifyTerm)
		if !ok {
			return fmt.Errorf("term %q is not in the lexicon", verifyTerm)
		}
		terms = []lexicon.Term{t}
	}
	if len(terms) == 0 {
		return fmt.Errorf("no confirmation-required terms configured")
	}

	if verifyCallID != 0 {
		return verifySingleCall(a, checker, terms)
	}

	calls, err := collectCalls(a.Store, a.Config.BatchSize, verifyLimit)
	if err != nil {
		return err
	}

	report, err := checker.Run(calls, terms)
	if err != nil {
		return err
	}

	fmt.Printf("Total call_ids checked: %d\n", report.TotalChecked)
	for _, stats := range report.Terms {
		fmt.Printf("\nResults for '%s':\n", stats.Term)
		fmt.Printf("  - Found in primary transcriptions: %d\n", stats.InPrimary)
		fmt.Printf("  - Found in both transcription types: %d\n", stats.InBoth)
		fmt.Printf("  - Found ONLY in primary (candidate false positives): %d\n", stats.OnlyInPrimary)
		if stats.MissingAlternate > 0 {
			fmt.Printf("  - No alternate transcript available: %d\n", stats.MissingAlternate)
		}
	}
	return nil
}

func verifySingleCall(a *app.App, checker *verify.Checker, terms []lexicon.Term) error {
	text, ok, err := a.Store.FetchTranscript(verifyCallID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no transcript found for call %d", verifyCallID)
	}

	call := verify.Call{ID: verifyCallID, Transcription: text}
	fmt.Printf("Checking call_id: %d\n", verifyCallID)
	for _, term := range terms {
		inPrimary, inAlternate, err := checker.CheckCall(call, term)
		if err != nil {
			return err
		}
		switch {
		case inPrimary && inAlternate:
			fmt.Printf("  '%s': VERIFIED - appears in both transcriptions, should count\n", term.Surface)
		case inPrimary:
			fmt.Printf("  '%s': NOT VERIFIED - only in primary, should not count\n", term.Surface)
		default:
			fmt.Printf("  '%s': not detected in primary transcription\n", term.Surface)
		}
	}
	return nil
}

// collectCalls pages through the primary store in batch-sized chunks.
func collectCalls(store *storage.Store, batchSize, limit int) ([]verify.Call, error) {
	var calls []verify.Call
	var afterCallID int64
	for {
		if limit > 0 && len(calls) >= limit {
			break
		}
		records, err := store.AllTranscripts(afterCallID, batchSize)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		for _, rec := range records {
			afterCallID = rec.CallID
			if limit > 0 && len(calls) >= limit {
				break
			}
			calls = append(calls, verify.Call{ID: rec.CallID, Transcription: rec.Transcription})
		}
	}
	return calls, nil
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import transcriptions from a JSON seed file",
	Args:  cobra.ExactArgs(1),
}

var importAlternate bool

func init() {
	importCmd.Flags().BoolVar(&importAlternate, "alternate", false, "Import into the alternate (second source) store")
}

func runImportCmd(a *app.App, cmd *cobra.Command, args []string) error {
	records, err := storage.ReadSeedFile(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d records from JSON file\n", len(records))

	var inserted int
	if importAlternate {
		inserted, err = a.Alternate.ImportTranscripts(records)
	} else {
		inserted, err = a.Store.ImportTranscripts(records)
	}
	if err != nil {
		return err
	}

	target := "primary"
	if importAlternate {
		target = "alternate"
	}
	fmt.Printf("Successfully imported %d records into the %s store\n", inserted, target)
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks on the configuration and both stores",
}

func runDoctorCmd(a *app.App, cmd *cobra.Command, args []string) error {
	diagnostics := doctor.NewRunner(a.Config, a.Lexicon, a.Store, a.Alternate).RunAll()

	for _, check := range diagnostics.Checks {
		label := "OK  "
		switch check.Status {
		case "fail":
			label = "FAIL"
		case "warn":
			label = "WARN"
		}
		fmt.Printf("[%s] %s: %s\n", label, check.Name, check.Message)
	}

	fmt.Printf("\nStatus: %s\n", diagnostics.Status)
	if len(diagnostics.Issues) > 0 {
		return fmt.Errorf("%d check(s) failed", len(diagnostics.Issues))
	}
	return nil
}

func runStatsCmd(a *app.App, cmd *cobra.Command, args []string) error {
	total, err := a.Store.TotalTranscriptions()
	if err != nil {
		return err
	}
	unevaluated, err := a.Store.UnevaluatedCount()
	if err != nil {
		return err
	}
	evaluations, err := a.Store.EvaluationCount()
	if err != nil {
		return err
	}
	alternates, err := a.Alternate.TotalTranscripts()
	if err != nil {
		return err
	}

	fmt.Printf("Primary transcriptions: %d\n", total)
	fmt.Printf("Evaluations persisted: %d\n", evaluations)
	fmt.Printf("Unevaluated: %d\n", unevaluated)
	fmt.Printf("Alternate transcriptions: %d\n", alternates)
	fmt.Printf("Lexicon terms: %d\n", a.Lexicon.Len())
	return nil
}

// newAppRunner builds the application after flag parsing and hands it to
// the command body.
func newAppRunner(runFunc func(*app.App, *cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		a, err := app.New(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		if err := runFunc(a, cmd, args); err != nil {
			a.Logger.Error("command failed", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func main() {
	// Optional .env for the database paths, same convention as the rest of
	// our tooling. Missing file is fine.
	_ = godotenv.Load()

	evaluateCmd.Run = newAppRunner(runEvaluateCmd)
	verifyCmd.Run = newAppRunner(runVerifyCmd)
	importCmd.Run = newAppRunner(runImportCmd)
	statsCmd.Run = newAppRunner(runStatsCmd)
	doctorCmd.Run = newAppRunner(runDoctorCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
