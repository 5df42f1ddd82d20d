package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/krdstools/krds-checker/pkg/advisor"
	"github.com/krdstools/krds-checker/pkg/advisor/claude"
	advopenai "github.com/krdstools/krds-checker/pkg/advisor/openai"
	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/analyzer"
	"github.com/krdstools/krds-checker/pkg/config"
	"github.com/krdstools/krds-checker/pkg/exception"
	"github.com/krdstools/krds-checker/pkg/kwcag"
	"github.com/krdstools/krds-checker/pkg/report"
	"github.com/krdstools/krds-checker/pkg/score"
	sig "github.com/krdstools/krds-checker/pkg/signal"
	"github.com/krdstools/krds-checker/pkg/store"
	"github.com/krdstools/krds-checker/pkg/ux"
	"github.com/krdstools/krds-checker/pkg/web"
)

const version = "1.0.0"

var (
	viewport       string
	axePath        string
	snapshotPath   string
	jsonOut        string
	htmlOut        string
	analysisPath   string
	exceptionsPath string
	checklistID    string
	advisorName    string
	advisorModel   string
	maxCost        float64
	serveAddr      string
)

func main() {
	// Load environment variables from .env files if present. This helps local dev.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	rootCmd := &cobra.Command{
		Use:   "krds-checker",
		Short: "KRDS compliance auditing for public-sector web pages",
		Long: `krds-checker audits a web page against the KRDS rubric (design styles,
components, basic patterns, service patterns) plus a KWCAG accessibility
mapping, produces a 0-100 compliance score, and supports operator-registered
exceptions that force individual findings compliant with a full audit trail.`,
	}

	auditCmd := &cobra.Command{
		Use:   "audit <url>",
		Short: "Audit a page and print its compliance score",
		Args:  cobra.ExactArgs(1),
		RunE:  runAudit,
	}
	auditCmd.Flags().StringVar(&viewport, "viewport", "desktop", "Viewport label recorded in the result")
	auditCmd.Flags().StringVar(&axePath, "axe", "", "Path to a raw axe results JSON file")
	auditCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to a page-signal snapshot instead of fetching the URL")
	auditCmd.Flags().StringVar(&jsonOut, "out", "", "Write the full analysis result JSON to this path")
	auditCmd.Flags().StringVar(&htmlOut, "html", "", "Write an HTML report to this path")

	applyCmd := &cobra.Command{
		Use:   "apply-exceptions",
		Short: "Apply exception overrides to a saved analysis result",
		RunE:  runApplyExceptions,
	}
	applyCmd.Flags().StringVar(&analysisPath, "analysis", "", "Path to an analysis result JSON file (required)")
	applyCmd.Flags().StringVar(&exceptionsPath, "exceptions", "", "Path to an exception request JSON array (required)")
	applyCmd.Flags().StringVar(&checklistID, "checklist-id", "", "Checklist id recorded in the audit trail")
	applyCmd.Flags().StringVar(&jsonOut, "out", "", "Write the adjusted result JSON to this path")
	applyCmd.MarkFlagRequired("analysis")
	applyCmd.MarkFlagRequired("exceptions")

	adviseCmd := &cobra.Command{
		Use:   "advise",
		Short: "Generate AI remediation guidance for non-compliant findings",
		RunE:  runAdvise,
	}
	adviseCmd.Flags().StringVar(&analysisPath, "analysis", "", "Path to an analysis result JSON file (required)")
	adviseCmd.Flags().StringVar(&advisorName, "advisor", "claude", "AI provider: claude, openai")
	adviseCmd.Flags().StringVar(&advisorModel, "model", "", "AI model to use (provider-specific)")
	adviseCmd.Flags().Float64Var(&maxCost, "max-cost", 0, "Maximum cost in USD (0 = no limit)")
	adviseCmd.MarkFlagRequired("analysis")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the checker HTTP service",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("krds-checker %s\n", version)
		},
	}

	rootCmd.AddCommand(auditCmd, applyCmd, adviseCmd, serveCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAudit(cmd *cobra.Command, args []string) error {
	url := args[0]

	var axe *kwcag.AxeResults
	if axePath != "" {
		loaded, err := loadAxeResults(axePath)
		if err != nil {
			return err
		}
		axe = loaded
	}

	var src sig.Source = sig.NewHTTPSource()
	if snapshotPath != "" {
		src = &sig.SnapshotSource{Path: snapshotPath}
	}

	spinner := ux.NewSpinner(fmt.Sprintf("Auditing %s...", url))
	spinner.Start()

	a := analyzer.New(nil, nil)
	result, err := a.Analyze(context.Background(), src, url, viewport, axe)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Audit failed: %v", err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Audit complete in %dms", result.ExecutionTime))

	printSummary(result)

	if jsonOut != "" {
		if err := writeResultJSON(result, jsonOut); err != nil {
			return err
		}
		ux.PrintSuccess("Result written to %s", jsonOut)
	}
	if htmlOut != "" {
		if err := report.GenerateHTML(result, htmlOut); err != nil {
			return err
		}
		ux.PrintSuccess("Report written to %s", htmlOut)
	}
	return nil
}

func runApplyExceptions(cmd *cobra.Command, args []string) error {
	result, err := loadResult(analysisPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(exceptionsPath)
	if err != nil {
		return fmt.Errorf("failed to read exceptions file: %w", err)
	}
	var requests []exception.Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return fmt.Errorf("failed to parse exceptions file: %w", err)
	}

	adjusted := exception.Adjust(result, requests, checklistID)

	if info := adjusted.ExceptionInfo; info != nil {
		ux.PrintHeader("Exception adjustment")
		ux.PrintSummaryTable([][]string{
			{"Exceptions", fmt.Sprintf("%d", info.TotalExceptions)},
			{"Original score", fmt.Sprintf("%d", info.OriginalScore)},
			{"Adjusted score", fmt.Sprintf("%d", info.AdjustedScore)},
			{"Difference", fmt.Sprintf("%+d", info.ScoreDifference)},
		})
	} else {
		ux.PrintInfo("No exceptions supplied; result unchanged")
	}

	out := jsonOut
	if out == "" {
		out = analysisPath
	}
	if err := writeResultJSON(adjusted, out); err != nil {
		return err
	}
	ux.PrintSuccess("Adjusted result written to %s", out)
	return nil
}

func runAdvise(cmd *cobra.Command, args []string) error {
	result, err := loadResult(analysisPath)
	if err != nil {
		return err
	}

	adv, err := createAdvisor(advisorName, advisorModel)
	if err != nil {
		return fmt.Errorf("failed to create advisor: %w", err)
	}

	type finding struct {
		section analysis.Section
		item    analysis.CategoryItem
	}
	var findings []finding
	for _, section := range analysis.Sections() {
		for _, item := range result.SectionItems(section) {
			if item.Score < 100 && !item.Excluded {
				findings = append(findings, finding{section, item})
			}
		}
	}
	if len(findings) == 0 {
		ux.PrintSuccess("Every finding is compliant; nothing to advise")
		return nil
	}

	ux.PrintInfo("Requesting guidance for %d findings from %s", len(findings), adv.Name())

	ctx := context.Background()
	totalCost := 0.0
	bar := ux.NewProgressBar(len(findings), "advising")
	for _, f := range findings {
		req := advisor.Request{
			Item:    f.item,
			Section: f.section.Label(),
			PageURL: result.URL,
		}

		advice, err := adv.Advise(ctx, req)
		bar.Add(1)
		if err != nil {
			ux.PrintError("%s: %v", f.item.Label, err)
			continue
		}

		ux.PrintSection(fmt.Sprintf("%s · %s (%s)", f.section.Label(), f.item.Label, ux.FormatScore(f.item.Score)))
		fmt.Println(advice.Guidance)

		totalCost += advice.Cost
		if maxCost > 0 && totalCost >= maxCost {
			ux.PrintWarning("Max cost ($%.2f) reached. Stopping.", maxCost)
			break
		}
	}

	fmt.Println()
	ux.PrintInfo("Total cost: $%.4f", totalCost)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault()
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var st *store.Store
	if cfg.Database.URL != "" {
		opened, err := store.Open(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer opened.Close()
		if err := opened.Ping(ctx); err != nil {
			return fmt.Errorf("database unreachable: %w", err)
		}
		if err := opened.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		st = opened
		ux.PrintSuccess("Persistence enabled")
	} else {
		ux.PrintInfo("No DATABASE_URL configured; running without persistence")
	}

	source := &sig.HTTPSource{Timeout: cfg.Audit.LoadTimeout}
	server := web.NewServer(addr, source, st)

	ux.PrintInfo("Listening on http://%s", addr)
	return server.Start(ctx)
}

// createAdvisor instantiates the requested AI advisor.
func createAdvisor(name, model string) (advisor.Advisor, error) {
	cfg := advisor.Config{Name: name, Model: model}
	switch name {
	case "claude":
		return claude.New(cfg)
	case "openai":
		return advopenai.New(cfg)
	default:
		return nil, fmt.Errorf("unknown advisor %q (expected claude or openai)", name)
	}
}

func printSummary(result *analysis.Result) {
	ux.PrintHeader(fmt.Sprintf("KRDS compliance: %s", result.URL))

	rows := [][]string{}
	for _, section := range analysis.Sections() {
		items := result.SectionItems(section)
		rows = append(rows, []string{section.Label(), ux.FormatScore(score.Category(items))})
	}
	rows = append(rows, []string{"KWCAG", fmt.Sprintf("%d%% (%s)", result.KwcagReport.OverallCompliance, result.KwcagReport.WcagLevel)})
	ux.PrintSummaryTable(rows)

	fmt.Println()
	fmt.Printf("%s %s (%s)\n", ux.Bold("Overall:"), ux.FormatScore(result.OverallScore), score.Grade(result.OverallScore))
}

func loadResult(path string) (*analysis.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file: %w", err)
	}
	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis file: %w", err)
	}
	return &result, nil
}

func loadAxeResults(path string) (*kwcag.AxeResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read axe results: %w", err)
	}
	var axe kwcag.AxeResults
	if err := json.Unmarshal(data, &axe); err != nil {
		return nil, fmt.Errorf("failed to parse axe results: %w", err)
	}
	return &axe, nil
}

func writeResultJSON(result *analysis.Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
