package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cob-agent/internal/config"
	"github.com/cob-agent/internal/domain"
	"github.com/cob-agent/internal/export"
	"github.com/cob-agent/internal/outreach"
	"github.com/cob-agent/internal/service"
	"github.com/cob-agent/internal/workflow"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	settings := configManager.Settings()
	logger := newLogger(settings.Logging)

	analyzer, err := service.NewAnalyzer(logger)
	if err != nil {
		log.Fatalf("Failed to create analyzer: %v", err)
	}

	report, err := analyzer.RunAnalysis(settings.Analysis)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printSummary(report)
	printCategories(report)
	printTopAlerts(report)
	printRedFlags(report)
	printOutreach(logger, report)
	printWorkflow(logger, report)

	if err := exportFiles(logger, report); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}

func printSummary(r *domain.AnalysisReport) {
	fmt.Println()
	fmt.Println("=== COB Irregularity Analysis ===")
	fmt.Printf("Run ID:              %s\n", r.RunID)
	fmt.Printf("Patients analyzed:   %d\n", len(r.Patients))
	fmt.Printf("Claims analyzed:     %d\n", r.ClaimCount)
	fmt.Printf("Alerts raised:       %d\n", r.Aggregate.TotalAlerts)
	fmt.Printf("High priority:       %d\n", r.Aggregate.HighPriorityAlerts)
	fmt.Printf("Potential recovery:  %s\n", currency(r.Aggregate.TotalRecovery))
}

func printCategories(r *domain.AnalysisReport) {
	fmt.Println()
	fmt.Println("--- Alerts by Category ---")
	for _, cat := range domain.AllCategories() {
		fmt.Printf("  %-28s %d\n", cat, r.Aggregate.CategoryCounts[cat])
	}
}

func printTopAlerts(r *domain.AnalysisReport) {
	fmt.Println()
	fmt.Printf("--- Top %d Alerts by Recovery ---\n", len(r.Aggregate.TopAlerts))
	for i, alert := range r.Aggregate.TopAlerts {
		flag := " "
		if alert.HighPriority {
			flag = "!"
		}
		fmt.Printf("%2d. %s [%s] %-28s conf=%.2f recovery=%s\n",
			i+1, flag, alert.RuleCode, alert.Category, alert.Confidence, currency(alert.RecoveryEstimate))
		fmt.Printf("      %s\n", alert.Description)
	}
}

func printRedFlags(r *domain.AnalysisReport) {
	fmt.Println()
	fmt.Println("--- Red Flag Accounts ---")
	for i, acct := range r.Aggregate.RedFlagAccounts {
		fmt.Printf("%2d. %-24s MRN %-10s alerts=%d recovery=%s top=%s\n",
			i+1, acct.PatientName, acct.MRN, acct.AlertCount, currency(acct.TotalRecovery), acct.TopCategory)
	}
}

func printOutreach(logger *logrus.Logger, r *domain.AnalysisReport) {
	planner, err := outreach.NewPlanner(logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create outreach planner")
		return
	}

	outreachLog := outreach.NewLog(logger)
	messages := planner.PlanTop(r, 3)
	fmt.Println()
	fmt.Println("--- Sample Patient Outreach ---")
	for _, msg := range messages {
		outreachLog.Record(msg)
		fmt.Printf("[%s to patient %s]\n%s\n\n", msg.Channel, msg.PatientID, msg.Body)
	}

	metrics := outreachLog.OutreachMetrics()
	fmt.Printf("Outreach attempts recorded: %d (awaiting patient responses)\n\n", metrics.Attempts)
}

func printWorkflow(logger *logrus.Logger, r *domain.AnalysisReport) {
	if len(r.Aggregate.TopAlerts) == 0 {
		return
	}

	tracker := workflow.NewTracker(logger)
	w := tracker.Create(r.Aggregate.TopAlerts[0])

	fmt.Println("--- Sample Resolution Workflow ---")
	fmt.Printf("Workflow %s for alert %s (%s), est. %d min\n", w.ID, w.AlertID, w.Category, w.EstimatedMinutes())
	for i, step := range w.Steps {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
}

func exportFiles(logger *logrus.Logger, r *domain.AnalysisReport) error {
	exporter := export.New(logger)

	jsonFile, err := os.Create("demo_report.json")
	if err != nil {
		return fmt.Errorf("failed to create demo_report.json: %w", err)
	}
	defer jsonFile.Close()
	if err := exporter.WriteJSON(jsonFile, r); err != nil {
		return err
	}

	csvFile, err := os.Create("demo_alerts.csv")
	if err != nil {
		return fmt.Errorf("failed to create demo_alerts.csv: %w", err)
	}
	defer csvFile.Close()
	if err := exporter.WriteCSV(csvFile, r); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wrote demo_report.json and demo_alerts.csv")
	return nil
}

func currency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
