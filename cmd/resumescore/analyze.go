package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/services"
)

const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

var errSomeFilesFailed = errors.New("some files could not be analyzed")

var rolePrompt = promptui.Prompt{
	Label: "Target role (leave empty for a general review)",
}

// fileReport is one analyzed file as printed by the analyze command.
type fileReport struct {
	File   string                 `json:"file" yaml:"file"`
	Result *models.AnalysisResult `json:"result" yaml:"result"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Analyze one or more resume files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("role", "r", "", "target role to tailor the review for")
	analyzeCmd.Flags().StringP("output", "o", OutputJSON, "output format: json or yaml")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "ask for the target role when --role is empty")
}

func runAnalyze(cmd *cobra.Command, paths []string) error {
	role, _ := cmd.Flags().GetString("role")
	output, _ := cmd.Flags().GetString("output")
	interactive, _ := cmd.Flags().GetBool("interactive")

	output = strings.ToLower(output)
	if output != OutputJSON && output != OutputYAML {
		return fmt.Errorf("unknown output format %q", output)
	}

	if interactive && strings.TrimSpace(role) == "" {
		answer, err := rolePrompt.Run()
		if err != nil {
			return fmt.Errorf("reading target role: %w", err)
		}
		role = answer
	}

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	analyzer, err := services.NewAnalyzerFromConfig(ctx, cfg.Remote, log)
	if err != nil {
		return err
	}

	reports, failed := analyzeFiles(ctx, analyzer, paths, strings.TrimSpace(role), log)
	if err := writeReports(cmd.OutOrStdout(), reports, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Analyzed %d file(s): %d succeeded, %d failed\n", len(paths), len(reports), failed)
	if failed > 0 {
		return errSomeFilesFailed
	}

	return nil
}

// analyzeFiles analyzes each path in turn. Files that cannot be opened or
// read are logged and counted, the rest are still analyzed.
func analyzeFiles(ctx context.Context, analyzer services.AnalyzerService, paths []string, role string, log *zap.Logger) ([]fileReport, int) {
	reports := make([]fileReport, 0, len(paths))
	failed := 0

	for _, path := range paths {
		result, err := analyzeFile(ctx, analyzer, path, role)
		if err != nil {
			log.Error("failed to analyze file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		log.Debug("file analyzed", zap.String("path", path), zap.Int("overall_score", result.OverallScore))
		reports = append(reports, fileReport{File: path, Result: result})
	}

	return reports, failed
}

func analyzeFile(ctx context.Context, analyzer services.AnalyzerService, path, role string) (*models.AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &services.ReadError{Document: path, Err: err}
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	doc := models.Document{
		Name:      filepath.Base(path),
		MediaType: models.DetectMediaType(path, ""),
		Size:      size,
		Content:   f,
	}

	return analyzer.Analyze(ctx, doc, role)
}

func writeReports(w io.Writer, reports []fileReport, format string) error {
	if format == OutputYAML {
		for i, report := range reports {
			data, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf("failed to marshal YAML: %w", err)
			}
			if i > 0 {
				if _, err := io.WriteString(w, "---\n"); err != nil {
					return err
				}
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
		return nil
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	for _, report := range reports {
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	return nil
}
