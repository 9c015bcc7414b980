package tool

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/services"
)

const serverName = "resume-scorer"

// MetadataAnalyzeResume describes the analyze_resume tool.
var MetadataAnalyzeResume = &mcp.Tool{
	Name: "analyze_resume",
	Description: "Score a resume and return an overall score, four sub-scores (ats, skills, formatting, content) " +
		"and an ordered list of suggestions. Pass plain text in content, or the raw bytes of a PDF or DOCX " +
		"file in content_base64 together with its media_type. An optional target_role tailors the review.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Resume as plain text",
			},
			"content_base64": map[string]interface{}{
				"type":        "string",
				"description": "Resume file bytes, base64 encoded. Mutually exclusive with content.",
			},
			"media_type": map[string]interface{}{
				"type":        "string",
				"description": "Media type of content_base64, e.g. application/pdf. Defaults to text/plain.",
			},
			"target_role": map[string]interface{}{
				"type":        "string",
				"description": "Job role the resume targets. Leave empty for a general review.",
			},
		},
	},
}

// InputAnalyzeResume is the input for the AnalyzeResume tool.
type InputAnalyzeResume struct {
	Content       string `json:"content"`
	ContentBase64 string `json:"content_base64"`
	MediaType     string `json:"media_type"`
	TargetRole    string `json:"target_role"`
}

// ResumeTool exposes the analyzer as MCP tools.
type ResumeTool struct {
	analyzer services.AnalyzerService
}

func NewResumeTool(analyzer services.AnalyzerService) *ResumeTool {
	return &ResumeTool{analyzer: analyzer}
}

// NewServer returns an MCP server with the resume tools registered.
func NewServer(analyzer services.AnalyzerService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)
	NewResumeTool(analyzer).Register(server)
	return server
}

func (t *ResumeTool) Register(server *mcp.Server) {
	mcp.AddTool(server, MetadataAnalyzeResume, t.AnalyzeResume)
}

// AnalyzeResume runs the scoring pipeline over the provided resume.
func (t *ResumeTool) AnalyzeResume(ctx context.Context, _ *mcp.CallToolRequest, input InputAnalyzeResume) (*mcp.CallToolResult, models.AnalysisResult, error) {
	doc, err := documentFromInput(input)
	if err != nil {
		return nil, models.AnalysisResult{}, err
	}

	result, err := t.analyzer.Analyze(ctx, doc, strings.TrimSpace(input.TargetRole))
	if err != nil {
		return nil, models.AnalysisResult{}, err
	}

	return nil, *result, nil
}

func documentFromInput(input InputAnalyzeResume) (models.Document, error) {
	switch {
	case input.Content != "" && input.ContentBase64 != "":
		return models.Document{}, errors.New("content and content_base64 are mutually exclusive")
	case input.ContentBase64 != "":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(input.ContentBase64))
		if err != nil {
			return models.Document{}, fmt.Errorf("content_base64 is not valid base64: %w", err)
		}
		return models.Document{
			Name:      "upload",
			MediaType: models.DetectMediaType("", input.MediaType),
			Size:      int64(len(data)),
			Content:   bytes.NewReader(data),
		}, nil
	case input.Content != "":
		return models.Document{
			Name:      "text",
			MediaType: models.MediaTypePlainText,
			Size:      int64(len(input.Content)),
			Content:   strings.NewReader(input.Content),
		}, nil
	default:
		return models.Document{}, errors.New("content or content_base64 is required")
	}
}
