package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// FileInput is one uploaded file. Exactly one of Text and ContentBase64 is used;
// binary formats (PDF, DOCX, images) must be base64 encoded.
type FileInput struct {
	Name          string `json:"name" jsonschema:"the file name, used to detect the format"`
	MediaType     string `json:"media_type,omitempty" jsonschema:"the declared media type, if known"`
	Text          string `json:"text,omitempty" jsonschema:"the file content as plain text"`
	ContentBase64 string `json:"content_base64,omitempty" jsonschema:"the file content, base64 encoded"`
}

// IngestInput is the input schema for the ingest_files tool.
type IngestInput struct {
	Files []FileInput `json:"files,omitempty" jsonschema:"files to index (at most 5 entries in total)"`
	Text  string      `json:"text,omitempty" jsonschema:"free text to index alongside the files"`
}

// DocumentOutput reports how one document was extracted.
type DocumentOutput struct {
	SourceID string `json:"source_id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Method   string `json:"method"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// IngestOutput is the output schema for the ingest_files tool.
type IngestOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Chunks    int              `json:"chunks"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
}

// SourceOutput is one chunk an answer was grounded on.
type SourceOutput struct {
	SourceID string  `json:"source_id"`
	Position int     `json:"position"`
	Score    float64 `json:"score"`
	Text     string  `json:"text"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// ResetOutput is the output schema for the reset tool.
type ResetOutput struct {
	Reset bool `json:"reset"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_files",
		Description: "Extract and index documents (text, PDF, DOCX, DOC, PNG, JPEG), replacing the current index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the ingested documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Drop the current index",
	}, s.handleReset)
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	uploads, err := toUploads(input)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	batch, chunks, err := s.ports.Session.Ingest(ctx, uploads, nil)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Documents: documentOutputs(batch),
		Chunks:    chunks,
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Session.Ask(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.Text,
		Sources: make([]SourceOutput, len(answer.Sources)),
	}
	for i, sc := range answer.Sources {
		output.Sources[i] = SourceOutput{
			SourceID: sc.Chunk.SourceID,
			Position: sc.Chunk.Position,
			Score:    sc.Score,
			Text:     sc.Chunk.Text,
		}
	}
	return nil, output, nil
}

func (s *Server) handleReset(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ResetOutput, error) {
	s.ports.Session.Reset()
	return nil, ResetOutput{Reset: true}, nil
}

// toUploads converts tool input into uploads; free text becomes a raw text entry.
func toUploads(input IngestInput) ([]domain.Upload, error) {
	uploads := make([]domain.Upload, 0, len(input.Files)+1)

	for _, f := range input.Files {
		content := []byte(f.Text)
		if f.ContentBase64 != "" {
			decoded, err := base64.StdEncoding.DecodeString(f.ContentBase64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: invalid base64 content", domain.ErrInvalidInput, f.Name)
			}
			content = decoded
		}
		uploads = append(uploads, domain.Upload{
			Content:      content,
			DeclaredType: f.MediaType,
			Name:         f.Name,
		})
	}

	if input.Text != "" {
		uploads = append(uploads, domain.NewRawText(input.Text))
	}

	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no files or text to ingest", domain.ErrInvalidInput)
	}
	return uploads, nil
}

func documentOutputs(batch *domain.ExtractionBatch) []DocumentOutput {
	out := make([]DocumentOutput, len(batch.Diagnostics))
	for i, d := range batch.Diagnostics {
		out[i] = DocumentOutput{
			SourceID: d.SourceID,
			Name:     d.Name,
			Kind:     d.Kind.String(),
			Method:   d.Method.String(),
			Degraded: d.Degraded,
			Reason:   d.Reason,
		}
	}
	return out
}
