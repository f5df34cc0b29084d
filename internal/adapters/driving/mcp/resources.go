package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for docqa resources.
const uriScheme = "docqa://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "The documents in the current session and how they were extracted",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{sourceId}",
		Name:        "document-text",
		Description: "Extracted text of a document in the current session",
		MIMEType:    "text/plain",
	}, s.handleDocumentTextResource)

	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "settings",
			Name:        "settings",
			Description: "Effective configuration with API keys masked",
			MIMEType:    "application/json",
		}, s.handleSettingsResource)
	}
}

func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sessionInfo struct {
		Chunks    int              `json:"chunks"`
		Documents []DocumentOutput `json:"documents"`
	}

	batch, chunks := s.ports.Session.Current()
	info := sessionInfo{
		Chunks:    chunks,
		Documents: []DocumentOutput{},
	}
	if batch != nil {
		info.Documents = documentOutputs(batch)
	}

	return jsonResult(req.Params.URI, info)
}

func (s *Server) handleDocumentTextResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	sourceID := extractSourceID(req.Params.URI)
	batch, _ := s.ports.Session.Current()
	if sourceID == "" || batch == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, t := range batch.Texts {
		if t.SourceID == sourceID {
			return &mcp.ReadResourceResult{
				Contents: []*mcp.ResourceContents{{
					URI:      req.Params.URI,
					MIMEType: "text/plain",
					Text:     t.Text,
				}},
			}, nil
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	values, err := s.ports.Settings.Values()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	out := make(map[string]string, len(values))
	for key, value := range values {
		if strings.HasSuffix(key, ".api_key") && value != "" {
			value = "********"
		}
		out[key] = value
	}
	return jsonResult(req.Params.URI, out)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSourceID extracts the source ID from a URI like docqa://documents/{sourceId}.
func extractSourceID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
