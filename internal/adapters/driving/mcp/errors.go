// Package mcp provides an MCP (Model Context Protocol) server adapter for docqa.
// It lets AI assistants ingest documents into a session and ask questions
// answered from them.
package mcp

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("mcp: session service is required")
