// Package driving holds the use cases the CLI and the MCP server call:
// ingesting uploads, answering questions and editing settings. The
// implementations live in internal/core/services.
package driving
