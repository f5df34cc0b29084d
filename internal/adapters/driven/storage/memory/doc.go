// Package memory provides in-memory implementations of driven storage ports.
//
// They back the MCP server's session and unit tests, where nothing needs to
// outlive the process.
package memory
