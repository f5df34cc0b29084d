package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Session holds the index that tools ingest into and ask against.
	Session driving.SessionService

	// Settings exposes the effective configuration as a resource. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
