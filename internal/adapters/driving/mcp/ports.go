package mcp

import (
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Search is required.
	Search driving.SearchService

	// Assistant enables the ask tool when set.
	Assistant driving.AssistantService

	// Documents enables the document resources when set.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
