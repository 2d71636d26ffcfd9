// Package mcptool exposes dictionary lookups as a Model Context Protocol
// tool served over stdio.
package mcptool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/japaniel/nvlookup/pkg/format"
)

const (
	ServerName = "nvlookup"
	ToolName   = "dictionary_lookup"
)

// Looker is the part of lookup.Service the tool needs.
type Looker interface {
	Lookup(ctx context.Context, raw string) ([]format.Record, error)
}

// LookupInput defines input for the dictionary_lookup tool.
type LookupInput struct {
	Query string `json:"query" jsonschema:"Korean or English word or phrase to look up"`
}

// LookupOutput defines output for the dictionary_lookup tool.
type LookupOutput struct {
	Query   string          `json:"query"`
	Records []format.Record `json:"records"`
}

var errEmptyQuery = errors.New("query is required")

// Tool answers dictionary_lookup calls.
type Tool struct {
	svc Looker
	log *zap.Logger
}

// NewTool returns a Tool. A nil logger disables logging.
func NewTool(svc Looker, log *zap.Logger) *Tool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tool{svc: svc, log: log}
}

// Lookup runs one lookup and returns its records in display order.
func (t *Tool) Lookup(ctx context.Context, req *mcp.CallToolRequest, input LookupInput) (*mcp.CallToolResult, LookupOutput, error) {
	q := strings.TrimSpace(input.Query)
	if q == "" {
		return nil, LookupOutput{}, errEmptyQuery
	}

	records, err := t.svc.Lookup(ctx, q)
	if err != nil {
		t.log.Warn("tool lookup failed", zap.String("query", q), zap.Error(err))
		return nil, LookupOutput{}, fmt.Errorf("dictionary lookup failed: %w", err)
	}
	return nil, LookupOutput{Query: q, Records: records}, nil
}

// NewServer creates an MCP server with the dictionary_lookup tool registered.
func NewServer(svc Looker, version string, log *zap.Logger) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)
	tool := NewTool(svc, log)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        ToolName,
			Description: "Looks up a Korean or English word in the Naver English dictionary. Returns definitions, example sentences and autocomplete suggestions as ordered display records; records of kind 'suggestion' carry the query to look up next in autocomplete_key.",
		},
		tool.Lookup,
	)
	return server
}

// Serve runs server over stdin/stdout until ctx is done or the client
// disconnects.
func Serve(ctx context.Context, server *mcp.Server) error {
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcptool: serve: %w", err)
	}
	return nil
}
