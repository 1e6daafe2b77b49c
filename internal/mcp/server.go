// Package mcp provides an MCP (Model Context Protocol) server for engram.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mgraupera/engram/internal/hopfield"
	"github.com/mgraupera/engram/internal/melody"
	"github.com/mgraupera/engram/internal/render"
)

// Server wraps the MCP SDK server and exposes recall tools over stdio.
type Server struct {
	server  *sdk.Server
	catalog *melody.Catalog
	cfg     Config
	logger  *slog.Logger
	audit   *AuditLogger
}

// Config holds server configuration and the defaults applied when a tool
// call leaves a parameter unset.
type Config struct {
	Name    string // Server name (e.g., "engram")
	Version string // Server version

	// Catalog is the preloaded pattern catalog. May be nil; tools that
	// need stored patterns then require them inline.
	Catalog *melody.Catalog

	// Defaults for unset tool parameters.
	NoiseLevel    float64
	MaxIterations int
	Trials        int
	Seed          int64

	// AuditDir, when set, enables an audit.jsonl of tool invocations
	// under that directory.
	AuditDir string

	Logger *slog.Logger
}

// NewServer creates a new MCP server with engram tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = hopfield.DefaultMaxIterations
	}
	if cfg.Trials < 1 {
		cfg.Trials = 1
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:  mcpServer,
		catalog: cfg.Catalog,
		cfg:     cfg,
		logger:  cfg.Logger,
	}
	if cfg.AuditDir != "" {
		s.audit = NewAuditLogger(cfg.AuditDir)
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	if err := s.registerResources(); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		<-sigChan
		cancel()
	}()

	if s.logger != nil {
		s.logger.Info("mcp server starting", "name", s.cfg.Name, "version", s.cfg.Version)
	}

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.audit.Close()

	return err
}

// Close releases the audit log. Safe to call when Run was never started.
func (s *Server) Close() error {
	return s.audit.Close()
}

// registerResources registers the catalog overview resource.
func (s *Server) registerResources() error {
	s.server.AddResource(&sdk.Resource{
		URI:         "engram://catalog",
		Name:        "engram-catalog",
		Description: "Overview of the loaded pattern catalog: names, grid shape, and stored count.",
		MIMEType:    "text/markdown",
	}, s.handleCatalogResource)

	return nil
}

// handleCatalogResource renders the loaded catalog as markdown for context
// injection.
func (s *Server) handleCatalogResource(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
	var sb strings.Builder
	sb.WriteString("# Pattern Catalog\n\n")

	if s.catalog == nil || s.catalog.Len() == 0 {
		sb.WriteString("No catalog loaded. Pass patterns inline to the recall tools.\n")
	} else {
		fmt.Fprintf(&sb, "%d patterns of %d neurons each", s.catalog.Len(), s.catalog.Size())
		if cols := render.Cols(s.catalog.Size()); cols > 0 {
			fmt.Fprintf(&sb, " (%dx%d grids)", cols, cols)
		}
		sb.WriteString(".\n\n")
		for i, name := range s.catalog.Names() {
			fmt.Fprintf(&sb, "- %d: %s\n", i, name)
		}
	}

	return &sdk.ReadResourceResult{
		Contents: []*sdk.ResourceContents{
			{
				URI:      "engram://catalog",
				MIMEType: "text/markdown",
				Text:     sb.String(),
			},
		},
	}, nil
}
