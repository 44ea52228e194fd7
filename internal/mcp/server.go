// ABOUTME: MCP server setup for the fitness tracker.
// ABOUTME: Binds one logged-in session to the tracker service over stdio.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/fittrack/internal/session"
	"github.com/harperreed/fittrack/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with tracker access.
type Server struct {
	mcpServer *mcp.Server
	svc       *tracker.Service
	sess      *session.Session
}

// NewServer creates a new MCP server acting as the session's user.
// Admin-only tools are registered only for admin sessions.
func NewServer(svc *tracker.Service, sess *session.Session) (*Server, error) {
	if sess.State() == session.LoggedOut {
		return nil, errors.New("mcp server requires a logged-in session")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fittrack",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		sess:      sess,
	}

	s.registerTools()
	if sess.State() == session.LoggedInAdmin {
		s.registerAdminTools()
	}
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
