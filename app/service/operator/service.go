package operator

import (
	"conectin/app/service/conversation"
	"conectin/app/service/router"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

const (
	serverName    = "conectin-operator"
	serverVersion = "1.0.0"
)

type Controller interface {
	Reactivate(ctx context.Context, chatID string) error
	Handoff(ctx context.Context, chatID string) (bool, error)
}

type StateReader interface {
	Handoffs() []conversation.Handoff
	Status(chatID string) conversation.Status
}

// Service exposes operator actions as MCP tools, so the support team can hand
// conversations back and forth without typing commands inside the chat.
type Service struct {
	controller Controller
	state      StateReader
	mcpServer  *server.MCPServer
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*router.Router](di),
		do.MustInvoke[*conversation.Store](di),
	), nil
}

func NewService(controller Controller, state StateReader) *Service {
	s := &Service{
		controller: controller,
		state:      state,
		mcpServer: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
		),
	}

	s.registerTools()

	return s
}

func (s *Service) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Handler serves the MCP streamable HTTP transport.
func (s *Service) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Service) registerTools() {
	chatID := mcp.WithString("chat_id",
		mcp.Required(),
		mcp.Description("WhatsApp chat id, e.g. 50212345678@c.us"),
	)

	s.mcpServer.AddTool(mcp.NewTool("activate_bot",
		mcp.WithDescription("Return a conversation to the bot and send the customer the reactivation menu. Same as typing !activarbot in the chat."),
		chatID,
	), s.activateBot)

	s.mcpServer.AddTool(mcp.NewTool("handoff",
		mcp.WithDescription("Silence the bot for a conversation so a person can answer. The bot comes back after the inactivity timeout."),
		chatID,
	), s.handoff)

	s.mcpServer.AddTool(mcp.NewTool("list_handoffs",
		mcp.WithDescription("List conversations currently handled by a person."),
	), s.listHandoffs)

	s.mcpServer.AddTool(mcp.NewTool("conversation_status",
		mcp.WithDescription("Show the bot state of one conversation: handoff, participants and technical dialogue progress."),
		chatID,
	), s.conversationStatus)
}

func (s *Service) activateBot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	if err = s.controller.Reactivate(ctx, chatID); err != nil {
		return mcp.NewToolResultErrorFromErr("reactivation failed", err), nil
	}

	return mcp.NewToolResultText("ok"), nil
}

func (s *Service) handoff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	changed, err := s.controller.Handoff(ctx, chatID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("handoff failed", err), nil
	}

	if !changed {
		return mcp.NewToolResultText("already handled by a person"), nil
	}

	return mcp.NewToolResultText("ok"), nil
}

func (s *Service) listHandoffs(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.state.Handoffs())
}

func (s *Service) conversationStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chatID, err := request.RequireString("chat_id")
	if err != nil {
		return mcp.NewToolResultError("chat_id argument is required and must be a string"), nil
	}

	return jsonResult(s.state.Status(chatID))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}
