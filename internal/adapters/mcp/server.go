// Package mcp exposes the screening engine as an MCP server, so agent
// hosts can drive an assessment through tools instead of the HTTP API.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/amparo-health/screening"
)

// PromptResponse is the structured result of question-facing tools.
type PromptResponse struct {
	SessionID string            `json:"session_id"`
	Prompt    *screening.Prompt `json:"prompt"`
}

// AnswerResponse is the structured result of record_answer.
type AnswerResponse struct {
	SessionID string            `json:"session_id"`
	Result    *screening.Result `json:"result"`
	Prompt    *screening.Prompt `json:"prompt"`
}

// Server wraps the screening Engine and exposes it as an MCP server.
type Server struct {
	engine    *screening.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(engine *screening.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("screening-mcp", screening.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_assessment",
		mcp.WithDescription("Start (or resume) a screening assessment session. Returns the first prompt."),
		mcp.WithString("session_id", mcp.Description("Session ID to resume; omitted generates a new one")),
		mcp.WithOutputSchema[PromptResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	nextTool := mcp.NewTool("get_next_question",
		mcp.WithDescription("Get the next available question for a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[PromptResponse](),
	)
	s.mcpServer.AddTool(nextTool, mcp.NewStructuredToolHandler(s.handleNextQuestion))

	answerTool := mcp.NewTool("record_answer",
		mcp.WithDescription("Record an answer. Scale answers are numbers, select answers strings, multiselect answers JSON arrays of strings."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("question_id", mcp.Required(), mcp.Description("Question ID from the current layer")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Answer value as JSON (e.g. 5, \"poor\", [\"pain\"])")),
		mcp.WithOutputSchema[AnswerResponse](),
	)
	s.mcpServer.AddTool(answerTool, mcp.NewStructuredToolHandler(s.handleRecordAnswer))

	s.mcpServer.AddTool(mcp.NewTool("get_actions",
		mcp.WithDescription("Get the actions triggered so far for a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		actions, err := s.engine.Actions(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get actions failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(actions)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PromptResponse, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if _, err := s.engine.Start(ctx, sessionID); err != nil {
		return PromptResponse{}, fmt.Errorf("start failed: %w", err)
	}
	prompt, err := s.engine.NextQuestion(ctx, sessionID)
	if err != nil {
		return PromptResponse{}, fmt.Errorf("prompt failed: %w", err)
	}
	return PromptResponse{SessionID: sessionID, Prompt: prompt}, nil
}

func (s *Server) handleNextQuestion(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PromptResponse, error) {
	sessionID, _ := args["session_id"].(string)
	prompt, err := s.engine.NextQuestion(ctx, sessionID)
	if err != nil {
		return PromptResponse{}, fmt.Errorf("prompt failed: %w", err)
	}
	return PromptResponse{SessionID: sessionID, Prompt: prompt}, nil
}

func (s *Server) handleRecordAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (AnswerResponse, error) {
	sessionID, _ := args["session_id"].(string)
	questionID, _ := args["question_id"].(string)
	raw, _ := args["value"].(string)

	// The value arrives as a JSON literal; a bare word is accepted as a
	// string for select answers.
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}

	result, err := s.engine.RecordAnswer(ctx, sessionID, questionID, value)
	if err != nil {
		return AnswerResponse{}, fmt.Errorf("record answer failed: %w", err)
	}
	prompt, err := s.engine.NextQuestion(ctx, sessionID)
	if err != nil {
		return AnswerResponse{}, fmt.Errorf("prompt failed: %w", err)
	}
	return AnswerResponse{SessionID: sessionID, Result: result, Prompt: prompt}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("screening://catalog", "Screening Catalog Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Inspect())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "screening://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
