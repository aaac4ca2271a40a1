package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/araliya/supportbot/internal/dataset"
	"github.com/araliya/supportbot/internal/intent"
	"github.com/araliya/supportbot/internal/responder"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Responder *responder.Responder
	Snapshot  *dataset.Snapshot
}

// NewMCPServer creates an MCP server exposing the support responder as
// agent tools, so an LLM assistant can answer store questions from the
// same datasets as the chat widget.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"supportbot",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("supportbot — rule-based store support: order status, policies, and product recommendations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("answer",
			mcp.WithDescription("Answer a customer support message. Classifies the message into an intent and replies from the store datasets."),
			mcp.WithString("message", mcp.Description("The customer message"), mcp.Required()),
		),
		mcpAnswer(deps),
	)

	s.AddTool(
		mcp.NewTool("order_status",
			mcp.WithDescription("Look up the status and expected delivery date of an order."),
			mcp.WithString("order_id", mcp.Description("Order ID, e.g. O1001"), mcp.Required()),
		),
		mcpOrderStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("recommend_products",
			mcp.WithDescription("Recommend up to two products from a category, in-stock items first."),
			mcp.WithString("category", mcp.Description("Product category, e.g. electronics"), mcp.Required()),
		),
		mcpRecommendProducts(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"support://faq",
			"Store FAQ",
			mcp.WithResourceDescription("The full FAQ table as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceFAQ(deps),
	)

	return s
}

func mcpAnswer(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		reply, it := deps.Responder.Respond(message)

		b, err := json.Marshal(map[string]string{
			"reply":  reply,
			"intent": string(it),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reply: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpOrderStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := req.RequireString("order_id")
		if err != nil {
			return mcpError("order_id is required"), nil
		}

		// The order-status handler extracts the ID from free text, so the
		// bare ID is a valid message.
		return mcpText(deps.Responder.Reply(intent.OrderStatus, orderID)), nil
	}
}

func mcpRecommendProducts(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		category, err := req.RequireString("category")
		if err != nil {
			return mcpError("category is required"), nil
		}

		return mcpText(deps.Responder.Reply(intent.ProductRecommendation, category)), nil
	}
}

func mcpResourceFAQ(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type faqRow struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		}

		entries := deps.Snapshot.FAQEntries()
		rows := make([]faqRow, len(entries))
		for i, e := range entries {
			rows[i] = faqRow{Question: e.Question, Answer: e.Answer}
		}

		b, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal faq: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
