package ayamcp

import (
	"context"
	"io"
	"testing"

	"github.com/imaad666/Aya-Wallet-MCP/internal/mcp"
	"github.com/imaad666/Aya-Wallet-MCP/internal/tool"
)

// startServer wires a real transport to the client over in-process pipes.
func startServer(t *testing.T) *Client {
	t.Helper()

	registry := tool.NewRegistry()
	err := registry.Register(tool.Definition{
		Descriptor: tool.Descriptor{
			Name:        "get_account_balance",
			Description: "returns a fixed balance",
			ParamOrder:  []string{"accountId"},
			Params: map[string]tool.Param{
				"accountId": {Type: tool.TypeString},
			},
		},
		Handler: func(_ context.Context, args tool.Arguments) (any, error) {
			return map[string]any{"accountId": args.String("accountId"), "hbars": "100 hbar"}, nil
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	clientReader, serverWriter := io.Pipe()
	serverReader, clientWriter := io.Pipe()

	server := mcp.NewServer(serverReader, serverWriter, tool.NewDispatcher(registry), "aya-wallet-mcp", "test")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = server.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = clientWriter.Close()
		_ = clientReader.Close()
		<-done
	})

	return NewClient(clientReader, clientWriter)
}

func TestClientHandshakeAndCatalog(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	info, err := client.Initialize(ctx)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if info.Name != "aya-wallet-mcp" {
		t.Fatalf("server name = %s", info.Name)
	}
	if info.ProtocolVersion == "" {
		t.Fatal("missing protocol version")
	}

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	tools, err := client.ListTools(ctx)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "get_account_balance" {
		t.Fatalf("tools = %+v", tools)
	}
}

func TestClientCallTool(t *testing.T) {
	client := startServer(t)
	ctx := context.Background()

	var payload struct {
		AccountID string `json:"accountId"`
		Hbars     string `json:"hbars"`
	}
	if err := client.CallTool(ctx, "get_account_balance", map[string]any{"accountId": "0.0.1234"}, &payload); err != nil {
		t.Fatalf("call: %v", err)
	}
	if payload.AccountID != "0.0.1234" || payload.Hbars != "100 hbar" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestClientSurfacesToolErrors(t *testing.T) {
	client := startServer(t)

	err := client.CallTool(context.Background(), "no_such_tool", map[string]any{}, nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	toolErr, ok := err.(*ToolError)
	if !ok {
		t.Fatalf("expected *ToolError, got %T: %v", err, err)
	}
	if toolErr.Code != "UNKNOWN_OPERATION" {
		t.Fatalf("code = %s", toolErr.Code)
	}
}

func TestClientSurfacesProtocolErrors(t *testing.T) {
	client := startServer(t)

	_, err := client.call(context.Background(), "resources/list", nil)
	if err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := err.(*RPCError); !ok {
		t.Fatalf("expected *RPCError, got %T: %v", err, err)
	}
}
