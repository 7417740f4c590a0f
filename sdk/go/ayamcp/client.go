// Package ayamcp is a small client for the Aya wallet tool server. It speaks
// the line-delimited JSON-RPC protocol over any byte-stream pair, typically
// the stdin/stdout of a spawned server process.
package ayamcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// maxLineBytes mirrors the server-side line bound.
const maxLineBytes = 1 << 20

// ServerInfo describes the server reached during the initialize handshake.
type ServerInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocolVersion"`
}

// ToolInfo is one catalog entry returned by ListTools.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// RPCError is a protocol-level fault returned by the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ToolError is a tool-level failure carried inside a successful tools/call
// response.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool error %s: %s", e.Code, e.Message)
}

// Client issues requests over a reader/writer pair. Calls are serialized:
// the server answers one request at a time, so the client sends one at a
// time too.
type Client struct {
	mu      sync.Mutex
	out     io.Writer
	scanner *bufio.Scanner
	nextID  int64
}

// NewClient wraps the given streams. in carries the server's responses, out
// carries the client's requests.
func NewClient(in io.Reader, out io.Writer) *Client {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Client{out: out, scanner: scanner}
}

// Initialize performs the protocol handshake and sends the initialized
// notification.
func (c *Client) Initialize(ctx context.Context) (ServerInfo, error) {
	raw, err := c.call(ctx, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
	})
	if err != nil {
		return ServerInfo{}, err
	}
	var result struct {
		ProtocolVersion string     `json:"protocolVersion"`
		ServerInfo      ServerInfo `json:"serverInfo"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return ServerInfo{}, fmt.Errorf("decode initialize result: %w", err)
	}
	if err := c.notify("notifications/initialized"); err != nil {
		return ServerInfo{}, err
	}
	info := result.ServerInfo
	info.ProtocolVersion = result.ProtocolVersion
	return info, nil
}

// Ping checks that the server is responsive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, "ping", nil)
	return err
}

// ListTools fetches the tool catalog.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	raw, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tools/list result: %w", err)
	}
	return result.Tools, nil
}

// CallTool invokes one tool and decodes its JSON payload into out. A
// tool-level failure is returned as *ToolError.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any, out any) error {
	raw, err := c.call(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		return err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("decode tools/call result: %w", err)
	}
	if len(result.Content) == 0 {
		return fmt.Errorf("tool %s returned no content", name)
	}
	text := result.Content[0].Text

	if result.IsError {
		toolErr := &ToolError{}
		if err := json.Unmarshal([]byte(text), toolErr); err != nil || toolErr.Message == "" {
			toolErr.Message = text
		}
		return toolErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(text), out)
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.nextID++
	id := c.nextID
	if err := c.send(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}); err != nil {
		return nil, err
	}

	for c.scanner.Scan() {
		line := c.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var response struct {
			ID     int64           `json:"id"`
			Result json.RawMessage `json:"result"`
			Error  *RPCError       `json:"error"`
		}
		if err := json.Unmarshal(line, &response); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if response.ID != id {
			continue
		}
		if response.Error != nil {
			return nil, response.Error
		}
		return response.Result, nil
	}
	if err := c.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read response stream: %w", err)
	}
	return nil, io.EOF
}

func (c *Client) notify(method string) error {
	return c.send(map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
	})
}

func (c *Client) send(message map[string]any) error {
	encoded, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if _, err := c.out.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}
