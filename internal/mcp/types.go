// Package mcp implements the line-delimited JSON-RPC 2.0 transport the agent
// host speaks over stdio. One request per line, one response per line; handler
// failures are carried inside tool results and never become protocol faults.
package mcp

import "encoding/json"

// ProtocolVersion is the protocol revision reported during initialize.
const ProtocolVersion = "2024-11-05"

// JSON-RPC error codes used by the transport.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Request is one incoming JSON-RPC message. Messages without an id are
// notifications and get no reply.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response is one outgoing JSON-RPC message. Exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// ResponseError is a protocol-level fault: malformed JSON, unknown method,
// unusable params. Tool failures do not use it.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// InitializeResult is the reply to the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities advertises what the server supports.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability describes the tools surface. The catalog is fixed, so list
// change notifications are never emitted.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolInfo is one catalog entry as exchanged over the wire.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ListToolsResult is the reply to tools/list.
type ListToolsResult struct {
	Tools []ToolInfo `json:"tools"`
}

// CallParams are the parameters of a tools/call request. Arguments stays
// untyped: the dispatcher owns validation and coercion.
type CallParams struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments"`
}

// ContentBlock is one entry in a tool result envelope.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the reply to tools/call. IsError marks tool-level failures;
// the JSON-RPC layer still reports success.
type CallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func textResult(text string, isError bool) CallResult {
	return CallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: isError,
	}
}
