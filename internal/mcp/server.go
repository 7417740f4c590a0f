package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/imaad666/Aya-Wallet-MCP/internal/tool"
	"github.com/imaad666/Aya-Wallet-MCP/pkg/logger"
)

// maxLineBytes bounds a single request line. Tool arguments are small; this
// is headroom, not a promise.
const maxLineBytes = 1 << 20

// Invoker is the slice of the dispatcher the transport needs.
type Invoker interface {
	ListTools() []tool.Descriptor
	Invoke(ctx context.Context, name string, rawArgs any) tool.Result
}

// Server reads requests from in, dispatches them one at a time, and writes
// responses to out. It owns no tool semantics.
type Server struct {
	in         io.Reader
	out        io.Writer
	dispatcher Invoker
	name       string
	version    string
	log        *slog.Logger

	mu sync.Mutex // serializes writes to out
}

// NewServer builds a transport over the given byte streams.
func NewServer(in io.Reader, out io.Writer, dispatcher Invoker, name, version string) *Server {
	return &Server{
		in:         in,
		out:        out,
		dispatcher: dispatcher,
		name:       name,
		version:    version,
		log:        logger.Named("mcp"),
	}
}

// Start runs the request loop until the input stream ends or the context is
// cancelled. A malformed line gets a parse error response and the loop keeps
// going.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("server started",
		slog.String("name", s.name),
		slog.String("version", s.version),
		slog.String("protocol", ProtocolVersion))

	lines := make(chan inboundLine)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(s.in)
		for {
			line, err := readBoundedLine(reader)
			if err != nil {
				if err != io.EOF {
					errCh <- err
				} else if len(line.data) > 0 || line.oversized {
					select {
					case lines <- line:
					case <-ctx.Done():
					}
				}
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("server stopping", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()
		case err := <-errCh:
			return fmt.Errorf("read request stream: %w", err)
		case line, ok := <-lines:
			if !ok {
				s.log.Info("input stream closed")
				return nil
			}
			if line.oversized {
				s.log.Warn("request line exceeds limit", slog.Int("limit", maxLineBytes))
				if err := s.write(errorResponse(nil, codeParseError, "request line too long")); err != nil {
					return fmt.Errorf("write response: %w", err)
				}
				continue
			}
			if len(line.data) == 0 {
				continue
			}
			if response := s.handle(ctx, line.data); response != nil {
				if err := s.write(response); err != nil {
					return fmt.Errorf("write response: %w", err)
				}
			}
		}
	}
}

type inboundLine struct {
	data      []byte
	oversized bool
}

// readBoundedLine reads up to the next newline. A line beyond maxLineBytes is
// drained and flagged so the caller can answer with a parse error while the
// stream stays usable.
func readBoundedLine(reader *bufio.Reader) (inboundLine, error) {
	var buf []byte
	oversized := false
	for {
		chunk, err := reader.ReadSlice('\n')
		if !oversized {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes {
				buf = nil
				oversized = true
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return inboundLine{data: bytes.TrimRight(buf, "\r\n"), oversized: oversized}, err
	}
}

// handle processes one raw line. Returns nil when no reply is owed
// (notifications).
func (s *Server) handle(ctx context.Context, line []byte) *Response {
	var request Request
	if err := json.Unmarshal(line, &request); err != nil {
		s.log.Warn("malformed request line", slog.String("error", err.Error()))
		return errorResponse(nil, codeParseError, "parse error")
	}

	if request.IsNotification() {
		s.log.Debug("notification consumed", slog.String("method", request.Method))
		return nil
	}

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "ping":
		return resultResponse(request.ID, struct{}{})
	case "tools/list":
		return s.handleListTools(request)
	case "tools/call":
		return s.handleCallTool(ctx, request)
	case "":
		return errorResponse(request.ID, codeInvalidRequest, "missing method")
	default:
		return errorResponse(request.ID, codeMethodNotFound, fmt.Sprintf("method not found: %s", request.Method))
	}
}

func (s *Server) handleInitialize(request Request) *Response {
	return resultResponse(request.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    Capabilities{Tools: ToolsCapability{ListChanged: false}},
		ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
	})
}

func (s *Server) handleListTools(request Request) *Response {
	descriptors := s.dispatcher.ListTools()
	infos := make([]ToolInfo, 0, len(descriptors))
	for _, desc := range descriptors {
		infos = append(infos, ToolInfo{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema(),
		})
	}
	return resultResponse(request.ID, ListToolsResult{Tools: infos})
}

func (s *Server) handleCallTool(ctx context.Context, request Request) *Response {
	var params CallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return errorResponse(request.ID, codeInvalidParams, "tools/call params must be an object")
	}
	if params.Name == "" {
		return errorResponse(request.ID, codeInvalidParams, "tools/call requires a tool name")
	}

	result := s.dispatcher.Invoke(ctx, params.Name, params.Arguments)
	return resultResponse(request.ID, textResult(result.Text(), !result.OK))
}

func (s *Server) write(response *Response) error {
	encoded, err := json.Marshal(response)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(encoded); err != nil {
		return err
	}
	_, err = s.out.Write([]byte{'\n'})
	return err
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	if id == nil {
		id = json.RawMessage("null")
	}
	return &Response{JSONRPC: "2.0", ID: id, Error: &ResponseError{Code: code, Message: message}}
}
