package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/imaad666/Aya-Wallet-MCP/internal/audit"
	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
	"github.com/imaad666/Aya-Wallet-MCP/internal/events"
)

func echoDefinition(name string, mutating bool) Definition {
	return Definition{
		Descriptor: Descriptor{
			Name:        name,
			Description: "echoes its arguments",
			ParamOrder:  []string{"accountId", "amount", "slippage"},
			Params: map[string]Param{
				"accountId": {Type: TypeString, Required: true},
				"amount":    {Type: TypeNumber, Required: true},
				"slippage":  {Type: TypeNumber, Default: 0.5},
			},
		},
		Mutating: mutating,
		Handler: func(_ context.Context, args Arguments) (any, error) {
			return map[string]any{
				"accountId": args.String("accountId"),
				"amount":    args.Float("amount"),
				"slippage":  args.Float("slippage"),
			}, nil
		},
	}
}

func newTestDispatcher(t *testing.T, defs []Definition, opts ...Option) *Dispatcher {
	t.Helper()
	registry := NewRegistry()
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	return NewDispatcher(registry, opts...)
}

func TestInvokeEchoesArguments(t *testing.T) {
	d := newTestDispatcher(t, []Definition{echoDefinition("echo", false)})

	result := d.Invoke(context.Background(), "echo", map[string]any{
		"accountId": "0.0.1234",
		"amount":    float64(25),
	})
	if !result.OK {
		t.Fatalf("expected success, got %s: %s", result.ErrorCode, result.ErrorText)
	}
	payload, ok := result.Payload.(map[string]any)
	if !ok {
		t.Fatalf("unexpected payload type %T", result.Payload)
	}
	if payload["accountId"] != "0.0.1234" {
		t.Fatalf("accountId = %v", payload["accountId"])
	}
	if payload["amount"] != float64(25) {
		t.Fatalf("amount = %v", payload["amount"])
	}
	if payload["slippage"] != 0.5 {
		t.Fatalf("default slippage not applied, got %v", payload["slippage"])
	}
}

func TestInvokeCoercesStringNumbers(t *testing.T) {
	d := newTestDispatcher(t, []Definition{echoDefinition("echo", false)})

	result := d.Invoke(context.Background(), "echo", map[string]any{
		"accountId": "0.0.1234",
		"amount":    "25.5",
	})
	if !result.OK {
		t.Fatalf("expected success, got %s", result.ErrorText)
	}
	payload := result.Payload.(map[string]any)
	if payload["amount"] != 25.5 {
		t.Fatalf("amount = %v", payload["amount"])
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	d := newTestDispatcher(t, []Definition{echoDefinition("echo", false)})

	result := d.Invoke(context.Background(), "no_such_tool", map[string]any{})
	if result.OK {
		t.Fatal("expected failure")
	}
	if result.ErrorCode != string(xerrors.CodeUnknownOperation) {
		t.Fatalf("code = %s", result.ErrorCode)
	}
	if !strings.Contains(result.ErrorText, "no_such_tool") {
		t.Fatalf("error text should name the tool, got %q", result.ErrorText)
	}
}

func TestInvokeRejectsNonObjectArguments(t *testing.T) {
	d := newTestDispatcher(t, []Definition{echoDefinition("echo", false)})

	for _, rawArgs := range []any{nil, "not-a-map", []any{"x"}, float64(3)} {
		result := d.Invoke(context.Background(), "echo", rawArgs)
		if result.OK {
			t.Fatalf("expected failure for %T", rawArgs)
		}
		if result.ErrorCode != string(xerrors.CodeInvalidArgument) {
			t.Fatalf("code for %T = %s", rawArgs, result.ErrorCode)
		}
	}
}

func TestInvokeMissingRequiredParameter(t *testing.T) {
	d := newTestDispatcher(t, []Definition{echoDefinition("echo", false)})

	result := d.Invoke(context.Background(), "echo", map[string]any{"accountId": "0.0.1"})
	if result.OK {
		t.Fatal("expected failure")
	}
	if result.ErrorCode != string(xerrors.CodeInvalidArgument) {
		t.Fatalf("code = %s", result.ErrorCode)
	}
	if !strings.Contains(result.ErrorText, "amount") {
		t.Fatalf("error text should name the parameter, got %q", result.ErrorText)
	}
}

func TestInvokePreservesUniformErrorCodes(t *testing.T) {
	def := Definition{
		Descriptor: Descriptor{Name: "failing"},
		Handler: func(context.Context, Arguments) (any, error) {
			return nil, xerrors.New(xerrors.CodeDownstreamFailure, "receipt status FAIL")
		},
	}
	d := newTestDispatcher(t, []Definition{def})

	result := d.Invoke(context.Background(), "failing", map[string]any{})
	if result.OK {
		t.Fatal("expected failure")
	}
	if result.ErrorCode != string(xerrors.CodeDownstreamFailure) {
		t.Fatalf("code = %s", result.ErrorCode)
	}
	if result.ErrorText != "receipt status FAIL" {
		t.Fatalf("message = %q", result.ErrorText)
	}
}

func TestInvokeWrapsPlainErrors(t *testing.T) {
	def := Definition{
		Descriptor: Descriptor{Name: "failing"},
		Handler: func(context.Context, Arguments) (any, error) {
			return nil, errors.New("connection refused")
		},
	}
	d := newTestDispatcher(t, []Definition{def})

	result := d.Invoke(context.Background(), "failing", map[string]any{})
	if result.OK || result.ErrorCode != string(xerrors.CodeDownstreamFailure) {
		t.Fatalf("result = %+v", result)
	}
}

func TestInvokeContainsPanics(t *testing.T) {
	def := Definition{
		Descriptor: Descriptor{Name: "panicking"},
		Handler: func(context.Context, Arguments) (any, error) {
			panic("nil pointer somewhere downstream")
		},
	}
	d := newTestDispatcher(t, []Definition{def})

	result := d.Invoke(context.Background(), "panicking", map[string]any{})
	if result.OK {
		t.Fatal("expected failure")
	}
	if result.ErrorCode != string(xerrors.CodeDownstreamFailure) {
		t.Fatalf("code = %s", result.ErrorCode)
	}
	if !strings.Contains(result.ErrorText, "panicking") {
		t.Fatalf("error text should name the tool, got %q", result.ErrorText)
	}
}

func TestInvokeAppendsAuditRecords(t *testing.T) {
	store := audit.NewMemoryStore()
	d := newTestDispatcher(t, []Definition{echoDefinition("echo", false)}, WithAuditStore(store))

	d.Invoke(context.Background(), "echo", map[string]any{"accountId": "0.0.1", "amount": float64(1)})
	d.Invoke(context.Background(), "missing", map[string]any{})

	records, err := store.ListLatest(context.Background(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// Newest first.
	if records[0].Tool != "missing" || records[0].Outcome != audit.OutcomeFailure {
		t.Fatalf("record[0] = %+v", records[0])
	}
	if records[1].Tool != "echo" || records[1].Outcome != audit.OutcomeSuccess {
		t.Fatalf("record[1] = %+v", records[1])
	}
}

type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func TestInvokePublishesMutatingEvents(t *testing.T) {
	transfer := Definition{
		Descriptor: Descriptor{Name: "transfer"},
		Mutating:   true,
		Handler: func(context.Context, Arguments) (any, error) {
			return struct {
				TransactionID string `json:"transactionId"`
			}{TransactionID: "0.0.1001@1700000000.000000001"}, nil
		},
	}
	query := Definition{
		Descriptor: Descriptor{Name: "query"},
		Handler: func(context.Context, Arguments) (any, error) {
			return map[string]any{"balance": 10}, nil
		},
	}

	publisher := &capturePublisher{}
	d := newTestDispatcher(t, []Definition{transfer, query}, WithEventPublisher(publisher))

	d.Invoke(context.Background(), "transfer", map[string]any{})
	d.Invoke(context.Background(), "query", map[string]any{})

	if len(publisher.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.published))
	}
	event := publisher.published[0]
	if event.Tool != "transfer" {
		t.Fatalf("event tool = %s", event.Tool)
	}
	if event.TransactionID != "0.0.1001@1700000000.000000001" {
		t.Fatalf("event transaction id = %s", event.TransactionID)
	}
	if event.OccurredAt < time.Now().Add(-time.Minute).Unix() {
		t.Fatalf("event timestamp not stamped: %v", event.OccurredAt)
	}
}

func TestResultTextRendering(t *testing.T) {
	success := Result{OK: true, Payload: map[string]any{"hbars": 42.5}}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(success.Text()), &decoded); err != nil {
		t.Fatalf("unmarshal success text: %v", err)
	}
	if decoded["hbars"] != 42.5 {
		t.Fatalf("payload = %v", decoded)
	}

	fail := failure(xerrors.CodeInvalidArgument, "missing required parameter")
	var decodedErr map[string]string
	if err := json.Unmarshal([]byte(fail.Text()), &decodedErr); err != nil {
		t.Fatalf("unmarshal failure text: %v", err)
	}
	if decodedErr["code"] != string(xerrors.CodeInvalidArgument) {
		t.Fatalf("code = %s", decodedErr["code"])
	}
	if decodedErr["error"] != "missing required parameter" {
		t.Fatalf("error = %s", decodedErr["error"])
	}
}
