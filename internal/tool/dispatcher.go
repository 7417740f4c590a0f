package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/imaad666/Aya-Wallet-MCP/internal/audit"
	xerrors "github.com/imaad666/Aya-Wallet-MCP/internal/errors"
	"github.com/imaad666/Aya-Wallet-MCP/internal/events"
	"github.com/imaad666/Aya-Wallet-MCP/internal/observability/metrics"
	"github.com/imaad666/Aya-Wallet-MCP/pkg/logger"
)

// Dispatcher routes invocations to handlers and owns the single error
// translation boundary: no handler failure, panic included, ever escapes it.
type Dispatcher struct {
	registry  *Registry
	store     audit.Store
	publisher events.Publisher
	log       *slog.Logger
}

// Option configures optional dispatcher collaborators.
type Option func(*Dispatcher)

// WithAuditStore records every invocation in the given history store.
func WithAuditStore(store audit.Store) Option {
	return func(d *Dispatcher) { d.store = store }
}

// WithEventPublisher publishes successful mutating invocations.
func WithEventPublisher(publisher events.Publisher) Option {
	return func(d *Dispatcher) { d.publisher = publisher }
}

// NewDispatcher builds a dispatcher over a finished catalog.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:  registry,
		publisher: events.NopPublisher{},
		log:       logger.Named("dispatcher"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// ListTools returns the catalog descriptors. Pure, no failure mode.
func (d *Dispatcher) ListTools() []Descriptor {
	return d.registry.List()
}

// Invoke validates the operation name and arguments, runs the handler, and
// wraps the outcome in a Result. rawArgs is the untyped argument mapping as
// decoded from the wire.
func (d *Dispatcher) Invoke(ctx context.Context, name string, rawArgs any) Result {
	started := time.Now()
	d.log.Info("invoking tool",
		slog.String("tool", name),
		slog.Any("arguments", rawArgs))

	result := d.invoke(ctx, name, rawArgs)
	d.observe(ctx, name, rawArgs, result, time.Since(started))
	return result
}

func (d *Dispatcher) invoke(ctx context.Context, name string, rawArgs any) (result Result) {
	def, ok := d.registry.Lookup(name)
	if !ok {
		return failure(xerrors.CodeUnknownOperation, fmt.Sprintf("unknown tool: %s", name))
	}

	mapping, ok := asMapping(rawArgs)
	if !ok {
		return failure(xerrors.CodeInvalidArgument, "arguments must be an object")
	}

	args, err := normalize(def.Descriptor, mapping)
	if err != nil {
		return failure(xerrors.CodeInvalidArgument, err.Error())
	}

	// The boundary: downstream SDK calls may fail or panic, the caller
	// always gets a Result.
	defer func() {
		if recovered := recover(); recovered != nil {
			d.log.Error("tool handler panicked",
				slog.String("tool", name),
				slog.Any("panic", recovered))
			result = failure(xerrors.CodeDownstreamFailure, fmt.Sprintf("internal error in %s: %v", name, recovered))
		}
	}()

	payload, err := def.Handler(ctx, args)
	if err != nil {
		if uniform, ok := xerrors.From(err); ok {
			return failure(uniform.Code(), uniform.Message())
		}
		return failure(xerrors.CodeDownstreamFailure, err.Error())
	}
	return Result{OK: true, Payload: payload}
}

// observe emits the audit record, metrics sample, audit log line, and the
// transaction event. All best-effort.
func (d *Dispatcher) observe(ctx context.Context, name string, rawArgs any, result Result, elapsed time.Duration) {
	outcome := audit.OutcomeSuccess
	if !result.OK {
		outcome = audit.OutcomeFailure
	}
	metrics.ObserveInvocation(name, string(outcome), elapsed)

	logger.Audit().Info("tool invocation",
		slog.String("tool", name),
		slog.String("outcome", string(outcome)),
		slog.Int64("duration_ms", elapsed.Milliseconds()))

	if d.store != nil {
		record := audit.NewRecord(name, encodeArguments(rawArgs), outcome, result.ErrorText, elapsed)
		if err := d.store.Append(ctx, record); err != nil {
			d.log.Warn("audit append failed",
				slog.String("tool", name),
				slog.String("error", err.Error()))
		}
	}

	if result.OK {
		if def, ok := d.registry.Lookup(name); ok && def.Mutating {
			event := events.NewEvent(name, transactionID(result.Payload), result.Payload)
			if err := d.publisher.Publish(ctx, event); err != nil {
				d.log.Warn("event publish failed",
					slog.String("tool", name),
					slog.String("error", err.Error()))
			}
		}
	}
}

func failure(code xerrors.Code, message string) Result {
	return Result{ErrorCode: string(code), ErrorText: message}
}

func asMapping(rawArgs any) (map[string]any, bool) {
	if rawArgs == nil {
		return nil, false
	}
	mapping, ok := rawArgs.(map[string]any)
	return mapping, ok
}

// normalize applies defaults and coerces loosely-typed values onto the
// declared parameter types.
func normalize(desc Descriptor, mapping map[string]any) (Arguments, error) {
	args := make(Arguments, len(desc.Params))
	for _, name := range desc.ParamOrder {
		param := desc.Params[name]
		raw, present := mapping[name]
		if !present || raw == nil {
			if param.Required {
				return nil, fmt.Errorf("missing required parameter %q", name)
			}
			if param.Default != nil {
				args[name] = param.Default
			}
			continue
		}
		coerced, err := coerce(param.Type, raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %v", name, err)
		}
		args[name] = coerced
	}
	return args, nil
}

func coerce(kind ParamType, raw any) (any, error) {
	switch kind {
	case TypeString:
		switch value := raw.(type) {
		case string:
			return value, nil
		case float64:
			return strconv.FormatFloat(value, 'f', -1, 64), nil
		case json.Number:
			return value.String(), nil
		}
		return nil, fmt.Errorf("expected string, got %T", raw)
	case TypeNumber:
		switch value := raw.(type) {
		case float64:
			return value, nil
		case json.Number:
			parsed, err := value.Float64()
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", value.String())
			}
			return parsed, nil
		case string:
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", value)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected number, got %T", raw)
	case TypeBoolean:
		switch value := raw.(type) {
		case bool:
			return value, nil
		case string:
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("expected boolean, got %q", value)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected boolean, got %T", raw)
	}
	return nil, fmt.Errorf("unsupported parameter type %q", kind)
}

func encodeArguments(rawArgs any) string {
	encoded, err := json.Marshal(rawArgs)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// transactionID pulls the transaction id out of a payload, when present, so
// events can be correlated without knowing every payload type.
func transactionID(payload any) string {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	var probe struct {
		TransactionID string `json:"transactionId"`
	}
	if err := json.Unmarshal(encoded, &probe); err != nil {
		return ""
	}
	return probe.TransactionID
}
