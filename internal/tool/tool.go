// Package tool holds the fixed operation catalog and the dispatch boundary.
// Descriptors are defined once at process start; every invocation is
// independent and stateless.
package tool

import (
	"context"
	"encoding/json"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param describes one parameter of a tool.
type Param struct {
	Type        ParamType
	Description string
	Required    bool
	Default     any
}

// Descriptor is the immutable description of one callable operation.
type Descriptor struct {
	Name        string
	Description string
	ParamOrder  []string
	Params      map[string]Param
}

// InputSchema renders the descriptor's parameters as a JSON schema object,
// the shape tool catalogs are exchanged in over the wire.
func (d Descriptor) InputSchema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	var required []string
	for _, name := range d.ParamOrder {
		param := d.Params[name]
		prop := map[string]any{"type": string(param.Type)}
		if param.Description != "" {
			prop["description"] = param.Description
		}
		if param.Default != nil {
			prop["default"] = param.Default
		}
		properties[name] = prop
		if param.Required {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Arguments is a normalized argument mapping: values carry the declared
// parameter types after coercion.
type Arguments map[string]any

// String returns the value of a string parameter.
func (a Arguments) String(key string) string {
	value, _ := a[key].(string)
	return value
}

// Float returns the value of a number parameter.
func (a Arguments) Float(key string) float64 {
	value, _ := a[key].(float64)
	return value
}

// Uint returns a number parameter truncated to an unsigned integer.
func (a Arguments) Uint(key string) uint64 {
	value := a.Float(key)
	if value < 0 {
		return 0
	}
	return uint64(value)
}

// Handler executes one operation against its downstream collaborator.
type Handler func(ctx context.Context, args Arguments) (any, error)

// Definition couples a descriptor with its handler. Mutating marks
// state-changing operations whose successful results are published as
// transaction events.
type Definition struct {
	Descriptor
	Mutating bool
	Handler  Handler
}

// Result is the tagged outcome of one invocation: either a structured
// payload or a human-readable failure message, never both.
type Result struct {
	OK        bool
	Payload   any
	ErrorCode string
	ErrorText string
}

// Text renders the result as the JSON string carried in the protocol
// envelope.
func (r Result) Text() string {
	if r.OK {
		encoded, err := json.Marshal(r.Payload)
		if err != nil {
			return `{"error":"result serialization failed"}`
		}
		return string(encoded)
	}
	encoded, err := json.Marshal(map[string]string{"code": r.ErrorCode, "error": r.ErrorText})
	if err != nil {
		return `{"error":"result serialization failed"}`
	}
	return string(encoded)
}
