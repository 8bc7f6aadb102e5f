// Package schema provides JSON Schema helpers for tool adaptation: local
// reference resolution, flattened property views, null-union checks, and
// framework-safe name sanitization. All functions are pure and operate on
// plain map representations of a schema document.
package schema

import (
	"encoding/json"
	"strings"
)

// maxRefDepth guards reference resolution against cyclic definitions.
const maxRefDepth = 64

// ToMap converts an SDK schema into its plain map representation via a
// JSON round-trip. A nil schema yields an empty object schema.
func ToMap(s any) map[string]any {
	if s == nil {
		return map[string]any{"type": "object"}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"type": "object"}
	}
	return m
}

// Resolve inlines every local $ref against the document's $defs (or the
// legacy definitions keyword) and drops the definitions container from the
// result. Unresolvable references — external URIs, unknown names, cycles
// beyond the depth guard — are left in place rather than rejected, so a
// malformed sub-schema never blocks adaptation of the rest. The input is
// not mutated, and the operation is idempotent.
func Resolve(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}

	defs := map[string]any{}
	for _, key := range []string{"$defs", "definitions"} {
		if m, ok := schema[key].(map[string]any); ok {
			for name, def := range m {
				defs[name] = def
			}
		}
	}

	resolved, _ := resolveNode(schema, defs, 0).(map[string]any)
	if resolved == nil {
		return schema
	}
	delete(resolved, "$defs")
	delete(resolved, "definitions")
	return resolved
}

func resolveNode(node any, defs map[string]any, depth int) any {
	if depth > maxRefDepth {
		return node
	}
	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			if def, ok := lookupRef(ref, defs); ok {
				return resolveNode(def, defs, depth+1)
			}
			// Unresolvable: keep the reference as-is.
		}
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = resolveNode(val, defs, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = resolveNode(item, defs, depth+1)
		}
		return out
	default:
		return node
	}
}

// lookupRef resolves a local reference of the form #/$defs/Name or
// #/definitions/Name.
func lookupRef(ref string, defs map[string]any) (any, bool) {
	var name string
	switch {
	case strings.HasPrefix(ref, "#/$defs/"):
		name = strings.TrimPrefix(ref, "#/$defs/")
	case strings.HasPrefix(ref, "#/definitions/"):
		name = strings.TrimPrefix(ref, "#/definitions/")
	default:
		return nil, false
	}
	if strings.Contains(name, "/") {
		// Nested pointers are out of scope; leave them unresolved.
		return nil, false
	}
	// JSON Pointer escaping per RFC 6901.
	name = strings.ReplaceAll(name, "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	def, ok := defs[name]
	return def, ok
}

// Properties returns the flattened properties view of a schema. Property
// values that are not objects are skipped.
func Properties(schema map[string]any) map[string]map[string]any {
	out := map[string]map[string]any{}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return out
	}
	for name, raw := range props {
		if prop, ok := raw.(map[string]any); ok {
			out[name] = prop
		}
	}
	return out
}

// Required returns the schema's required property names.
func Required(schema map[string]any) []string {
	raw, ok := schema["required"].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

// AllowsNull reports whether a property schema admits an explicit null:
// its type is "null", its type list contains "null", or any anyOf/oneOf
// branch does.
func AllowsNull(prop map[string]any) bool {
	switch t := prop["type"].(type) {
	case string:
		if t == "null" {
			return true
		}
	case []any:
		for _, entry := range t {
			if entry == "null" {
				return true
			}
		}
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		branches, ok := prop[key].([]any)
		if !ok {
			continue
		}
		for _, raw := range branches {
			if branch, ok := raw.(map[string]any); ok && AllowsNull(branch) {
				return true
			}
		}
	}
	return false
}

// FilterNull returns a copy of args without the keys whose value is an
// explicit null, unless the (resolved) schema declares that key as
// null-typed or null-unioned. Servers that validate against null otherwise
// reject such calls.
func FilterNull(args map[string]any, schema map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	props := Properties(schema)
	out := make(map[string]any, len(args))
	for key, value := range args {
		if value == nil {
			prop, known := props[key]
			if !known || !AllowsNull(prop) {
				continue
			}
		}
		out[key] = value
	}
	return out
}
