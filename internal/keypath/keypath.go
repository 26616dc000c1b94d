// Package keypath flattens nested key specifications into dotted leaf paths
// and resolves those paths against nested Go values.
//
// A key specification is an ordered list whose entries are either scalar
// keys (string, int, ...) or nested specifications. A nested specification
// is a Group, or a map[string]any as produced by YAML/CUE decoding:
//
//	[]any{"name", keypath.Under("address", "street", "city")}
//	  -> "name", "address.street", "address.city"
//
// Group preserves order. Maps are expanded in sorted key order.
package keypath

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Separator joins a parent key to its children.
const Separator = "."

// Group nests child key specifications under a parent key.
type Group struct {
	Key  string
	Keys []any
}

// Under builds a Group.
func Under(key string, keys ...any) Group {
	return Group{Key: key, Keys: keys}
}

// Nested reports whether entry is a nested specification rather than a
// scalar key.
func Nested(entry any) bool {
	switch entry.(type) {
	case Group, *Group, map[string]any:
		return true
	default:
		return false
	}
}

// Leaves expands a single entry into its dotted leaf paths. A scalar entry
// is its own single leaf.
func Leaves(entry any) []any {
	return expand("", []any{entry}, nil)
}

// Expand flattens every entry of keys. Scalar top-level keys keep their type;
// leaves of nested entries are dot-joined strings.
func Expand(keys ...any) []any {
	return expand("", keys, make([]any, 0, len(keys)))
}

func expand(prefix string, keys []any, out []any) []any {
	for _, k := range keys {
		switch v := k.(type) {
		case Group:
			out = expandChildren(join(prefix, v.Key), v.Keys, out)
		case *Group:
			if v != nil {
				out = expandChildren(join(prefix, v.Key), v.Keys, out)
			}
		case map[string]any:
			names := make([]string, 0, len(v))
			for name := range v {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				out = expandValue(join(prefix, name), v[name], out)
			}
		case []any:
			out = expand(prefix, v, out)
		default:
			if prefix == "" {
				out = append(out, k)
			} else {
				out = append(out, join(prefix, fmt.Sprint(k)))
			}
		}
	}
	return out
}

// expandChildren treats a parent without children as a leaf itself.
func expandChildren(parent string, children []any, out []any) []any {
	if len(children) == 0 {
		return append(out, parent)
	}
	return expand(parent, children, out)
}

func expandValue(parent string, value any, out []any) []any {
	switch v := value.(type) {
	case nil:
		return append(out, parent)
	case []any:
		return expandChildren(parent, v, out)
	case []string:
		children := make([]any, len(v))
		for i, s := range v {
			children[i] = s
		}
		return expandChildren(parent, children, out)
	case map[string]any:
		if len(v) == 0 {
			return append(out, parent)
		}
		return expand(parent, []any{v}, out)
	default:
		return expand(parent, []any{v}, out)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + Separator + key
}

// Lookup resolves key against value. The key is first tried as a direct key
// (map key, slice index, exported struct field); a string key containing a
// Separator is then walked segment by segment.
func Lookup(value any, key any) (any, bool) {
	if v, ok := lookupDirect(reflect.ValueOf(value), key); ok {
		return v, true
	}

	path, ok := key.(string)
	if !ok || !strings.Contains(path, Separator) {
		return nil, false
	}

	current := value
	for _, segment := range strings.Split(path, Separator) {
		next, ok := lookupDirect(reflect.ValueOf(current), segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Has reports whether key resolves against value.
func Has(value any, key any) bool {
	_, ok := Lookup(value, key)
	return ok
}

func lookupDirect(rv reflect.Value, key any) (any, bool) {
	rv = indirect(rv)
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		mk, ok := mapKey(rv.Type().Key(), key)
		if !ok {
			return nil, false
		}
		v := rv.MapIndex(mk)
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, ok := index(key)
		if !ok || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return nil, false
		}
		field, ok := rv.Type().FieldByName(name)
		if !ok || !field.IsExported() {
			return nil, false
		}
		// a promoted field behind a nil embedded pointer is absent
		fv, err := rv.FieldByIndexErr(field.Index)
		if err != nil {
			return nil, false
		}
		return fv.Interface(), true
	default:
		return nil, false
	}
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// mapKey converts key to the map's key type without crossing between
// strings and numbers (reflect treats int -> string as a rune conversion).
func mapKey(keyType reflect.Type, key any) (reflect.Value, bool) {
	kv := reflect.ValueOf(key)
	if !kv.IsValid() {
		return reflect.Value{}, false
	}
	if kv.Type().AssignableTo(keyType) {
		return kv, true
	}

	switch {
	case isString(keyType.Kind()) && isString(kv.Kind()):
		return kv.Convert(keyType), true
	case isInteger(keyType.Kind()) && isInteger(kv.Kind()):
		return kv.Convert(keyType), true
	case isInteger(keyType.Kind()) && isString(kv.Kind()):
		n, err := strconv.ParseInt(kv.String(), 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(n).Convert(keyType), true
	case keyType.Kind() == reflect.Interface:
		return kv, kv.Type().Implements(keyType)
	default:
		return reflect.Value{}, false
	}
}

func index(key any) (int, bool) {
	kv := reflect.ValueOf(key)
	switch {
	case !kv.IsValid():
		return 0, false
	case isInteger(kv.Kind()):
		if kv.CanInt() {
			return int(kv.Int()), true
		}
		return int(kv.Uint()), true
	case isString(kv.Kind()):
		n, err := strconv.Atoi(kv.String())
		return n, err == nil
	default:
		return 0, false
	}
}

func isString(k reflect.Kind) bool {
	return k == reflect.String
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}
