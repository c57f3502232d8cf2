package docstore

import (
	"fmt"
	"reflect"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Matches reports whether doc satisfies filter using the subset of MongoDB
// query semantics the embedded driver supports.
func Matches(doc Document, filter Filter) (bool, error) {
	return matchMap(doc, filter)
}

func matchMap(doc map[string]any, filter map[string]any) (bool, error) {
	for key, want := range filter {
		switch key {
		case "$and", "$or":
			clauses, ok := asList(want)
			if !ok {
				return false, fmt.Errorf("%w: %s expects an array", ErrUnsupportedOperator, key)
			}
			ok, err := matchLogical(doc, key, clauses)
			if err != nil || !ok {
				return false, err
			}
			continue
		}
		if strings.HasPrefix(key, "$") {
			return false, fmt.Errorf("%w: %s", ErrUnsupportedOperator, key)
		}

		got, present := lookup(doc, key)
		if ops, ok := asMap(want); ok && isOperatorMap(ops) {
			ok, err := matchOperators(got, present, ops)
			if err != nil || !ok {
				return false, err
			}
			continue
		}
		if !present || !valuesEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

func matchLogical(doc map[string]any, op string, clauses []any) (bool, error) {
	for _, clause := range clauses {
		sub, ok := asMap(clause)
		if !ok {
			return false, fmt.Errorf("%w: %s clause must be a document", ErrUnsupportedOperator, op)
		}
		matched, err := matchMap(doc, sub)
		if err != nil {
			return false, err
		}
		if op == "$or" && matched {
			return true, nil
		}
		if op == "$and" && !matched {
			return false, nil
		}
	}
	return op == "$and", nil
}

func matchOperators(got any, present bool, ops map[string]any) (bool, error) {
	for op, operand := range ops {
		var ok bool
		switch op {
		case "$eq":
			ok = present && valuesEqual(got, operand)
		case "$ne":
			ok = !present || !valuesEqual(got, operand)
		case "$in", "$nin":
			items, isList := asList(operand)
			if !isList {
				return false, fmt.Errorf("%w: %s expects an array", ErrUnsupportedOperator, op)
			}
			found := present && containsValue(items, got)
			ok = found == (op == "$in")
		case "$exists":
			want, isBool := operand.(bool)
			if !isBool {
				return false, fmt.Errorf("%w: $exists expects a boolean", ErrUnsupportedOperator)
			}
			ok = present == want
		default:
			return false, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// lookup resolves a possibly dotted field path inside doc.
func lookup(doc map[string]any, path string) (any, bool) {
	current := any(doc)
	for part := range strings.SplitSeq(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func containsValue(items []any, v any) bool {
	for _, item := range items {
		if valuesEqual(v, item) {
			return true
		}
	}
	return false
}

// valuesEqual compares two decoded BSON values. Numbers compare across
// integer and float kinds; embedded documents compare key by key.
func valuesEqual(a, b any) bool {
	if am, ok := asMap(a); ok {
		bm, ok := asMap(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		for key, av := range am {
			bv, ok := bm[key]
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	}
	if al, ok := asList(a); ok {
		bl, ok := asList(b)
		if !ok || len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !valuesEqual(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// ApplyUpdate returns a copy of doc with the update operators applied and
// whether anything changed. Only $set and $unset are understood.
func ApplyUpdate(doc Document, update Document) (Document, bool, error) {
	if len(update) == 0 {
		return nil, false, fmt.Errorf("%w: empty update document", ErrUnsupportedOperator)
	}
	out := cloneDocument(doc)
	changed := false
	for op, operand := range update {
		if op != "$set" && op != "$unset" {
			return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
		}
		fields, ok := asMap(operand)
		if !ok {
			return nil, false, fmt.Errorf("%w: %s expects a document", ErrUnsupportedOperator, op)
		}
		for path, value := range fields {
			if path == IDField || strings.HasPrefix(path, IDField+".") {
				return nil, false, fmt.Errorf("%w: %s is immutable", ErrUnsupportedOperator, IDField)
			}
			if op == "$set" {
				changed = setPath(out, path, value) || changed
			} else {
				changed = unsetPath(out, path) || changed
			}
		}
	}
	return out, changed, nil
}

func setPath(doc map[string]any, path string, value any) bool {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(current[part])
		if !ok {
			next = map[string]any{}
		}
		current[part] = next
		current = next
	}
	last := parts[len(parts)-1]
	if old, ok := current[last]; ok && valuesEqual(old, value) {
		return false
	}
	current[last] = value
	return true
}

func unsetPath(doc map[string]any, path string) bool {
	parts := strings.Split(path, ".")
	current := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(current[part])
		if !ok {
			return false
		}
		current[part] = next
		current = next
	}
	last := parts[len(parts)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}

// cloneDocument deep-copies nested documents so updates never alias the source.
func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	if m, ok := asMap(value); ok {
		out := make(map[string]any, len(m))
		for key, v := range m {
			out[key] = cloneValue(v)
		}
		return out
	}
	if list, ok := value.(bson.A); ok {
		out := make(bson.A, len(list))
		for i, v := range list {
			out[i] = cloneValue(v)
		}
		return out
	}
	return value
}
