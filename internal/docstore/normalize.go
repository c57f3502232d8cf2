package docstore

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// IDField is the key the document store uses for a document's identifier.
const IDField = "_id"

// NormalizeIDs returns a copy of filter in which every IDField value, at any
// nesting depth, is a bson.ObjectID. The input is never modified.
//
// Values are converted without format checks beyond what bson.ObjectIDFromHex
// does itself, so a malformed id comes back as ErrInvalidID.
func NormalizeIDs(filter Filter) (Filter, error) {
	if filter == nil {
		return Filter{}, nil
	}
	out, err := normalizeMap(filter)
	if err != nil {
		return nil, err
	}
	return Filter(out), nil
}

func normalizeMap(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for key, value := range m {
		normalized, err := normalizeValue(key, value)
		if err != nil {
			return nil, err
		}
		out[key] = normalized
	}
	return out, nil
}

func normalizeValue(key string, value any) (any, error) {
	if doc, ok := value.(bson.D); ok {
		return normalizeOrdered(key, doc)
	}
	if nested, ok := asMap(value); ok {
		if key == IDField && isOperatorMap(nested) {
			return normalizeIDOperators(nested)
		}
		return normalizeMap(nested)
	}

	if list, ok := value.([]any); ok {
		return normalizeList(key, list)
	}
	if list, ok := value.(bson.A); ok {
		return normalizeList(key, list)
	}

	if key == IDField {
		return ToObjectID(value)
	}
	return value, nil
}

func normalizeList(key string, list []any) ([]any, error) {
	out := make([]any, len(list))
	for i, item := range list {
		if doc, ok := item.(bson.D); ok {
			normalized, err := normalizeOrdered("", doc)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
			continue
		}
		if nested, ok := asMap(item); ok {
			normalized, err := normalizeMap(nested)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
			continue
		}
		if key == IDField {
			return nil, fmt.Errorf("%w: array value for %s", ErrInvalidID, IDField)
		}
		out[i] = item
	}
	return out, nil
}

// normalizeOrdered keeps an ordered document ordered: the store compares
// embedded documents field by field.
func normalizeOrdered(key string, doc bson.D) (bson.D, error) {
	idOps := key == IDField && isOperatorDoc(doc)
	out := make(bson.D, len(doc))
	for i, elem := range doc {
		var (
			value any
			err   error
		)
		if idOps {
			value, err = normalizeIDOperand(elem.Key, elem.Value)
		} else {
			value, err = normalizeValue(elem.Key, elem.Value)
		}
		if err != nil {
			return nil, err
		}
		out[i] = bson.E{Key: elem.Key, Value: value}
	}
	return out, nil
}

// normalizeIDOperators converts the operands of comparison operators applied
// directly to the identifier, e.g. {"_id": {"$in": ["..", ".."]}}.
func normalizeIDOperators(ops map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(ops))
	for op, operand := range ops {
		value, err := normalizeIDOperand(op, operand)
		if err != nil {
			return nil, err
		}
		out[op] = value
	}
	return out, nil
}

func normalizeIDOperand(op string, operand any) (any, error) {
	switch op {
	case "$eq", "$ne":
		id, err := ToObjectID(operand)
		if err != nil {
			return nil, err
		}
		return id, nil
	case "$in", "$nin":
		items, ok := asList(operand)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an array", ErrInvalidID, op)
		}
		ids := make([]any, len(items))
		for i, item := range items {
			id, err := ToObjectID(item)
			if err != nil {
				return nil, err
			}
			ids[i] = id
		}
		return ids, nil
	default:
		return operand, nil
	}
}

// ToObjectID converts an identifier value into the store's native reference type.
func ToObjectID(value any) (bson.ObjectID, error) {
	switch v := value.(type) {
	case bson.ObjectID:
		return v, nil
	case *bson.ObjectID:
		if v == nil {
			return bson.NilObjectID, fmt.Errorf("%w: nil", ErrInvalidID)
		}
		return *v, nil
	case [12]byte:
		return bson.ObjectID(v), nil
	case string:
		id, err := bson.ObjectIDFromHex(v)
		if err != nil {
			return bson.NilObjectID, fmt.Errorf("%w: %q: %w", ErrInvalidID, v, err)
		}
		return id, nil
	default:
		return bson.NilObjectID, fmt.Errorf("%w: unsupported type %T", ErrInvalidID, value)
	}
}

func isOperatorMap(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for key := range m {
		if !strings.HasPrefix(key, "$") {
			return false
		}
	}
	return true
}

func isOperatorDoc(doc bson.D) bool {
	if len(doc) == 0 {
		return false
	}
	for _, elem := range doc {
		if !strings.HasPrefix(elem.Key, "$") {
			return false
		}
	}
	return true
}

// asMap unwraps the map flavours callers and the bson decoder hand us.
func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Filter:
		return v, true
	case Document:
		return v, true
	case bson.M:
		return v, true
	case bson.D:
		m := make(map[string]any, len(v))
		for _, elem := range v {
			m[elem.Key] = elem.Value
		}
		return m, true
	default:
		return nil, false
	}
}

func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case bson.A:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []bson.ObjectID:
		out := make([]any, len(v))
		for i, id := range v {
			out[i] = id
		}
		return out, true
	default:
		return nil, false
	}
}
