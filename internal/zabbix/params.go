package zabbix

import (
	"fmt"
	"reflect"
	"time"
)

// Params is the JSON-RPC parameter object sent with a method call.
type Params map[string]any

// GetOptions are the generic listing options shared by every *.get method.
// Zero values are treated as "not specified" and never reach the wire; the
// one exception is Filter, which the remote API receives as an empty object
// when unset.
type GetOptions struct {
	CountOutput            bool
	Editable               bool
	ExcludeSearch          bool
	Filter                 map[string]any
	Limit                  int
	Output                 any // "extend" or a list of field names
	Search                 map[string]any
	SearchByAny            bool
	SearchWildcardsEnabled bool
	SortField              any // a field name or a list of field names
	SortOrder              any // "ASC", "DESC" or a list of either
	StartSearch            bool
}

// params maps the options onto the remote API's wire keys.
func (o GetOptions) params() Params {
	p := Params{}
	if o.CountOutput {
		p["countOutput"] = true
	}
	if o.Editable {
		p["editable"] = true
	}
	if o.ExcludeSearch {
		p["excludeSearch"] = true
	}
	filter := o.Filter
	if filter == nil {
		filter = map[string]any{}
	}
	p["filter"] = filter
	if o.Limit > 0 {
		p["limit"] = o.Limit
	}
	if o.Output != nil {
		p["output"] = o.Output
	}
	if o.Search != nil {
		p["search"] = o.Search
	}
	if o.SearchByAny {
		p["searchByAny"] = true
	}
	if o.SearchWildcardsEnabled {
		p["searchWildcardsEnabled"] = true
	}
	if o.SortField != nil {
		p["sortfield"] = o.SortField
	}
	if o.SortOrder != nil {
		p["sortorder"] = o.SortOrder
	}
	if o.StartSearch {
		p["startSearch"] = true
	}
	return p
}

// CoerceIDs converts an identifier argument into its wire form. The remote
// API expects numeric ids transmitted as strings, and every id argument may
// be either a single scalar or a homogeneous collection. nil stays nil so a
// later strip pass removes the key entirely. A string is always a scalar,
// never a collection of bytes.
func CoerceIDs(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return x
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = idString(rv.Index(i).Interface())
		}
		return out
	default:
		return idString(v)
	}
}

func idString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// TagFilter matches entity tags by name, value, and comparison operator.
type TagFilter struct {
	Tag      string      `yaml:"tag"`
	Value    string      `yaml:"value"`
	Operator TagOperator `yaml:"operator"`
}

// tagFilterParams serializes tag filters element-wise. An operator the enum
// table does not know is simply not transmitted, matching the permissive
// handling of every other enum argument.
func tagFilterParams(filters []TagFilter) []Params {
	if filters == nil {
		return nil
	}
	out := make([]Params, 0, len(filters))
	for _, f := range filters {
		p := Params{"tag": f.Tag, "value": f.Value}
		op := f.Operator
		if op == "" {
			op = TagLike
		}
		if id, ok := TagOperatorID(op); ok {
			p["operator"] = id
		}
		out = append(out, p)
	}
	return out
}

// coerceTime converts a structured point in time to whole epoch seconds,
// truncating any sub-second component. Plain numbers and strings pass
// through unchanged; the API accepts both.
func coerceTime(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return t.Unix()
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t.Unix()
	default:
		return v
	}
}

// enumParam resolves a symbolic enum argument to its wire integer. An empty
// or unrecognized name yields nil: the argument is dropped rather than
// defaulted, and the remote side cannot tell it apart from one that was
// never given.
func enumParam(id int, ok bool) any {
	if !ok {
		return nil
	}
	return id
}

// stripNulls is the final pass before the envelope is built: every nil
// entry is removed so that absence on the wire, not an explicit null,
// signals "not specified" to the remote API.
func stripNulls(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			if rv.IsNil() {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// merge folds extra entries into p, later entries winning.
func (p Params) merge(extra Params) Params {
	for k, v := range extra {
		p[k] = v
	}
	return p
}
