package zabbix

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestCoerceIDs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil stays nil", nil, nil},
		{"int scalar", 10084, "10084"},
		{"string scalar", "10084", "10084"},
		{"int slice", []int{1, 2, 3}, []string{"1", "2", "3"}},
		{"string slice", []string{"1", "2"}, []string{"1", "2"}},
		{"mixed slice", []any{1, "2"}, []string{"1", "2"}},
		{"empty slice", []int{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceIDs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CoerceIDs(%v) = %#v; want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceIDsScalarAndSingletonAgree(t *testing.T) {
	// A single scalar id and a one-element collection holding the same id
	// must put the same string on the wire.
	scalar := CoerceIDs(10084).(string)
	list := CoerceIDs([]int{10084}).([]string)
	if len(list) != 1 || list[0] != scalar {
		t.Errorf("scalar %q and singleton %v disagree on the wire form", scalar, list)
	}
}

func TestCoerceIDsStringIsNotACollection(t *testing.T) {
	got := CoerceIDs("10084")
	if _, ok := got.([]string); ok {
		t.Fatalf("a string id was split into a collection: %#v", got)
	}
	if got != "10084" {
		t.Errorf("CoerceIDs(\"10084\") = %#v; want \"10084\"", got)
	}
}

func TestGetOptionsFilterDefault(t *testing.T) {
	p := GetOptions{}.params()

	filter, ok := p["filter"].(map[string]any)
	if !ok {
		t.Fatalf("filter is %T; want map", p["filter"])
	}
	if len(filter) != 0 {
		t.Errorf("default filter = %v; want empty", filter)
	}

	// No other generic key may appear unrequested.
	if len(p) != 1 {
		t.Errorf("zero options produced params %v; want only filter", p)
	}
}

func TestGetOptionsWireKeys(t *testing.T) {
	p := GetOptions{
		CountOutput:            true,
		Editable:               true,
		ExcludeSearch:          true,
		Filter:                 map[string]any{"host": "web-01"},
		Limit:                  50,
		Output:                 "extend",
		Search:                 map[string]any{"name": "cpu"},
		SearchByAny:            true,
		SearchWildcardsEnabled: true,
		SortField:              "clock",
		SortOrder:              "DESC",
		StartSearch:            true,
	}.params()

	wantKeys := []string{
		"countOutput", "editable", "excludeSearch", "filter", "limit",
		"output", "search", "searchByAny", "searchWildcardsEnabled",
		"sortfield", "sortorder", "startSearch",
	}
	for _, k := range wantKeys {
		if _, ok := p[k]; !ok {
			t.Errorf("wire key %q missing from params", k)
		}
	}
	if len(p) != len(wantKeys) {
		t.Errorf("params has %d keys; want %d: %v", len(p), len(wantKeys), p)
	}
	if p["sortfield"] != "clock" {
		t.Errorf("sortfield = %v; want clock", p["sortfield"])
	}
}

func TestTagFilterParams(t *testing.T) {
	got := tagFilterParams([]TagFilter{
		{Tag: "env", Value: "prod", Operator: TagEqual},
		{Tag: "service", Value: "web"}, // operator defaults to like
		{Tag: "x", Value: "y", Operator: "contains"},
	})

	if len(got) != 3 {
		t.Fatalf("got %d serialized filters; want 3", len(got))
	}
	if got[0]["operator"] != 2 {
		t.Errorf("equal operator = %v; want 2", got[0]["operator"])
	}
	if got[1]["operator"] != 0 {
		t.Errorf("default operator = %v; want 0 (like)", got[1]["operator"])
	}
	// Unrecognized operators are dropped, not defaulted.
	if _, ok := got[2]["operator"]; ok {
		t.Errorf("unrecognized operator transmitted: %v", got[2]["operator"])
	}
	if got[2]["tag"] != "x" || got[2]["value"] != "y" {
		t.Errorf("tag/value not preserved: %v", got[2])
	}
}

func TestCoerceTime(t *testing.T) {
	instant := time.Date(2025, 6, 1, 12, 0, 0, 900_000_000, time.UTC)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"time truncates sub-second", instant, int64(1748779200)},
		{"number passes through", 1748779200, 1748779200},
		{"string passes through", "1748779200", "1748779200"},
		{"zero time is absent", time.Time{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceTime(tt.in); got != tt.want {
				t.Errorf("coerceTime(%v) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStripNulls(t *testing.T) {
	var nilSlice []string
	var nilMap map[string]any

	p := Params{
		"hostids":  "10084",
		"groupids": nil,
		"itemids":  nilSlice,
		"filter":   map[string]any{},
		"search":   nilMap,
		"limit":    0,
	}
	got := stripNulls(p)

	for _, absent := range []string{"groupids", "itemids", "search"} {
		if _, ok := got[absent]; ok {
			t.Errorf("nil entry %q survived the strip pass", absent)
		}
	}
	if got["hostids"] != "10084" {
		t.Errorf("non-nil entry lost: %v", got)
	}
	if _, ok := got["filter"]; !ok {
		t.Error("empty but non-nil filter must be preserved")
	}
	// Zero is a value, not an absence.
	if got["limit"] != 0 {
		t.Error("zero-valued entry must be preserved")
	}
}

func TestStrippedParamsNeverEncodeNull(t *testing.T) {
	p := stripNulls(Params{
		"hostids": nil,
		"output":  "extend",
	})
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for k, v := range decoded {
		if v == nil {
			t.Errorf("key %q encoded as null", k)
		}
	}
	if decoded["output"] != "extend" {
		t.Errorf("output = %v; want extend", decoded["output"])
	}
}
