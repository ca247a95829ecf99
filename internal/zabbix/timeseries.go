package zabbix

import (
	"fmt"
	"strconv"
	"time"
)

// isSeries reports whether a resolved result looks like a time series:
// a non-empty collection whose first element is an object carrying the wire
// timestamp field. Only the first element is inspected; the check is a
// cheap heuristic, not a full scan.
func isSeries(v any) bool {
	entries, ok := v.([]any)
	if !ok || len(entries) == 0 {
		return false
	}
	first, ok := entries[0].(map[string]any)
	if !ok {
		return false
	}
	_, ok = first["clock"]
	return ok
}

// NormalizeSeries collapses a collection of wire entries, each carrying a
// "clock" (whole seconds) and optional "ns" (nanoseconds) field, into a
// mapping keyed by instant. The timestamp fields are removed from each
// entry; the remaining fields become the value.
//
// The transform is lossy: entries sharing an identical (clock, ns) pair
// collapse into one key, and the later entry in iteration order wins.
func NormalizeSeries(entries []any) (map[time.Time]map[string]any, error) {
	out := make(map[time.Time]map[string]any, len(entries))
	for i, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("zabbix: series entry %d is %T, not an object", i, raw)
		}

		clock, ok := entry["clock"]
		if !ok {
			return nil, fmt.Errorf("zabbix: series entry %d has no clock field", i)
		}
		sec, err := wireInt(clock)
		if err != nil {
			return nil, fmt.Errorf("zabbix: series entry %d: bad clock: %w", i, err)
		}

		var nsec int64
		if ns, ok := entry["ns"]; ok {
			nsec, err = wireInt(ns)
			if err != nil {
				return nil, fmt.Errorf("zabbix: series entry %d: bad ns: %w", i, err)
			}
		}

		rest := make(map[string]any, len(entry))
		for k, v := range entry {
			if k == "clock" || k == "ns" {
				continue
			}
			rest[k] = v
		}
		out[time.Unix(sec, nsec).UTC()] = rest
	}
	return out, nil
}

// wireInt reads an integer the API may transmit as a string, a JSON
// number, or a native int.
func wireInt(v any) (int64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseInt(n, 10, 64)
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
