package zabbix

// The Zabbix API transmits most classifier fields as small integers. The
// tables below are the closed mappings between the symbolic names used by
// callers and those wire integers. Lookups for undefined names report
// ok=false; callers omit the parameter rather than sending a default of 0.

// Severity is a trigger/problem severity classifier.
type Severity string

const (
	SeverityNotClassified Severity = "not_classified"
	SeverityInformation   Severity = "information"
	SeverityWarning       Severity = "warning"
	SeverityAverage       Severity = "average"
	SeverityHigh          Severity = "high"
	SeverityDisaster      Severity = "disaster"
)

var severityIDs = map[Severity]int{
	SeverityNotClassified: 0,
	SeverityInformation:   1,
	SeverityWarning:       2,
	SeverityAverage:       3,
	SeverityHigh:          4,
	SeverityDisaster:      5,
}

// SeverityID returns the wire integer for a severity name.
func SeverityID(s Severity) (int, bool) {
	id, ok := severityIDs[s]
	return id, ok
}

// SeverityName returns the severity name for a wire integer.
func SeverityName(id int) (Severity, bool) {
	for name, wire := range severityIDs {
		if wire == id {
			return name, true
		}
	}
	return "", false
}

// EvalType selects how multiple tag filters combine.
type EvalType string

const (
	EvalAndOr EvalType = "and_or"
	EvalOr    EvalType = "or"
)

// The protocol reserves no meaning for evaltype 1; the gap is part of the
// wire format, not an omission here.
var evalTypeIDs = map[EvalType]int{
	EvalAndOr: 0,
	EvalOr:    2,
}

// EvalTypeID returns the wire integer for an evaluation type.
func EvalTypeID(e EvalType) (int, bool) {
	id, ok := evalTypeIDs[e]
	return id, ok
}

// EvalTypeName returns the evaluation type for a wire integer.
func EvalTypeName(id int) (EvalType, bool) {
	for name, wire := range evalTypeIDs {
		if wire == id {
			return name, true
		}
	}
	return "", false
}

// TagOperator is the comparison operator of a tag filter.
type TagOperator string

const (
	TagLike  TagOperator = "like"
	TagEqual TagOperator = "equal"
)

var tagOperatorIDs = map[TagOperator]int{
	TagLike:  0,
	TagEqual: 2,
}

// TagOperatorID returns the wire integer for a tag operator.
func TagOperatorID(op TagOperator) (int, bool) {
	id, ok := tagOperatorIDs[op]
	return id, ok
}

// TagOperatorName returns the tag operator for a wire integer.
func TagOperatorName(id int) (TagOperator, bool) {
	for name, wire := range tagOperatorIDs {
		if wire == id {
			return name, true
		}
	}
	return "", false
}

// EventSource identifies what generated an event.
type EventSource string

const (
	SourceTrigger          EventSource = "trigger"
	SourceDiscoveryRule    EventSource = "discovery_rule"
	SourceAutoregistration EventSource = "agent_autoregistration"
	SourceInternal         EventSource = "internal"
)

var eventSourceIDs = map[EventSource]int{
	SourceTrigger:          0,
	SourceDiscoveryRule:    1,
	SourceAutoregistration: 2,
	SourceInternal:         3,
}

// EventSourceID returns the wire integer for an event source.
func EventSourceID(s EventSource) (int, bool) {
	id, ok := eventSourceIDs[s]
	return id, ok
}

// EventSourceName returns the event source for a wire integer.
func EventSourceName(id int) (EventSource, bool) {
	for name, wire := range eventSourceIDs {
		if wire == id {
			return name, true
		}
	}
	return "", false
}

// EventObject identifies the kind of entity an event is related to. Object
// ids are scoped per source: "trigger" maps to 0 under both the trigger and
// the internal source, and the numbering is not contiguous within a source.
// This mirrors the protocol's own tables.
type EventObject string

const (
	ObjectTrigger            EventObject = "trigger"
	ObjectDiscoveredHost     EventObject = "discovered_host"
	ObjectDiscoveredService  EventObject = "discovered_service"
	ObjectAutoregisteredHost EventObject = "autoregistered_host"
	ObjectItem               EventObject = "item"
	ObjectLLDRule            EventObject = "lld_rule"
)

var eventObjectIDs = map[EventSource]map[EventObject]int{
	SourceTrigger: {
		ObjectTrigger: 0,
	},
	SourceDiscoveryRule: {
		ObjectDiscoveredHost:    1,
		ObjectDiscoveredService: 2,
	},
	SourceAutoregistration: {
		ObjectAutoregisteredHost: 3,
	},
	SourceInternal: {
		ObjectTrigger: 0,
		ObjectItem:    4,
		ObjectLLDRule: 5,
	},
}

// EventObjectID returns the wire integer for an event object within the
// given source.
func EventObjectID(source EventSource, object EventObject) (int, bool) {
	table, ok := eventObjectIDs[source]
	if !ok {
		return 0, false
	}
	id, ok := table[object]
	return id, ok
}

// EventObjectName returns the event object for a wire integer within the
// given source.
func EventObjectName(source EventSource, id int) (EventObject, bool) {
	table, ok := eventObjectIDs[source]
	if !ok {
		return "", false
	}
	for name, wire := range table {
		if wire == id {
			return name, true
		}
	}
	return "", false
}

// HistoryType is the value kind of a history series.
type HistoryType string

const (
	HistoryFloat     HistoryType = "float"
	HistoryCharacter HistoryType = "character"
	HistoryLog       HistoryType = "log"
	HistoryUnsigned  HistoryType = "unsigned"
	HistoryText      HistoryType = "text"
)

var historyTypeIDs = map[HistoryType]int{
	HistoryFloat:     0,
	HistoryCharacter: 1,
	HistoryLog:       2,
	HistoryUnsigned:  3,
	HistoryText:      4,
}

// HistoryTypeID returns the wire integer for a history value type.
func HistoryTypeID(h HistoryType) (int, bool) {
	id, ok := historyTypeIDs[h]
	return id, ok
}

// HistoryTypeName returns the history value type for a wire integer.
func HistoryTypeName(id int) (HistoryType, bool) {
	for name, wire := range historyTypeIDs {
		if wire == id {
			return name, true
		}
	}
	return "", false
}
