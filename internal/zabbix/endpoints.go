package zabbix

import (
	"context"
	"fmt"
)

// The per-endpoint methods below are mechanical feeders into the call
// pipeline: each maps its option struct onto wire keys, then runs a fresh
// login followed by the target method. Identifier fields accept a single
// scalar or a homogeneous collection and are coerced to string form.

// APIVersion reports the remote API version. The method requires no
// authentication and always yields the plain version string.
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	res, err := c.CallLevel(ctx, LevelData, "apiinfo.version", Params{}, nil)
	if err != nil {
		return "", err
	}
	version, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("zabbix: apiinfo.version result is %T, expected string", res)
	}
	return version, nil
}

// HostGetOptions selects hosts.
type HostGetOptions struct {
	GetOptions
	HostIDs     any
	GroupIDs    any
	TemplateIDs any
	Tags        []TagFilter
	EvalType    EvalType
}

func (o HostGetOptions) params() Params {
	p := o.GetOptions.params()
	p["hostids"] = CoerceIDs(o.HostIDs)
	p["groupids"] = CoerceIDs(o.GroupIDs)
	p["templateids"] = CoerceIDs(o.TemplateIDs)
	if o.Tags != nil {
		p["tags"] = tagFilterParams(o.Tags)
	}
	if o.EvalType != "" {
		p["evaltype"] = enumParam(EvalTypeID(o.EvalType))
	}
	return p
}

// HostGet lists hosts.
func (c *Client) HostGet(ctx context.Context, opts HostGetOptions) (any, error) {
	return c.authed(ctx, "host.get", opts.params())
}

// ItemGetOptions selects items.
type ItemGetOptions struct {
	GetOptions
	ItemIDs  any
	HostIDs  any
	GroupIDs any
	Tags     []TagFilter
	EvalType EvalType
}

func (o ItemGetOptions) params() Params {
	p := o.GetOptions.params()
	p["itemids"] = CoerceIDs(o.ItemIDs)
	p["hostids"] = CoerceIDs(o.HostIDs)
	p["groupids"] = CoerceIDs(o.GroupIDs)
	if o.Tags != nil {
		p["tags"] = tagFilterParams(o.Tags)
	}
	if o.EvalType != "" {
		p["evaltype"] = enumParam(EvalTypeID(o.EvalType))
	}
	return p
}

// ItemGet lists items.
func (c *Client) ItemGet(ctx context.Context, opts ItemGetOptions) (any, error) {
	return c.authed(ctx, "item.get", opts.params())
}

// TriggerGetOptions selects triggers.
type TriggerGetOptions struct {
	GetOptions
	TriggerIDs  any
	HostIDs     any
	GroupIDs    any
	MinSeverity Severity
}

func (o TriggerGetOptions) params() Params {
	p := o.GetOptions.params()
	p["triggerids"] = CoerceIDs(o.TriggerIDs)
	p["hostids"] = CoerceIDs(o.HostIDs)
	p["groupids"] = CoerceIDs(o.GroupIDs)
	if o.MinSeverity != "" {
		p["min_severity"] = enumParam(SeverityID(o.MinSeverity))
	}
	return p
}

// TriggerGet lists triggers.
func (c *Client) TriggerGet(ctx context.Context, opts TriggerGetOptions) (any, error) {
	return c.authed(ctx, "trigger.get", opts.params())
}

// EventGetOptions selects events.
type EventGetOptions struct {
	GetOptions
	EventIDs  any
	HostIDs   any
	ObjectIDs any
	Source    EventSource
	Object    EventObject
	Tags      []TagFilter
	EvalType  EvalType
	// From and To accept a time.Time (converted to whole epoch seconds) or
	// a plain number/string passed through unchanged.
	From any
	To   any
}

func (o EventGetOptions) params() Params {
	p := o.GetOptions.params()
	p["eventids"] = CoerceIDs(o.EventIDs)
	p["hostids"] = CoerceIDs(o.HostIDs)
	p["objectids"] = CoerceIDs(o.ObjectIDs)
	if o.Source != "" {
		p["source"] = enumParam(EventSourceID(o.Source))
	}
	if o.Source != "" && o.Object != "" {
		p["object"] = enumParam(EventObjectID(o.Source, o.Object))
	}
	if o.Tags != nil {
		p["tags"] = tagFilterParams(o.Tags)
	}
	if o.EvalType != "" {
		p["evaltype"] = enumParam(EvalTypeID(o.EvalType))
	}
	p["time_from"] = coerceTime(o.From)
	p["time_till"] = coerceTime(o.To)
	return p
}

// EventGet lists events.
func (c *Client) EventGet(ctx context.Context, opts EventGetOptions) (any, error) {
	return c.authed(ctx, "event.get", opts.params())
}

// ProblemGetOptions selects currently open problems.
type ProblemGetOptions struct {
	GetOptions
	EventIDs    any
	HostIDs     any
	ObjectIDs   any
	Source      EventSource
	Object      EventObject
	Severities  []Severity
	Tags        []TagFilter
	EvalType    EvalType
	Recent      bool
	From        any
	To          any
	ProblemFrom any
	ProblemTo   any
}

func (o ProblemGetOptions) params() Params {
	p := o.GetOptions.params()
	p["eventids"] = CoerceIDs(o.EventIDs)
	p["hostids"] = CoerceIDs(o.HostIDs)
	p["objectids"] = CoerceIDs(o.ObjectIDs)
	if o.Source != "" {
		p["source"] = enumParam(EventSourceID(o.Source))
	}
	if o.Source != "" && o.Object != "" {
		p["object"] = enumParam(EventObjectID(o.Source, o.Object))
	}
	if o.Severities != nil {
		ids := make([]int, 0, len(o.Severities))
		for _, s := range o.Severities {
			if id, ok := SeverityID(s); ok {
				ids = append(ids, id)
			}
		}
		p["severities"] = ids
	}
	if o.Tags != nil {
		p["tags"] = tagFilterParams(o.Tags)
	}
	if o.EvalType != "" {
		p["evaltype"] = enumParam(EvalTypeID(o.EvalType))
	}
	if o.Recent {
		p["recent"] = true
	}
	p["time_from"] = coerceTime(o.From)
	p["time_till"] = coerceTime(o.To)
	p["problem_time_from"] = coerceTime(o.ProblemFrom)
	p["problem_time_till"] = coerceTime(o.ProblemTo)
	return p
}

// ProblemGet lists open problems.
func (c *Client) ProblemGet(ctx context.Context, opts ProblemGetOptions) (any, error) {
	return c.authed(ctx, "problem.get", opts.params())
}

// HistoryGetOptions selects history samples. History results carry the wire
// timestamp fields, so at LevelBest they come back keyed by instant.
type HistoryGetOptions struct {
	GetOptions
	History HistoryType
	ItemIDs any
	HostIDs any
	From    any
	To      any
}

func (o HistoryGetOptions) params() Params {
	p := o.GetOptions.params()
	if o.History != "" {
		p["history"] = enumParam(HistoryTypeID(o.History))
	}
	p["itemids"] = CoerceIDs(o.ItemIDs)
	p["hostids"] = CoerceIDs(o.HostIDs)
	p["time_from"] = coerceTime(o.From)
	p["time_till"] = coerceTime(o.To)
	return p
}

// HistoryGet lists history samples.
func (c *Client) HistoryGet(ctx context.Context, opts HistoryGetOptions) (any, error) {
	return c.authed(ctx, "history.get", opts.params())
}
