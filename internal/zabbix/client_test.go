package zabbix

import (
	"bytes"
	"encoding/json"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestBuildEnvelope(t *testing.T) {
	token := "abc123"
	env := buildEnvelope("host.get", Params{"hostids": "1"}, &token, 0)

	if env.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q; want 2.0", env.JSONRPC)
	}
	if env.Method != "host.get" {
		t.Errorf("method = %q; want host.get", env.Method)
	}
	if env.ID != 1 {
		t.Errorf("id = %d; want the fixed default 1", env.ID)
	}
	if env.Auth == nil || *env.Auth != "abc123" {
		t.Errorf("auth = %v; want abc123", env.Auth)
	}
}

func TestEnvelopeEmitsNullAuth(t *testing.T) {
	env := buildEnvelope("apiinfo.version", Params{}, nil, 0)
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// Null stripping applies to params contents, not envelope fields: a
	// missing token is transmitted as an explicit null.
	if !bytes.Contains(data, []byte(`"auth":null`)) {
		t.Errorf("envelope %s does not carry auth:null", data)
	}
}

func TestEnvelopeStripsNullParams(t *testing.T) {
	env := buildEnvelope("host.get", Params{
		"hostids":  "10084",
		"groupids": nil,
	}, nil, 0)

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Params map[string]any `json:"params"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded.Params["groupids"]; ok {
		t.Error("nil param reached the wire")
	}
	if decoded.Params["hostids"] != "10084" {
		t.Errorf("hostids = %v; want 10084", decoded.Params["hostids"])
	}
}

// fixedResponse is the mock transport response the resolver tests share.
func fixedResponse(body string) *Response {
	return &Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(body),
	}
}

func TestResolveRaw(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","result":["a"],"id":1}`)
	got, err := Resolve(resp, LevelRaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != resp {
		t.Error("raw level must return the transport response unmodified")
	}
	if !bytes.Equal(got.(*Response).Body, resp.Body) {
		t.Error("raw body differs byte-for-byte")
	}
}

func TestResolveBody(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","result":["a"],"id":1}`)
	got, err := Resolve(resp, LevelBody)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("body level returned %T; want map", got)
	}
	if body["jsonrpc"] != "2.0" {
		t.Errorf("jsonrpc = %v", body["jsonrpc"])
	}
	if !reflect.DeepEqual(body["result"], []any{"a"}) {
		t.Errorf("result = %v; want [a]", body["result"])
	}
}

func TestResolveBodyErrorEnvelopeNotRaised(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid params.","data":"wrong"},"id":1}`)
	got, err := Resolve(resp, LevelBody)
	if err != nil {
		t.Fatalf("an error envelope must resolve, not raise: %v", err)
	}
	body := got.(map[string]any)
	if _, ok := body["error"]; !ok {
		t.Error("error object missing from body")
	}
}

func TestResolveData(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","result":[{"hostid":"1"}],"id":1}`)
	got, err := Resolve(resp, LevelData)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{map[string]any{"hostid": "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("data = %v; want %v", got, want)
	}
}

func TestResolveDataAbsentOnError(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid params."},"id":1}`)
	got, err := Resolve(resp, LevelData)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("data on an error envelope = %v; want nil", got)
	}
}

func TestResolveBestPassthrough(t *testing.T) {
	// No clock key in the first element: best behaves exactly like data.
	resp := fixedResponse(`{"jsonrpc":"2.0","result":[{"hostid":"1"}],"id":1}`)
	got, err := Resolve(resp, LevelBest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{map[string]any{"hostid": "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("best = %v; want data unchanged %v", got, want)
	}
}

func TestResolveBestNormalizesSeries(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","result":[{"clock":"1000","ns":"500","value":"42"}],"id":1}`)
	got, err := Resolve(resp, LevelBest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	series, ok := got.(map[time.Time]map[string]any)
	if !ok {
		t.Fatalf("best returned %T; want instant-keyed map", got)
	}
	instant := time.Unix(1000, 500).UTC()
	entry, ok := series[instant]
	if !ok {
		t.Fatalf("instant %v missing from %v", instant, series)
	}
	if entry["value"] != "42" {
		t.Errorf("value = %v; want 42", entry["value"])
	}
	if _, ok := entry["clock"]; ok {
		t.Error("clock field must be removed from the entry")
	}
}

func TestResolveBestScalarResult(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","result":"7.0.0","id":1}`)
	got, err := Resolve(resp, LevelBest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "7.0.0" {
		t.Errorf("best = %v; want 7.0.0", got)
	}
}

func TestResolveUnknownLevelFailsFast(t *testing.T) {
	resp := fixedResponse(`{}`)
	if _, err := Resolve(resp, "verbose"); err == nil {
		t.Fatal("unknown content level must be rejected")
	}
}

func TestResponseErr(t *testing.T) {
	resp := fixedResponse(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"Invalid params.","data":"no host"},"id":1}`)
	apiErr := resp.Err()
	if apiErr == nil {
		t.Fatal("expected an APIError")
	}
	if apiErr.Code != -32602 {
		t.Errorf("code = %d; want -32602", apiErr.Code)
	}
	if apiErr.Error() == "" {
		t.Error("empty error string")
	}

	ok := fixedResponse(`{"jsonrpc":"2.0","result":[],"id":1}`)
	if ok.Err() != nil {
		t.Error("success envelope must have no error")
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://zabbix.local"})
	if c.apiPath != DefaultAPIPath {
		t.Errorf("apiPath = %q; want %q", c.apiPath, DefaultAPIPath)
	}
	if c.level != LevelBest {
		t.Errorf("level = %q; want best", c.level)
	}
}
