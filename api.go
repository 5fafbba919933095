package hyperliquid

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/valyala/fastjson"
)

var parserPool = sync.Pool{
	New: func() any {
		return &fastjson.Parser{}
	},
}

// ExchangeResponse is the {status, response: {type, data}} envelope the
// exchange endpoint wraps every action result in. A non-"ok" status
// carries a plain string in place of the response object.
type ExchangeResponse[T any] struct {
	Status string
	Type   string
	Data   T
	Err    string
	Ok     bool
}

func (r *ExchangeResponse[T]) UnmarshalJSON(data []byte) error {
	parser := parserPool.Get().(*fastjson.Parser)
	defer parserPool.Put(parser)

	parsed, err := parser.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("failed to parse response envelope: %w", err)
	}

	r.Status = string(parsed.GetStringBytes("status"))
	r.Ok = r.Status == "ok"

	if !r.Ok {
		r.Err = string(parsed.GetStringBytes("response"))
		return nil
	}

	r.Type = string(parsed.GetStringBytes("response", "type"))

	responseData := parsed.Get("response", "data")
	if responseData == nil {
		// Some acknowledgement-only actions ("default" type) carry no
		// data payload.
		return nil
	}

	if err := json.Unmarshal(responseData.MarshalTo(nil), &r.Data); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}

	return nil
}

// FirstError surfaces the venue-reported rejection, if any: either the
// envelope-level error string or the first failing per-order status.
func (r *ExchangeResponse[T]) FirstError() error {
	if !r.Ok {
		return errors.New(r.Err)
	}
	return nil
}

// Tuple2 decodes the two-element JSON arrays the info endpoint uses for
// combined meta+context payloads.
type Tuple2[E1 any, E2 any] struct {
	First  E1
	Second E2
}

func (t *Tuple2[E1, E2]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("expected array of length 2, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.First); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &t.Second)
}

func (t Tuple2[E1, E2]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.First, t.Second})
}

// MixedValue is a JSON value whose shape varies by context, kept raw
// until the caller decides how to read it.
type MixedValue json.RawMessage

func (mv *MixedValue) UnmarshalJSON(data []byte) error {
	*mv = data
	return nil
}

func (mv MixedValue) MarshalJSON() ([]byte, error) {
	return mv, nil
}

func (mv *MixedValue) String() (string, bool) {
	var s string
	if err := json.Unmarshal(*mv, &s); err != nil {
		return "", false
	}
	return s, true
}

func (mv *MixedValue) Object() (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal(*mv, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

type MixedArray []MixedValue

// FirstError scans per-item statuses for a failure. The venue reports
// item outcomes either as acknowledgement strings ("success",
// "waitingForFill", "waitingForTrigger") or as objects carrying an
// "error" key.
func (ma MixedArray) FirstError() error {
	for _, mv := range ma {
		if s, ok := mv.String(); ok {
			if isAckStatus(s) {
				continue
			}
			return errors.New(s)
		}
		if obj, ok := mv.Object(); ok {
			if v, ok := obj["error"]; ok {
				if msg, ok := v.(string); ok && msg != "" {
					return errors.New(msg)
				}
				b, _ := json.Marshal(v)
				return errors.New(string(b))
			}
			continue
		}
		return errors.New("action item failed")
	}
	return nil
}
