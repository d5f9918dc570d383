package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Extra holds front matter keys that have no dedicated field. They are kept
// when a file is rewritten and copied as-is into the generated JSON.
type Extra map[string]any

var (
	tripKeys = keySet("slug", "title", "date", "location", "tags", "coverImage", "gpxFile", "photos",
		"excerpt", "author", "type", "terrain", "stats", "geojsonUrl", "body")
	memberKeys = keySet("slug", "name", "nickname", "role", "bio", "avatar", "emoji", "isAdmin")
)

func keySet(keys ...string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

func (r TripRecord) MarshalJSON() ([]byte, error) {
	type plain TripRecord
	raw, err := EncodeJSON(plain(r))
	if err != nil {
		return nil, err
	}
	return AppendFields(raw, r.Extra, tripKeys)
}

func (r *TripRecord) UnmarshalJSON(data []byte) error {
	type plain TripRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := otherFields(data, tripKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = TripRecord(p)
	return nil
}

func (m Member) MarshalJSON() ([]byte, error) {
	type plain Member
	raw, err := EncodeJSON(plain(m))
	if err != nil {
		return nil, err
	}
	return AppendFields(raw, m.Extra, memberKeys)
}

func (m *Member) UnmarshalJSON(data []byte) error {
	type plain Member
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := otherFields(data, memberKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*m = Member(p)
	return nil
}

// EncodeJSON is json.Marshal without HTML escaping.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// AppendFields adds fields to the end of an encoded JSON object in key order.
// Keys listed in reserved are left out.
func AppendFields(obj []byte, fields map[string]any, reserved map[string]bool) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return obj, nil
	}
	sort.Strings(keys)

	obj = bytes.TrimSpace(obj)
	if len(obj) < 2 || obj[len(obj)-1] != '}' {
		return nil, fmt.Errorf("not a JSON object")
	}
	var buf bytes.Buffer
	buf.Write(obj[:len(obj)-1])
	empty := len(bytes.TrimSpace(obj[1:len(obj)-1])) == 0
	for i, k := range keys {
		if i > 0 || !empty {
			buf.WriteByte(',')
		}
		name, err := EncodeJSON(k)
		if err != nil {
			return nil, err
		}
		value, err := EncodeJSON(fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func otherFields(obj []byte, reserved map[string]bool) (Extra, error) {
	var all map[string]any
	if err := json.Unmarshal(obj, &all); err != nil {
		return nil, err
	}
	var extra Extra
	for k, v := range all {
		if reserved[k] {
			continue
		}
		if extra == nil {
			extra = Extra{}
		}
		extra[k] = v
	}
	return extra, nil
}

// normalize turns the map[interface{}]interface{} values the YAML decoder
// produces into string keyed maps that encoding/json accepts.
func (e Extra) normalize() Extra {
	if len(e) == 0 {
		return nil
	}
	out := make(Extra, len(e))
	for k, v := range e {
		out[k] = normalizeYAML(v)
	}
	return out
}

func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
