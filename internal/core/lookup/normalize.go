package lookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// containerKeys are the wrapper properties searched, in order, when a raw
	// record is too small to carry its own columns.
	containerKeys = []string{"data", "row", "values", "columns", "record"}

	delimiters = regexp.MustCompile(`[|,;]+`)
)

const (
	keyHeaders    = "ColumnHeaders"
	keyAdditional = "Additional"
)

// Normalize converts a raw upstream record into a Record. It never panics and
// never fails: input that matches no known shape yields a best-effort record,
// at worst an empty one.
//
// Accepted inputs are decoded JSON objects, JSON text (string, []byte or
// json.RawMessage), Records, and any value that marshals to a JSON object.
func Normalize(raw any) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			rec = Record{Code: rec.Code, Description: rec.Description}
		}
	}()

	switch v := raw.(type) {
	case Record:
		return seal(v)
	case *Record:
		if v == nil {
			return Record{}
		}
		return seal(*v)
	}

	obj, scalar, ok := toObject(raw)
	if !ok {
		return Record{Code: scalar}
	}

	matched, hasShape := matchShape(obj)
	if hasShape {
		rec = matched.build(obj)
		if len(rec.ColumnHeaders) > 0 {
			return seal(rec)
		}
	}

	cand := candidate(obj)
	if rec.Code == "" {
		rec.Code = foldString(obj, cand, "code")
	}
	if rec.Description == "" {
		rec.Description = foldString(obj, cand, "description")
	}

	if cand != nil {
		skip := map[string]bool{}
		if hasShape {
			skip[strings.ToLower(matched.codeKey)] = true
		}
		rec.ColumnHeaders, rec.Additional, rec.Keyed = derive(cand, skip)
	}

	return seal(rec)
}

// NormalizeAll normalizes a collection. It accepts an array of records, a
// single record, an object wrapping the array under "data" (any casing), or
// JSON text holding any of these. Entirely empty records are dropped.
func NormalizeAll(raw any) []Record {
	switch v := raw.(type) {
	case nil:
		return nil
	case []Record:
		out := make([]Record, 0, len(v))
		for _, r := range v {
			out = appendRecord(out, Normalize(r))
		}
		return out
	case []map[string]any:
		out := make([]Record, 0, len(v))
		for _, r := range v {
			out = appendRecord(out, Normalize(r))
		}
		return out
	case []any:
		out := make([]Record, 0, len(v))
		for _, r := range v {
			out = appendRecord(out, Normalize(r))
		}
		return out
	case string:
		return NormalizeJSON([]byte(v))
	case []byte:
		return NormalizeJSON(v)
	case json.RawMessage:
		return NormalizeJSON(v)
	case map[string]any:
		if inner, ok := lookupFold(v, "data"); ok {
			switch inner.(type) {
			case []any, string:
				return NormalizeAll(inner)
			}
		}
		return appendRecord(nil, Normalize(v))
	}

	obj, _, ok := toObject(raw)
	if !ok {
		return nil
	}
	return NormalizeAll(obj)
}

// NormalizeJSON decodes JSON text and normalizes every record in it. Invalid
// JSON yields no records.
func NormalizeJSON(data []byte) []Record {
	v, err := decode(data)
	if err != nil {
		return nil
	}
	if s, isString := v.(string); isString {
		// a bare JSON string is either nested JSON text or a single code
		if nested, err := decode([]byte(s)); err == nil {
			if _, again := nested.(string); !again {
				return NormalizeAll(nested)
			}
		}
		return appendRecord(nil, Record{Code: s})
	}
	return NormalizeAll(v)
}

func appendRecord(out []Record, r Record) []Record {
	if r.Code == "" && r.Description == "" && len(r.ColumnHeaders) == 0 {
		return out
	}
	return append(out, r)
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// toObject coerces raw into a JSON object. When raw is a scalar the string
// form is returned instead.
func toObject(raw any) (map[string]any, string, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, "", false
	case map[string]any:
		return v, "", true
	case string:
		decoded, err := decode([]byte(v))
		if err != nil {
			return nil, strings.TrimSpace(v), false
		}
		if obj, ok := decoded.(map[string]any); ok {
			return obj, "", true
		}
		return nil, stringify(decoded), false
	case []byte:
		return toObject(string(v))
	case json.RawMessage:
		return toObject(string(v))
	case bool, json.Number, float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return nil, stringify(v), false
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, "", false
	}
	decoded, err := decode(data)
	if err != nil {
		return nil, "", false
	}
	obj, ok := decoded.(map[string]any)
	return obj, "", ok
}

// candidate picks the object that carries the extra columns: the record
// itself when it has more than two fields, otherwise the first conventional
// wrapper property holding an object.
func candidate(obj map[string]any) map[string]any {
	if len(obj) > 2 {
		return obj
	}
	for _, name := range containerKeys {
		if v, ok := lookupFold(obj, name); ok {
			if inner, isObj := v.(map[string]any); isObj {
				return inner
			}
		}
	}
	return nil
}

// derive extracts headers and aligned values from a candidate object.
func derive(cand map[string]any, skip map[string]bool) (headers, values []string, keyed map[string]string) {
	rawHeaders, _ := lookupFold(cand, keyHeaders)
	rawValues, _ := lookupFold(cand, keyAdditional)

	switch h := rawHeaders.(type) {
	case []any:
		for _, item := range h {
			if s := strings.TrimSpace(stringify(item)); s != "" {
				headers = append(headers, s)
			}
		}
	case string:
		headers = splitHeaders(h)
	}

	switch v := rawValues.(type) {
	case []any:
		values = make([]string, len(v))
		for i, item := range v {
			values[i] = stringify(item)
		}
	case string:
		for _, part := range delimiters.Split(v, -1) {
			values = append(values, strings.TrimSpace(part))
		}
	case map[string]any:
		keyed = make(map[string]string, len(v))
		for k, item := range v {
			keyed[strings.TrimSpace(k)] = stringify(item)
		}
		if len(headers) == 0 {
			headers = slices.Sorted(maps.Keys(keyed))
		}
		values = make([]string, len(headers))
		for i, h := range headers {
			values[i] = keyed[h]
		}
	}

	if len(headers) > 0 {
		return headers, values, keyed
	}

	// Nothing structured: every remaining key becomes a column.
	keyed = nil
	values = nil
	for _, k := range slices.Sorted(maps.Keys(cand)) {
		lower := strings.ToLower(k)
		if lower == "code" || lower == "description" || skip[lower] ||
			strings.EqualFold(k, keyHeaders) || strings.EqualFold(k, keyAdditional) {
			continue
		}
		h := strings.TrimSpace(k)
		if h == "" {
			continue
		}
		headers = append(headers, h)
		values = append(values, stringify(cand[k]))
	}
	return headers, values, nil
}

// seal enforces the header/value length invariant.
func seal(rec Record) Record {
	if len(rec.ColumnHeaders) == 0 {
		rec.ColumnHeaders = nil
		rec.Additional = nil
		rec.Keyed = nil
		return rec
	}

	headers := slices.Clone(rec.ColumnHeaders)
	values := make([]string, len(headers))
	for i := range headers {
		switch {
		case rec.Keyed != nil:
			values[i] = rec.Keyed[headers[i]]
		case i < len(rec.Additional):
			values[i] = rec.Additional[i]
		}
	}
	rec.ColumnHeaders = headers
	rec.Additional = values
	if rec.Keyed != nil {
		rec.Keyed = maps.Clone(rec.Keyed)
	}
	return rec
}

func splitHeaders(s string) []string {
	var out []string
	for _, part := range delimiters.Split(s, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// lookupFold finds name in obj, preferring an exact match, then the
// capitalized form, then any case-insensitive match in sorted key order.
func lookupFold(obj map[string]any, name string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	if v, ok := obj[name]; ok {
		return v, true
	}
	if name != "" {
		title := strings.ToUpper(name[:1]) + name[1:]
		if v, ok := obj[title]; ok {
			return v, true
		}
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if strings.EqualFold(k, name) {
			return obj[k], true
		}
	}
	return nil, false
}

func foldString(primary, secondary map[string]any, name string) string {
	if v, ok := lookupFold(primary, name); ok {
		if s := stringify(v); s != "" {
			return s
		}
	}
	if v, ok := lookupFold(secondary, name); ok {
		return stringify(v)
	}
	return ""
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}
