package catalog

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
)

// decodeArray decodes a JSON array whose entries are wire records of type R,
// validates each one and converts it with conv. A document that is not an
// array is ErrMalformedSource; any bad entry is ErrInvalidRecord with its
// position.
func decodeArray[R any, T any](raw []byte, conv func(R) T) ([]T, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
	}

	out := make([]T, 0, len(entries))
	for i, e := range entries {
		rec, err := decodeEntry[R](e)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
		out = append(out, conv(rec))
	}
	return out, nil
}

func decodeEntry[R any](raw json.RawMessage) (R, error) {
	var rec R

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return rec, fmt.Errorf("not an object: %s", truncate(raw))
	}

	if err := json.Unmarshal(raw, &rec); err != nil {
		if ferr := fieldError(&rec, fields); ferr != nil {
			return rec, ferr
		}
		return rec, err
	}
	if err := checkStruct(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// fieldError names the first key whose value does not decode into its
// struct field. go-json reports type mismatches as syntax errors, so the
// offending key is found by decoding each value on its own.
func fieldError(rec any, fields map[string]json.RawMessage) error {
	rt := reflect.TypeOf(rec).Elem()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		raw, ok := fields[name]
		if !ok {
			continue
		}

		if err := json.Unmarshal(raw, reflect.New(f.Type).Interface()); err != nil {
			want := f.Type
			if want.Kind() == reflect.Pointer {
				want = want.Elem()
			}
			return fmt.Errorf("%s: cannot use %s as %s", name, truncate(raw), want)
		}
	}
	return nil
}

func truncate(raw []byte) string {
	const max = 32
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
