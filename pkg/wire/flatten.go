package wire

import (
	"bytes"
	"fmt"

	"github.com/buger/jsonparser"
)

// Flatten converts one JSON response line into its telegram sequence,
// framed by a Begin and an End telegram.
//
// Objects contribute ':'-separated path segments, arrays append '^' to the
// segment and advance the index at their level. Arrays nested deeper than
// MaxIndices are skipped. Nothing is returned when the line is malformed.
func Flatten(line []byte) ([]Telegram, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return nil, ErrMalformed
	}
	f := &flattener{out: make([]Telegram, 0, 32)}
	f.out = append(f.out, Telegram{Kind: KindBegin})
	if err := f.object(line, "", 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	f.out = append(f.out, Telegram{Kind: KindEnd})
	return f.out, nil
}

type flattener struct {
	out     []Telegram
	indices [MaxIndices]int
}

func (f *flattener) object(data []byte, prefix string, depth int) error {
	return jsonparser.ObjectEach(data, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		path := name
		if prefix != "" {
			path = prefix + ":" + name
		}
		return f.element(value, vt, path, depth)
	})
}

func (f *flattener) element(value []byte, vt jsonparser.ValueType, path string, depth int) error {
	switch vt {
	case jsonparser.Object:
		return f.object(value, path, depth)
	case jsonparser.Array:
		return f.array(value, path+"^", depth)
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return err
		}
		f.value(path, s)
	case jsonparser.Null:
		f.value(path, "")
	case jsonparser.Number, jsonparser.Boolean:
		f.value(path, string(value))
	default:
		return fmt.Errorf("unexpected value at %s", path)
	}
	return nil
}

func (f *flattener) array(data []byte, path string, depth int) error {
	if depth >= MaxIndices {
		return nil
	}
	var (
		count   int
		walkErr error
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
		if walkErr != nil {
			return
		}
		if err != nil {
			walkErr = err
			return
		}
		f.indices[depth] = count
		walkErr = f.element(value, vt, path, depth+1)
		count++
	})
	if err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}
	f.indices[depth] = count
	f.out = append(f.out, Telegram{Kind: KindArrayEnd, Path: path, Indices: f.indices})
	f.indices[depth] = 0
	return nil
}

func (f *flattener) value(path, v string) {
	f.out = append(f.out, Telegram{Kind: KindValue, Path: path, Value: v, Indices: f.indices})
}
