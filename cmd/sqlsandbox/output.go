package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/wemcdonald/sqlsandbox/pkg/sandbox"
	"github.com/wemcdonald/sqlsandbox/pkg/values"
)

// parseBind turns a kind:value argument into a bind value.
func parseBind(arg string) (values.Bind, error) {
	kind, raw, ok := strings.Cut(arg, ":")
	if !ok {
		return nil, fmt.Errorf("bind %q: expected kind:value", arg)
	}

	switch strings.ToLower(kind) {
	case "text", "t":
		return values.Text(raw), nil
	case "num", "n":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bind %q: %w", arg, err)
		}
		return values.Float(f), nil
	case "blob", "b":
		b, err := hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("bind %q: %w", arg, err)
		}
		return values.Blob(b), nil
	default:
		return nil, fmt.Errorf("bind %q: unknown kind %q", arg, kind)
	}
}

func parseBinds(args []string) ([]values.Bind, error) {
	binds := make([]values.Bind, 0, len(args))
	for _, arg := range args {
		b, err := parseBind(arg)
		if err != nil {
			return nil, err
		}
		binds = append(binds, b)
	}
	return binds, nil
}

// encodeRecord renders a record as a JSON object with keys in column order.
// Blobs are encoded as base64 strings.
func encodeRecord(rec values.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range rec {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(jsonValue(f.Value))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", f.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue returns the value to encode for v. JSON has no infinities or
// NaN, so non-finite floats are written as strings.
func jsonValue(v values.Value) any {
	if f, ok := v.(values.Float); ok {
		if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
			return strconv.FormatFloat(float64(f), 'g', -1, 64)
		}
	}
	return v.Any()
}

// printResult writes one JSON line per record followed by a row count.
func printResult(w io.Writer, res *sandbox.Result) error {
	for _, rec := range res.Records() {
		line, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}

	noun := "rows"
	if res.Len() == 1 {
		noun = "row"
	}
	_, err := fmt.Fprintf(w, "(%s %s, %s)\n", humanize.Comma(int64(res.Len())), noun, res.Kind())
	return err
}
