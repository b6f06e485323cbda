package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
)

// Format is an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// SupportedFormats lists the formats accepted by NewWriter.
func SupportedFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTable}
}

// IsUnknown reports whether f is not a supported format.
func (f Format) IsUnknown() bool {
	for _, s := range SupportedFormats() {
		if f == s {
			return false
		}
	}
	return true
}

// Serializer writes values in some format.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by serializers that own their output.
type Closer interface {
	Close() error
}

// Writer serializes values to an io.Writer.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer

	closeOnce sync.Once
	closeErr  error
}

// NewWriter creates a Writer for output. Unknown formats fall back to JSON.
func NewWriter(format Format, output io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: format, output: output}
}

// NewStdoutWriter creates a Writer for stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout creates a Writer for path, or stdout when path is empty
// or StdoutURI. The caller must Close the returned writer.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Serialize writes data in the writer's format.
func (w *Writer) Serialize(_ context.Context, data any) error {
	switch w.format {
	case FormatYAML:
		b, err := marshalYAML(data)
		if err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		_, err = w.output.Write(b)
		return err
	case FormatTable:
		return writeTable(w.output, data)
	default:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// Close closes the underlying file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		if w.closer != nil {
			w.closeErr = w.closer.Close()
		}
	})
	return w.closeErr
}

func writeTable(out io.Writer, data any) error {
	rows := map[string]string{}
	flatten("", reflect.ValueOf(data), rows)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")

	if len(rows) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
		return tw.Flush()
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		// Multi-line values keep the table readable when indented.
		v := strings.ReplaceAll(strings.TrimRight(rows[k], "\n"), "\n", " | ")
		fmt.Fprintf(tw, "%s\t%s\n", k, v)
	}
	return tw.Flush()
}

func flatten(prefix string, v reflect.Value, rows map[string]string) {
	if !v.IsValid() {
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return
		}
		flatten(prefix, v.Elem(), rows)
	case reflect.Struct:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			rows[prefix] = s.String()
			return
		}
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			flatten(join(prefix, t.Field(i).Name), v.Field(i), rows)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), rows)
		}
	case reflect.Map:
		for _, k := range v.MapKeys() {
			flatten(join(prefix, fmt.Sprint(k.Interface())), v.MapIndex(k), rows)
		}
	default:
		rows[prefix] = fmt.Sprint(v.Interface())
	}
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
