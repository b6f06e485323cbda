// Package memory reads process memory statistics and renders them as the
// human readable report published by the samples runner.
package memory

import (
	"log/slog"
	"math"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats holds memory readings in bytes.
type Stats struct {
	// Free is memory obtained from the OS but not in use.
	Free int64 `json:"free" yaml:"free"`

	// Allocated is memory currently obtained from the OS.
	Allocated int64 `json:"allocated" yaml:"allocated"`

	// Max is the most memory the process will attempt to use.
	Max int64 `json:"max" yaml:"max"`
}

// TotalFree returns Free plus the headroom between Allocated and Max.
func (s Stats) TotalFree() int64 {
	return s.Free + (s.Max - s.Allocated)
}

// Reader returns current memory statistics.
type Reader interface {
	Read() Stats
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func() Stats

// Read calls f.
func (f ReaderFunc) Read() Stats {
	return f()
}

// RuntimeReader reads Go heap statistics. The ceiling is the soft memory limit
// when one is configured, otherwise total physical memory.
type RuntimeReader struct{}

// Read implements Reader.
func (RuntimeReader) Read() Stats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := Stats{
		Allocated: int64(ms.HeapSys),
		Free:      int64(ms.HeapSys - ms.HeapAlloc),
	}
	s.Max = maxMemory(s.Allocated)
	return s
}

func maxMemory(allocated int64) int64 {
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		return limit
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		slog.Debug("failed to read physical memory, using allocated heap as ceiling", "error", err)
		return allocated
	}
	if vm.Total > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(vm.Total)
}

// LineBreak separates report lines.
const LineBreak = "\n"

var printer = message.NewPrinter(language.English)

// Report renders s in kilobytes with thousands separators, one quantity per
// line, each line terminated by sep.
func Report(s Stats, sep string) string {
	var sb strings.Builder
	writeLine(&sb, "free memory", s.Free, sep)
	writeLine(&sb, "allocated memory", s.Allocated, sep)
	writeLine(&sb, "max memory", s.Max, sep)
	writeLine(&sb, "total free memory", s.TotalFree(), sep)
	return sb.String()
}

func writeLine(sb *strings.Builder, label string, bytes int64, sep string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(FormatKB(bytes))
	sb.WriteString(sep)
}

// FormatKB converts bytes to kilobytes (integer division) and formats the
// result with thousands separators.
func FormatKB(bytes int64) string {
	return printer.Sprintf("%d", bytes/1024)
}
