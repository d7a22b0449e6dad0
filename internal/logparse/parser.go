// Package logparse turns raw hub log lines into typed events.
package logparse

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/verte-zerg/hublog/internal/model"
)

// SkipReason classifies why a line was excluded from the typed output.
type SkipReason int

// Skip reasons. SkipNone marks lines that produced a record.
const (
	SkipNone SkipReason = iota
	SkipBlank
	SkipUnknownKind
	SkipTooFewFields
	SkipBadValue
	SkipBadTimestamp
	SkipUnknownSensor
)

// String returns a short diagnostic label for the reason.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipBlank:
		return "blank"
	case SkipUnknownKind:
		return "unknown record kind"
	case SkipTooFewFields:
		return "too few fields"
	case SkipBadValue:
		return "bad value"
	case SkipBadTimestamp:
		return "bad timestamp"
	case SkipUnknownSensor:
		return "unknown sensor type"
	}
	return "unknown"
}

// LineResult is the tagged outcome of parsing one line. Exactly one of
// Sample and Alert is set when Reason is SkipNone.
type LineResult struct {
	Sample *model.Sample
	Alert  *model.Alert
	Reason SkipReason
}

// Result collects the typed events of a full parse pass. Samples and
// alerts keep file order; downstream components sort where order
// matters.
type Result struct {
	Samples    []model.Sample
	Alerts     []model.Alert
	TotalLines int
	Skipped    map[SkipReason]int
}

// SkippedLines returns the number of scanned lines that produced no
// record.
func (r Result) SkippedLines() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// ParseLine parses a single log line. Malformed lines are never an
// error; they come back tagged with a skip reason.
func ParseLine(line string) LineResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return LineResult{Reason: SkipBlank}
	}
	parts := strings.Split(line, "|")
	switch parts[0] {
	case "SAMPLE":
		if len(parts) < 4 {
			return LineResult{Reason: SkipTooFewFields}
		}
		sensor, value, ts, reason := parseEventFields(parts)
		if reason != SkipNone {
			return LineResult{Reason: reason}
		}
		return LineResult{Sample: &model.Sample{Sensor: sensor, Value: value, TimestampMs: ts}}
	case "ALERT":
		if len(parts) < 5 {
			return LineResult{Reason: SkipTooFewFields}
		}
		sensor, value, ts, reason := parseEventFields(parts)
		if reason != SkipNone {
			return LineResult{Reason: reason}
		}
		return LineResult{Alert: &model.Alert{Sensor: sensor, Value: value, TimestampMs: ts, Info: parts[4]}}
	}
	return LineResult{Reason: SkipUnknownKind}
}

func parseEventFields(parts []string) (model.SensorType, float64, int64, SkipReason) {
	sensor := model.SensorType(parts[1])
	if !model.KnownSensor(sensor) {
		return "", 0, 0, SkipUnknownSensor
	}
	value, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return "", 0, 0, SkipBadValue
	}
	// Timestamps may be written as decimals; truncate to whole ms.
	tsFloat, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return "", 0, 0, SkipBadTimestamp
	}
	return sensor, value, int64(tsFloat), SkipNone
}

// maxLineBytes bounds a single log line. ALERT info fields are
// free-form, so the default scanner token limit is too small.
const maxLineBytes = 16 * 1024 * 1024

// ParseReader scans log text line by line and collects typed events.
func ParseReader(r io.Reader) (Result, error) {
	result := Result{Skipped: map[SkipReason]int{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineBytes)
	for scanner.Scan() {
		result.TotalLines++
		line := ParseLine(scanner.Text())
		switch {
		case line.Sample != nil:
			result.Samples = append(result.Samples, *line.Sample)
		case line.Alert != nil:
			result.Alerts = append(result.Alerts, *line.Alert)
		default:
			result.Skipped[line.Reason]++
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, err
	}
	return result, nil
}

// ParseFile reads and parses a log file. A missing file surfaces as an
// os.IsNotExist error so callers can distinguish it from other read
// failures.
func ParseFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()
	return ParseReader(file)
}
