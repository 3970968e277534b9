package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one decoded line of the client's zap JSON log.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  map[string]string
	Raw     string
}

// Keys written by the logging package's encoder.
var reservedKeys = map[string]struct{}{
	"timestamp":  {},
	"level":      {},
	"logger":     {},
	"msg":        {},
	"caller":     {},
	"stacktrace": {},
}

// Parse decodes a JSON log line. Lines that are not JSON objects come back
// with only Raw and Message set, so nothing in the file is hidden.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		entry.Message = strings.TrimSpace(line)
		return entry
	}

	entry.Level = strings.ToUpper(stringValue(raw["level"]))
	entry.Logger = stringValue(raw["logger"])
	entry.Message = stringValue(raw["msg"])
	if ts := stringValue(raw["timestamp"]); ts != "" {
		if t, err := time.Parse("2006-01-02T15:04:05.000Z0700", ts); err == nil {
			entry.Time = t
		} else if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Time = t
		}
	}
	for k, v := range raw {
		if _, ok := reservedKeys[k]; ok {
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]string)
		}
		entry.Fields[k] = stringValue(v)
	}
	return entry
}

// ReadEntries tails path and decodes the last maxLines lines, skipping blanks.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, Parse(line))
	}
	return entries, nil
}

// FieldList renders the extra fields as sorted key=value pairs.
func (e Entry) FieldList() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+e.Fields[k])
	}
	return strings.Join(parts, " ")
}

// Matches reports whether term appears in the message, logger or fields,
// ignoring case.
func (e Entry) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	haystack := strings.ToLower(e.Logger + " " + e.Message + " " + e.FieldList())
	return strings.Contains(haystack, term)
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
