package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A missing
// file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < maxLines {
		return append([]string(nil), ring[:count]...), nil
	}
	lines := make([]string, 0, count)
	lines = append(lines, ring[next:]...)
	lines = append(lines, ring[:next]...)
	return lines, nil
}

// Entry is a log line split into the parts the diagnostics view highlights.
type Entry struct {
	Raw     string
	Level   slog.Level
	Message string
	Parsed  bool
}

// Parse recognises records written by slog's text and JSON handlers. Lines in
// any other shape come back with Parsed false and level INFO.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Level: slog.LevelInfo}
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var record struct {
			Level string `json:"level"`
			Msg   string `json:"msg"`
		}
		if err := json.Unmarshal([]byte(trimmed), &record); err == nil && record.Level != "" {
			entry.Parsed = entry.Level.UnmarshalText([]byte(record.Level)) == nil
			entry.Message = record.Msg
		}
		return entry
	}

	level, ok := textValue(trimmed, "level")
	if !ok {
		return entry
	}
	entry.Parsed = entry.Level.UnmarshalText([]byte(level)) == nil
	entry.Message, _ = textValue(trimmed, "msg")
	return entry
}

// Filter keeps the lines whose level is at least min.
func Filter(lines []string, min slog.Level) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if Parse(line).Level >= min {
			out = append(out, line)
		}
	}
	return out
}

// textValue extracts key=value from a logfmt line, honouring quoted values.
func textValue(line, key string) (string, bool) {
	prefix := key + "="
	idx := 0
	for {
		pos := strings.Index(line[idx:], prefix)
		if pos < 0 {
			return "", false
		}
		pos += idx
		if pos == 0 || line[pos-1] == ' ' {
			rest := line[pos+len(prefix):]
			if strings.HasPrefix(rest, `"`) {
				// Quoted values use Go string escaping.
				end := 1
				for end < len(rest) {
					if rest[end] == '\\' {
						end += 2
						continue
					}
					if rest[end] == '"' {
						break
					}
					end++
				}
				if end >= len(rest) {
					return strings.Trim(rest, `"`), true
				}
				var unquoted string
				if err := json.Unmarshal([]byte(rest[:end+1]), &unquoted); err == nil {
					return unquoted, true
				}
				return rest[1:end], true
			}
			if sp := strings.IndexByte(rest, ' '); sp >= 0 {
				return rest[:sp], true
			}
			return rest, true
		}
		idx = pos + len(prefix)
	}
}
