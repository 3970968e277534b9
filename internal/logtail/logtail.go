package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	tailChunk    = 32 * 1024
	maxLineBytes = 1024 * 1024
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file is not an error.
//
// Only the tail is scanned: the file is walked backwards from the end until
// enough line breaks are found.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	if maxLines > 0 {
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat log: %w", err)
		}
		start, err := tailOffset(file, info.Size(), maxLines)
		if err != nil {
			return nil, fmt.Errorf("seek log tail: %w", err)
		}
		if _, err := file.Seek(start, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek log tail: %w", err)
		}
	}

	lines, err := scanLines(file)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines, nil
}

// tailOffset returns the offset of the first of the last n lines in r.
// A newline at the very end terminates the last line and is not counted.
func tailOffset(r io.ReaderAt, size int64, n int) (int64, error) {
	buf := make([]byte, tailChunk)
	breaks := 0
	for end := size; end > 0; {
		start := max(end-tailChunk, 0)
		chunk := buf[:end-start]
		if _, err := r.ReadAt(chunk, start); err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		for i := len(chunk) - 1; i >= 0; i-- {
			if chunk[i] != '\n' || start+int64(i) == size-1 {
				continue
			}
			breaks++
			if breaks == n {
				return start + int64(i) + 1, nil
			}
		}
		end = start
	}
	return 0, nil
}

func scanLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
