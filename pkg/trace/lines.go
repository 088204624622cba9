package trace

import (
	"bufio"
	"io"
	"os"
)

// ReadLines materializes a whole log as an ordered slice of lines with
// line endings stripped. Both traces are held fully in memory for the
// comparison pass; there is no streaming mode.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// LoadFile reads a trace file into memory.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}
