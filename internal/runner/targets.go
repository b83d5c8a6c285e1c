package runner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadTargets returns one target per non-empty line of r. Lines starting
// with '#' are comments.
func ReadTargets(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	var targets []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("target list read error: %w", err)
	}
	return targets, nil
}

// LoadTargets reads the target list at path.
func LoadTargets(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target list %q: %w", path, err)
	}
	defer file.Close()
	return ReadTargets(file)
}
