package input

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// FileSource reads one command per line from a script file. Blank lines and
// lines starting with '#' are skipped.
type FileSource struct {
	path string
	*Script
}

func NewFileSource(path string) *FileSource {
	return &FileSource{
		path:   path,
		Script: NewScript("file", nil),
	}
}

func (f *FileSource) Start(ctx context.Context) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer file.Close()

	var commands []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		commands = append(commands, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script %s: %w", f.path, err)
	}

	f.Script.commands = commands
	return f.Script.Start(ctx)
}
