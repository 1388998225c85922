// Package program manages weekly training plans stored as YAML files
// under ~/.runcoach/programs/. A new week's file supersedes the previous
// one; files are never edited in place by the tool.
package program

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"runcoach/internal/store"
)

// ErrNoProgram is returned when no weekly program file exists.
var ErrNoProgram = errors.New("no weekly program found")

// Dir returns the programs directory, ~/.runcoach/programs
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".runcoach", "programs"), nil
}

// Load reads one week's program by number.
func Load(dir string, week int) (*store.WeeklyProgram, error) {
	data, err := os.ReadFile(path(dir, week))
	if os.IsNotExist(err) {
		return nil, ErrNoProgram
	}
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	var p store.WeeklyProgram
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	if p.WeekNumber == 0 {
		p.WeekNumber = week
	}
	return &p, nil
}

// LoadLatest reads the highest-numbered program file.
func LoadLatest(dir string) (*store.WeeklyProgram, error) {
	weeks, err := List(dir)
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, ErrNoProgram
	}
	return Load(dir, weeks[len(weeks)-1])
}

// List returns the week numbers that have program files, ascending.
func List(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading programs directory: %w", err)
	}

	var weeks []int
	for _, e := range entries {
		var week int
		if _, err := fmt.Sscanf(e.Name(), "week-%d.yaml", &week); err == nil {
			weeks = append(weeks, week)
		}
	}
	sort.Ints(weeks)
	return weeks, nil
}

// Save writes one week's program, creating the directory as needed.
func Save(dir string, p *store.WeeklyProgram) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating programs directory: %w", err)
	}

	if p.TotalKm == 0 {
		for _, r := range p.PlannedRuns {
			p.TotalKm += r.DistanceKm
		}
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding program: %w", err)
	}
	return os.WriteFile(path(dir, p.WeekNumber), data, 0o644)
}

func path(dir string, week int) string {
	return filepath.Join(dir, fmt.Sprintf("week-%02d.yaml", week))
}
