// Package manifest loads graphoid.toml: a project's
// optional manifest declaring its name/version metadata, build entry
// point, test conventions, and a (currently inert) dependencies table.
//
// This is the one ambient concern in the whole module implemented on
// the standard library rather than a third-party package (see
// DESIGN.md for why): a hand-written, section-structured parser with
// a Validate() method, applied here to TOML's `[section]` line syntax
// instead of environment variables.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Filename is the manifest's conventional name.
const Filename = "graphoid.toml"

// Manifest is the parsed contents of graphoid.toml.
type Manifest struct {
	Project         ProjectSection
	Build           BuildSection
	Test            TestSection
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// ProjectSection is graphoid.toml's `[project]` table.
type ProjectSection struct {
	Name            string
	Version         string
	Authors         []string
	Description     string
	License         string
	GraphoidVersion string
}

// BuildSection is graphoid.toml's `[build]` table.
type BuildSection struct {
	EntryPoint string
	OutputDir  string
	Include    []string
	Exclude    []string
}

// TestSection is graphoid.toml's `[test]` table.
type TestSection struct {
	TestPattern       string
	CoverageThreshold float64
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	defer f.Close()

	m := &Manifest{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
	section := ""
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
			section = strings.TrimSpace(text[1 : len(text)-1])
			continue
		}
		key, val, ok := splitAssignment(text)
		if !ok {
			return nil, fmt.Errorf("%s:%d: malformed line %q", path, line, text)
		}
		if err := m.assign(section, key, val); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return m, nil
}

// FindProjectRoot walks upward from startDir looking for a directory
// containing graphoid.toml (this design priority 2's "nearest
// ancestor directory containing graphoid.toml"). Returns ("", false)
// if none is found before reaching the filesystem root.
func FindProjectRoot(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, Filename)); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Validate checks the manifest for the minimal invariants a project
// layout needs: a [project] name, and a [test] coverage_threshold
// between 0 and 100. The [build] entry point is not checked.
func (m *Manifest) Validate() error {
	if m.Project.Name == "" {
		return fmt.Errorf("manifest missing [project] name")
	}
	if m.Test.CoverageThreshold < 0 || m.Test.CoverageThreshold > 100 {
		return fmt.Errorf("invalid [test] coverage_threshold: %v", m.Test.CoverageThreshold)
	}
	return nil
}

func (m *Manifest) assign(section, key, val string) error {
	switch section {
	case "project":
		switch key {
		case "name":
			m.Project.Name = val
		case "version":
			m.Project.Version = val
		case "authors":
			m.Project.Authors = splitArray(val)
		case "description":
			m.Project.Description = val
		case "license":
			m.Project.License = val
		case "graphoid_version":
			m.Project.GraphoidVersion = val
		default:
			return fmt.Errorf("unknown [project] key %q", key)
		}
	case "build":
		switch key {
		case "entry_point":
			m.Build.EntryPoint = val
		case "output_dir":
			m.Build.OutputDir = val
		case "include":
			m.Build.Include = splitArray(val)
		case "exclude":
			m.Build.Exclude = splitArray(val)
		default:
			return fmt.Errorf("unknown [build] key %q", key)
		}
	case "test":
		switch key {
		case "test_pattern":
			m.Test.TestPattern = val
		case "coverage_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid coverage_threshold %q: %w", val, err)
			}
			m.Test.CoverageThreshold = f
		default:
			return fmt.Errorf("unknown [test] key %q", key)
		}
	case "dependencies":
		m.Dependencies[key] = val
	case "dev_dependencies":
		m.DevDependencies[key] = val
	default:
		return fmt.Errorf("unknown section %q", section)
	}
	return nil
}

// splitAssignment splits a "key = value" line, unquoting string values
// and leaving array/bare-literal values for splitArray/strconv to
// handle downstream.
func splitAssignment(line string) (key, val string, ok bool) {
	i := strings.Index(line, "=")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	val = strings.TrimSpace(line[i+1:])
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	return key, val, key != ""
}

// splitArray parses a TOML-style `["a", "b", "c"]` array of strings.
func splitArray(val string) []string {
	val = strings.TrimSpace(val)
	if !strings.HasPrefix(val, "[") || !strings.HasSuffix(val, "]") {
		if val == "" {
			return nil
		}
		return []string{val}
	}
	inner := strings.TrimSpace(val[1 : len(val)-1])
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.Trim(p, `"`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
