package fdl

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	beginMarkerRE = regexp.MustCompile(`fdd-begin\s+(fdd-[a-z0-9-]+(?:-flow|-algo|-state|-req|-test|-change)-[a-z0-9-]+):ph-(\d+):(inst-[a-z0-9-]+)`)
	endMarkerRE   = regexp.MustCompile(`fdd-end\s+(fdd-[a-z0-9-]+(?:-flow|-algo|-state|-req|-test|-change)-[a-z0-9-]+):ph-(\d+):(inst-[a-z0-9-]+)`)
)

// MarkerRecord tracks what the code markers say about one instruction.
type MarkerRecord struct {
	HasBegin bool
	HasEnd   bool
	Scopes   map[string]bool
}

// Complete reports whether both halves of the marker pair were seen.
func (m *MarkerRecord) Complete() bool { return m.HasBegin && m.HasEnd }

// MarkerIndex is the result of scanning a source tree: marker state keyed
// by instruction ID, plus a count of files the scanner could not read.
type MarkerIndex struct {
	Records      map[string]*MarkerRecord
	SkippedFiles int
	ScannedFiles int
}

func (x *MarkerIndex) record(inst string) *MarkerRecord {
	rec, ok := x.Records[inst]
	if !ok {
		rec = &MarkerRecord{Scopes: make(map[string]bool)}
		x.Records[inst] = rec
	}
	return rec
}

// InstructionIDs returns the indexed instruction IDs in sorted order.
func (x *MarkerIndex) InstructionIDs() []string {
	ids := make([]string, 0, len(x.Records))
	for id := range x.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scanner walks a project tree collecting implementation markers. Traversal
// is a breadth-first worklist over directories so a single unreadable
// directory cannot abort the scan.
type Scanner struct {
	Extensions   map[string]bool
	ExcludeDirs  map[string]bool
	ExcludeGlobs []string
}

// NewScanner returns a scanner with the default allow and deny lists.
func NewScanner() *Scanner {
	return &Scanner{
		Extensions: map[string]bool{
			".py": true, ".rs": true, ".ts": true, ".tsx": true,
			".js": true, ".jsx": true, ".go": true, ".java": true,
			".cs": true, ".sql": true, ".md": true,
		},
		ExcludeDirs: map[string]bool{
			".git": true, "node_modules": true, "venv": true,
			"__pycache__": true, ".pytest_cache": true, "target": true,
			"build": true, "dist": true, "tests": true, "examples": true,
		},
	}
}

// Scan walks root and indexes every begin/end marker found under it.
func (s *Scanner) Scan(root string) *MarkerIndex {
	idx := &MarkerIndex{Records: make(map[string]*MarkerRecord)}

	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			idx.SkippedFiles++
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				if s.ExcludeDirs[entry.Name()] || s.globExcluded(root, path) {
					continue
				}
				queue = append(queue, path)
				continue
			}
			if !s.Extensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue
			}
			if s.globExcluded(root, path) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				idx.SkippedFiles++
				continue
			}
			idx.ScannedFiles++
			s.index(idx, string(data))
		}
	}

	return idx
}

func (s *Scanner) index(idx *MarkerIndex, text string) {
	for _, m := range beginMarkerRE.FindAllStringSubmatch(text, -1) {
		rec := idx.record(m[3])
		rec.HasBegin = true
		rec.Scopes[m[1]] = true
	}
	for _, m := range endMarkerRE.FindAllStringSubmatch(text, -1) {
		rec := idx.record(m[3])
		rec.HasEnd = true
		rec.Scopes[m[1]] = true
	}
}

func (s *Scanner) globExcluded(root, path string) bool {
	if len(s.ExcludeGlobs) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.ExcludeGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
