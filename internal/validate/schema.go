package validate

import (
	"os"
	"regexp"
	"strings"
)

// schemaHeadingRE matches one required-section declaration in a
// requirements schema file: "### Section X: Title".
var schemaHeadingRE = regexp.MustCompile(`^###\s+Section\s+([A-Z])\s*:\s*(.+)$`)

// Schema is the parsed required-section mapping for an artifact kind:
// the canonical ordering of section codes and each code's title.
type Schema struct {
	Order  []string
	Titles map[string]string
}

// ParseSchema extracts the required sections from schema text. Duplicate
// declarations keep the first title; order follows the file.
func ParseSchema(text string) *Schema {
	s := &Schema{Titles: make(map[string]string)}
	for _, line := range strings.Split(text, "\n") {
		m := schemaHeadingRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		id := m[1]
		if _, seen := s.Titles[id]; seen {
			continue
		}
		s.Order = append(s.Order, id)
		s.Titles[id] = strings.TrimSpace(m[2])
	}
	return s
}

// LoadSchema reads and parses a requirements schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchema(string(data)), nil
}

// Empty reports whether the schema declares no sections, which means the
// schema input was malformed or missing.
func (s *Schema) Empty() bool {
	return s == nil || len(s.Order) == 0
}
