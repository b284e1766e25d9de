package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// QuerySet is one YAML file of related search queries, e.g. all the
// trampoline-park queries or all the borough-specific ones.
type QuerySet struct {
	Name    string   `yaml:"name"`
	Queries []string `yaml:"queries"`
}

// LoadQuerySets reads every .yaml/.yml file in dir and returns the parsed
// sets sorted by filename. A missing directory is not an error; it just
// means the config-inline queries are all there is.
func LoadQuerySets(dir string) ([]QuerySet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read queries directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	var sets []QuerySet
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read query set %s: %w", name, err)
		}

		var set QuerySet
		if err := yaml.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("failed to parse query set %s: %w", name, err)
		}
		if set.Name == "" {
			set.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		sets = append(sets, set)
	}

	return sets, nil
}

// CollectQueries merges the config-inline queries with every query-set file,
// dropping blank entries and exact duplicates while preserving order.
func CollectQueries(inline []string, sets []QuerySet) []string {
	seen := make(map[string]bool)
	var queries []string

	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		queries = append(queries, q)
	}

	for _, q := range inline {
		add(q)
	}
	for _, set := range sets {
		for _, q := range set.Queries {
			add(q)
		}
	}

	return queries
}
