package commitlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// List returns every recognizable commit-log artifact in dir, sorted per
// Compare. Entries that aren't valid commit-log filenames are ignored.
func List(dir string) ([]Segment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("commitlog: read dir %s: %w", dir, err)
	}

	segs := make([]Segment, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if seg, ok := Parse(e.Name()); ok {
			segs = append(segs, seg)
		}
	}

	sort.Slice(segs, func(i, j int) bool { return Compare(segs[i], segs[j]) < 0 })
	return segs, nil
}

// Path joins dir and the segment's file name.
func (s Segment) Path(dir string) string {
	return filepath.Join(dir, s.Name)
}
