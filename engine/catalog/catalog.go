package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spaghettifunk/poser/engine/math"
	"github.com/spaghettifunk/poser/engine/poses"
)

const (
	MinColumns = 1
	MaxColumns = 8
	// Suggestions further away than this are not offered.
	maxSuggestionDistance = 3
)

/**
 * @brief One thumbnail of the pose folder. Valid entries have a matching
 * pose in the library and a slot in the grid; invalid ones only show up
 * in the list.
 */
type Entry struct {
	Name          string
	ThumbnailPath string
	Valid         bool
	Row           int
	Column        int
	// Closest pose name for invalid entries, empty when nothing is close.
	Suggestion string
}

type Catalog struct {
	entries []Entry
	orphans []string
	columns int
	store   *poses.Store
}

// PoseName derives the pose name from a thumbnail path.
func PoseName(thumbnailPath string) string {
	base := filepath.Base(thumbnailPath)
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Build reconciles thumbnails with the pose library. A nil store means no
// pose file was found; every entry is then invalid.
func Build(thumbnails []string, store *poses.Store, columns int) *Catalog {
	c := &Catalog{
		columns: math.Clamp(columns, MinColumns, MaxColumns),
		store:   store,
	}

	seen := make(map[string]bool, len(thumbnails))
	slot := 0
	for _, path := range thumbnails {
		name := PoseName(path)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		e := Entry{Name: name, ThumbnailPath: path, Row: -1, Column: -1}
		if store.HasPose(name) {
			e.Valid = true
			e.Row = slot / c.columns
			e.Column = slot % c.columns
			slot++
		} else {
			e.Suggestion = suggest(name, store.PoseNames())
		}
		c.entries = append(c.entries, e)
	}

	for _, name := range store.PoseNames() {
		if !seen[name] {
			c.orphans = append(c.orphans, name)
		}
	}
	return c
}

func suggest(name string, candidates []string) string {
	best := ""
	bestDistance := maxSuggestionDistance + 1
	lower := strings.ToLower(name)
	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(candidate))
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best
}

// Entries returns every thumbnail entry in thumbnail order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Valid returns the entries that can be applied, in grid order.
func (c *Catalog) Valid() []Entry {
	out := []Entry{}
	for _, e := range c.entries {
		if e.Valid {
			out = append(out, e)
		}
	}
	return out
}

func (c *Catalog) Invalid() []Entry {
	out := []Entry{}
	for _, e := range c.entries {
		if !e.Valid {
			out = append(out, e)
		}
	}
	return out
}

// Orphans lists poses of the library that have no thumbnail.
func (c *Catalog) Orphans() []string {
	out := make([]string, len(c.orphans))
	copy(out, c.orphans)
	return out
}

func (c *Catalog) Columns() int {
	return c.columns
}

// Rows is the number of grid rows used by valid entries.
func (c *Catalog) Rows() int {
	n := len(c.Valid())
	return (n + c.columns - 1) / c.columns
}

func (c *Catalog) Entry(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// HasLibrary is false when no pose file was found.
func (c *Catalog) HasLibrary() bool {
	return c.store != nil
}

// Status is the message shown when a pose is selected in the list.
func (c *Catalog) Status(name string) string {
	if !c.store.HasPose(name) {
		return fmt.Sprintf("%s is not a valid pose", name)
	}
	return fmt.Sprintf("%s is a valid pose", name)
}
