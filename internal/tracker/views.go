package tracker

import (
	"sort"
	"strings"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/sahilm/fuzzy"
)

// MediaBreakdown summarizes one media type of a StatsSummary
type MediaBreakdown struct {
	MediaType      models.MediaType
	Count          int
	Completed      int
	CompletionRate int
}

// TotalItems sums every count in stats
func TotalItems(stats models.StatsSummary) int {
	total := 0
	for _, byStatus := range stats {
		for _, n := range byStatus {
			total += n
		}
	}
	return total
}

// CompletionRate is the rounded percentage of completed items, 0 when empty
func CompletionRate(stats models.StatsSummary) int {
	completed := 0
	for _, byStatus := range stats {
		completed += byStatus[models.StatusCompleted]
	}
	return percent(completed, TotalItems(stats))
}

// Breakdown returns per type counts for the types that have items. Known
// types come first in display order, then unknown ones alphabetically.
func Breakdown(stats models.StatsSummary) []MediaBreakdown {
	out := make([]MediaBreakdown, 0, len(stats))
	for mt, byStatus := range stats {
		count := 0
		for _, n := range byStatus {
			count += n
		}
		if count == 0 {
			continue
		}
		completed := byStatus[models.StatusCompleted]
		out = append(out, MediaBreakdown{
			MediaType:      mt,
			Count:          count,
			Completed:      completed,
			CompletionRate: percent(completed, count),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := mediaTypeRank(out[i].MediaType), mediaTypeRank(out[j].MediaType)
		if ri != rj {
			return ri < rj
		}
		return out[i].MediaType < out[j].MediaType
	})
	return out
}

// RecentActivity returns the n entries with the latest activity, newest first
func RecentActivity(entries []models.UserListEntry, n int) []models.UserListEntry {
	sorted := make([]models.UserListEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ListItem.ActivityAt().After(sorted[j].ListItem.ActivityAt())
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// RecentActivityByMedia applies RecentActivity within each media type
func RecentActivityByMedia(entries []models.UserListEntry, n int) map[models.MediaType][]models.UserListEntry {
	grouped := GroupByMediaType(entries)
	for mt, group := range grouped {
		grouped[mt] = RecentActivity(group, n)
	}
	return grouped
}

// GroupByMediaType buckets entries by media type, keeping their order
func GroupByMediaType(entries []models.UserListEntry) map[models.MediaType][]models.UserListEntry {
	grouped := make(map[models.MediaType][]models.UserListEntry)
	for _, e := range entries {
		mt := entryMediaType(e)
		grouped[mt] = append(grouped[mt], e)
	}
	return grouped
}

// entryIndex adapts entries to fuzzy.Source
type entryIndex struct {
	entries []models.UserListEntry
	titles  []string
}

func (idx *entryIndex) String(i int) string { return idx.titles[i] }

func (idx *entryIndex) Len() int { return len(idx.entries) }

// FilterEntries fuzzy matches query against entry titles, best match first.
// An empty query returns every entry.
func FilterEntries(entries []models.UserListEntry, query string) []models.UserListEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]models.UserListEntry, len(entries))
		copy(out, entries)
		return out
	}

	idx := &entryIndex{entries: entries, titles: make([]string, len(entries))}
	for i, e := range entries {
		idx.titles[i] = strings.ToLower(e.MediaItem.Title)
	}

	matches := fuzzy.FindFrom(query, idx)
	out := make([]models.UserListEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

func entryMediaType(e models.UserListEntry) models.MediaType {
	if e.ListItem.MediaType != "" {
		return e.ListItem.MediaType
	}
	return e.MediaItem.MediaType
}

func mediaTypeRank(mt models.MediaType) int {
	for i, known := range models.MediaTypes {
		if mt == known {
			return i
		}
	}
	return len(models.MediaTypes)
}

// percent rounds 100*part/whole half up, returning 0 for an empty whole
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
