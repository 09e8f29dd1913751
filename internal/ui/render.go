package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/mediatrakker/internal/models"
	"github.com/amaumene/mediatrakker/internal/tracker"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RecentPerType is how many recent items the dashboard shows per media type
const RecentPerType = 3

// Renderer turns tracker state into themed terminal text
type Renderer struct {
	theme  Theme
	styles Styles
	now    func() time.Time
}

// NewRenderer creates a renderer using the named theme
func NewRenderer(name models.ThemeName) *Renderer {
	theme := ThemeFor(name)
	return &Renderer{
		theme:  theme,
		styles: NewStyles(theme),
		now:    time.Now,
	}
}

// Theme returns the palette in use
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Dashboard renders the totals, per type breakdown and recent activity
func (r *Renderer) Dashboard(stats models.StatsSummary, entries []models.UserListEntry) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Your Media Dashboard"))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("%s %s    %s %s",
		r.styles.Dim.Render("Total items"),
		r.styles.Badge.Render(strconv.Itoa(tracker.TotalItems(stats))),
		r.styles.Dim.Render("Completion rate"),
		r.styles.Badge.Render(fmt.Sprintf("%d%%", tracker.CompletionRate(stats))),
	)
	b.WriteString(r.styles.Panel.Render(summary))
	b.WriteString("\n")

	breakdown := tracker.Breakdown(stats)
	if len(breakdown) == 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Dim.Render("Your list is empty. Search for something to add."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Header.Render("By media type"))
	b.WriteString("\n")
	for _, mb := range breakdown {
		fmt.Fprintf(&b, "  %-8s %s  %s\n",
			mb.MediaType.Label(),
			r.styles.Text.Render(pluralize(mb.Count, "item")),
			r.styles.Dim.Render(fmt.Sprintf("%d%% complete", mb.CompletionRate)),
		)
	}

	recent := tracker.RecentActivityByMedia(entries, RecentPerType)
	if len(recent) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Header.Render("Recent activity"))
	b.WriteString("\n")
	for _, mt := range orderedTypes(recent) {
		b.WriteString("  ")
		b.WriteString(r.styles.Accent.Render(mt.Label()))
		b.WriteString("\n")
		for _, e := range recent[mt] {
			fmt.Fprintf(&b, "    %s %s %s\n",
				r.styles.Text.Render(entryTitle(e)),
				r.statusBadge(e.ListItem.Status),
				r.styles.Dim.Render(humanize.RelTime(e.ListItem.ActivityAt(), r.now(), "ago", "from now")),
			)
		}
	}
	return b.String()
}

// List renders list entries one per line
func (r *Renderer) List(entries []models.UserListEntry) string {
	if len(entries) == 0 {
		return r.styles.Dim.Render("No items in your list.") + "\n"
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s %s",
			r.styles.Dim.Render(e.ListItem.ID),
			r.styles.Text.Render(entryTitle(e)),
			r.statusBadge(e.ListItem.Status),
		)
		if e.ListItem.Rating != nil {
			fmt.Fprintf(&b, " %s", r.styles.Accent.Render(fmt.Sprintf("%.1f/10", *e.ListItem.Rating)))
		}
		fmt.Fprintf(&b, " %s\n", r.styles.Dim.Render(e.ListItem.MediaType.Label()))
	}
	return b.String()
}

// SearchResults renders the results of the latest search for one type
func (r *Renderer) SearchResults(state tracker.SearchState) string {
	if len(state.Results) == 0 {
		return r.styles.Dim.Render(fmt.Sprintf("No results for %q.", state.Query)) + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n",
		r.styles.Title.Render(fmt.Sprintf("Results for %q", state.Query)),
		r.styles.Dim.Render(fmt.Sprintf("(%d from %s)", state.TotalResults, state.Source)),
	)
	for i, item := range state.Results {
		fmt.Fprintf(&b, "%2d. %s", i+1, r.styles.Text.Render(itemTitle(item)))
		if item.VoteAverage != nil {
			fmt.Fprintf(&b, " %s", r.styles.Accent.Render(fmt.Sprintf("%.1f", *item.VoteAverage)))
		}
		b.WriteString("\n")
		if len(item.Genres) > 0 {
			fmt.Fprintf(&b, "    %s\n", r.styles.Dim.Render(strings.Join(item.Genres, ", ")))
		}
		fmt.Fprintf(&b, "    %s\n", r.styles.Dim.Render("id "+item.ID))
	}
	return b.String()
}

// Stats renders the raw counts per media type and status
func (r *Renderer) Stats(stats models.StatsSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d items, %d%% complete\n",
		r.styles.Title.Render("Stats"),
		tracker.TotalItems(stats),
		tracker.CompletionRate(stats),
	)
	for _, mb := range tracker.Breakdown(stats) {
		fmt.Fprintf(&b, "  %s\n", r.styles.Accent.Render(mb.MediaType.Label()))
		statuses := models.StatusesFor(mb.MediaType)
		seen := make(map[models.Status]bool, len(statuses))
		for _, s := range statuses {
			seen[s] = true
			if n := stats[mb.MediaType][s]; n > 0 {
				fmt.Fprintf(&b, "    %-10s %d\n", s.Label(), n)
			}
		}
		var extra []models.Status
		for s, n := range stats[mb.MediaType] {
			if !seen[s] && n > 0 {
				extra = append(extra, s)
			}
		}
		sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
		for _, s := range extra {
			fmt.Fprintf(&b, "    %-10s %d\n", s.Label(), stats[mb.MediaType][s])
		}
	}
	return b.String()
}

// Statuses renders the statuses offered for a media type
func (r *Renderer) Statuses(mediaType models.MediaType, statuses []models.Status) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(mediaType.Label() + " statuses"))
	b.WriteString("\n")
	for _, s := range statuses {
		fmt.Fprintf(&b, "  %-10s %s\n", string(s), r.styles.Dim.Render(s.Label()))
	}
	return b.String()
}

// Themes renders the available themes, marking the active one
func (r *Renderer) Themes(active models.ThemeName) string {
	var b strings.Builder
	for _, t := range Themes() {
		marker := " "
		if t.Name == active {
			marker = "*"
		}
		swatch := lipgloss.NewStyle().Foreground(t.Accent).Render("■")
		mode := "light"
		if t.Dark {
			mode = "dark"
		}
		fmt.Fprintf(&b, "%s %s %-8s %s %s\n",
			marker, swatch, string(t.Name),
			r.styles.Text.Render(t.DisplayName),
			r.styles.Dim.Render("("+mode+")"),
		)
	}
	return b.String()
}

// AddResult renders the outcome of an add
func (r *Renderer) AddResult(result tracker.AddResult) string {
	if result.Added() {
		return r.Success(result.Message)
	}
	return r.Error(result.Message)
}

// Success renders a confirmation line
func (r *Renderer) Success(msg string) string {
	return r.styles.Success.Render(msg) + "\n"
}

// Error renders a failure line
func (r *Renderer) Error(msg string) string {
	return r.styles.Error.Render(msg) + "\n"
}

func (r *Renderer) statusBadge(s models.Status) string {
	if s == models.StatusCompleted {
		return r.styles.Success.Render("[" + s.Label() + "]")
	}
	return r.styles.Badge.Render("[" + s.Label() + "]")
}

func entryTitle(e models.UserListEntry) string {
	title := itemTitle(e.MediaItem)
	if title == "" {
		return e.ListItem.MediaID
	}
	return title
}

func itemTitle(item models.MediaItem) string {
	if item.Year != nil {
		return fmt.Sprintf("%s (%d)", item.Title, *item.Year)
	}
	return item.Title
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// orderedTypes returns the keys of grouped in display order
func orderedTypes(grouped map[models.MediaType][]models.UserListEntry) []models.MediaType {
	out := make([]models.MediaType, 0, len(grouped))
	for _, mt := range models.MediaTypes {
		if len(grouped[mt]) > 0 {
			out = append(out, mt)
		}
	}
	return out
}
