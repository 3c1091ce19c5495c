package tui

import (
	"fmt"
	"strings"

	"catalog-cli/internal/api"
	"catalog-cli/internal/catalog"
)

func (m Model) View() string {
	if m.mode == modeDetail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Rick and Morty characters"))
	b.WriteString("\n")

	switch {
	case m.mode == modeSearch:
		b.WriteString(m.input.View())
	case m.snap.Committed != "":
		b.WriteString(mutedStyle.Render(fmt.Sprintf("search: %q  (ctrl+r to reset)", m.snap.Committed)))
	default:
		b.WriteString(mutedStyle.Render("press / to search"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) listView() string {
	switch {
	case m.snap.Status == catalog.StatusLoadingInitial:
		return m.spinner.View() + " Loading..."
	case m.snap.Status == catalog.StatusError:
		return errorStyle.Render("Could not load characters.") + " " + mutedStyle.Render("Press r to retry.")
	case len(m.snap.Records) == 0:
		return mutedStyle.Render("No characters found.")
	}

	end := min(len(m.snap.Records), m.offset+m.listHeight())
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.rowView(m.snap.Records[i], i == m.selected))
	}
	return strings.Join(rows, "\n")
}

func (m Model) rowView(c api.Character, selected bool) string {
	line := fmt.Sprintf("%s %s  %s",
		nameStyle.Render(c.Name),
		badge(c.Status),
		mutedStyle.Render(c.Status+" - "+c.Species))
	if selected {
		return selectedStyle.Render(line)
	}
	return rowStyle.Render(line)
}

func (m Model) footerView() string {
	switch {
	case m.snap.Status == catalog.StatusLoadingMore:
		return m.spinner.View() + " Loading more..."
	case m.snap.Status == catalog.StatusIdle && m.snap.Err != nil:
		return errorStyle.Render("Could not load more.") + " " + mutedStyle.Render("Press r to retry.")
	case m.snap.Status == catalog.StatusIdle && len(m.snap.Records) > 0:
		more := ""
		if m.snap.HasMore {
			more = ", more below"
		}
		return mutedStyle.Render(fmt.Sprintf("%d/%d%s", m.selected+1, len(m.snap.Records), more))
	}
	return ""
}

func (m Model) detailView() string {
	if m.detailLoading {
		return detailStyle.Render(m.spinner.View() + " Loading details...")
	}
	if m.detailErr != nil || m.detail == nil {
		return detailStyle.Render(errorStyle.Render("Character not found.") + "\n\n" + mutedStyle.Render("esc to go back"))
	}

	c := m.detail
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.Name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(c.Image))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Basic Information"))
	b.WriteString("\n")
	field(&b, "Status", badge(c.Status)+" "+c.Status)
	field(&b, "Species", c.Species)
	if c.Type != "" {
		field(&b, "Type", c.Type)
	}
	field(&b, "Gender", c.Gender)

	b.WriteString(headerStyle.Render("Location"))
	b.WriteString("\n")
	field(&b, "Origin", c.Origin.Name)
	field(&b, "Current Location", c.Location.Name)
	field(&b, "Episodes", fmt.Sprintf("%d", len(c.Episode)))

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("esc to go back"))
	return detailStyle.Render(b.String())
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}
