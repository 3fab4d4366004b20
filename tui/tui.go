// Package tui is an interactive spoiler browser built on Bubble Tea: a
// section list on the left, a scrollable detail pane on the right.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Gtaray/sanctuary-randomizer/engine"
	"github.com/Gtaray/sanctuary-randomizer/engine/state"
	"github.com/Gtaray/sanctuary-randomizer/options"
	"github.com/Gtaray/sanctuary-randomizer/types"
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	styleArea = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	styleItem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	styleProgression = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	styleChampion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
)

// section is one browsable entry in the left-hand list.
type section struct {
	title string
	body  string
}

func (s section) Title() string       { return s.title }
func (s section) Description() string { return "" }
func (s section) FilterValue() string { return s.title }

// Model is the Bubble Tea model for the spoiler browser.
type Model struct {
	sections list.Model
	detail   viewport.Model
	width    int
	height   int
	ready    bool
}

// New builds the browser for a set of generated worlds.
func New(store *state.Store, opts *options.Options, worlds []*engine.World) Model {
	items := buildSections(store, opts, worlds)
	entries := make([]list.Item, len(items))
	for i, s := range items {
		entries[i] = s
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	l := list.New(entries, delegate, 0, 0)
	l.Title = "Spoiler"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = styleTitle

	return Model{sections: l}
}

// Run starts the Bubble Tea program.
func Run(store *state.Store, opts *options.Options, worlds []*engine.World) error {
	p := tea.NewProgram(New(store, opts, worlds), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listWidth := m.width / 3
		m.sections.SetSize(listWidth, m.height-1)
		if !m.ready {
			m.detail = viewport.New(m.width-listWidth-1, m.height-1)
			m.ready = true
		} else {
			m.detail.Width = m.width - listWidth - 1
			m.detail.Height = m.height - 1
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	before := m.sections.Index()
	m.sections, cmd = m.sections.Update(msg)
	cmds = append(cmds, cmd)

	if m.ready {
		if sel, ok := m.sections.SelectedItem().(section); ok {
			m.detail.SetContent(sel.body)
			if m.sections.Index() != before {
				m.detail.GotoTop()
			}
		}
		m.detail, cmd = m.detail.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top, m.sections.View(), " ", m.detail.View())
	status := styleStatusBar.Width(m.width).Render(" ↑/↓ select section · pgup/pgdn scroll · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, panes, status)
}

// buildSections renders every browsable section up front; worlds are
// immutable once generated, so there is nothing to refresh.
func buildSections(store *state.Store, opts *options.Options, worlds []*engine.World) []section {
	out := []section{{title: "Settings", body: settingsBody(opts)}}
	for _, w := range worlds {
		out = append(out, placementSections(store, w)...)
		if opts.Shuffle != types.ShuffleOff {
			out = append(out, section{
				title: fmt.Sprintf("Encounters (P%d)", w.Player),
				body:  encountersBody(w),
			})
		}
		if len(w.Hints) > 0 {
			out = append(out, section{
				title: fmt.Sprintf("Hints (P%d)", w.Player),
				body:  hintsBody(w),
			})
		}
	}
	return out
}

func settingsBody(opts *options.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed            %d\n", opts.Seed)
	fmt.Fprintf(&b, "Players         %d\n", opts.Players)
	fmt.Fprintf(&b, "Goal            %s\n", opts.Goal)
	fmt.Fprintf(&b, "Monster shuffle %s\n", opts.Shuffle)
	fmt.Fprintf(&b, "Doors           %s\n", opts.Doors)
	fmt.Fprintf(&b, "Randomize eggs  %v\n", opts.RandomizeEggs)
	fmt.Fprintf(&b, "Monster shift   %v\n", opts.MonsterShift)
	fmt.Fprintf(&b, "Skip plot       %v\n", opts.SkipPlot)
	fmt.Fprintf(&b, "Local area keys %v\n", opts.LocalAreaKeys)
	fmt.Fprintf(&b, "Limit mobility  %v\n", opts.LimitMobility)
	return b.String()
}

// placementSections emits one section per area, event locations excluded.
func placementSections(store *state.Store, w *engine.World) []section {
	byArea := make(map[string][]types.Placement)
	for _, p := range w.Placements {
		loc, ok := w.Graph.Location(p.Location)
		if !ok || loc.Event {
			continue
		}
		byArea[p.Area] = append(byArea[p.Area], p)
	}

	areas := make([]string, 0, len(byArea))
	for area := range byArea {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	var out []section
	for _, area := range areas {
		placements := byArea[area]
		sort.Slice(placements, func(i, j int) bool {
			return placements[i].Location < placements[j].Location
		})
		var b strings.Builder
		b.WriteString(styleArea.Render(area) + "\n\n")
		for _, p := range placements {
			name := p.Location
			if loc, ok := w.Graph.Location(p.Location); ok && loc.DisplayName != "" {
				name = loc.DisplayName
			}
			style := styleItem
			if item, ok := store.Items[p.Item]; ok && item.Classification == types.ClassProgression {
				style = styleProgression
			}
			fmt.Fprintf(&b, "%-40s %s\n", name, style.Render(p.Item))
		}
		out = append(out, section{
			title: fmt.Sprintf("%s (P%d)", area, w.Player),
			body:  b.String(),
		})
	}
	return out
}

func encountersBody(w *engine.World) string {
	names := make([]string, 0, len(w.Encounters))
	for name := range w.Encounters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		enc := w.Encounters[name]
		label := enc.Name
		if enc.Champion {
			label = styleChampion.Render(enc.Name + " [champion]")
		}
		fmt.Fprintf(&b, "%-40s %s\n", label, strings.Join(enc.Monsters, ", "))
	}
	return b.String()
}

func hintsBody(w *engine.World) string {
	var b strings.Builder
	for _, h := range w.Hints {
		marker := "  "
		if h.Suppress {
			marker = "* "
		}
		b.WriteString(marker + h.Text + "\n")
	}
	return b.String()
}
