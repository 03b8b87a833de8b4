package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/wippyai/canonjson"
	"github.com/wippyai/canonjson/digest"
)

func newExploreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explore [file]",
		Short: "Browse a document's canonical form interactively",
		Long: `Browse the top-level members (or elements) of a document in canonical
order, with the canonical digest of each. Requires a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := inputArgs(args)[0]
			doc, err := readDocument(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			data, err := (&canonjson.Codec{Writer: a.writer}).Marshal(doc)
			if err != nil {
				return fmt.Errorf("canonicalize %s: %w", path, err)
			}
			entries, err := exploreEntries(data, a.cfg.Algorithm())
			if err != nil {
				return err
			}
			whole, err := digest.Of(a.cfg.Algorithm(), data)
			if err != nil {
				return err
			}

			if !isTerminal(cmd.OutOrStdout()) {
				return errors.New("explore needs an interactive terminal")
			}
			p := tea.NewProgram(newExploreModel(path, whole, entries), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// exploreEntry is one top-level member or element of a canonical document.
type exploreEntry struct {
	label    string
	compact  string
	indented string
	digest   digest.Digest
}

// exploreEntries splits compact canonical JSON into its top-level members
// (objects) or elements (arrays). A scalar document yields one entry.
func exploreEntries(data []byte, alg digest.Algorithm) ([]exploreEntry, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))

	var entries []exploreEntry
	add := func(label string, raw jsontext.Value) error {
		compact := string(raw)
		indented, err := indentValue(raw)
		if err != nil {
			return err
		}
		d, err := digest.Of(alg, raw)
		if err != nil {
			return err
		}
		entries = append(entries, exploreEntry{label: label, compact: compact, indented: indented, digest: d})
		return nil
	}

	switch dec.PeekKind() {
	case '{':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		for dec.PeekKind() != '}' {
			key, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			raw, err := dec.ReadValue()
			if err != nil {
				return nil, err
			}
			if err := add(key.String(), raw); err != nil {
				return nil, err
			}
		}
	case '[':
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		for i := 0; dec.PeekKind() != ']'; i++ {
			raw, err := dec.ReadValue()
			if err != nil {
				return nil, err
			}
			if err := add("["+strconv.Itoa(i)+"]", raw); err != nil {
				return nil, err
			}
		}
	default:
		raw, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		if err := add("(value)", raw); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func indentValue(raw jsontext.Value) (string, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf, jsontext.WithIndent("  "))
	if err := enc.WriteValue(raw); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

type exploreState int

const (
	stateBrowse exploreState = iota
	stateFilter
	stateDetail
)

type exploreModel struct {
	filename string
	whole    digest.Digest
	entries  []exploreEntry
	visible  []int
	filter   textinput.Model
	selected int
	height   int
	state    exploreState
}

func newExploreModel(filename string, whole digest.Digest, entries []exploreEntry) *exploreModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by key or value"
	ti.Width = 40

	m := &exploreModel{
		filename: filename,
		whole:    whole,
		entries:  entries,
		filter:   ti,
		height:   20,
	}
	m.applyFilter()
	return m
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 3)
		return m, nil

	case tea.KeyMsg:
		if m.state == stateFilter {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if len(m.visible) > 0 {
					m.state = stateDetail
				}
			case stateDetail:
				m.state = stateBrowse
			}

		case "/":
			if m.state == stateBrowse {
				m.state = stateFilter
				return m, m.filter.Focus()
			}

		case "esc":
			switch m.state {
			case stateDetail:
				m.state = stateBrowse
			case stateBrowse:
				m.filter.SetValue("")
				m.applyFilter()
			}
		}
	}
	return m, nil
}

func (m *exploreModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		if msg.String() == "esc" {
			m.filter.SetValue("")
			m.applyFilter()
		}
		m.filter.Blur()
		m.state = stateBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *exploreModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if needle == "" ||
			strings.Contains(strings.ToLower(e.label), needle) ||
			strings.Contains(strings.ToLower(e.compact), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("canonjson"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(digestStyle.Render(m.whole.String()))
	b.WriteString("\n\n")

	if m.state == stateDetail {
		e := m.entries[m.visible[m.selected]]
		fmt.Fprintf(&b, "%s %s\n\n", keyStyle.Render(e.label), digestStyle.Render(e.digest.String()))
		b.WriteString(e.indented)
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
		return b.String()
	}

	if m.state == stateFilter || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(errorStyle.Render("no matching entries"))
		b.WriteString("\n")
	}

	start := 0
	if m.selected >= m.height {
		start = m.selected - m.height + 1
	}
	end := min(start+m.height, len(m.visible))
	for i := start; i < end; i++ {
		writeEntryLine(&b, m.entries[m.visible[i]], i == m.selected)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter show • / filter • esc clear • q quit"))
	return b.String()
}

func writeEntryLine(w io.StringWriter, e exploreEntry, selected bool) {
	preview := e.compact
	if r := []rune(preview); len(r) > 48 {
		preview = string(r[:45]) + "..."
	}
	line := fmt.Sprintf("%s  %s  %s", keyStyle.Render(e.label), digestStyle.Render(e.digest.Short()), preview)
	if selected {
		w.WriteString(selectedStyle.Render("> " + line))
	} else {
		w.WriteString("  " + line)
	}
	w.WriteString("\n")
}
