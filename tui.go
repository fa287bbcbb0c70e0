// Copyright 2025 Naren Yellavula
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Model represents the Bubble Tea application state
type Model struct {
	ready bool

	commandInput textinput.Model
	treeViewport viewport.Model
	helpViewport viewport.Model

	session *Session

	// State
	showHelp    bool
	focusOnTree bool // True when the tree viewport is focused for scrolling
	statusLine  string
	tip         string

	// Styling
	styles          *Styles
	glamourRenderer *glamour.TermRenderer

	// Dimensions
	width  int
	height int
}

// Styles holds all the styling for the application
type Styles struct {
	BorderFocused  lipgloss.Style
	BorderBlurred  lipgloss.Style
	Title          lipgloss.Style
	InputPrompt    lipgloss.Style
	HelpKey        lipgloss.Style
	HelpDesc       lipgloss.Style
	SuccessMessage lipgloss.Style
	ErrorMessage   lipgloss.Style
}

// NewStyles creates the default styles
func NewStyles() *Styles {
	return &Styles{
		BorderFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Bold(true),
		BorderBlurred: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Bright cyan/blue, more visible on dark backgrounds
			Padding(0, 1).
			Bold(true),
		InputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true),
		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		SuccessMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true),
		ErrorMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
}

// InitialModel creates the initial model
func InitialModel(session *Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a command, e.g. insert 5 apple ..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	treeViewport := viewport.New(0, 0)
	treeViewport.SetContent(session.Diagram())

	helpViewport := viewport.New(0, 0)

	// Initialize glamour renderer with auto-detection
	glamourRenderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)

	return Model{
		commandInput:    ti,
		treeViewport:    treeViewport,
		helpViewport:    helpViewport,
		session:         session,
		statusLine:      "Ready. F1 toggles the command reference.",
		tip:             randomTip(),
		styles:          NewStyles(),
		glamourRenderer: glamourRenderer,
	}
}

// Init is called when the program starts
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all the I/O
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "f1":
			m.showHelp = !m.showHelp
			if m.showHelp {
				m.updateHelpContent()
			}
			return m, nil
		case "tab":
			m.focusOnTree = !m.focusOnTree
			if m.focusOnTree {
				m.commandInput.Blur()
			} else {
				m.commandInput.Focus()
			}
			return m, nil
		case "ctrl+y":
			// Copy the current diagram out of the session
			return m, func() tea.Msg {
				if err := copyToClipboard(m.session.Diagram()); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to copy diagram: %v\n", err)
				}
				return nil
			}
		case "enter":
			if m.focusOnTree {
				return m, nil
			}
			line := m.commandInput.Value()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			out, quit := m.session.Exec(line)
			if quit {
				return m, tea.Quit
			}
			m.commandInput.SetValue("")
			m.statusLine = firstLine(out)
			m.treeViewport.SetContent(m.session.Diagram())
			if strings.HasPrefix(line, "help") {
				m.showHelp = true
				m.updateHelpContent()
			}
			return m, nil
		case "pgup":
			if m.focusOnTree || m.showHelp {
				m.activeViewport().LineUp(m.activeViewport().Height)
				return m, nil
			}
		case "pgdown":
			if m.focusOnTree || m.showHelp {
				m.activeViewport().LineDown(m.activeViewport().Height)
				return m, nil
			}
		case "up", "down", "left", "right":
			if m.focusOnTree || m.showHelp {
				vp := m.activeViewport()
				switch msg.String() {
				case "up":
					vp.LineUp(1)
				case "down":
					vp.LineDown(1)
				}
				return m, nil
			}
		}

		if !m.focusOnTree {
			m.commandInput, cmd = m.commandInput.Update(msg)
			cmds = append(cmds, cmd)
		} else {
			m.treeViewport, cmd = m.treeViewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.ready = true
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) activeViewport() *viewport.Model {
	if m.showHelp {
		return &m.helpViewport
	}
	return &m.treeViewport
}

// updateHelpContent renders the command reference into the help viewport
func (m *Model) updateHelpContent() {
	if rendered, err := m.glamourRenderer.Render(commandReference); err == nil {
		m.helpViewport.SetContent(rendered)
	} else {
		// Fall back to plain text
		m.helpViewport.SetContent(commandReference)
	}
}

// updateLayout updates component dimensions
func (m *Model) updateLayout() {
	inputHeight := 3
	bodyHeight := m.height - inputHeight - 6 // Leave room for status and footer

	m.commandInput.Width = m.width - 8

	m.treeViewport.Width = m.width - 4
	m.treeViewport.Height = bodyHeight
	m.helpViewport.Width = m.width - 4
	m.helpViewport.Height = bodyHeight
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.width < 30 || m.height < 10 {
		return "Terminal too small. Please resize your terminal."
	}

	inputHeight := 3
	bodyHeight := m.height - inputHeight - 6

	// Style the command input
	var inputStyle lipgloss.Style
	var inputTitle string
	if !m.focusOnTree {
		inputStyle = m.styles.BorderFocused
		inputTitle = " ⌨️  Command (Active)\n"
	} else {
		inputStyle = m.styles.BorderBlurred
		inputTitle = " ⌨️  Command\n"
	}

	inputBox := inputStyle.
		Width(m.width - 2).
		Height(inputHeight).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Width(m.width-6).Render(inputTitle),
			m.commandInput.View(),
		))

	// Style the body: either the tree diagram or the help overlay
	var bodyStyle lipgloss.Style
	var bodyTitle string
	if m.showHelp {
		bodyStyle = m.styles.BorderFocused
		bodyTitle = " 📖 Command Reference (F1 to close) "
	} else if m.focusOnTree {
		bodyStyle = m.styles.BorderFocused
		bodyTitle = " 🌳 Tree (Active) "
	} else {
		bodyStyle = m.styles.BorderBlurred
		bodyTitle = " 🌳 Tree "
	}

	var bodyContent string
	if m.showHelp {
		bodyContent = m.helpViewport.View()
	} else {
		bodyContent = m.treeViewport.View()
	}

	bodyBox := bodyStyle.
		Width(m.width - 2).
		Height(bodyHeight).
		Render(lipgloss.JoinVertical(
			lipgloss.Left,
			m.styles.Title.Width(m.width-6).Render(bodyTitle),
			bodyContent,
		))

	status := lipgloss.NewStyle().
		Padding(0, 0, 0, 2).
		Render(m.statusLine + "  ·  " + m.session.Summary())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		inputBox,
		bodyBox,
		status,
		m.renderFooter(),
	)
}

// renderFooter renders the key hints plus a rotating tip
func (m Model) renderFooter() string {
	keys := []string{"enter", "tab", "f1", "ctrl+y", "esc"}
	descs := []string{"run command", "focus tree", "reference", "copy diagram", "quit"}

	var helpEntries []string
	for i, key := range keys {
		helpEntries = append(helpEntries,
			fmt.Sprintf("%s %s",
				m.styles.HelpKey.Render(key),
				m.styles.HelpDesc.Render(descs[i])))
	}

	return lipgloss.NewStyle().
		Padding(1, 0, 0, 2).
		Render(strings.Join(helpEntries, " • ") + "\n  " +
			m.styles.HelpDesc.Render("💡 "+m.tip))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "📋 Copied %sthe tree diagram%s to clipboard.\n", Green, Reset)
	return nil
}

// runConsole starts the Bubble Tea application around a session
func runConsole(session *Session) error {
	InitializeColors()

	model := InitialModel(session)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := program.Run()
	return err
}
