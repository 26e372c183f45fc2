package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/routelab/routestim/pkg/trip"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// TripSelection holds the result of the trip browser.
type TripSelection struct {
	Index int
	Trip  trip.Trip
}

// TripListModel is the bubbletea model for browsing the input trip list.
// Selecting a trip prints its details after the program exits.
type TripListModel struct {
	Trips    []trip.Trip
	Cursor   int
	Selected *TripSelection
	Height   int
	Offset   int
}

// NewTripListModel creates a trip list model.
func NewTripListModel(trips []trip.Trip) TripListModel {
	return TripListModel{
		Trips:  trips,
		Height: 15,
	}
}

func (m TripListModel) Init() tea.Cmd {
	return nil
}

func (m TripListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Trips)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &TripSelection{Index: m.Cursor, Trip: m.Trips[m.Cursor]}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TripListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Trips"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Trips) {
		end = len(m.Trips)
	}
	for i := m.Offset; i < end; i++ {
		t := m.Trips[i]
		line := fmt.Sprintf("%-30s %5.1f min %6.2f mi", t.DestinationPoint, t.WalkingDuration, t.TripLengthMiles)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("> " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.Trips) > m.Height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d", m.Cursor+1, len(m.Trips))))
		b.WriteString("\n")
	}
	return b.String()
}
