package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"

	"github.com/aguxez/foodplates/dashboard"
	"github.com/aguxez/foodplates/models"
)

const detailHeight = 8

type describer interface {
	Describe(ctx context.Context, d models.Draft) (string, error)
}

type model struct {
	ctx      context.Context
	ctrl     *dashboard.Controller
	describe describer
	log      zerolog.Logger
	currency string

	loading        bool          // Whether the initial load is pending
	loadingSpinner spinner.Model // Loading spinner
	cursor         int           // Selected plate
	width          int           // Width of the terminal
	height         int           // Height of the terminal
	viewport       viewport.Model
	detail         string // Rendered markdown for the selected plate
	form           *plateForm
	keys           keyMap
	help           help.Model
}

type loadedMsg struct{}
type foodsChangedMsg struct{}
type describedMsg struct {
	form *plateForm
	text string
}

func initialModel(ctx context.Context, ctrl *dashboard.Controller, d describer, currency string, log zerolog.Logger) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accent)

	return model{
		ctx:            ctx,
		ctrl:           ctrl,
		describe:       d,
		log:            log,
		currency:       currency,
		loading:        true,
		loadingSpinner: s,
		viewport:       viewport.New(0, 0),
		keys:           keys,
		help:           help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.loadingSpinner.Tick, m.initialize())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refresh()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.refresh()
		return m, nil

	case foodsChangedMsg:
		m.refresh()
		return m, nil

	case describedMsg:
		if m.form == msg.form {
			m.form.describing = false
			if msg.text != "" {
				m.form.setDescription(msg.text)
			}
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.loadingSpinner, cmd = m.loadingSpinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.activeForm() != nil {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.New):
		if m.loading {
			return m, nil
		}
		m.ctrl.ToggleAddModal()
		m.form = newPlateForm(addForm, models.Draft{})
		return m, textinput.Blink
	}

	selected, ok := m.selected()
	if !ok || m.loading {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Edit):
		m.ctrl.SelectForEdit(selected)
		m.ctrl.ToggleEditModal()
		m.form = newPlateForm(editForm, selected.Draft())
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteFood(selected.ID)

	case key.Matches(msg, m.keys.Available):
		return m, m.toggleAvailable(selected.ID)
	}
	return m, nil
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, formKeys.Cancel):
		m.closeForm()
		return m, nil

	case key.Matches(msg, formKeys.Next):
		return m, m.form.move(1)

	case key.Matches(msg, formKeys.Prev):
		return m, m.form.move(-1)

	case key.Matches(msg, formKeys.Describe):
		if m.describe == nil || m.form.describing {
			return m, nil
		}
		m.form.describing = true
		return m, m.requestDescription(m.form, m.form.draft())

	case key.Matches(msg, formKeys.Submit):
		d := m.form.draft()
		kind := m.form.kind
		m.closeForm()
		if kind == editForm {
			return m, m.updateFood(d)
		}
		return m, m.addFood(d)
	}

	return m, m.form.update(msg)
}

// activeForm returns the form only while the controller has its modal open.
func (m model) activeForm() *plateForm {
	if m.form == nil {
		return nil
	}
	v := m.ctrl.Snapshot()
	if m.form.kind == editForm && v.EditModalOpen || m.form.kind == addForm && v.AddModalOpen {
		return m.form
	}
	return nil
}

// closeForm flips whichever modal the form belongs to.
func (m *model) closeForm() {
	if m.form.kind == editForm {
		m.ctrl.ToggleEditModal()
	} else {
		m.ctrl.ToggleAddModal()
	}
	m.form = nil
}

func (m model) selected() (models.FoodPlate, bool) {
	foods := m.ctrl.Foods()
	if m.cursor < 0 || m.cursor >= len(foods) {
		return models.FoodPlate{}, false
	}
	return foods[m.cursor], true
}

// refresh clamps the cursor and re-renders the list and detail pane.
func (m *model) refresh() {
	foods := m.ctrl.Foods()
	if m.cursor >= len(foods) {
		m.cursor = len(foods) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-lipgloss.Height(m.headerView())-lipgloss.Height(m.helpView())-detailHeight, 0)

	var offsets []int
	var cards []string
	line := 0
	for i, p := range foods {
		card := m.cardView(p, i == m.cursor)
		offsets = append(offsets, line)
		line += lipgloss.Height(card)
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		cards = append(cards, dimStyle.Render("  No plates yet. Press n to add one."))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, cards...))

	if m.cursor < len(offsets) {
		top := offsets[m.cursor]
		bottom := line
		if m.cursor+1 < len(offsets) {
			bottom = offsets[m.cursor+1]
		}
		if top < m.viewport.YOffset {
			m.viewport.SetYOffset(top)
		} else if bottom > m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(bottom - m.viewport.Height)
		}
	}

	m.detail = ""
	if p, ok := m.selected(); ok && m.width > 0 {
		m.detail = m.renderDetail(p)
	}
}

func (m model) cardView(p models.FoodPlate, selected bool) string {
	width := max(m.width-4, 20)

	status := availableStyle.Render("● available")
	if !p.Available {
		status = unavailableStyle.Render("○ unavailable")
	}
	title := lipgloss.JoinHorizontal(lipgloss.Top,
		nameStyle.Render(p.Name), "  ", status)

	desc := indent.String(wordwrap.String(p.Description, width-4), 2)
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		dimStyle.Render(desc),
		priceStyle.Render(p.PriceLabel(m.currency)),
	)

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(width).Render(body)
}

func (m model) renderDetail(p models.FoodPlate) string {
	var md strings.Builder
	fmt.Fprintf(&md, "## %s\n\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&md, "%s\n\n", p.Description)
	}
	fmt.Fprintf(&md, "**%s**", p.PriceLabel(m.currency))
	if p.Image != "" {
		fmt.Fprintf(&md, " · `%s`", p.Image)
	}

	out, err := glamour.Render(md.String(), "dark")
	if err != nil {
		m.log.Debug().Err(err).Msg("rendering detail")
		return md.String()
	}
	return out
}

func (m model) headerView() string {
	title := headerStyle.Render("GoRestaurant · food plates")
	hint := dimStyle.Render("  n  new plate")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, hint) + "\n"
}

func (m model) helpView() string {
	if m.activeForm() != nil {
		return lipgloss.NewStyle().PaddingLeft(2).MarginTop(1).Render(m.help.View(formKeys))
	}
	return lipgloss.NewStyle().PaddingLeft(2).MarginTop(1).Render(m.help.View(m.keys))
}

func (m model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			AlignVertical(lipgloss.Center).
			Align(lipgloss.Center).
			Render(
				lipgloss.JoinHorizontal(lipgloss.Center,
					m.loadingSpinner.View(),
					"Loading food plates",
				),
			)
	}

	if form := m.activeForm(); form != nil {
		body := lipgloss.Place(m.width, max(m.height-lipgloss.Height(m.helpView()), 0),
			lipgloss.Center, lipgloss.Center, form.view())
		return lipgloss.JoinVertical(lipgloss.Left, body, m.helpView())
	}

	detail := lipgloss.NewStyle().Height(detailHeight).MaxHeight(detailHeight).Render(m.detail)
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), m.viewport.View(), detail, m.helpView())
}
