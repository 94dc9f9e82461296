package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aguxez/foodplates/models"
)

// Each command runs one controller operation off the UI goroutine. Commands can be
// in flight together; the controller folds their results into the list safely and
// the screen re-reads it when they report back. Failures stay in the log.

func (m model) initialize() tea.Cmd {
	return func() tea.Msg {
		_ = m.ctrl.Initialize(m.ctx)
		return loadedMsg{}
	}
}

func (m model) addFood(d models.Draft) tea.Cmd {
	return func() tea.Msg {
		m.ctrl.AddFood(m.ctx, d)
		return foodsChangedMsg{}
	}
}

func (m model) updateFood(d models.Draft) tea.Cmd {
	return func() tea.Msg {
		applied, err := m.ctrl.UpdateFood(m.ctx, d)
		if err != nil {
			m.log.Debug().Err(err).Msg("update food")
		} else if !applied {
			m.log.Debug().Msg("update food: plate no longer listed")
		}
		return foodsChangedMsg{}
	}
}

func (m model) deleteFood(id int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ctrl.DeleteFood(m.ctx, id); err != nil {
			m.log.Debug().Err(err).Int("id", id).Msg("delete food")
		}
		return foodsChangedMsg{}
	}
}

func (m model) toggleAvailable(id int) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.ctrl.ToggleAvailable(m.ctx, id); err != nil {
			m.log.Debug().Err(err).Int("id", id).Msg("toggle available")
		}
		return foodsChangedMsg{}
	}
}

func (m model) requestDescription(form *plateForm, d models.Draft) tea.Cmd {
	return func() tea.Msg {
		text, err := m.describe.Describe(m.ctx, d)
		if err != nil {
			m.log.Warn().Err(err).Str("name", d.Name).Msg("describe")
			return describedMsg{form: form}
		}
		return describedMsg{form: form, text: text}
	}
}
