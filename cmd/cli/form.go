package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aguxez/foodplates/models"
)

type formKind int

const (
	addForm formKind = iota
	editForm
)

const (
	fieldImage = iota
	fieldName
	fieldPrice
	fieldDescription
	fieldCount
)

var fieldLabels = [fieldCount]string{"Image URL", "Name", "Price", "Description"}

// plateForm is the body of the add and edit modals. It only collects text; the
// controller decides what to do with the draft.
type plateForm struct {
	kind       formKind
	inputs     [fieldCount]textinput.Model
	focus      int
	describing bool
}

func newPlateForm(kind formKind, initial models.Draft) *plateForm {
	f := &plateForm{kind: kind}
	placeholders := [fieldCount]string{"https://...", "Ex: Moda Italiana", "Ex: 19.90", "Ex: Macarrão ao molho branco"}
	values := [fieldCount]string{initial.Image, initial.Name, initial.Price, initial.Description}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 256
		in.Width = 48
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[f.focus].Focus()
	return f
}

func (f *plateForm) title() string {
	if f.kind == editForm {
		return "Edit plate"
	}
	return "New plate"
}

func (f *plateForm) draft() models.Draft {
	return models.Draft{
		Name:        strings.TrimSpace(f.inputs[fieldName].Value()),
		Image:       strings.TrimSpace(f.inputs[fieldImage].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Price:       strings.TrimSpace(f.inputs[fieldPrice].Value()),
	}
}

func (f *plateForm) setDescription(text string) {
	f.inputs[fieldDescription].SetValue(text)
	f.inputs[fieldDescription].CursorEnd()
}

func (f *plateForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *plateForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *plateForm) view() string {
	rows := make([]string, 0, fieldCount+2)
	rows = append(rows, nameStyle.Render(f.title()), "")
	for i := range f.inputs {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(fieldLabels[i]), f.inputs[i].View()))
	}
	if f.describing {
		rows = append(rows, "", dimStyle.Render("drafting a description..."))
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
