package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/retroshell/internal/contact"
)

// ContactTab composes a mailto link from a short form.
type ContactTab struct {
	recipient string

	width  int
	height int

	editing bool
	form    *huh.Form

	fFrom    string
	fSubject string
	fBody    string

	link    string
	lastErr string
}

// NewContactTab creates a ContactTab addressed to recipient.
func NewContactTab(recipient string) ContactTab {
	if strings.TrimSpace(recipient) == "" {
		recipient = contact.DefaultRecipient
	}
	return ContactTab{recipient: recipient}
}

// Update implements tea.Model.
func (c ContactTab) Update(msg tea.Msg) (ContactTab, tea.Cmd) {
	if c.editing {
		return c.updateEditing(msg)
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" || msg.String() == "enter" {
			c.startEditing()
			return c, c.form.Init()
		}
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
	}
	return c, nil
}

func (c ContactTab) updateEditing(msg tea.Msg) (ContactTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			c.editing = false
			c.form = nil
			return c, nil
		}
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.compose()
		c.editing = false
		c.form = nil
		return c, nil
	}
	return c, cmd
}

func (c *ContactTab) startEditing() {
	w := c.width - 4
	if w < 40 {
		w = 40
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From").
				Placeholder("you@example.com").
				Value(&c.fFrom).
				Validate(requireText(contact.ErrMissingFrom)),
			huh.NewInput().
				Title("Subject").
				Value(&c.fSubject).
				Validate(requireText(contact.ErrMissingSubject)),
			huh.NewText().
				Title("Message").
				Value(&c.fBody).
				Validate(requireText(contact.ErrMissingBody)),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	c.editing = true
}

func requireText(err error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return err
		}
		return nil
	}
}

func (c *ContactTab) compose() {
	link, err := contact.Compose(c.recipient, contact.Message{
		From:    c.fFrom,
		Subject: c.fSubject,
		Body:    c.fBody,
	})
	if err != nil {
		c.link = ""
		c.lastErr = err.Error()
		return
	}
	c.link = link
	c.lastErr = ""
}

// View implements tea.Model.
func (c ContactTab) View() string {
	style := lipgloss.NewStyle().
		Width(c.width).
		Height(c.height).
		Padding(1, 2)

	if c.editing && c.form != nil {
		header := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Render("Contact "+c.recipient) +
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Render("  (esc to cancel)")
		return style.Render(header + "\n\n" + c.form.View())
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("To: " + c.recipient),
		"",
	}
	switch {
	case c.lastErr != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(c.lastErr))
	case c.link != "":
		lines = append(lines, "Open this link in your mail client:", "", c.link)
	}
	lines = append(lines, "", dimStyle.Render("Press 'e' to write a message"))
	return style.Render(strings.Join(lines, "\n"))
}
