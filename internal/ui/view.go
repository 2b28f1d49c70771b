package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/pagekit/internal/common"
	"github.com/yildizm/pagekit/internal/config"
	"github.com/yildizm/pagekit/internal/emoji"
)

var fieldLabels = map[common.FieldID]string{
	common.FieldName:    "Name",
	common.FieldEmail:   "Email",
	common.FieldSubject: "Subject",
	common.FieldMessage: "Message",
}

var fieldHints = map[common.FieldID]string{
	common.FieldName:    "Please enter your name (at least 2 characters)",
	common.FieldEmail:   "Please enter a valid email address",
	common.FieldSubject: "Please enter a subject (at least 3 characters)",
	common.FieldMessage: "Please enter a message (at least 10 characters)",
}

// View renders the page
func (m *Model) View() string {
	if m.quitting {
		return m.renderGoodbyeScreen()
	}
	if !m.ready {
		return m.renderLoadingScreen()
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderSection(),
		"",
		m.renderFooter(),
	)
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m *Model) renderLoadingScreen() string {
	loading := m.styles.Brand.Render("Loading " + m.cfg.Site.Title + "...")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, loading)
}

func (m *Model) renderGoodbyeScreen() string {
	goodbye := m.styles.Brand.Render("Thanks for visiting " + m.cfg.Site.Title + " " + emoji.GetEmoji("door"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, goodbye)
}

func (m *Model) renderHeader() string {
	brand := m.styles.Brand.Render(m.cfg.Site.Title)

	if m.narrow() {
		icon := emoji.GetEmoji("menu")
		if m.surface.MenuOpen() {
			icon = emoji.GetEmoji("close")
		}
		header := lipgloss.JoinHorizontal(lipgloss.Top, brand, "  ", m.styles.NavItem.Render(icon))
		if !m.surface.MenuOpen() {
			return header
		}
		items := make([]string, 0, len(m.cfg.Site.Sections))
		for i, s := range m.cfg.Site.Sections {
			items = append(items, m.navItem(i, s))
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, items...)))
	}

	items := []string{brand, "  "}
	for i, s := range m.cfg.Site.Sections {
		items = append(items, m.navItem(i, s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *Model) navItem(i int, s config.SectionConfig) string {
	label := fmt.Sprintf("%d %s", i+1, s.Title)
	if common.Section(s.ID) == m.surface.Snapshot().Selected {
		return m.styles.NavActive.Render(label)
	}
	return m.styles.NavItem.Render(label)
}

func (m *Model) renderSection() string {
	visible := m.surface.Visible()
	section, ok := m.cfg.FindSection(visible)
	if !ok {
		return m.styles.Error.Render("No section visible")
	}

	body := m.styles.Body
	if m.surface.Transition(visible) == common.PhaseEnter {
		body = m.styles.Entering
	}

	parts := []string{m.styles.Title.Render(section.Title)}
	if section.Body != "" {
		parts = append(parts, body.Render(section.Body))
	}
	if img := m.renderImages(section); img != "" {
		parts = append(parts, "", img)
	}
	if visible == common.Section(m.cfg.Site.DefaultSection) && len(m.cfg.Slider.Slides) > 0 {
		parts = append(parts, "", m.renderSlider())
	}
	if cards := m.renderCards(section); cards != "" {
		parts = append(parts, "", cards)
	}
	if visible == m.formAt && len(m.fields) > 0 {
		parts = append(parts, "", m.renderForm())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderImages(section config.SectionConfig) string {
	lines := make([]string, 0, len(section.Images))
	for _, img := range section.Images {
		if src, ok := m.surface.Loaded(img.ID); ok {
			lines = append(lines, fmt.Sprintf("%s %s (%s)", emoji.GetEmoji("image"), img.Alt, src))
		} else {
			lines = append(lines, m.styles.Muted.Render(emoji.GetEmoji("pending")+" loading image"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderCards(section config.SectionConfig) string {
	if len(section.Cards) == 0 {
		return ""
	}
	cards := make([]string, 0, len(section.Cards))
	for _, card := range section.Cards {
		if !m.surface.Revealed(card.ID) {
			cards = append(cards, m.styles.Hidden.Render(" "))
			continue
		}
		content := lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Brand.Render(emoji.GetEmoji("card")+" "+card.Title),
			m.styles.Body.Render(card.Body))
		cards = append(cards, m.styles.Card.Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m *Model) renderSlider() string {
	slides := m.cfg.Slider.Slides
	index := m.surface.Slide()
	if index < 0 || index >= len(slides) {
		index = 0
	}

	dots := make([]string, len(slides))
	for i := range slides {
		if i == index {
			dots[i] = m.styles.DotActive.Render("●")
		} else {
			dots[i] = m.styles.Muted.Render("○")
		}
	}

	caption := fmt.Sprintf("%s  %s", emoji.GetEmoji("slide"), slides[index].Caption)
	return lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Slide.Render("◀  "+caption+"  ▶"),
		strings.Join(dots, " "))
}

func (m *Model) renderForm() string {
	var b strings.Builder

	for i, id := range m.fields {
		label := fieldLabels[id]
		if label == "" {
			label = string(id)
		}
		style := m.styles.Field
		if m.editing && m.focus == i {
			style = m.styles.FieldFocused
			label = emoji.GetEmoji("focus") + " " + label
		}
		b.WriteString(label + "\n")
		b.WriteString(style.Render(m.inputs[id]) + "\n")
		if m.surface.ErrorVisible(id) {
			b.WriteString(m.styles.FieldError.Render(fieldHints[id]) + "\n")
		}
	}

	var button string
	if m.surface.SubmitEnabled() {
		button = m.styles.Button.Render("Send Message")
	} else {
		button = m.styles.ButtonBusy.Render(spinnerChars[m.spinnerFrame] + " Sending...")
	}
	if m.editing && m.focus == len(m.fields) {
		button = emoji.GetEmoji("focus") + " " + button
	}
	b.WriteString("\n" + button)

	if m.surface.Transient(common.TransientSuccess) {
		b.WriteString("\n\n" + m.styles.Toast.Render(emoji.GetEmoji("success")+" Thank you! Your message has been sent."))
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	var help string
	if m.editing {
		help = "type to edit • tab/↑/↓ move • enter send • esc done"
	} else {
		help = "1-9/tab sections • ←/→ slides • m menu • c contact • f form • q quit"
	}
	footer := m.styles.Help.Render(help)
	if m.status != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, m.styles.Error.Render(emoji.GetEmoji("warning")+" "+m.status), footer)
	}
	return footer
}
