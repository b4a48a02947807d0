package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/folio/internal/catalog"
)

const (
	// bookCardLines is the number of text lines inside a card.
	bookCardLines = 4
	// bookCardHeight includes the card border.
	bookCardHeight = bookCardLines + 2
	// detailLabelWidth is the label column of the book details table.
	detailLabelWidth = 16
)

// paneWidths splits the screen between the sidebar and the detail pane.
func (m Model) paneWidths() (sidebar, detail int) {
	sidebar = SidebarWidth
	if m.width < LayoutCompactWidth {
		sidebar = max(m.width*35/100, 20)
	}
	return sidebar, max(m.width-sidebar, 0)
}

// contentHeight is the height left between the header, banner and footer.
func (m Model) contentHeight() int {
	h := m.height - 2
	if m.snapshot.HasError() {
		h--
	}
	return max(h, 3)
}

// gridColumns returns how many book cards fit side by side.
func (m Model) gridColumns() int {
	_, detail := m.paneWidths()
	return max((detail-4)/BookCardWidth, 1)
}

func (m Model) showingBook() bool {
	s := m.snapshot
	return s.SelectedBookID > 0 && s.Book != nil && s.Book.ID == s.SelectedBookID
}

func (m Model) paneBg(focused bool) string {
	if focused {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// renderCatalog renders the sidebar and detail pane side by side.
func (m Model) renderCatalog() string {
	height := m.contentHeight()
	sidebarWidth, detailWidth := m.paneWidths()

	sidebar := m.renderTitledBox("Authors", m.renderSidebar(sidebarWidth-2, height-2),
		sidebarWidth, height, m.focus == paneAuthors)

	title := "Author"
	if m.showingBook() {
		title = "Book"
	}
	detail := m.renderTitledBox(title, m.detailViewport.View(),
		detailWidth, height, m.focus == paneBooks)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, detail)
}

// renderSidebar renders the author list. The cursor row is kept in view by
// scrolling just far enough.
func (m Model) renderSidebar(width, height int) string {
	bgColor := m.paneBg(m.focus == paneAuthors)
	styles := m.theme.Styles().WithBackground(bgColor)
	selected := m.theme.Styles().Selected.Width(width)
	textWidth := width - 3

	var lines []string
	cursorStart, cursorEnd := 0, 1

	addRow := " + Add New Author"
	if m.authorCursor == 0 && m.focus == paneAuthors {
		lines = append(lines, selected.Render(addRow))
	} else {
		lines = append(lines, styles.AccentText.Render(addRow))
	}
	lines = append(lines, "")

	snap := m.snapshot
	authors := snap.Authors
	switch {
	case (snap.Loading && len(authors) == 0) || (!m.authorsLoaded && !snap.HasError()):
		lines = append(lines, styles.MutedText.Render(" Loading..."))
		authors = nil
	case len(authors) == 0:
		lines = append(lines, styles.MutedText.Render(" No authors yet"))
	}

	for i, a := range authors {
		marker := "  "
		nameStyle := styles.Text
		if a.ID == snap.SelectedAuthorID {
			marker = "● "
			nameStyle = styles.AccentText.Bold(true)
		}
		name := marker + truncate(sanitize(a.FullName()), textWidth)
		born := "  " + bornLabel(a.BirthYear)

		if m.authorCursor == i+1 {
			cursorStart = len(lines)
			cursorEnd = cursorStart + 2
			if m.focus == paneAuthors {
				lines = append(lines, selected.Render(" "+name), selected.Render(" "+born))
				continue
			}
		}
		lines = append(lines, nameStyle.Render(" "+name), styles.MutedText.Render(" "+born))
	}

	start := 0
	if cursorEnd > height {
		start = cursorEnd - height
	}
	if cursorStart < start {
		start = cursorStart
	}
	end := min(start+height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

// syncDetail rebuilds the detail viewport after anything it shows changed.
func (m *Model) syncDetail() {
	if !m.ready {
		return
	}
	_, detailWidth := m.paneWidths()
	m.detailViewport.Width = max(detailWidth-2, 0)
	m.detailViewport.Height = max(m.contentHeight()-2, 0)

	shown := detailKey{authorID: m.snapshot.SelectedAuthorID}
	if m.showingBook() {
		shown.bookID = m.snapshot.SelectedBookID
	}

	bgColor := m.paneBg(m.focus == paneBooks)
	content, gridTop := m.renderDetailContent(detailWidth-4, bgColor)
	m.detailViewport.SetContent(lipgloss.NewStyle().PaddingLeft(1).Render(content))

	if shown != m.detailKey {
		m.detailKey = shown
		m.detailViewport.GotoTop()
	}

	// Keep the book cursor's card row in view.
	if gridTop >= 0 && m.focus == paneBooks {
		top := gridTop + (m.bookCursor/m.gridColumns())*bookCardHeight
		switch {
		case top < m.detailViewport.YOffset:
			m.detailViewport.SetYOffset(top)
		case top+bookCardHeight > m.detailViewport.YOffset+m.detailViewport.Height:
			m.detailViewport.SetYOffset(top + bookCardHeight - m.detailViewport.Height)
		}
	}
}

// renderDetailContent returns the detail pane body and the line the book grid
// starts on, or -1 when no grid is shown.
func (m Model) renderDetailContent(width int, bgColor string) (string, int) {
	styles := m.theme.Styles().WithBackground(bgColor)
	snap := m.snapshot

	switch {
	case snap.SelectedAuthorID == 0:
		if snap.HasError() {
			return "", -1
		}
		return styles.MutedText.Render("Please select an author from the sidebar"), -1
	case snap.Author == nil || snap.Author.ID != snap.SelectedAuthorID:
		if snap.HasError() {
			return "", -1
		}
		return styles.MutedText.Render("Loading..."), -1
	case m.showingBook():
		return m.renderBookDetail(*snap.Book, width, styles), -1
	case snap.SelectedBookID > 0 && !snap.HasError():
		return styles.MutedText.Render("Loading..."), -1
	}
	return m.renderAuthorDetail(*snap.Author, width, bgColor)
}

// renderAuthorDetail renders the author header followed by the book grid.
func (m Model) renderAuthorDetail(author catalog.AuthorDetail, width int, bgColor string) (string, int) {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	lines := []string{
		styles.Text.Bold(true).Render(truncate(sanitize(author.FullName()), width)),
		styles.MutedText.Render(bornLabel(author.BirthYear)),
		bg.Render("e", styles.WarningText) + bg.Render(" edit author", styles.MutedText) + bg.Spaces(3) +
			bg.Render("d", styles.WarningText) + bg.Render(" delete author", styles.MutedText),
		"",
		styles.AccentText.Bold(true).Render(fmt.Sprintf("Books (%d)", len(author.Books))),
		"",
	}
	gridTop := len(lines)

	cards := make([]string, 0, len(author.Books)+1)
	cards = append(cards, m.renderBookCard([]string{"+ Add Book"}, m.bookCursor == 0, bgColor))
	for i, book := range author.Books {
		cards = append(cards, m.renderBookCard(bookCardText(book), m.bookCursor == i+1, bgColor))
	}

	cols := m.gridColumns()
	for i := 0; i < len(cards); i += cols {
		row := cards[i:min(i+cols, len(cards))]
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	if len(author.Books) == 0 {
		lines = append(lines, "", styles.MutedText.Render("No books available"))
	}
	return strings.Join(lines, "\n"), gridTop
}

func bookCardText(book catalog.BookSummary) []string {
	return []string{
		sanitize(book.Title),
		"Edition: " + orNA(book.Edition),
		"Genre: " + orNA(book.Genre.Name),
		"Publisher: " + orNA(book.Publisher.Name),
	}
}

// renderBookCard renders one cell of the book grid. The first line is the
// card title.
func (m Model) renderBookCard(lines []string, highlighted bool, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	border := m.theme.Border
	if highlighted && m.focus == paneBooks {
		border = m.theme.BorderFocus
	}
	textWidth := BookCardWidth - 4

	rendered := make([]string, len(lines))
	for i, line := range lines {
		text := truncate(line, textWidth)
		switch {
		case i == 0 && highlighted:
			rendered[i] = styles.AccentText.Bold(true).Render(text)
		case i == 0:
			rendered[i] = styles.Text.Bold(true).Render(text)
		default:
			rendered[i] = styles.MutedText.Render(text)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		BorderBackground(lipgloss.Color(bgColor)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(BookCardWidth - 2).
		Height(bookCardLines).
		Render(strings.Join(rendered, "\n"))
}

// renderBookDetail renders the Book Details table.
func (m Model) renderBookDetail(book catalog.BookDetail, width int, styles Styles) string {
	valueWidth := max(width-detailLabelWidth, 10)

	var lines []string
	row := func(label string, values ...string) {
		first := true
		for _, value := range values {
			for _, line := range wrap(value, valueWidth) {
				prefix := strings.Repeat(" ", detailLabelWidth)
				if first {
					prefix = padRight(label, detailLabelWidth)
					first = false
				}
				lines = append(lines, styles.MutedText.Render(prefix)+styles.Text.Render(line))
			}
		}
		if first {
			lines = append(lines, styles.MutedText.Render(padRight(label, detailLabelWidth))+styles.Text.Render("N/A"))
		}
	}

	lines = append(lines, styles.AccentText.Bold(true).Render("Book Details"), "")
	row("Title", sanitize(book.Title))
	row("Edition", orNA(book.Edition))
	row("Published Date", orNA(book.PublishedDate))
	row("Genre", nonEmpty(sanitize(book.Genre.Name), sanitize(book.Genre.Description))...)
	row("Publisher", nonEmpty(sanitize(book.Publisher.Name), sanitize(book.Publisher.Website))...)

	authors := make([]string, 0, len(book.Authors))
	for _, a := range book.Authors {
		authors = append(authors, fmt.Sprintf("%s %s (%d)", sanitize(a.Name), sanitize(a.Surname), a.BirthYear))
	}
	row("Authors", authors...)

	lines = append(lines, "",
		styles.WarningText.Render("e")+styles.MutedText.Render(" edit book   ")+
			styles.WarningText.Render("d")+styles.MutedText.Render(" delete book   ")+
			styles.WarningText.Render("esc")+styles.MutedText.Render(" back"))
	return strings.Join(lines, "\n")
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := m.theme.Border
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bgColorStr := m.paneBg(focused)
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Build the top border with embedded title
	innerWidth := max(width-2, 0)
	titleLen := len([]rune(title))
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
