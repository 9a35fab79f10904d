package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/services"
	"github.com/postkit/postkit/pkg/markdown"
	"github.com/postkit/postkit/pkg/ui"
)

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Browse and manage posts interactively (alias: dash)",
	Long: `Launch a full-screen dashboard listing every post, drafts included,
newest first, with a highlighted preview of the selected post.

Keyboard Shortcuts:
  Navigation:
    up/k        Move up
    down/j      Move down
    g / G       Jump to top / bottom
    PgUp/PgDn   Scroll preview

  Actions:
    Enter/e     Edit post
    p           Toggle draft / published
    d           Delete post
    r           Reload from disk

  General:
    /           Search
    Esc         Clear search
    ?           Show help
    q           Quit`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	posts, err := loadDashboardPosts(ctx)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		newDashboardModel(ctx, posts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

func loadDashboardPosts(ctx context.Context) ([]domain.PostHeader, error) {
	resp, err := listService.Execute(ctx, services.ListRequest{
		SortBy:  "date",
		Reverse: true,
		Drafts:  services.AllPosts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	return resp.Posts, nil
}

type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeHelp
	modeConfirmDelete
)

type previewState struct {
	content  string
	slug     string
	viewport viewport.Model
}

type dashboardModel struct {
	ctx           context.Context
	posts         []domain.PostHeader
	filteredPosts []domain.PostHeader
	cursor        int
	offset        int // first visible list row
	mode          viewMode
	searchInput   textinput.Model
	help          help.Model
	keys          keyMap
	width         int
	height        int
	ready         bool
	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
	deleteTarget  *domain.PostHeader
	preview       previewState
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Edit    key.Binding
	Publish key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Search  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Publish, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Edit, k.Publish, k.Delete, k.Reload},
		{k.Search, k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Top:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom:  key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
	Edit:    key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit")),
	Publish: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "publish/unpublish")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
	Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
}

func newDashboardModel(ctx context.Context, posts []domain.PostHeader) dashboardModel {
	ti := textinput.New()
	ti.Placeholder = "Search posts..."
	ti.CharLimit = 100
	ti.Width = 50

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	return dashboardModel{
		ctx:           ctx,
		posts:         posts,
		filteredPosts: posts,
		mode:          modeList,
		searchInput:   ti,
		help:          help.New(),
		keys:          keys,
		preview:       previewState{viewport: vp},
	}
}

func (m dashboardModel) Init() tea.Cmd {
	if len(m.posts) > 0 {
		return m.loadPreview(m.posts[0])
	}
	return nil
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		previewHeight := msg.Height - 16
		if previewHeight < 10 {
			previewHeight = 10
		}
		m.preview.viewport.Width = (msg.Width / 2) - 4
		m.preview.viewport.Height = previewHeight
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeHelp:
			return m.updateHelp(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateList(msg)
		}

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, nil

	case reloadPostsMsg:
		posts, err := loadDashboardPosts(m.ctx)
		if err != nil {
			return m, statusCmd(err.Error(), ui.StyleError)
		}
		m.posts = posts
		m.applySearch()
		if len(m.filteredPosts) > 0 {
			return m, m.loadPreview(m.filteredPosts[m.cursor])
		}
		return m, nil

	case previewLoadedMsg:
		m.preview.content = msg.content
		m.preview.slug = msg.slug
		m.preview.viewport.SetContent(msg.content)
		m.preview.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.preview.viewport, cmd = m.preview.viewport.Update(msg)
	return m, cmd
}

// moveTo places the cursor and loads the preview for the new selection
func (m dashboardModel) moveTo(cursor int) (tea.Model, tea.Cmd) {
	if len(m.filteredPosts) == 0 {
		return m, nil
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(m.filteredPosts)-1 {
		cursor = len(m.filteredPosts) - 1
	}
	if cursor == m.cursor && m.preview.slug == m.filteredPosts[cursor].Slug {
		return m, nil
	}
	m.cursor = cursor
	m.adjustViewport()
	return m, m.loadPreview(m.filteredPosts[m.cursor])
}

func (m dashboardModel) selected() (domain.PostHeader, bool) {
	if len(m.filteredPosts) == 0 {
		return domain.PostHeader{}, false
	}
	return m.filteredPosts[m.cursor], true
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		return m.moveTo(m.cursor - 1)

	case key.Matches(msg, m.keys.Down):
		return m.moveTo(m.cursor + 1)

	case key.Matches(msg, m.keys.Top):
		m.offset = 0
		return m.moveTo(0)

	case key.Matches(msg, m.keys.Bottom):
		return m.moveTo(len(m.filteredPosts) - 1)

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.ViewDown()

	case key.Matches(msg, m.keys.Edit):
		if post, ok := m.selected(); ok {
			return m, m.editPost(post)
		}

	case key.Matches(msg, m.keys.Publish):
		if post, ok := m.selected(); ok {
			return m, m.togglePublished(post)
		}

	case key.Matches(msg, m.keys.Delete):
		if post, ok := m.selected(); ok {
			m.deleteTarget = &post
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.Reload):
		return m, func() tea.Msg { return reloadPostsMsg{} }

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.filteredPosts = m.posts
		m.cursor = 0
		m.offset = 0
		return m, nil

	case msg.Type == tea.KeyEnter:
		m.mode = modeList
		m.searchInput.Blur()
		if post, ok := m.selected(); ok {
			return m, m.editPost(post)
		}
		return m, nil

	// j/k are typed into the query here, so only arrows navigate
	case msg.Type == tea.KeyUp:
		return m.moveTo(m.cursor - 1)

	case msg.Type == tea.KeyDown:
		return m.moveTo(m.cursor + 1)

	case msg.Type == tea.KeyPgUp:
		m.preview.viewport.ViewUp()
		return m, nil

	case msg.Type == tea.KeyPgDown:
		m.preview.viewport.ViewDown()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}

	m.applySearch()
	if post, ok := m.selected(); ok {
		return m, tea.Batch(cmd, m.loadPreview(post))
	}
	return m, cmd
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		post := m.deleteTarget
		m.deleteTarget = nil
		m.mode = modeList
		return m, m.deletePost(post)

	case key.Matches(msg, m.keys.Cancel):
		m.deleteTarget = nil
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}

	switch m.mode {
	case modeHelp:
		return m.viewHelp()
	case modeConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewList()
	}
}

func (m dashboardModel) viewList() string {
	listWidth := int(float64(m.width) * 0.4)
	if listWidth < 30 {
		listWidth = 30
	}
	previewWidth := m.width - listWidth - 2

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderSearchBar())
	s.WriteString("\n\n")

	// Too narrow for a preview pane
	if previewWidth < 40 {
		s.WriteString(m.renderPostList(m.width))
	} else {
		listLines := strings.Split(m.renderPostList(listWidth), "\n")
		previewLines := strings.Split(m.renderPreview(previewWidth), "\n")

		rows := len(listLines)
		if len(previewLines) > rows {
			rows = len(previewLines)
		}
		for i := 0; i < rows; i++ {
			var left, right string
			if i < len(listLines) {
				left = listLines[i]
			}
			if i < len(previewLines) {
				right = previewLines[i]
			}
			s.WriteString(padRight(left, listWidth))
			s.WriteString("  ")
			s.WriteString(right)
			s.WriteString("\n")
		}
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m dashboardModel) viewHelp() string {
	var s strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Padding(1, 2)
	s.WriteString(titleStyle.Render("postkit dashboard - keyboard shortcuts"))
	s.WriteString("\n\n")

	h := m.help
	h.ShowAll = true
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(h.View(m.keys)))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to the dashboard"))
	s.WriteString("\n")

	return s.String()
}

func (m dashboardModel) viewConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center)

	content := fmt.Sprintf("%s\n\n%s\n%s\n\n%s",
		ui.StyleWarning.Render("Delete post?"),
		ui.StylePrimary.Copy().Bold(true).Render(m.deleteTarget.Title),
		ui.StyleMuted.Render(m.deleteTarget.Filename),
		"Press 'y' to confirm, 'n' or ESC to cancel",
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}

func (m dashboardModel) renderHeader() string {
	contentPath := appWorkspace.ContentPath
	if home, err := os.UserHomeDir(); err == nil {
		contentPath = strings.Replace(contentPath, home, "~", 1)
	}

	drafts := 0
	for _, p := range m.filteredPosts {
		if p.Draft {
			drafts++
		}
	}

	title := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Padding(0, 1).
		Render(ui.IconPost + " postkit")
	stats := ui.StyleMuted.Render(fmt.Sprintf("%d posts (%d drafts)  %s", len(m.filteredPosts), drafts, contentPath))

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func (m dashboardModel) renderSearchBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeSearch {
		borderColor = ui.ColorPrimary
	}

	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 4)

	content := "/ " + m.searchInput.View()
	if m.mode != modeSearch && m.searchInput.Value() == "" {
		content = ui.StyleMuted.Render("Press / to search...")
	}
	return searchStyle.Render(content)
}

func (m dashboardModel) listHeight() int {
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m dashboardModel) renderPostList(width int) string {
	if len(m.filteredPosts) == 0 {
		empty := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(2, 2).Width(width)
		if m.searchInput.Value() != "" {
			return empty.Render("No posts match your search.")
		}
		return empty.Render("No posts yet. Create one with 'postkit new'.")
	}

	end := m.offset + m.listHeight()
	if end > len(m.filteredPosts) {
		end = len(m.filteredPosts)
	}

	var s strings.Builder
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderPostItem(m.filteredPosts[i], i == m.cursor, width))
	}
	return s.String()
}

func (m dashboardModel) renderPostItem(post domain.PostHeader, selected bool, width int) string {
	cursor := "  "
	titleStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		titleStyle = ui.StylePrimary.Copy().Bold(true)
	}

	// cursor, status marker and date column
	maxTitle := width - 18
	if maxTitle < 10 {
		maxTitle = 10
	}

	marker := " "
	switch {
	case post.Problem != "":
		marker = ui.StyleInvalid.Render("!")
	case post.Draft:
		marker = ui.StyleDraft.Render("~")
	}

	line := fmt.Sprintf("%s%s %s %s",
		cursor,
		marker,
		padRight(titleStyle.Render(ui.Truncate(post.Title, maxTitle)), maxTitle),
		ui.StyleMuted.Render(formatRelativeTime(post.Date, time.Now())),
	)
	return padRight(line, width) + "\n"
}

func (m dashboardModel) renderPreview(width int) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(width - 2).
		Height(m.height - 12)
	placeholder := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Padding(1)

	if m.preview.content == "" {
		if len(m.filteredPosts) == 0 {
			return border.Render(placeholder.Render("No post selected"))
		}
		return border.Render(placeholder.Render("Loading preview..."))
	}

	var s strings.Builder
	for _, post := range m.filteredPosts {
		if post.Slug != m.preview.slug {
			continue
		}
		s.WriteString(lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(width - 4).Render(post.Title))
		s.WriteString("\n")
		s.WriteString(ui.FormatStatus(post.Status()))
		if len(post.Tags) > 0 {
			s.WriteString("  ")
			s.WriteString(lipgloss.NewStyle().Foreground(ui.ColorAccent).Render("Tags: " + post.GetTagsString()))
		}
		s.WriteString("\n\n")
		break
	}

	s.WriteString(ui.StyleMuted.Render(fmt.Sprintf("PgUp/PgDn to scroll • %d%%", int(m.preview.viewport.ScrollPercent()*100))))
	s.WriteString("\n")
	s.WriteString(m.preview.viewport.View())

	return border.Render(s.String())
}

func (m dashboardModel) renderFooter() string {
	status := ui.StyleMuted.Render("Ready")
	if m.message != "" && time.Now().Before(m.messageExpiry) {
		status = m.messageStyle.Render(m.message)
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys)))
}

func padRight(s string, width int) string {
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

func (m *dashboardModel) adjustViewport() {
	height := m.listHeight()
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m *dashboardModel) applySearch() {
	m.filteredPosts = filterPosts(m.posts, m.searchInput.Value())

	if m.cursor >= len(m.filteredPosts) {
		m.cursor = len(m.filteredPosts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
}

// filterPosts keeps posts whose title, slug or tags contain every word of query
func filterPosts(posts []domain.PostHeader, query string) []domain.PostHeader {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return posts
	}

	var out []domain.PostHeader
	for _, post := range posts {
		haystack := strings.ToLower(post.Title + " " + post.Slug + " " + strings.Join(post.Tags, " "))
		matched := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, post)
		}
	}
	return out
}

func formatRelativeTime(date, now time.Time) string {
	if date.IsZero() {
		return "-"
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(day).Hours() / 24)

	switch {
	case days < 0:
		return "scheduled"
	case days == 0:
		return "today"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return fmt.Sprintf("%dw ago", days/7)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}

// Commands

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type reloadPostsMsg struct{}

type previewLoadedMsg struct {
	slug    string
	content string
}

func statusCmd(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg { return statusMsg{message: message, style: style} }
}

func (m dashboardModel) editPost(post domain.PostHeader) tea.Cmd {
	return tea.ExecProcess(editorCommand(appWorkspace.GetPostPath(post.Filename), 0), func(err error) tea.Msg {
		if err != nil {
			return statusMsg{message: fmt.Sprintf("Editor error: %v", err), style: ui.StyleError}
		}
		return reloadPostsMsg{}
	})
}

func (m dashboardModel) togglePublished(post domain.PostHeader) tea.Cmd {
	return func() tea.Msg {
		var (
			result *services.MetaResult
			err    error
			verb   string
		)
		if post.Draft {
			result, err = metaService.Publish(m.ctx, post.Filename, false)
			verb = "Published"
		} else {
			result, err = metaService.Unpublish(m.ctx, post.Filename)
			verb = "Unpublished"
		}
		if err != nil {
			return statusMsg{message: fmt.Sprintf("Failed: %v", err), style: ui.StyleError}
		}
		if !result.Changed {
			return statusMsg{message: "Nothing to change", style: ui.StyleMuted}
		}
		return tea.Sequence(
			statusCmd(fmt.Sprintf("%s: %s", verb, post.Title), ui.StyleSuccess),
			func() tea.Msg { return reloadPostsMsg{} },
		)()
	}
}

func (m dashboardModel) deletePost(post *domain.PostHeader) tea.Cmd {
	return func() tea.Msg {
		if post == nil {
			return nil
		}

		if err := postRepo.Delete(m.ctx, post.Filename); err != nil {
			return statusMsg{message: fmt.Sprintf("Failed to delete: %v", err), style: ui.StyleError}
		}

		if indexerService.IndexExists() {
			if _, err := indexerService.Execute(m.ctx, services.ReindexRequest{}); err != nil {
				return statusMsg{message: fmt.Sprintf("Deleted, but reindex failed: %v", err), style: ui.StyleWarning}
			}
		}

		return tea.Sequence(
			statusCmd(fmt.Sprintf("Deleted: %s", post.Title), ui.StyleSuccess),
			func() tea.Msg { return reloadPostsMsg{} },
		)()
	}
}

func (m dashboardModel) loadPreview(post domain.PostHeader) tea.Cmd {
	return func() tea.Msg {
		raw, err := postRepo.ReadRaw(m.ctx, post.Filename)
		if err != nil {
			return previewLoadedMsg{slug: post.Slug, content: fmt.Sprintf("Error loading preview: %v", err)}
		}
		return previewLoadedMsg{
			slug:    post.Slug,
			content: markdown.Highlight(string(raw), "markdown", appConfig.HighlightStyle),
		}
	}
}
