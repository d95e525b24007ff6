// Package tui provides the interactive Bubble Tea dashboard for moneymike.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/moneymike/internal/cli"
	"github.com/theirongolddev/moneymike/internal/config"
	"github.com/theirongolddev/moneymike/internal/ledger"
	"github.com/theirongolddev/moneymike/internal/log"
	"github.com/theirongolddev/moneymike/internal/tracker"
	"github.com/theirongolddev/moneymike/internal/tui/components"
	"github.com/theirongolddev/moneymike/internal/tui/theme"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEditUsed
	modeEditAvailable
	modeSettings
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5
)

// Options configures NewApp.
type Options struct {
	Config config.Config
	Logger *log.Logger
}

// App is the root Bubble Tea model.
type App struct {
	tr       *tracker.Tracker
	cfg      config.Config
	currency string
	log      *log.Logger

	// UI state
	width     int
	height    int
	activeTab int
	cursor    []int // per tab
	showHelp  bool

	mode      mode
	form      *huh.Form
	draft     *DraftValues
	setupVals *SetupValues
	input     textinput.Model
	editID    string

	flash    string
	flashErr bool

	spinner spinner.Model
}

// NewApp creates a new TUI app model over tr.
func NewApp(tr *tracker.Tracker, opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		tr:       tr,
		cfg:      opts.Config,
		currency: opts.Config.General.Currency,
		log:      logger.WithComponent(log.ComponentTUI),
		cursor:   make([]int, len(ledger.Kinds)),
		spinner:  sp,
	}
	if a.currency == "" {
		a.currency = cli.DefaultCurrency
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		a.spinner.Tick,
	}
	if a.form != nil {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

func (a App) kind() ledger.Kind {
	return ledger.Kinds[a.activeTab]
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth()).WithHeight(msg.Height)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		if a.mode != modeBrowse || a.showHelp {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			// tab bar is the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.mode {
		case modeAdd, modeSettings:
			return a.updateForm(msg)
		case modeEditUsed, modeEditAvailable:
			return a.updateInput(msg)
		}
		return a.updateBrowse(msg)
	}

	// Forward unhandled messages to the active form or input (cursor blinks, etc.)
	switch a.mode {
	case modeAdd, modeSettings:
		return a.updateForm(msg)
	case modeEditUsed, modeEditAvailable:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.flash = ""

	switch key {
	case "q":
		return a, tea.Quit
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "g", "home":
		a.cursor[a.activeTab] = 0
	case "G", "end":
		a.cursor[a.activeTab] = a.tr.State().Len(a.kind()) - 1
		a.clampCursor()
	case "left", "h", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(ledger.Kinds)) % len(ledger.Kinds)
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(ledger.Kinds)
	case "a":
		if a.kind() == ledger.Past {
			return a, nil
		}
		return a.startAdd()
	case "p":
		a.paySelected()
	case "d", "x":
		a.removeSelected()
	case "u":
		if a.kind() == ledger.Budget {
			return a.startEditUsed()
		}
	case "e":
		return a.startEditAvailable()
	case "s":
		return a.startSettings()
	default:
		if len(key) == 1 {
			if tab := components.TabIdxByKey(rune(key[0])); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	a.cursor[a.activeTab] += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	n := a.tr.State().Len(a.kind())
	c := a.cursor[a.activeTab]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	a.cursor[a.activeTab] = c
}

// selected returns the row under the cursor, if any.
func (a App) selected() (row, bool) {
	rows := buildRows(a.tr.State(), a.kind(), a.currency)
	c := a.cursor[a.activeTab]
	if c < 0 || c >= len(rows) {
		return row{}, false
	}
	return rows[c], true
}

func (a *App) paySelected() {
	k := a.kind()
	r, ok := a.selected()
	if !ok || !k.Payable() || r.paid {
		return
	}
	if a.tr.MarkPaid(k, r.id) {
		a.setFlash("Paid "+r.name, false)
	}
	a.clampCursor()
}

func (a *App) removeSelected() {
	r, ok := a.selected()
	if !ok {
		return
	}
	if a.tr.Remove(a.kind(), r.id) {
		a.setFlash("Removed "+r.name, false)
	}
	a.clampCursor()
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
}

// ─── Forms ──────────────────────────────────────────────────────

func (a App) formWidth() int {
	w := a.width - 4
	if w > 70 {
		w = 70
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (a App) startAdd() (tea.Model, tea.Cmd) {
	a.draft = &DraftValues{}
	a.form = NewDraftForm(a.kind(), a.draft)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth()).WithHeight(a.height)
	}
	a.mode = modeAdd
	return a, a.form.Init()
}

func (a App) startSettings() (tea.Model, tea.Cmd) {
	a.setupVals = SetupValuesFrom(a.cfg)
	a.form = NewSettingsForm(a.setupVals)
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth()).WithHeight(a.height)
	}
	a.mode = modeSettings
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.form = nil
		a.mode = modeBrowse
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		return a.finishForm(), nil
	case huh.StateAborted:
		a.form = nil
		a.mode = modeBrowse
		return a, nil
	}
	return a, cmd
}

// finishForm applies the answers of a completed form.
func (a App) finishForm() App {
	switch a.mode {
	case modeAdd:
		d, err := a.draft.Draft()
		if err != nil {
			a.setFlash("Not added: "+err.Error(), true)
			break
		}
		if _, ok := a.tr.Add(a.kind(), d); ok {
			a.setFlash("Added "+d.Name, false)
			a.cursor[a.activeTab] = a.tr.State().Len(a.kind()) - 1
		}
	case modeSettings:
		a.setupVals.ApplyDisplay(&a.cfg)
		theme.SetActive(a.cfg.Appearance.Theme)
		a.currency = a.cfg.General.Currency

		// flags and environment overrides stay out of the file
		fileCfg, err := config.LoadFile()
		if err == nil {
			a.setupVals.ApplyDisplay(&fileCfg)
			err = config.Save(fileCfg)
		}
		if err != nil {
			a.log.Error("saving config failed", log.FieldError, err)
			a.setFlash("Config not saved: "+err.Error(), true)
		} else {
			a.setFlash("Saved "+config.Path(), false)
		}
	}

	a.form = nil
	a.draft = nil
	a.mode = modeBrowse
	return a
}

// ─── Inline edits ───────────────────────────────────────────────

func newAmountInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 32
	ti.Width = 20
	ti.Focus()
	return ti
}

func (a App) startEditUsed() (tea.Model, tea.Cmd) {
	r, ok := a.selected()
	if !ok {
		return a, nil
	}
	a.editID = r.id
	a.input = newAmountInput(r.used.String())
	a.mode = modeEditUsed
	return a, a.input.Cursor.BlinkCmd()
}

func (a App) startEditAvailable() (tea.Model, tea.Cmd) {
	a.editID = ""
	a.input = newAmountInput(a.tr.State().AvailableBalance.String())
	a.mode = modeEditAvailable
	return a, a.input.Cursor.BlinkCmd()
}

func (a App) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.commitInput()
		a.mode = modeBrowse
		return a, nil
	case "esc":
		a.mode = modeBrowse
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) commitInput() {
	val := strings.TrimSpace(a.input.Value())
	if val == "" {
		return
	}

	switch a.mode {
	case modeEditUsed:
		used, err := ledger.ParseAmount(val)
		if err != nil {
			a.setFlash("Used: "+err.Error(), true)
			return
		}
		if a.tr.UpdateUsed(a.editID, used) {
			a.setFlash("Used set to "+cli.FormatAmount(used, a.currency), false)
		}
	case modeEditAvailable:
		bal, err := ledger.ParseBalance(val)
		if err != nil {
			a.setFlash("Balance: "+err.Error(), true)
			return
		}
		a.tr.SetAvailable(bal)
		a.setFlash("Available set to "+cli.FormatAmount(bal, a.currency), false)
	}
}

// ─── Views ──────────────────────────────────────────────────────

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.mode == modeAdd || a.mode == modeSettings {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  moneymike needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(a.form.View()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"1 2 3", "Future / Budget / Past"},
		{"← → tab", "Previous / Next tab"},
		{"j k", "Move selection"},
		{"a", "Add expense (Future, Budget)"},
		{"p", "Mark paid (Future, Budget)"},
		{"u", "Set amount used (Budget)"},
		{"d", "Delete expense"},
		{"e", "Edit available balance"},
		{"s", "Currency and theme"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	state := a.tr.State()

	header := components.RenderTabBar(a.activeTab, w)
	summary := a.renderSummary(state, cw)

	footer := ""
	if a.mode == modeEditUsed || a.mode == modeEditAvailable {
		footer = a.renderInputLine(w) + "\n"
	}
	footer += components.RenderStatusBar(w, a.hints(), a.statusText())

	contentH := h - lipgloss.Height(header) - lipgloss.Height(summary) - lipgloss.Height(footer)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	content := a.renderList(state, cw, contentH)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)

	body := lipgloss.JoinVertical(lipgloss.Left, summary, content)
	body = lipgloss.Place(w, lipgloss.Height(body), lipgloss.Center, lipgloss.Top, body,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderSummary(state ledger.State, cw int) string {
	t := theme.Active
	b := state.Breakdown()
	standing := ledger.StandingOf(b.Actual)

	mood := t.Ahead
	if standing == ledger.Behind {
		mood = t.Behind
	}

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Actual balance", Value: cli.FormatAmount(b.Actual, a.currency), Color: mood},
		{Label: "Available", Value: cli.FormatAmount(b.Available, a.currency), Note: "[e] to edit"},
		{Label: "Unpaid future", Value: cli.FormatAmount(b.UnpaidFuture, a.currency)},
		{Label: "Remaining budget", Value: cli.FormatAmount(b.RemainingBudget, a.currency)},
	}, cw)

	banner := lipgloss.NewStyle().
		Foreground(mood).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(standing.Message())

	return lipgloss.JoinVertical(lipgloss.Left, cards, banner)
}

func (a App) renderInputLine(w int) string {
	t := theme.Active
	label := "Available balance: "
	if a.mode == modeEditUsed {
		label = "Amount used: "
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	line := " " + labelStyle.Render(label) + a.input.View() + hintStyle.Render("  enter save · esc cancel")
	return lipgloss.NewStyle().Width(w).Render(line)
}

func (a App) hints() string {
	switch a.kind() {
	case ledger.Future:
		return "[a]dd  [p]ay  [d]elete  [e]dit balance  [s]ettings  [?]help  [q]uit"
	case ledger.Budget:
		return "[a]dd  [p]ay  [u]sed  [d]elete  [e]dit balance  [s]ettings  [?]help  [q]uit"
	}
	return "[d]elete  [e]dit balance  [s]ettings  [?]help  [q]uit"
}

func (a App) statusText() string {
	t := theme.Active
	if a.flash != "" {
		color := t.TextPrimary
		if a.flashErr {
			color = t.Behind
		}
		return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(a.flash)
	}
	switch {
	case a.tr.Busy():
		return a.spinner.View() + " saving"
	case a.tr.LastSaveErr() != nil:
		return lipgloss.NewStyle().Foreground(t.Behind).Background(t.Surface).Render("save failed")
	}
	return "saved"
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
