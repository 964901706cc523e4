package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gic-cinemas/logger"
	"gic-cinemas/model"
	"gic-cinemas/seating"
	"gic-cinemas/service"
	"gic-cinemas/store"
)

const (
	invalidTicketInputMsg = "Invalid input. Please enter a valid number of tickets or blank to go back."
	invalidMovieInputMsg  = "Invalid input. Please try again."
	invalidSelectionMsg   = "Invalid selection. Please try again."
	farewellMsg           = "Thank you for using GIC Cinemas system. Bye!"
)

type appState int

const (
	stateLoading appState = iota
	stateDefineMovie
	stateMainMenu
	stateTicketCount
	stateSeatSelection
	stateCheckBookings
	stateError
)

// Options wires the TUI to its collaborators. Zero values fall back to a
// default Booker, the contiguous policy for the hidden menu entry and a
// discarding logger.
type Options struct {
	Store    store.Store
	Booker   *service.Booker
	Advanced seating.Policy
	Logger   *logger.Logger
}

type appModel struct {
	ctx      context.Context
	store    store.Store
	booker   *service.Booker
	advanced seating.Policy
	log      *logger.Logger

	state     appState
	lastState appState
	err       error

	width  int
	height int

	theatre model.Theatre

	// policy used by the booking flow in progress
	policy  seating.Policy
	current model.Booking

	// ledger shown by check bookings, with the looked up booking highlighted
	viewing   model.Theatre
	viewingID string

	notice  string
	warning string

	menu    list.Model
	input   textinput.Model
	spinner spinner.Model

	quitting bool

	saves *saveGate
}

// saveGate orders the snapshots written by save commands, which Bubble Tea
// runs on their own goroutines. A snapshot older than the last one written
// is dropped.
type saveGate struct {
	mu      sync.Mutex
	issued  uint64
	written uint64
}

func (g *saveGate) ticket() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.issued
}

func (g *saveGate) run(seq uint64, save func() error) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq <= g.written {
		return false, nil
	}
	if err := save(); err != nil {
		return false, err
	}
	g.written = seq
	return true, nil
}

type errMsg struct {
	err         error
	returnState appState
}

type loadedMsg struct {
	theatre model.Theatre
	ok      bool
	err     error
}

type savedMsg struct {
	err error
}

func New(opts Options) tea.Model {
	m := appModel{
		ctx:      context.Background(),
		store:    opts.Store,
		booker:   opts.Booker,
		advanced: opts.Advanced,
		log:      opts.Logger,
		state:    stateLoading,
		saves:    &saveGate{},
	}
	if m.booker == nil {
		m.booker = service.NewBooker(nil, m.log)
	}
	if m.advanced == nil {
		m.advanced = seating.ContiguousPolicy{}
	}
	if m.log == nil {
		m.log = logger.Nop()
	}

	m.menu = newList("Welcome to GIC Cinemas")

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()
	m.input = ti

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

// Exited reports whether the program ended through the exit menu entry.
func Exited(final tea.Model) bool {
	m, ok := final.(appModel)
	return ok && m.quitting
}

// Farewell is printed once the TUI has been left through the exit entry.
func Farewell() string {
	return farewellMsg
}

func (m appModel) Init() tea.Cmd {
	m.log.Info("APP", "GIC CBS application started")
	return tea.Batch(m.loadTheatreCmd(), m.spinner.Tick, textinput.Blink)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeMenu()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		var handled bool
		m, cmd, handled = m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state == stateLoading {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.lastState = msg.returnState
		m.state = stateError
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.log.Error("STORE", fmt.Sprintf("Failed to load saved theatre: %v", msg.err))
			return m, errCmd(msg.err, stateDefineMovie)
		}
		if !msg.ok {
			m.log.Info("APP", "No saved theatre, prompting for movie definition")
			m.state = stateDefineMovie
			return m, nil
		}
		m.theatre = m.booker.Release(msg.theatre)
		m.log.Info("APP", fmt.Sprintf("Resumed saved theatre for %s", m.theatre.Title))
		m.openMenu()
		m.notice = fmt.Sprintf("Resumed %s with %d booking(s).", m.theatre.Title, len(m.theatre.Bookings))
		if len(m.theatre.Bookings) == len(msg.theatre.Bookings) {
			return m, nil
		}
		cmd := m.saveCmd()
		return m, cmd

	case savedMsg:
		if msg.err != nil {
			m.log.Error("STORE", fmt.Sprintf("Failed to save theatre: %v", msg.err))
			return m, errCmd(msg.err, m.state)
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateMainMenu:
		m.menu, cmd = m.menu.Update(msg)
	case stateDefineMovie, stateTicketCount, stateSeatSelection, stateCheckBookings:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoading:
		return header + "\n\n" + fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), "Loading saved theatre", hint("Reading state..."))
	case stateDefineMovie:
		return header + "\n\n" + m.promptView("Please define movie title and seating map in [Title] [Row] [SeatsPerRow] format:", "")
	case stateMainMenu:
		return header + "\n\n" + m.menu.View() + m.messagesView()
	case stateTicketCount:
		return header + "\n\n" + m.promptView("Enter number of tickets to book, or enter blank to go back to main menu:", "")
	case stateSeatSelection:
		body := fmt.Sprintf("Booking ID: %s\nSelected seats:\n\n%s\n%s", m.current.ID, styledSeatMap(m.theatre, m.current.ID), seatLegend())
		return header + "\n\n" + m.promptView("Enter blank to accept seat selection, or enter new seating position:", body)
	case stateCheckBookings:
		body := ""
		if m.viewingID != "" {
			body = fmt.Sprintf("Booking ID: %s\nSelected seats:\n\n%s\n%s", m.viewingID, styledSeatMap(m.viewing, m.viewingID), seatLegend())
		}
		return header + "\n\n" + m.promptView("Enter booking ID, or enter blank to go back to main menu:", body)
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("GIC Cinemas")
	sub := []string{}
	if m.theatre.Title != "" {
		sub = append(sub, fmt.Sprintf("Movie: %s", m.theatre.Title))
		sub = append(sub, fmt.Sprintf("Hall: %d x %d", m.theatre.Rows, m.theatre.SeatsPerRow))
		sub = append(sub, fmt.Sprintf("Available: %d", service.AvailableSeats(m.theatre)))
	}
	if m.state == stateTicketCount || m.state == stateSeatSelection {
		if m.policy != nil {
			sub = append(sub, fmt.Sprintf("Policy: %s", m.policy.Name()))
		}
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back • enter submit"
	switch m.state {
	case stateMainMenu:
		hints = "ctrl+c quit • 1/2/3 select • enter select"
	case stateSeatSelection:
		hints = "ctrl+c quit • esc cancel reservation • enter accept or move"
	case stateDefineMovie:
		hints = "ctrl+c quit • enter submit"
	}
	return title + meta + "\n" + hint(hints)
}

func (m appModel) promptView(prompt string, body string) string {
	var b strings.Builder
	if body != "" {
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	b.WriteString(prompt)
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString(m.messagesView())
	return b.String()
}

func (m appModel) messagesView() string {
	var b strings.Builder
	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(m.notice))
	}
	if m.warning != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.warning))
	}
	return b.String()
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		if m.state == stateSeatSelection && m.current.ID != "" {
			m.log.Info("BOOKING", fmt.Sprintf("Reservation %s abandoned on quit", m.current.ID))
			m.theatre = m.booker.Remove(m.theatre, m.current.ID)
			m.current = model.Booking{}
			return m, m.saveThenQuitCmd(), true
		}
		return m, tea.Quit, true
	case "esc":
		next, cmd := m.goBack()
		return next, cmd, true
	}

	if m.state == stateMainMenu && msg.Type == tea.KeyRunes {
		switch value := string(msg.Runes); value {
		case "1", "2", "3", "9":
			next, cmd := m.chooseMenu(value)
			return next, cmd, true
		case "j", "k":
			return m, nil, false
		case "q":
			return m, tea.Quit, true
		default:
			m.log.Warn("MENU", fmt.Sprintf("Invalid menu selection: %s", value))
			m.notice = ""
			m.warning = invalidSelectionMsg
			return m, nil, true
		}
	}

	if msg.Type == tea.KeyEnter {
		next, cmd := m.submit()
		return next, cmd, true
	}
	return m, nil, false
}

func (m appModel) submit() (appModel, tea.Cmd) {
	switch m.state {
	case stateMainMenu:
		item, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		return m.chooseMenu(item.key)
	case stateDefineMovie:
		return m.submitMovie(m.input.Value())
	case stateTicketCount:
		return m.submitTickets(m.input.Value())
	case stateSeatSelection:
		return m.submitSeat(m.input.Value())
	case stateCheckBookings:
		return m.submitBookingID(m.input.Value())
	case stateError:
		return m.goBack()
	}
	return m, nil
}

func (m appModel) chooseMenu(key string) (appModel, tea.Cmd) {
	m.notice = ""
	m.warning = ""
	switch key {
	case "1":
		m.log.Info("MENU", "User selected booking tickets")
		m.startBooking(m.booker.Policy())
	case "9":
		m.log.Info("MENU", "User selected hidden advanced booking option")
		m.startBooking(m.advanced)
	case "2":
		m.log.Info("MENU", "User selected check bookings")
		if len(m.theatre.Bookings) == 0 {
			m.log.Info("MENU", "No bookings found, staying in main menu")
			m.notice = "There are currently no bookings."
			return m, nil
		}
		m.viewing = model.Theatre{}
		m.viewingID = ""
		m.setState(stateCheckBookings)
	case "3":
		m.log.Info("APP", "Exiting application")
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *appModel) startBooking(policy seating.Policy) {
	m.policy = policy
	m.current = model.Booking{}
	m.setState(stateTicketCount)
}

func (m appModel) submitMovie(value string) (appModel, tea.Cmd) {
	theatre, err := service.ParseMovieDefinition(value)
	if err != nil {
		m.log.Warn("INPUT", fmt.Sprintf("Invalid movie definition %q: %v", value, err))
		m.warning = invalidMovieInputMsg
		m.input.Reset()
		return m, nil
	}
	m.log.Info("APP", fmt.Sprintf("Movie created: %s with %d rows of %d seats", theatre.Title, theatre.Rows, theatre.SeatsPerRow))
	m.theatre = theatre
	m.openMenu()
	cmd := m.saveCmd()
	return m, cmd
}

func (m appModel) submitTickets(value string) (appModel, tea.Cmd) {
	if strings.TrimSpace(value) == "" {
		m.log.Info("BOOKING", "User returned to main menu from booking prompt")
		m.openMenu()
		return m, nil
	}
	available := service.AvailableSeats(m.theatre)
	tickets, err := service.ParseTicketCount(value, available)
	if err != nil {
		m.input.Reset()
		m.notice = ""
		var insufficient *service.InsufficientSeatsError
		if errors.As(err, &insufficient) {
			m.log.Warn("BOOKING", fmt.Sprintf("Requested tickets (%d) exceed available seats (%d)", insufficient.Requested, insufficient.Available))
			m.warning = insufficient.Error()
			return m, nil
		}
		m.log.Warn("INPUT", fmt.Sprintf("Invalid ticket input %q", value))
		m.warning = invalidTicketInputMsg
		return m, nil
	}

	theatre, booking, err := m.booker.ReserveWith(m.policy, m.theatre, tickets)
	if err != nil {
		m.input.Reset()
		m.warning = err.Error()
		return m, nil
	}
	m.theatre = theatre
	m.current = booking
	m.setState(stateSeatSelection)
	m.notice = fmt.Sprintf("Successfully reserved %d %s tickets.", tickets, m.theatre.Title)
	cmd := m.saveCmd()
	return m, cmd
}

func (m appModel) submitSeat(value string) (appModel, tea.Cmd) {
	if strings.TrimSpace(value) == "" {
		theatre, err := m.booker.Confirm(m.theatre, m.current.ID)
		var conflict *service.SeatConflictError
		if errors.As(err, &conflict) {
			m.input.Reset()
			m.notice = ""
			m.warning = fmt.Sprintf("Seats %s were booked by someone else. Please enter a new seating position.", strings.Join(model.SeatLabels(conflict.Seats), ","))
			return m, nil
		}
		m.theatre = theatre
		id := m.current.ID
		m.current = model.Booking{}
		m.openMenu()
		m.notice = fmt.Sprintf("Booking ID: %s confirmed.", id)
		cmd := m.saveCmd()
		return m, cmd
	}

	theatre, booking, err := m.booker.Reassign(m.theatre, m.current.ID, value)
	m.input.Reset()
	if err != nil {
		m.notice = ""
		if service.IsValidation(err) || errors.Is(err, seating.ErrUnknownSeat) {
			m.warning = fmt.Sprintf("Seat %s is not valid. Please try again or enter blank to accept.", strings.TrimSpace(value))
			return m, nil
		}
		return m, errCmd(err, stateMainMenu)
	}
	m.theatre = theatre
	m.current = booking
	m.notice = ""
	m.warning = ""
	cmd := m.saveCmd()
	return m, cmd
}

func (m appModel) submitBookingID(value string) (appModel, tea.Cmd) {
	id := strings.TrimSpace(value)
	if id == "" {
		m.log.Info("BOOKING", "User exited check bookings")
		m.openMenu()
		m.notice = "Returning to main menu."
		return m, nil
	}
	m.input.Reset()
	display, after, err := m.booker.View(m.theatre, id)
	if err != nil {
		m.notice = ""
		m.warning = fmt.Sprintf("Booking ID '%s' not found. Please try again.", id)
		return m, nil
	}
	m.viewing = display
	m.viewingID = id
	m.theatre = after
	m.warning = ""
	return m, nil
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	switch m.state {
	case stateTicketCount, stateCheckBookings:
		m.openMenu()
	case stateSeatSelection:
		id := m.current.ID
		m.theatre = m.booker.Remove(m.theatre, id)
		m.current = model.Booking{}
		m.openMenu()
		m.notice = fmt.Sprintf("Reservation %s cancelled.", id)
		cmd := m.saveCmd()
		return m, cmd
	case stateError:
		m.setState(m.lastState)
		if m.state == stateMainMenu {
			m.refreshMenu()
		}
	}
	return m, nil
}

func (m *appModel) setState(state appState) {
	m.state = state
	m.notice = ""
	m.warning = ""
	m.input.Reset()
}

func (m *appModel) openMenu() {
	m.setState(stateMainMenu)
	m.refreshMenu()
}

func (m *appModel) refreshMenu() {
	m.menu.SetItems(buildMenuItems(m.theatre))
	m.menu.Select(0)
}

func (m *appModel) resizeMenu() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	m.menu.SetSize(m.width, h)
}

func (m appModel) loadTheatreCmd() tea.Cmd {
	st := m.store
	ctx := m.ctx
	return func() tea.Msg {
		if st == nil {
			return loadedMsg{}
		}
		theatre, ok, err := st.Load(ctx)
		return loadedMsg{theatre: theatre, ok: ok, err: err}
	}
}

// saveCmd persists a snapshot of the current ledger. Snapshots are numbered
// when the command is built, so a command that runs late never overwrites a
// newer ledger.
func (m appModel) saveCmd() tea.Cmd {
	st := m.store
	ctx := m.ctx
	snapshot := m.theatre.Clone()
	log := m.log
	gate := m.saves
	seq := gate.ticket()
	return func() tea.Msg {
		if st == nil {
			return savedMsg{}
		}
		written, err := gate.run(seq, func() error { return st.Save(ctx, snapshot) })
		if err != nil {
			return savedMsg{err: err}
		}
		if written {
			log.LogStore("SAVE", snapshot.Title, fmt.Sprintf("%d booking(s)", len(snapshot.Bookings)))
		} else {
			log.LogStore("SAVE", snapshot.Title, fmt.Sprintf("snapshot %d superseded, skipped", seq))
		}
		return savedMsg{}
	}
}

// saveThenQuitCmd writes the ledger before quitting. The program is going
// away, so a failed save is only logged.
func (m appModel) saveThenQuitCmd() tea.Cmd {
	save := m.saveCmd()
	log := m.log
	return func() tea.Msg {
		if msg, ok := save().(savedMsg); ok && msg.err != nil {
			log.Error("STORE", fmt.Sprintf("Failed to save theatre on quit: %v", msg.err))
		}
		return tea.Quit()
	}
}

type menuItem struct {
	key   string
	title string
	desc  string
}

func (i menuItem) Title() string {
	return fmt.Sprintf("[%s] %s", i.key, i.title)
}

func (i menuItem) Description() string {
	return i.desc
}

func (i menuItem) FilterValue() string {
	return i.title
}

func buildMenuItems(theatre model.Theatre) []list.Item {
	return []list.Item{
		menuItem{
			key:   "1",
			title: fmt.Sprintf("Book tickets for %s (%d seats available)", theatre.Title, service.AvailableSeats(theatre)),
			desc:  "Reserve seats and adjust the selection",
		},
		menuItem{key: "2", title: "Check bookings", desc: "Look up a booking by ID"},
		menuItem{key: "3", title: "Exit", desc: "Leave GIC Cinemas"},
	}
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState}
	}
}
