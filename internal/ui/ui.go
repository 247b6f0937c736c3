package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/boxoffice/internal/formatter"
	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/desertthunder/boxoffice/internal/router"
	"github.com/desertthunder/boxoffice/internal/session"
	"github.com/desertthunder/boxoffice/internal/shared"
	"github.com/desertthunder/boxoffice/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	MovieView
	LoginView
	ConfirmView
	CheckoutView
	ResultView
	BookingsView
	AccountView
	NotificationsView
	AdminMoviesView
)

const maxSeats = 10

// Backend is the part of the API client the TUI reads from.
type Backend interface {
	ListMovies(ctx context.Context) []models.Movie
	GetMovie(ctx context.Context, id models.ID) (*models.Movie, error)
	ListShowtimes(ctx context.Context, movieID models.ID) []models.Showtime
	ListBookings(ctx context.Context, userID models.ID) ([]models.Booking, error)
	CancelBooking(ctx context.Context, id models.ID) error
	ListNotifications(ctx context.Context, userID models.ID) []models.Notification
	MarkNotificationRead(ctx context.Context, id models.ID) error
	AdminMovies(ctx context.Context) ([]models.Movie, error)
}

// Authenticator signs the user in and out.
type Authenticator interface {
	Login(ctx context.Context, email, password string) error
	Logout() error
	RefreshIdentity(ctx context.Context) (*models.Identity, error)
}

// Checkouter books seats.
type Checkouter interface {
	Checkout(ctx context.Context, progress chan<- tasks.ProgressUpdate, req tasks.CheckoutRequest) (*tasks.CheckoutResult, error)
}

// MovieLookup finds external metadata for a title. It returns nil when nothing is found.
type MovieLookup interface {
	SearchMovie(ctx context.Context, title string) *models.TMDBMovie
}

// Deps are the collaborators of the TUI. TMDB may be nil.
type Deps struct {
	Backend  Backend
	Auth     Authenticator
	Checkout Checkouter
	Guard    *router.Guard
	Session  session.View
	TMDB     MovieLookup
}

// Model represents the TUI application state.
type Model struct {
	ctx  context.Context
	deps Deps
	view ViewState
	path string

	width  int
	height int

	snapshot    session.Snapshot
	sessionCh   chan session.Snapshot
	unsubscribe func()

	notice      string
	err         error
	loading     bool
	pendingPath string

	movies        list.Model
	moviesLoaded  bool
	detail        movieDetail
	showtimes     list.Model
	showtime      *models.Showtime
	seats         int
	bookings      list.Model
	notifications list.Model
	adminMovies   list.Model
	account       *models.Identity

	email    textinput.Model
	password textinput.Model

	progressChan chan tasks.ProgressUpdate
	checkoutDone chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.CheckoutResult

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model and subscribes it to the session. Call [Model.Close] when the program
// exits.
func NewModel(ctx context.Context, deps Deps) *Model {
	m := &Model{
		ctx:           ctx,
		deps:          deps,
		view:          HomeView,
		path:          router.HomePath,
		sessionCh:     make(chan session.Snapshot, 1),
		movies:        newList("Now Showing", true),
		showtimes:     newList("Showtimes", false),
		bookings:      newList("My Bookings", false),
		notifications: newList("Notifications", false),
		adminMovies:   newList("Admin · Movies", true),
		email:         newInput("email", false),
		password:      newInput("password", true),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:          help.New(),
		keys:          newKeyMap(),
	}
	m.unsubscribe = deps.Session.Subscribe(m.onSession)
	return m
}

func newList(title string, filter bool) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(filter)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 254
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// Close stops listening for session changes.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// onSession keeps only the latest snapshot so a slow UI never blocks the store.
func (m *Model) onSession(snap session.Snapshot) {
	for {
		select {
		case m.sessionCh <- snap:
			return
		default:
			select {
			case <-m.sessionCh:
			default:
			}
		}
	}
}

func (m *Model) waitForSession() tea.Cmd {
	ch := m.sessionCh
	return func() tea.Msg {
		return sessionChangedMsg(<-ch)
	}
}

// Init loads the movie listing and starts listening for session changes.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadMovies(), m.waitForSession(), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.movies, &m.showtimes, &m.bookings, &m.notifications, &m.adminMovies} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionChanged:
		m.snapshot = msg.data.(session.Snapshot)
		cmds := []tea.Cmd{m.waitForSession()}
		if !m.snapshot.Authenticated && m.view != LoginView && m.view != CheckoutView {
			if route, _, ok := m.deps.Guard.Table().Match(m.path); ok && route.RequiresAuth {
				cmds = append(cmds, m.navigate(m.path))
			}
		}
		return m, tea.Batch(cmds...)

	case MsgMoviesLoaded:
		m.loading = false
		m.moviesLoaded = true
		return m, m.movies.SetItems(movieItems(msg.data.([]models.Movie)))

	case MsgMovieLoaded:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.detail = msg.data.(movieDetail)
		m.showtimes.Title = "Showtimes · " + formatter.Clean(m.detail.movie.Title)
		return m, m.showtimes.SetItems(showtimeItems(m.detail.showtimes))

	case MsgBookingsLoaded:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.bookings.SetItems(bookingItems(msg.data.([]models.Booking)))

	case MsgBookingCancelled:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.notice = fmt.Sprintf("Booking %s cancelled", msg.data.(models.ID))
		m.loading = true
		return m, m.loadBookings()

	case MsgNotificationsLoaded:
		m.loading = false
		return m, m.notifications.SetItems(notificationItems(msg.data.([]models.Notification)))

	case MsgAccountLoaded:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.account = msg.data.(*models.Identity)
		return m, nil

	case MsgAdminMoviesLoaded:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, m.adminMovies.SetItems(movieItems(msg.data.([]models.Movie)))

	case MsgLoginFinished:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.password.SetValue("")
			return m, nil
		}
		next := m.pendingPath
		if next == "" {
			next = router.HomePath
		}
		m.pendingPath = ""
		return m, m.navigate(next)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgCheckoutComplete:
		m.result, _ = msg.data.(*tasks.CheckoutResult)
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		m.checkoutDone = nil
		return m, nil
	}
	return m, nil
}

// navigate runs path through the route guard and switches to the matching view.
func (m *Model) navigate(path string) tea.Cmd {
	d := m.deps.Guard.Navigate(path)
	if !d.Allowed {
		if d.Redirect == router.LoginPath {
			m.pendingPath = path
			return m.openLogin()
		}
		m.showHome()
		m.notice = d.Notice
		return m.ensureMovies()
	}

	m.err = nil
	m.notice = ""
	m.path = path

	switch d.Route.Path {
	case router.HomePath:
		m.showHome()
		return m.ensureMovies()
	case router.LoginPath:
		return m.openLogin()
	case router.MoviePath:
		m.view = MovieView
		m.loading = true
		m.detail = movieDetail{}
		m.showtimes.SetItems(nil)
		return m.loadMovie(models.ID(d.Params["id"]))
	case router.BookingPath:
		return m.openConfirm(models.ID(d.Params["showtimeId"]))
	case router.BookingsPath:
		m.view = BookingsView
		m.loading = true
		return m.loadBookings()
	case router.AccountPath:
		m.view = AccountView
		m.loading = true
		return m.loadAccount()
	case router.NotificationsPath:
		m.view = NotificationsView
		m.loading = true
		return m.loadNotifications()
	case router.AdminMoviesPath:
		m.view = AdminMoviesView
		m.loading = true
		return m.loadAdminMovies()
	default:
		m.showHome()
		m.notice = fmt.Sprintf("%s is only available from the command line", d.Route.Name)
		return m.ensureMovies()
	}
}

func (m *Model) showHome() {
	m.view = HomeView
	m.path = router.HomePath
}

func (m *Model) ensureMovies() tea.Cmd {
	if m.moviesLoaded {
		return nil
	}
	m.loading = true
	return m.loadMovies()
}

func (m *Model) openLogin() tea.Cmd {
	m.view = LoginView
	m.email.SetValue("")
	m.password.SetValue("")
	m.password.Blur()
	return m.email.Focus()
}

func (m *Model) openConfirm(showtimeID models.ID) tea.Cmd {
	m.showtime = nil
	for _, st := range m.detail.showtimes {
		if st.ID == showtimeID {
			m.showtime = &st
			break
		}
	}
	if m.showtime == nil {
		m.err = fmt.Errorf("%w: showtime %s", shared.ErrNotFound, showtimeID)
		m.showHome()
		return m.ensureMovies()
	}
	m.seats = 1
	m.result = nil
	m.view = ConfirmView
	return nil
}

func (m *Model) activeList() *list.Model {
	switch m.view {
	case HomeView:
		return &m.movies
	case MovieView:
		return &m.showtimes
	case BookingsView:
		return &m.bookings
	case NotificationsView:
		return &m.notifications
	case AdminMoviesView:
		return &m.adminMovies
	default:
		return nil
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case LoginView:
		return m.handleLoginKeys(msg)
	case ConfirmView:
		return m.handleConfirmKeys(msg)
	case CheckoutView:
		return m, nil
	}

	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		return m.updateActive(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		switch m.view {
		case HomeView:
			return m.updateActive(msg)
		case ResultView:
			if m.detail.movie != nil {
				m.view = MovieView
				return m, nil
			}
		}
		return m, m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.bookings):
		return m, m.navigate(router.BookingsPath)
	case key.Matches(msg, m.keys.account):
		return m, m.navigate(router.AccountPath)
	case key.Matches(msg, m.keys.notifications):
		return m, m.navigate(router.NotificationsPath)
	case key.Matches(msg, m.keys.admin):
		return m, m.navigate(router.AdminMoviesPath)
	case key.Matches(msg, m.keys.login):
		if m.snapshot.Authenticated {
			return m, nil
		}
		m.pendingPath = m.path
		return m, m.openLogin()
	case key.Matches(msg, m.keys.logout):
		if err := m.deps.Auth.Logout(); err != nil {
			m.err = err
			return m, nil
		}
		m.pendingPath = ""
		return m, m.navigate(router.HomePath)
	}

	switch m.view {
	case HomeView:
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.movies.SelectedItem().(movieItem); ok {
				return m, m.navigate(router.Build(router.MoviePath, map[string]string{"id": item.movie.ID.String()}))
			}
		}
	case MovieView:
		if key.Matches(msg, m.keys.enter) {
			if item, ok := m.showtimes.SelectedItem().(showtimeItem); ok {
				return m, m.navigate(router.Build(router.BookingPath, map[string]string{"showtimeId": item.showtime.ID.String()}))
			}
		}
	case BookingsView:
		if key.Matches(msg, m.keys.cancel) {
			if item, ok := m.bookings.SelectedItem().(bookingItem); ok {
				return m, m.cancelBooking(item.booking.ID)
			}
		}
	case NotificationsView:
		if key.Matches(msg, m.keys.read) {
			if item, ok := m.notifications.SelectedItem().(notificationItem); ok && !item.notification.Read {
				return m, m.markRead(item.notification.ID)
			}
		}
	case ResultView:
		if key.Matches(msg, m.keys.enter) {
			return m, m.navigate(router.BookingsPath)
		}
	}

	return m.updateActive(msg)
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.pendingPath = ""
		m.err = nil
		return m, m.navigate(router.HomePath)
	case key.Matches(msg, m.keys.next):
		if m.email.Focused() {
			m.email.Blur()
			return m, m.password.Focus()
		}
		m.password.Blur()
		return m, m.email.Focus()
	case key.Matches(msg, m.keys.enter):
		if m.email.Focused() {
			m.email.Blur()
			return m, m.password.Focus()
		}
		if m.loading {
			return m, nil
		}
		m.err = nil
		m.loading = true
		return m, m.login(m.email.Value(), m.password.Value())
	}

	var cmd tea.Cmd
	if m.email.Focused() {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.more):
		if m.seats < maxSeats && (m.showtime.AvailableSeats <= 0 || m.seats < m.showtime.AvailableSeats) {
			m.seats++
		}
	case key.Matches(msg, m.keys.less):
		if m.seats > 1 {
			m.seats--
		}
	case key.Matches(msg, m.keys.yes):
		m.view = CheckoutView
		m.err = nil
		m.progress = tasks.ProgressUpdate{Message: "Starting checkout..."}
		return m, tea.Batch(m.startCheckout(tasks.CheckoutRequest{ShowtimeID: m.showtime.ID, Seats: m.seats}), m.spinner.Tick)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = MovieView
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) userID(ctx context.Context) (models.ID, error) {
	if identity := m.deps.Session.Current(); identity != nil && identity.ID != "" {
		return identity.ID, nil
	}
	identity, err := m.deps.Auth.RefreshIdentity(ctx)
	if err != nil {
		return "", err
	}
	return identity.ID, nil
}

func (m *Model) loadMovies() tea.Cmd {
	return func() tea.Msg {
		return moviesLoadedMsg(m.deps.Backend.ListMovies(m.ctx))
	}
}

func (m *Model) loadMovie(id models.ID) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.deps.Backend.GetMovie(m.ctx, id)
		if err != nil {
			return movieLoadedMsg(movieDetail{}, err)
		}
		detail := movieDetail{movie: movie, showtimes: m.deps.Backend.ListShowtimes(m.ctx, id)}
		if m.deps.TMDB != nil {
			detail.tmdb = m.deps.TMDB.SearchMovie(m.ctx, movie.Title)
		}
		return movieLoadedMsg(detail, nil)
	}
}

func (m *Model) loadBookings() tea.Cmd {
	return func() tea.Msg {
		userID, err := m.userID(m.ctx)
		if err != nil {
			return bookingsLoadedMsg(nil, err)
		}
		bookings, err := m.deps.Backend.ListBookings(m.ctx, userID)
		return bookingsLoadedMsg(bookings, err)
	}
}

func (m *Model) cancelBooking(id models.ID) tea.Cmd {
	return func() tea.Msg {
		return bookingCancelledMsg(id, m.deps.Backend.CancelBooking(m.ctx, id))
	}
}

func (m *Model) loadNotifications() tea.Cmd {
	return func() tea.Msg {
		userID, err := m.userID(m.ctx)
		if err != nil {
			return notificationsLoadedMsg(nil)
		}
		return notificationsLoadedMsg(m.deps.Backend.ListNotifications(m.ctx, userID))
	}
}

func (m *Model) markRead(id models.ID) tea.Cmd {
	return func() tea.Msg {
		if err := m.deps.Backend.MarkNotificationRead(m.ctx, id); err != nil {
			return notificationsLoadedMsg(nil)
		}
		userID, err := m.userID(m.ctx)
		if err != nil {
			return notificationsLoadedMsg(nil)
		}
		return notificationsLoadedMsg(m.deps.Backend.ListNotifications(m.ctx, userID))
	}
}

func (m *Model) loadAccount() tea.Cmd {
	return func() tea.Msg {
		identity, err := m.deps.Auth.RefreshIdentity(m.ctx)
		return accountLoadedMsg(identity, err)
	}
}

func (m *Model) loadAdminMovies() tea.Cmd {
	return func() tea.Msg {
		movies, err := m.deps.Backend.AdminMovies(m.ctx)
		return adminMoviesLoadedMsg(movies, err)
	}
}

func (m *Model) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginFinishedMsg(m.deps.Auth.Login(m.ctx, email, password))
	}
}

func (m *Model) startCheckout(req tasks.CheckoutRequest) tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.checkoutDone = done

	go func() {
		result, err := m.deps.Checkout.Checkout(m.ctx, progress, req)
		done <- checkoutCompleteMsg(result, err)
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.checkoutDone
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case HomeView:
		body = m.renderList(&m.movies, m.keys.enter, m.keys.bookings, m.keys.account, m.sessionKey(), m.keys.quit)
	case MovieView:
		body = m.renderMovie()
	case LoginView:
		body = m.renderLogin()
	case ConfirmView:
		body = m.renderConfirm()
	case CheckoutView:
		body = m.renderCheckout()
	case ResultView:
		body = m.renderResult()
	case BookingsView:
		body = m.renderList(&m.bookings, m.keys.cancel, m.keys.back, m.keys.quit)
	case AccountView:
		body = m.renderAccount()
	case NotificationsView:
		body = m.renderList(&m.notifications, m.keys.read, m.keys.back, m.keys.quit)
	case AdminMoviesView:
		body = m.renderList(&m.adminMovies, m.keys.back, m.keys.quit)
	}

	sections := []string{m.renderHeader()}
	if m.notice != "" {
		sections = append(sections, styles.warn.Render(m.notice))
	}
	if m.err != nil && m.view != ResultView {
		sections = append(sections, styles.err.Render("Error: "+describe(m.err)))
	}
	sections = append(sections, body)
	return strings.Join(sections, "\n")
}

func (m *Model) sessionKey() key.Binding {
	if m.snapshot.Authenticated {
		return m.keys.logout
	}
	return m.keys.login
}

func (m *Model) renderHeader() string {
	status := "Not signed in"
	if m.snapshot.Authenticated {
		status = "Signed in"
		if id := m.snapshot.Identity; id != nil {
			status = fmt.Sprintf("%s · %s", formatter.Clean(id.Name()), models.FormatMoney(id.Balance))
			if id.IsAdmin {
				status += " · admin"
			}
		}
	}

	left := styles.title.UnsetMarginBottom().Render("boxoffice")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 2 {
		gap = 2
	}
	return styles.header.Render(left + strings.Repeat(" ", gap) + status)
}

func (m *Model) renderList(l *list.Model, keys ...key.Binding) string {
	if m.loading {
		return fmt.Sprintf("%s Loading %s...", m.spinner.View(), strings.ToLower(l.Title))
	}
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderMovie() string {
	if m.loading || m.detail.movie == nil {
		return fmt.Sprintf("%s Loading movie...", m.spinner.View())
	}

	info := formatter.MovieToText(m.detail.movie, m.detail.tmdb)
	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "book")),
		m.keys.back,
		m.keys.quit,
	}
	if len(m.detail.showtimes) == 0 {
		return fmt.Sprintf("%s\n%s\n\n%s", info, styles.muted.Render("No showtimes scheduled."), m.help.ShortHelpView(helpKeys[1:]))
	}
	return fmt.Sprintf("%s\n%s\n\n%s", info, m.showtimes.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Sign in")
	status := ""
	if m.loading {
		status = "\n" + m.spinner.View() + " Signing in..."
	}
	helpKeys := []key.Binding{m.keys.next, key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")), m.keys.back}
	return fmt.Sprintf("%s\n%s\n%s%s\n\n%s",
		title,
		styles.field.Render(m.email.View()),
		styles.field.Render(m.password.View()),
		status,
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderConfirm() string {
	st := m.showtime
	title := styles.title.Render("Confirm booking")

	movie := "movie #" + st.MovieID.String()
	if m.detail.movie != nil {
		movie = formatter.Clean(m.detail.movie.Title)
	}
	cost := st.Price * float64(m.seats)
	info := fmt.Sprintf("Movie:   %s\nStarts:  %s\nSeats:   %d\nTotal:   %s",
		movie, formatter.FormatTime(st.StartTime), m.seats, models.FormatMoney(cost))

	if id := m.snapshot.Identity; id != nil {
		balance := fmt.Sprintf("Balance: %s", models.FormatMoney(id.Balance))
		if cost > id.Balance {
			balance = styles.warn.Render(balance + " (insufficient)")
		}
		info += "\n" + balance
	}

	helpKeys := []key.Binding{m.keys.more, m.keys.less, m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderCheckout() string {
	title := styles.title.Render("Booking")
	step := ""
	if m.progress.Total > 0 {
		step = fmt.Sprintf(" (%d/%d)", m.progress.Step, m.progress.Total)
	}
	return fmt.Sprintf("%s\n%s %s%s", title, m.spinner.View(), m.progress.Message, step)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "my bookings")),
		m.keys.back,
		m.keys.quit,
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("Booking failed: "+describe(m.err)), m.help.ShortHelpView(helpKeys[1:]))
	}
	if m.result == nil {
		return styles.err.Render("No result available")
	}

	title := styles.ok.Render("✓ Booking confirmed")
	info := fmt.Sprintf("\nBooking: %s\nSeats:   %d\nPaid:    %s",
		m.result.Booking.ID, m.result.Booking.Seats, models.FormatMoney(m.result.Cost))
	if m.result.Identity != nil {
		info += fmt.Sprintf("\nBalance: %s", models.FormatMoney(m.result.Identity.Balance))
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAccount() string {
	if m.loading {
		return fmt.Sprintf("%s Loading account...", m.spinner.View())
	}
	identity := m.account
	if identity == nil {
		identity = m.snapshot.Identity
	}
	title := styles.title.Render("Account")
	return fmt.Sprintf("%s\n%s\n%s", title, formatter.IdentityToText(identity), m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
}

// describe turns known errors into short messages for the status line.
func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrInsufficientBalance):
		return "not enough balance, top up with `boxoffice account add-balance`"
	case errors.Is(err, shared.ErrInvalidCredentials):
		return "wrong email or password"
	case errors.Is(err, shared.ErrMissingCredentials):
		return "email and password are required"
	case errors.Is(err, shared.ErrServiceUnavailable):
		return "the booking service is unreachable"
	default:
		return err.Error()
	}
}
