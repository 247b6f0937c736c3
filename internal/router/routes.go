package router

// Route paths used by the CLI and the TUI.
const (
	MoviesPath         = "/"
	RegisterPath       = "/register"
	OAuthCallbackPath  = "/oauth/callback"
	MoviePath          = "/movies/:id"
	BookingPath        = "/booking/:showtimeId"
	BookingsPath       = "/bookings"
	AccountPath        = "/account"
	NotificationsPath  = "/notifications"
	AdminMoviesPath    = "/admin/movies"
	AdminShowtimesPath = "/admin/showtimes"
	AdminAccountsPath  = "/admin/accounts"
)

// DefaultRoutes is the navigation table of the client.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "home", Path: MoviesPath},
		{Name: "login", Path: LoginPath},
		{Name: "register", Path: RegisterPath},
		{Name: "oauth-callback", Path: OAuthCallbackPath},
		{Name: "movie", Path: MoviePath},
		{Name: "booking", Path: BookingPath, RequiresAuth: true},
		{Name: "bookings", Path: BookingsPath, RequiresAuth: true},
		{Name: "account", Path: AccountPath, RequiresAuth: true},
		{Name: "notifications", Path: NotificationsPath, RequiresAuth: true},
		{Name: "admin-movies", Path: AdminMoviesPath, RequiresAuth: true, RequiresAdmin: true},
		{Name: "admin-showtimes", Path: AdminShowtimesPath, RequiresAuth: true, RequiresAdmin: true},
		{Name: "admin-accounts", Path: AdminAccountsPath, RequiresAuth: true, RequiresAdmin: true},
	}
}

// DefaultTable is [DefaultRoutes] as a [Table].
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes()...)
	if err != nil {
		panic(err)
	}
	return t
}
