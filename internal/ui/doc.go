// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// Views:
//  1. [HomeView] : movies now showing
//  2. [MovieView] : movie details, TMDB metadata and showtimes
//  3. [ConfirmView], [CheckoutView], [ResultView] : pick seats, watch checkout progress, see the outcome
//  4. [BookingsView], [AccountView], [NotificationsView] : signed-in pages
//  5. [AdminMoviesView] : admin-only catalogue
//  6. [LoginView] : email and password form
//
// Every view change goes through [router.Guard.Navigate]. A redirect to the login path opens the login form and
// resumes the original destination after a successful sign-in; an admin denial returns home with the guard's
// notice.
//
// The header subscribes to the session store, so sign-in and sign-out (including from another process, picked
// up on the next guard sync) update it without polling. If the session ends while a signed-in view is open, the
// view is re-evaluated and the login form is shown.
package ui
