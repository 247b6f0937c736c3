// Package services is the HTTP client for the cinema booking backend.
//
// A single [Client] serves every component. Its transport reads the bearer credential from a
// [CredentialSource] (the session store) on each request and sets the Authorization header through
// [oauth2.Token.SetAuthHeader]; requests without a credential go out unauthenticated and a 401 comes back as
// [*APIError]. Outbound calls share one [rate.Limiter].
//
// # Failure policy
//
// Each operation has a fixed policy. Public browse listings degrade to an empty result, logged at warn level;
// everything that mutates state or needs a signed-in user propagates the error:
//
//	ListMovies, ListShowtimes, ListTheatres, ListNotifications   empty slice
//	TMDBClient.SearchMovie                                         nil
//	everything else                                                *APIError / wrapped sentinel
//
// # Errors
//
// [*APIError] unwraps to [shared.ErrNotAuthenticated] (401), [shared.ErrForbidden] (403),
// [shared.ErrNotFound] (404) or [shared.ErrAPIRequest]. Transport failures wrap
// [shared.ErrServiceUnavailable].
//
// The raw [Client.Get], [Client.Post] and [Client.Do] methods return [APIResponse] for any status and back
// the `api` debugging commands.
package services
