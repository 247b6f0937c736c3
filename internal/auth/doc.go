// Package auth implements sign-in and sign-out on top of the session store.
//
// The [Controller] is the only component that writes the session. It supports email and password login,
// registration (which never signs in), logout, and Google sign-in through one of two [Handshake]
// implementations selected by configuration:
//
//   - [PopupHandshake] talks to Google itself and forwards the signed id token to the backend.
//   - [RedirectHandshake] sends the browser to the backend, which redirects back with ?token= or ?error=;
//     the callback is finished by [Controller.CompleteRedirect].
//
// Credentials are only ever verified by the backend. [DecodeClaims] reads a token's payload without checking
// its signature so the UI can show a name immediately; the profile fetched from /accounts/me replaces it.
package auth
