package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/desertthunder/boxoffice/internal/models"
)

// AuthResponse is returned by login and the Google credential exchange. Some backend versions nest the
// account under "user", others return its fields at the top level next to the token.
type AuthResponse struct {
	Token string          `json:"token"`
	User  *models.Account `json:"user,omitempty"`
	models.Account
}

// RegisterRequest is the body of POST /accounts/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type balanceRequest struct {
	Amount float64 `json:"amount"`
}

type googleCredential struct {
	Credential string `json:"credential"`
}

// Login exchanges email and password for a credential.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.call(ctx, http.MethodPost, "/accounts/login", loginRequest{email, password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.call(ctx, http.MethodPost, "/accounts/register", req, nil)
}

// Me returns the account the current credential belongs to.
func (c *Client) Me(ctx context.Context) (*models.Account, error) {
	var account models.Account
	if err := c.call(ctx, http.MethodGet, "/accounts/me", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccount returns an account by id.
func (c *Client) GetAccount(ctx context.Context, id models.ID) (*models.Account, error) {
	var account models.Account
	if err := c.call(ctx, http.MethodGet, "/accounts/"+escape(id), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount changes profile fields. The result holds only the fields the backend sent back, and is nil
// when it answers without a body.
func (c *Client) UpdateAccount(ctx context.Context, id models.ID, update models.AccountUpdate) (*models.ProfileUpdate, error) {
	return c.writeAccount(ctx, http.MethodPut, "/accounts/"+escape(id), update)
}

// AddBalance tops up the wallet of an account.
func (c *Client) AddBalance(ctx context.Context, id models.ID, amount float64) (*models.ProfileUpdate, error) {
	return c.writeAccount(ctx, http.MethodPut, "/accounts/"+escape(id)+"/add-balance", balanceRequest{amount})
}

func (c *Client) writeAccount(ctx context.Context, method, path string, body any) (*models.ProfileUpdate, error) {
	var profile *models.ProfileUpdate
	if err := c.call(ctx, method, path, body, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ExchangeGoogleCredential sends a Google-signed id token to the backend, which verifies it and answers with
// its own credential.
func (c *Client) ExchangeGoogleCredential(ctx context.Context, idToken string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.call(ctx, http.MethodPost, "/accounts/oauth/google", googleCredential{idToken}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleRedirectURL is the backend endpoint that starts the server-side Google flow. After sign-in the
// backend redirects to redirectURI with either ?token= or ?error=.
func (c *Client) GoogleRedirectURL(redirectURI string) string {
	return c.baseURL + "/accounts/oauth/google?" + url.Values{"redirect_uri": {redirectURI}}.Encode()
}
