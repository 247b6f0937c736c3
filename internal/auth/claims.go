package auth

import (
	"fmt"

	"github.com/desertthunder/boxoffice/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the payload the backend puts in its credential. Field names vary between backend versions
// and the Google profile claims, so several spellings are accepted.
type tokenClaims struct {
	jwt.RegisteredClaims
	AccountID     models.ID `json:"id"`
	UserID        models.ID `json:"userId"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	GivenName     string    `json:"given_name"`
	LastName      string    `json:"lastName"`
	FamilyName    string    `json:"family_name"`
	IsAdmin       *bool     `json:"isAdmin"`
	LegacyIsAdmin *bool     `json:"is_admin"`
	Balance       float64   `json:"balance"`
}

// DecodeClaims reads the identity carried in a credential's payload. The signature is NOT verified: the
// result is only good for display until the backend confirms it.
func DecodeClaims(credential string) (*models.Identity, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(credential, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}

	identity := &models.Identity{
		ID:        firstID(claims.AccountID, claims.UserID, models.ID(claims.Subject)),
		Email:     claims.Email,
		FirstName: firstString(claims.FirstName, claims.GivenName),
		LastName:  firstString(claims.LastName, claims.FamilyName),
		Balance:   claims.Balance,
	}
	switch {
	case claims.IsAdmin != nil:
		identity.IsAdmin = *claims.IsAdmin
	case claims.LegacyIsAdmin != nil:
		identity.IsAdmin = *claims.LegacyIsAdmin
	}

	if err := identity.Validate(); err != nil {
		return nil, fmt.Errorf("credential carries no identity: %w", err)
	}
	return identity, nil
}

func firstID(ids ...models.ID) models.ID {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
