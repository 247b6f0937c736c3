package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Identity is the cached profile of the signed-in user. Different flows supply different subsets of fields;
// [Identity.Merge] combines them.
type Identity struct {
	ID        ID      `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	IsAdmin   bool    `json:"isAdmin"`
	Balance   float64 `json:"balance"`
}

// Name returns the display name, falling back to the email address.
func (i *Identity) Name() string {
	if i == nil {
		return ""
	}
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

// Clone returns a copy that can be handed out without sharing state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ProfileUpdate is a partial identity. Account writes answer with anything from the full record to just the
// changed fields, so empty strings and nil pointers leave the cached value alone.
type ProfileUpdate struct {
	ID        ID       `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	IsAdmin   *bool    `json:"isAdmin"`
	Balance   *float64 `json:"balance"`
}

// Profile returns i as a complete update whose admin flag and balance apply even when zero. Use it for the
// authoritative profile.
func (i *Identity) Profile() ProfileUpdate {
	if i == nil {
		return ProfileUpdate{}
	}
	isAdmin, balance := i.IsAdmin, i.Balance
	return ProfileUpdate{
		ID:        i.ID,
		Email:     i.Email,
		FirstName: i.FirstName,
		LastName:  i.LastName,
		IsAdmin:   &isAdmin,
		Balance:   &balance,
	}
}

// Merge returns a copy of i with the fields present in update applied on top.
func (i *Identity) Merge(update ProfileUpdate) *Identity {
	merged := i.Clone()
	if merged == nil {
		merged = &Identity{}
	}

	if update.ID != "" {
		merged.ID = update.ID
	}
	if update.Email != "" {
		merged.Email = normalizeEmail(update.Email)
	}
	if update.FirstName != "" {
		merged.FirstName = update.FirstName
	}
	if update.LastName != "" {
		merged.LastName = update.LastName
	}
	if update.IsAdmin != nil {
		merged.IsAdmin = *update.IsAdmin
	}
	if update.Balance != nil {
		merged.Balance = *update.Balance
	}
	return merged
}

// Validate checks that the identity carries enough data to be cached.
func (i *Identity) Validate() error {
	if i == nil {
		return fmt.Errorf("identity is nil")
	}
	if i.ID == "" && i.Email == "" {
		return fmt.Errorf("identity requires an id or email")
	}
	return nil
}

// persistedIdentity is the on-disk shape. is_admin is the legacy casing written by older clients.
type persistedIdentity struct {
	Identity
	LegacyIsAdmin *bool `json:"is_admin,omitempty"`
}

// DecodeIdentity parses a persisted identity record. legacy reports whether the record used the old is_admin
// casing, in which case callers should rewrite it with [EncodeIdentity].
func DecodeIdentity(data string) (identity *Identity, legacy bool, err error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, false, fmt.Errorf("failed to parse identity: %w", err)
	}
	if raw == nil {
		return nil, false, fmt.Errorf("identity record is null")
	}

	var p persistedIdentity
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, false, fmt.Errorf("failed to parse identity: %w", err)
	}

	id := p.Identity
	if _, canonical := raw["isAdmin"]; !canonical && p.LegacyIsAdmin != nil {
		id.IsAdmin = *p.LegacyIsAdmin
		legacy = true
	}

	if err := id.Validate(); err != nil {
		return nil, false, err
	}
	return &id, legacy, nil
}

// EncodeIdentity serializes an identity in the canonical persisted form.
func EncodeIdentity(identity *Identity) (string, error) {
	if err := identity.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("failed to encode identity: %w", err)
	}
	return string(data), nil
}
