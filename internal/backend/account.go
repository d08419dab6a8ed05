// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	"tripdesk/cli/internal/model"
)

// SavedSearchInput names a set of explorer filters.
type SavedSearchInput struct {
	Name    string            `json:"name"`
	Filters map[string]string `json:"filters,omitempty"`
}

// AgencyInput is the payload for registering an agency.
type AgencyInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
}

// RoleSwitch is the server's answer to a role switch. Any field may be empty.
type RoleSwitch struct {
	Role  model.Role         `json:"role"`
	User  *model.UserProfile `json:"user,omitempty"`
	Token string             `json:"token,omitempty"`
}

// NewRole returns the role the account now has, if the server said so.
func (r RoleSwitch) NewRole() (model.Role, bool) {
	if r.Role.Valid() {
		return r.Role, true
	}
	if r.User != nil && r.User.Role.Valid() {
		return r.User.Role, true
	}
	return "", false
}

// SaveSearch calls POST /services/saved-searches.
func (c *Client) SaveSearch(ctx context.Context, in SavedSearchInput) (*model.SavedSearch, error) {
	if err := requireFields("name", in.Name); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPost, "/services/saved-searches", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.SavedSearch
	if err := decodeEnvelope(data, "savedSearch", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavedSearches calls GET /services/saved-searches.
func (c *Client) SavedSearches(ctx context.Context) ([]model.SavedSearch, error) {
	data, err := c.send(ctx, http.MethodGet, "/services/saved-searches", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []model.SavedSearch
	if err := decodeEnvelope(data, "savedSearches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSavedSearch calls DELETE /services/saved-searches/{id}.
func (c *Client) DeleteSavedSearch(ctx context.Context, id model.ID) error {
	s, err := seg(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/services/saved-searches/"+s, nil, nil, nil)
}

// CreateAgency calls POST /services/agencies.
func (c *Client) CreateAgency(ctx context.Context, in AgencyInput) (*model.Agency, error) {
	if err := requireFields("name", in.Name); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPost, "/services/agencies", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Agency
	if err := decodeEnvelope(data, "agency", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgency calls DELETE /services/agencies/{id}.
func (c *Client) DeleteAgency(ctx context.Context, id model.ID) error {
	s, err := seg(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/services/agencies/"+s, nil, nil, nil)
}

// SwitchRole calls POST /services/switch-role, toggling between customer and agency.
func (c *Client) SwitchRole(ctx context.Context) (*RoleSwitch, error) {
	var out RoleSwitch
	if err := c.do(ctx, http.MethodPost, "/services/switch-role", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
