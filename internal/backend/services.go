// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
	"net/url"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/model"
)

// ServiceInput is the payload for creating or updating a service offer.
type ServiceInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Location    string   `json:"location,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	CategoryID  model.ID `json:"categoryId,omitempty"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// seg escapes an id for use as a path segment. Empty ids are rejected up front
// so that "/services/" is never requested by accident.
func seg(id model.ID) (string, error) {
	if id == "" {
		return "", apperr.New(apperr.KindValidation, "missing id")
	}
	return url.PathEscape(string(id)), nil
}

// FetchServices calls GET /services with the filters in q.
func (c *Client) FetchServices(ctx context.Context, q ServiceQuery) (*model.ServicePage, error) {
	data, err := c.send(ctx, http.MethodGet, "/services", q.Values(), nil)
	if err != nil {
		return nil, err
	}
	var page model.ServicePage
	if err := decodeServicePage(data, &page); err != nil {
		return nil, err
	}
	if page.Page == 0 {
		page.Page = q.Page
	}
	if page.PageSize == 0 {
		page.PageSize = q.PageSize
	}
	return &page, nil
}

// decodeServicePage accepts both {"services": [...], "total": n} and a bare array.
func decodeServicePage(data []byte, page *model.ServicePage) error {
	norm, err := normalizeKeys(data)
	if err != nil {
		return apperr.Wrap(apperr.KindAPI, "malformed response", err)
	}
	if len(norm) > 0 && norm[0] == '[' {
		if err := decode(norm, &page.Services); err != nil {
			return err
		}
		page.Total = len(page.Services)
		return nil
	}
	if err := decode(norm, page); err != nil {
		return err
	}
	if page.Total == 0 {
		page.Total = len(page.Services)
	}
	return nil
}

// GetService calls GET /services/{id}.
func (c *Client) GetService(ctx context.Context, id model.ID) (*model.Service, error) {
	s, err := seg(id)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodGet, "/services/"+s, nil, nil)
	if err != nil {
		return nil, err
	}
	var out model.Service
	if err := decodeEnvelope(data, "service", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateService calls POST /services.
func (c *Client) CreateService(ctx context.Context, in ServiceInput) (*model.Service, error) {
	if err := requireFields("title", in.Title); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPost, "/services", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Service
	if err := decodeEnvelope(data, "service", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateService calls PUT /services/{id}.
func (c *Client) UpdateService(ctx context.Context, id model.ID, in ServiceInput) (*model.Service, error) {
	s, err := seg(id)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPut, "/services/"+s, nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Service
	if err := decodeEnvelope(data, "service", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteService calls DELETE /services/{id}.
func (c *Client) DeleteService(ctx context.Context, id model.ID) error {
	s, err := seg(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/services/"+s, nil, nil, nil)
}

// MyServices calls GET /services/my, the signed-in agency's own offers.
func (c *Client) MyServices(ctx context.Context) ([]model.Service, error) {
	data, err := c.send(ctx, http.MethodGet, "/services/my", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Service
	if err := decodeEnvelope(data, "services", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Categories calls GET /services/categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	data, err := c.send(ctx, http.MethodGet, "/services/categories", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Category
	if err := decodeEnvelope(data, "categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory calls POST /services/categories.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if err := requireFields("name", in.Name); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPost, "/services/categories", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Category
	if err := decodeEnvelope(data, "category", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory calls PUT /services/categories/{id}.
func (c *Client) UpdateCategory(ctx context.Context, id model.ID, in CategoryInput) (*model.Category, error) {
	s, err := seg(id)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPut, "/services/categories/"+s, nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Category
	if err := decodeEnvelope(data, "category", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory calls DELETE /services/categories/{id}.
func (c *Client) DeleteCategory(ctx context.Context, id model.ID) error {
	s, err := seg(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/services/categories/"+s, nil, nil, nil)
}
