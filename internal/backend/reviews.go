// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/model"
)

// ReviewInput is the payload for adding or editing a review.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (in ReviewInput) validate() error {
	if in.Rating < 1 || in.Rating > 5 {
		return apperr.New(apperr.KindValidation, "rating must be between 1 and 5")
	}
	return nil
}

// Reviews calls GET /services/{id}/reviews.
func (c *Client) Reviews(ctx context.Context, serviceID model.ID) ([]model.Review, error) {
	s, err := seg(serviceID)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodGet, "/services/"+s+"/reviews", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Review
	if err := decodeEnvelope(data, "reviews", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddReview calls POST /services/{id}/reviews.
func (c *Client) AddReview(ctx context.Context, serviceID model.ID, in ReviewInput) (*model.Review, error) {
	s, err := seg(serviceID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPost, "/services/"+s+"/reviews", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Review
	if err := decodeEnvelope(data, "review", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReview calls PUT /services/{id}/reviews/{reviewId}.
func (c *Client) UpdateReview(ctx context.Context, serviceID, reviewID model.ID, in ReviewInput) (*model.Review, error) {
	path, err := reviewPath(serviceID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Review
	if err := decodeEnvelope(data, "review", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReview calls DELETE /services/{id}/reviews/{reviewId}.
func (c *Client) DeleteReview(ctx context.Context, serviceID, reviewID model.ID) error {
	path, err := reviewPath(serviceID, reviewID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func reviewPath(serviceID, reviewID model.ID) (string, error) {
	s, err := seg(serviceID)
	if err != nil {
		return "", err
	}
	r, err := seg(reviewID)
	if err != nil {
		return "", err
	}
	return "/services/" + s + "/reviews/" + r, nil
}
