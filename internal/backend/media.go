// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	apperr "tripdesk/cli/internal/errors"
	"tripdesk/cli/internal/model"
)

// MediaInput describes media that is already hosted somewhere and only needs
// to be linked to a service.
type MediaInput struct {
	URL        string `json:"url"`
	Caption    string `json:"caption,omitempty"`
	MediaType  string `json:"mediaType,omitempty"`
	IsFeatured bool   `json:"isFeatured"`
}

// Upload is a file sent as multipart/form-data.
type Upload struct {
	Filename   string
	Content    io.Reader
	MediaType  string
	Caption    string
	IsFeatured bool
}

// AvailabilityInput is the payload for availability slots.
type AvailabilityInput struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Capacity  int    `json:"capacity"`
}

// AddMedia calls POST /services/{id}/media with a JSON body.
func (c *Client) AddMedia(ctx context.Context, serviceID model.ID, in MediaInput) (*model.Media, error) {
	s, err := seg(serviceID)
	if err != nil {
		return nil, err
	}
	if err := requireFields("url", in.URL); err != nil {
		return nil, err
	}
	return c.postMedia(ctx, "/services/"+s+"/media", in)
}

// UploadMedia calls POST /services/{id}/media with a multipart file upload.
func (c *Client) UploadMedia(ctx context.Context, serviceID model.ID, up Upload) (*model.Media, error) {
	s, err := seg(serviceID)
	if err != nil {
		return nil, err
	}
	if up.Content == nil || up.Filename == "" {
		return nil, apperr.New(apperr.KindValidation, "missing file to upload")
	}
	body, err := encodeUpload(up)
	if err != nil {
		return nil, err
	}
	return c.postMedia(ctx, "/services/"+s+"/media", body)
}

func (c *Client) postMedia(ctx context.Context, path string, body any) (*model.Media, error) {
	data, err := c.send(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	var out model.Media
	if err := decodeEnvelope(data, "media", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func encodeUpload(up Upload) (*rawBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", up.Filename)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "prepare upload", err)
	}
	if _, err := io.Copy(fw, up.Content); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "read upload", err)
	}
	mediaType := up.MediaType
	if mediaType == "" {
		mediaType = "image"
	}
	caption := up.Caption
	if caption == "" {
		caption = up.Filename
	}
	fields := [][2]string{
		{"mediaType", mediaType},
		{"caption", caption},
		{"isFeatured", strconv.FormatBool(up.IsFeatured)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "prepare upload", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "prepare upload", err)
	}
	return &rawBody{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}

// UpdateMedia calls PUT /services/{id}/media/{mediaId}.
func (c *Client) UpdateMedia(ctx context.Context, serviceID, mediaID model.ID, in MediaInput) (*model.Media, error) {
	path, err := mediaPath(serviceID, mediaID)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Media
	if err := decodeEnvelope(data, "media", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMedia calls DELETE /services/{id}/media/{mediaId}.
func (c *Client) DeleteMedia(ctx context.Context, serviceID, mediaID model.ID) error {
	path, err := mediaPath(serviceID, mediaID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// FeatureMedia calls POST /services/{id}/media/{mediaId}/feature.
func (c *Client) FeatureMedia(ctx context.Context, serviceID, mediaID model.ID) error {
	path, err := mediaPath(serviceID, mediaID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path+"/feature", nil, nil, nil)
}

func mediaPath(serviceID, mediaID model.ID) (string, error) {
	s, err := seg(serviceID)
	if err != nil {
		return "", err
	}
	m, err := seg(mediaID)
	if err != nil {
		return "", err
	}
	return "/services/" + s + "/media/" + m, nil
}

// Availability calls GET /services/{id}/availability.
func (c *Client) Availability(ctx context.Context, serviceID model.ID) ([]model.Availability, error) {
	s, err := seg(serviceID)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodGet, "/services/"+s+"/availability", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Availability
	if err := decodeEnvelope(data, "availability", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAvailability calls POST /services/{id}/availability.
func (c *Client) CreateAvailability(ctx context.Context, serviceID model.ID, in AvailabilityInput) (*model.Availability, error) {
	s, err := seg(serviceID)
	if err != nil {
		return nil, err
	}
	if err := requireFields("startDate", in.StartDate, "endDate", in.EndDate); err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPost, "/services/"+s+"/availability", nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Availability
	if err := decodeEnvelope(data, "availability", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAvailability calls PUT /services/{id}/availability/{availabilityId}.
func (c *Client) UpdateAvailability(ctx context.Context, serviceID, availabilityID model.ID, in AvailabilityInput) (*model.Availability, error) {
	path, err := availabilityPath(serviceID, availabilityID)
	if err != nil {
		return nil, err
	}
	data, err := c.send(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return nil, err
	}
	var out model.Availability
	if err := decodeEnvelope(data, "availability", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAvailability calls DELETE /services/{id}/availability/{availabilityId}.
func (c *Client) DeleteAvailability(ctx context.Context, serviceID, availabilityID model.ID) error {
	path, err := availabilityPath(serviceID, availabilityID)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func availabilityPath(serviceID, availabilityID model.ID) (string, error) {
	s, err := seg(serviceID)
	if err != nil {
		return "", err
	}
	a, err := seg(availabilityID)
	if err != nil {
		return "", err
	}
	return "/services/" + s + "/availability/" + a, nil
}
