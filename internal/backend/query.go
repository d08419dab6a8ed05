// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"math"
	"net/url"
	"strconv"

	"tripdesk/cli/internal/model"
)

// ServiceQuery holds the explorer filters for GET /services. Only fields with a
// meaningful value are sent: zero numbers, NaN and empty strings are dropped.
type ServiceQuery struct {
	MinPrice   float64
	MaxPrice   float64
	Location   string
	Duration   string
	AgencyID   model.ID
	CategoryID model.ID
	MinRating  float64
	SortBy     string
	SortDir    string
	Page       int
	PageSize   int
}

// Values encodes the set fields as query parameters.
func (q ServiceQuery) Values() url.Values {
	v := url.Values{}
	addFloat(v, "minPrice", q.MinPrice)
	addFloat(v, "maxPrice", q.MaxPrice)
	addString(v, "location", q.Location)
	addString(v, "duration", q.Duration)
	addString(v, "agencyId", string(q.AgencyID))
	addString(v, "categoryId", string(q.CategoryID))
	addFloat(v, "minRating", q.MinRating)
	addString(v, "sortBy", q.SortBy)
	addString(v, "sortDir", q.SortDir)
	addInt(v, "page", q.Page)
	addInt(v, "pageSize", q.PageSize)
	return v
}

func addString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func addFloat(v url.Values, key string, f float64) {
	if f != 0 && !math.IsNaN(f) {
		v.Set(key, strconv.FormatFloat(f, 'f', -1, 64))
	}
}

func addInt(v url.Values, key string, n int) {
	if n != 0 {
		v.Set(key, strconv.Itoa(n))
	}
}
