// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		msg     string
		want    Kind
		wantMsg string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: KindUnauthenticated, wantMsg: "Unauthorized"},
		{name: "forbidden", status: http.StatusForbidden, msg: "no access", want: KindUnauthenticated, wantMsg: "no access"},
		{name: "not found", status: http.StatusNotFound, want: KindAPI, wantMsg: "Not Found"},
		{name: "server error", status: http.StatusInternalServerError, msg: "boom", want: KindAPI, wantMsg: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := HTTP(tt.status, tt.msg)
			assert.Equal(t, tt.want, e.Kind)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.wantMsg, e.Message)
		})
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	inner := HTTP(http.StatusConflict, "already booked")
	err := fmt.Errorf("create booking: %w", inner)

	assert.Equal(t, KindAPI, KindOf(err))
	assert.Equal(t, http.StatusConflict, StatusOf(err))
	assert.True(t, Is(err, KindAPI))
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
	assert.Equal(t, 0, StatusOf(nil))
}

func TestErrorString(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	e := Wrap(KindTransport, "request failed", cause)

	assert.Equal(t, "transport: request failed: dial tcp: refused", e.Error())
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "api 404: missing", HTTP(http.StatusNotFound, "missing").Error())
}
