// Copyright (c) 2025 Tripdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ID
	}{
		{name: "number", input: `{"id":42}`, want: "42"},
		{name: "string", input: `{"id":"a-1"}`, want: "a-1"},
		{name: "null", input: `{"id":null}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				ID ID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.want, v.ID)
		})
	}
}

func TestIDMarshal(t *testing.T) {
	b, err := json.Marshal(NewBooking{ServiceID: "7", NumberOfPeople: 2, TotalAmount: 50})
	require.NoError(t, err)
	assert.JSONEq(t, `{"serviceId":7,"numberOfPeople":2,"totalAmount":50}`, string(b))

	b, err = json.Marshal(UserProfile{ID: "u-1", Role: RoleAgency})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u-1","username":"","email":"","role":"agency"}`, string(b))
}

func TestBookingStatusActive(t *testing.T) {
	assert.True(t, BookingPending.Active())
	assert.True(t, BookingConfirmed.Active())
	assert.False(t, BookingCancelled.Active())
	assert.False(t, BookingCompleted.Active())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleCustomer.Valid())
	assert.True(t, RoleAgency.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestTimeLayouts(t *testing.T) {
	for _, in := range []string{`"2025-03-01T10:30:00Z"`, `"2025-03-01T10:30:00"`, `"2025-03-01T10:30:00.1234567"`, `"2025-03-01 10:30:00"`} {
		var ts Time
		require.NoError(t, json.Unmarshal([]byte(in), &ts), in)
		assert.Equal(t, 2025, ts.Year())
		assert.Equal(t, 10, ts.Hour())
	}

	var d Time
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01"`), &d))
	assert.Equal(t, 1, d.Day())

	var z Time
	require.NoError(t, json.Unmarshal([]byte(`null`), &z))
	assert.True(t, z.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &z))
	assert.True(t, z.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &z))
}
