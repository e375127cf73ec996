package types_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicepro/internal/domain/types"
)

func TestProfileComplete(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{}`, false},
		{`{"profile":null}`, false},
		{`{"profile":false}`, false},
		{`{"profile":0}`, false},
		{`{"profile":""}`, false},
		{`{"profile":true}`, true},
		{`{"profile":1}`, true},
		{`{"profile":"yes"}`, true},
		{`{"profile":{}}`, true},
		{`{"dob":"1990-01-01"}`, true},
		{`{"profile":false,"dob":"1990-01-01"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var u types.UserRecord
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &u))
			assert.Equal(t, tt.want, u.ProfileComplete())
		})
	}

	var nilUser *types.UserRecord
	assert.False(t, nilUser.ProfileComplete())
}

func TestUserRecord_WireNames(t *testing.T) {
	raw := `{"_id":"u1","kyc":{"status":"approved"},"trainingScheduleSubmit":{"trainingScheduleStatus":"Confirm","trainingDate":"2026-11-01"}}`
	var u types.UserRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, types.KYCApproved, u.KYC.Status)
	assert.Equal(t, types.TrainingConfirm, u.TrainingScheduleSubmit.Status)
	assert.Equal(t, "2026-11-01", u.TrainingScheduleSubmit.Date)
}

func TestPayload(t *testing.T) {
	p := types.Payload(`{"success":true,"message":"ok","data":{"token":"t","user":{"_id":"u1"}}}`)
	assert.True(t, p.Success())
	assert.Equal(t, "ok", p.Message())
	assert.Equal(t, "t", p.Get("data.token").String())

	var u types.UserRecord
	require.NoError(t, p.Decode("data.user", &u))
	assert.Equal(t, "u1", u.ID)

	var whole map[string]any
	require.NoError(t, p.Decode("", &whole))
	assert.Contains(t, whole, "data")

	assert.Error(t, p.Decode("data.missing", &u))

	var empty types.Payload
	assert.False(t, empty.Success())
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestSession_HasToken(t *testing.T) {
	assert.False(t, types.Session{}.HasToken())
	assert.True(t, types.Session{Token: "t"}.HasToken())
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "success", types.OutcomeSuccess.String())
	assert.Equal(t, "auth_expired", types.OutcomeAuthExpired.String())
	assert.Equal(t, "unclassified", types.OutcomeKind(99).String())
}
