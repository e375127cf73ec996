package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicepro/internal/api"
	"servicepro/internal/domain"
	"servicepro/internal/notify"
)

func newClassifier(t *testing.T) (*api.Classifier, *notify.Recorder, *countingExpirer) {
	t.Helper()
	log, _ := test.NewNullLogger()
	rec := &notify.Recorder{}
	exp := &countingExpirer{}
	c := api.NewClassifier(rec, log)
	c.Bind(exp)
	return c, rec, exp
}

func TestClassify_StatusTable(t *testing.T) {
	showErr := domain.RequestOptions{ShowErrorMessage: true}
	showOK := domain.RequestOptions{ShowSuccessMessage: true}

	tests := []struct {
		name   string
		status int
		body   string
		opts   domain.RequestOptions
		kind   domain.OutcomeKind
		toasts []string
	}{
		{"200 with success toast", 200, `{"success":true,"message":"Saved"}`, showOK, domain.OutcomeSuccess, []string{api.TitleSuccess}},
		{"200 silent by default", 200, `{"success":true,"message":"Saved"}`, domain.RequestOptions{}, domain.OutcomeSuccess, nil},
		{"200 success=false no toast", 200, `{"success":false,"message":"Nope"}`, showOK, domain.OutcomeSuccess, nil},
		{"200 error flag suppresses success toast", 200, `{"success":true,"message":"Saved"}`,
			domain.RequestOptions{ShowErrorMessage: true, ShowSuccessMessage: true}, domain.OutcomeSuccess, nil},
		{"200 without message", 200, `{"success":true}`, showOK, domain.OutcomeSuccess, nil},
		{"201 never toasts", 201, `{"success":true,"message":"Created"}`, showOK, domain.OutcomeSuccess, nil},
		{"400 with message", 400, `{"message":"Phone is invalid"}`, showErr, domain.OutcomeValidationError, []string{api.TitleValidationError}},
		{"400 without message", 400, `{}`, showErr, domain.OutcomeValidationError, nil},
		{"400 silenced", 400, `{"message":"Phone is invalid"}`, domain.RequestOptions{}, domain.OutcomeValidationError, nil},
		{"403", 403, `{}`, showErr, domain.OutcomeForbidden, []string{api.TitleAccessDenied}},
		{"404", 404, `{}`, showErr, domain.OutcomeNotFound, []string{api.TitleNotFound}},
		{"500", 500, `{}`, showErr, domain.OutcomeServerError, []string{api.TitleServerError}},
		{"503", 503, `{"message":"maintenance"}`, showErr, domain.OutcomeServerError, []string{api.TitleServerError}},
		{"500 silenced", 500, `{}`, domain.RequestOptions{}, domain.OutcomeServerError, nil},
		{"409 unclassified", 409, `{"message":"conflict"}`, showErr, domain.OutcomeUnclassified, nil},
		{"204 unclassified", 204, ``, showErr, domain.OutcomeUnclassified, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, exp := newClassifier(t)

			out, err := c.Classify(context.Background(), tt.status, "application/json", []byte(tt.body), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.status, out.Status)
			if tt.toasts == nil {
				assert.Empty(t, rec.Titles())
			} else {
				assert.Equal(t, tt.toasts, rec.Titles())
			}
			assert.Zero(t, exp.n.Load())
		})
	}
}

func TestClassify_PayloadMessageUsedAsDetail(t *testing.T) {
	c, rec, _ := newClassifier(t)

	_, err := c.Classify(context.Background(), 503, "application/json", []byte(`{"message":"maintenance"}`),
		domain.RequestOptions{ShowErrorMessage: true})
	require.NoError(t, err)
	require.Len(t, rec.All(), 1)
	assert.Equal(t, "maintenance", rec.All()[0].Detail)
	assert.Equal(t, domain.NotifyError, rec.All()[0].Type)
}

func TestClassify_401(t *testing.T) {
	t.Run("with toast", func(t *testing.T) {
		c, rec, exp := newClassifier(t)
		out, err := c.Classify(context.Background(), http.StatusUnauthorized, "application/json",
			[]byte(`{"message":"expired"}`), domain.RequestOptions{ShowErrorMessage: true})
		require.ErrorIs(t, err, api.ErrAuthExpired)
		assert.Equal(t, domain.OutcomeAuthExpired, out.Kind)
		assert.Equal(t, int32(1), exp.n.Load())
		assert.Equal(t, []string{api.TitleSessionExpired}, rec.Titles())
	})
	t.Run("silenced still logs out", func(t *testing.T) {
		c, rec, exp := newClassifier(t)
		_, err := c.Classify(context.Background(), http.StatusUnauthorized, "application/json",
			[]byte(`{}`), domain.RequestOptions{})
		require.ErrorIs(t, err, api.ErrAuthExpired)
		assert.Equal(t, int32(1), exp.n.Load())
		assert.Empty(t, rec.Titles())
	})
	t.Run("malformed body still logs out", func(t *testing.T) {
		c, _, exp := newClassifier(t)
		_, err := c.Classify(context.Background(), http.StatusUnauthorized, "text/plain",
			[]byte("Unauthorized"), domain.RequestOptions{ShowErrorMessage: true})
		require.ErrorIs(t, err, api.ErrMalformedPayload)
		assert.Equal(t, int32(1), exp.n.Load())
	})
}

func TestClassify_Malformed(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"html", "text/html; charset=utf-8", "<html></html>"},
		{"invalid json", "application/json", "{not json"},
		{"missing content type", "", `{"success":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec, _ := newClassifier(t)
			_, err := c.Classify(context.Background(), 200, tt.contentType, []byte(tt.body), domain.RequestOptions{ShowSuccessMessage: true})
			require.ErrorIs(t, err, api.ErrMalformedPayload)
			assert.Empty(t, rec.Titles())
		})
	}
}

func TestClassify_JSONSuffixAccepted(t *testing.T) {
	c, _, _ := newClassifier(t)
	out, err := c.Classify(context.Background(), 200, "application/problem+json", []byte(`{"success":true}`), domain.RequestOptions{})
	require.NoError(t, err)
	assert.True(t, out.Payload.Success())
}

func TestClassify_EmptyBodyIsNullPayload(t *testing.T) {
	c, _, _ := newClassifier(t)
	out, err := c.Classify(context.Background(), 200, "", nil, domain.RequestOptions{ShowSuccessMessage: true})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSuccess, out.Kind)
	assert.Nil(t, out.Payload)
}
