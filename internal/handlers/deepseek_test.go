package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hootool/internal/services"

	"github.com/stretchr/testify/assert"
)

type fakeCompletion struct {
	body   json.RawMessage
	err    error
	called bool
}

func (f *fakeCompletion) TestCompletion(context.Context) (json.RawMessage, error) {
	f.called = true
	return f.body, f.err
}

func TestDeepSeekHandler(t *testing.T) {
	cases := []struct {
		name     string
		fake     *fakeCompletion
		demo     bool
		code     int
		contains string
		called   bool
	}{
		{"ok", &fakeCompletion{body: json.RawMessage(`{"id":"x"}`)}, false, http.StatusOK, `"id":"x"`, true},
		{"no key", &fakeCompletion{err: services.ErrDeepSeekNotConfigured}, false, http.StatusInternalServerError, "未配置", true},
		{"upstream", &fakeCompletion{err: &services.UpstreamError{Status: 401, Body: `{"error":"bad key"}`}}, false, http.StatusInternalServerError, "bad key", true},
		{"network", &fakeCompletion{err: errors.New("dial tcp: timeout")}, false, http.StatusInternalServerError, "调用失败", true},
		{"demo", &fakeCompletion{}, true, http.StatusOK, "demo", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDeepSeekHandler(tc.fake, tc.demo)
			rec := httptest.NewRecorder()
			h.Test(rec, httptest.NewRequest(http.MethodPost, "/api/test-deepseek", nil))

			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.contains)
			assert.True(t, json.Valid(rec.Body.Bytes()))
			assert.Equal(t, tc.called, tc.fake.called)
		})
	}
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@x.com", maskEmail("alice@x.com"))
	assert.Equal(t, "***", maskEmail("a@x.com"))
	assert.Equal(t, "***", maskEmail("nope"))
}
