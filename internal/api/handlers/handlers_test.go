package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	Count     int    `json:"count" validate:"gte=0"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"date":"2026-03-02","startTime":"09:30"}`},
		{name: "bad time", body: `{"date":"2026-03-02","startTime":"9:30"}`, wantErr: true},
		{name: "bad date", body: `{"date":"02.03.2026","startTime":"09:30"}`, wantErr: true},
		{name: "unknown field", body: `{"date":"2026-03-02","startTime":"09:30","extra":1}`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "negative", body: `{"date":"2026-03-02","startTime":"09:30","count":-1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req sampleRequest

			err := DecodeJSON(r, &req)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "09:30", req.StartTime)
		})
	}
}

func TestDecodeJSON_ValidationErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"x","startTime":"25:00"}`))

	err := DecodeJSON(r, &sampleRequest{})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
}

func TestPathInt64(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = mux.SetURLVars(r, map[string]string{"id": "42", "bad": "-1"})

	id, err := PathInt64(r, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = PathInt64(r, "bad")
	assert.ErrorIs(t, err, ErrInvalidPathParam)

	_, err = PathInt64(r, "missing")
	assert.ErrorIs(t, err, ErrInvalidPathParam)
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?from=2026-03-02&serviceId=5&all=true&status=pending", nil)

	from, err := QueryDate(r, "from")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", from.Format("2006-01-02"))

	to, err := QueryDate(r, "to")
	require.NoError(t, err)
	assert.Nil(t, to)

	serviceID, err := QueryInt64(r, "serviceId")
	require.NoError(t, err)
	assert.Equal(t, int64(5), *serviceID)

	all, err := QueryBool(r, "all")
	require.NoError(t, err)
	assert.True(t, all)

	assert.Equal(t, "pending", *QueryString(r, "status"))
	assert.Nil(t, QueryString(r, "missing"))
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()

	RespondRejection(w, http.StatusConflict, "conflict", "время уже занято")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 409, body.Code)
	assert.Equal(t, "conflict", body.Reason)
}
