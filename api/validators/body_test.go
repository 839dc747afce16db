package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfjournal/wfj-backend/internal/meals"
	pkgerrors "github.com/wfjournal/wfj-backend/pkg/errors"
)

func TestDecodeJSONBodyAccepted(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ramen","cntryCd":"JP","rating":4}`))

	var req meals.CreateMealRequest
	require.NoError(t, DecodeJSONBody(r, &req))
	assert.Equal(t, "Ramen", req.Name)
	assert.Equal(t, "JP", req.CntryCd)
	require.NotNil(t, req.Rating)
	assert.Equal(t, 4, *req.Rating)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ramen","cntryCd":"JP","rating":4,"userId":"abc"}`))

	var req meals.CreateMealRequest
	err := DecodeJSONBody(r, &req)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	cases := map[string][]string{
		`{"cntryCd":"JP","rating":4}`:                      {"name", "required"},
		`{"name":"Ramen","rating":4}`:                      {"cntryCd", "required"},
		`{"name":"Ramen","cntryCd":"TOOLONG","rating":4}`:  {"cntryCd", "5"},
		`{"name":"Ramen","cntryCd":"JP","rating":6}`:       {"rating", "5"},
		`{"name":"Ramen","cntryCd":"JP","rating":-1}`:      {"rating", "0"},
		`{"name":"Ramen","cntryCd":"JP","rating":4,"link":"nope"}`: {"link", "URL"},
	}
	for body, wants := range cases {
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var req meals.CreateMealRequest
		err := DecodeJSONBody(r, &req)
		require.Error(t, err, body)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		for _, want := range wants {
			assert.Contains(t, typed.Message(), want, body)
		}
	}
}

func TestDecodeJSONBodyMalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

	var req meals.CreateMealRequest
	err := DecodeJSONBody(r, &req)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
