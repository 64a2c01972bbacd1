package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers/testutil"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

func TestCreateExpenseDefaultsPayerToRequester(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")

	w := env.Request(http.MethodPost, "/api/expenses", map[string]any{
		"title":    "Shinkansen tickets",
		"amount":   26160.0,
		"currency": "JPY",
		"category": "transport",
		"date":     "2026-04-03",
	}, login.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var created models.Expense
	testutil.DecodeInto(t, resp.Data, &created)
	require.Equal(t, login.User.ID, created.PaidBy)
	require.Equal(t, "JPY", created.Currency)
	require.InDelta(t, 26160.0, created.Amount, 0.01)
}

func TestCreateExpenseWithSplit(t *testing.T) {
	env := testutil.NewEnv(t)
	mika := env.CreateTraveler("Mika", "4321", false)
	login := env.Login("Admin", "")

	w := env.Request(http.MethodPost, "/api/expenses", map[string]any{
		"title":  "Izakaya dinner",
		"amount": 8400.0,
		"date":   "2026-04-04",
		"split": map[string]float64{
			login.User.ID: 4200,
			mika.ID:       4200,
		},
	}, login.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var created models.Expense
	testutil.DecodeInto(t, resp.Data, &created)

	var split map[string]float64
	require.NoError(t, json.Unmarshal(created.Split, &split))
	require.Len(t, split, 2)
	require.InDelta(t, 4200, split[mika.ID], 0.01)
}

func TestExpensePatchAdjustsAmount(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")
	token := login.Tokens.AccessToken

	w := env.Request(http.MethodPost, "/api/expenses", map[string]any{
		"title":  "Museum tickets",
		"amount": 1200.0,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := testutil.DecodeResponse(t, w)
	var created models.Expense
	testutil.DecodeInto(t, resp.Data, &created)

	w = env.Request(http.MethodPatch, "/api/expenses/"+created.ID, map[string]any{
		"amount": 1800.0,
		"notes":  "two adults, one child",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp = testutil.DecodeResponse(t, w)
	var updated models.Expense
	testutil.DecodeInto(t, resp.Data, &updated)
	require.InDelta(t, 1800.0, updated.Amount, 0.01)
	require.Equal(t, created.Title, updated.Title)
}

func TestExpenseValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")
	token := login.Tokens.AccessToken

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing amount", map[string]any{"title": "Lunch"}},
		{"zero amount", map[string]any{"title": "Lunch", "amount": 0.0}},
		{"bad currency", map[string]any{"title": "Lunch", "amount": 900.0, "currency": "YENS"}},
		{"bad date", map[string]any{"title": "Lunch", "amount": 900.0, "date": "April 4th"}},
		{"bad payer id", map[string]any{"title": "Lunch", "amount": 900.0, "paid_by": "not-a-uuid"}},
	}

	for _, tc := range cases {
		w := env.Request(http.MethodPost, "/api/expenses", tc.body, token)
		require.Equal(t, http.StatusBadRequest, w.Code, tc.name)
	}
}
