package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers/testutil"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

func createChecklistItem(t *testing.T, env *testutil.Env, token, label string) models.ChecklistState {
	t.Helper()

	w := env.Request(http.MethodPost, "/api/checklist", map[string]any{
		"label": label,
		"group": "packing",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var item models.ChecklistState
	testutil.DecodeInto(t, resp.Data, &item)
	require.NotEmpty(t, item.ID)
	return item
}

func TestChecklistCheckStampsActor(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")
	token := login.Tokens.AccessToken

	item := createChecklistItem(t, env, token, "JR pass vouchers")

	w := env.Request(http.MethodPost, "/api/checklist/"+item.ID+"/check", map[string]any{
		"checked": true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var checked models.ChecklistState
	testutil.DecodeInto(t, resp.Data, &checked)
	require.True(t, checked.Checked)
	require.Equal(t, login.User.ID, checked.CheckedBy)
	require.NotNil(t, checked.CheckedAt)
}

func TestChecklistUncheckClearsActor(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")
	token := login.Tokens.AccessToken

	item := createChecklistItem(t, env, token, "Travel insurance")

	w := env.Request(http.MethodPost, "/api/checklist/"+item.ID+"/check", map[string]any{
		"checked": true,
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodPost, "/api/checklist/"+item.ID+"/check", map[string]any{
		"checked": false,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var unchecked models.ChecklistState
	testutil.DecodeInto(t, resp.Data, &unchecked)
	require.False(t, unchecked.Checked)
	require.Empty(t, unchecked.CheckedBy)
	require.Nil(t, unchecked.CheckedAt)
}

func TestChecklistCheckUnknownID(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")

	w := env.Request(http.MethodPost, "/api/checklist/missing/check", map[string]any{
		"checked": true,
	}, login.Tokens.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChecklistUpdateRelabelsItem(t *testing.T) {
	env := testutil.NewEnv(t)
	login := env.Login("Admin", "")
	token := login.Tokens.AccessToken

	item := createChecklistItem(t, env, token, "Adaptor plugs")

	w := env.Request(http.MethodPatch, "/api/checklist/"+item.ID, map[string]any{
		"label": "Type-A adaptor plugs",
		"group": "electronics",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var updated models.ChecklistState
	testutil.DecodeInto(t, resp.Data, &updated)
	require.Equal(t, "Type-A adaptor plugs", updated.Label)
	require.Equal(t, "electronics", updated.Group)
}
