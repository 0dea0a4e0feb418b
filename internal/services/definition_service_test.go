package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/blockwork/engine/internal/models"
	"github.com/blockwork/engine/internal/testutil"
	appErr "github.com/blockwork/engine/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDefinition_ValuesValidatedByType(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	ws := e.fx.Workspace.ID
	opts := []models.PropertyOption{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}

	sel, err := e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Stage", Type: models.PropertySelect, Options: opts})
	require.NoError(t, err)
	multi, err := e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Labels", Type: models.PropertyMultiSelect, Options: opts})
	require.NoError(t, err)
	date, err := e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Launch", Type: models.PropertyDate})
	require.NoError(t, err)
	person, err := e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Reviewers", Type: models.PropertyPerson})
	require.NoError(t, err)

	stranger := testutil.NewUser(t, e.db, "stranger@example.com")
	cases := []struct {
		name  string
		def   *models.PropertyDefinition
		value string
		ok    bool
	}{
		{"select known", sel, `"a"`, true},
		{"select unknown", sel, `"z"`, false},
		{"select wrong shape", sel, `["a"]`, false},
		{"multi known", multi, `["a","b","a"]`, true},
		{"multi unknown", multi, `["a","z"]`, false},
		{"date only", date, `"2026-04-01"`, true},
		{"date rfc3339", date, `"2026-04-01T10:00:00Z"`, true},
		{"date garbage", date, `"next week"`, false},
		{"person member", person, fmt.Sprintf(`[%q]`, e.fx.Owner.ID), true},
		{"person stranger", person, fmt.Sprintf(`[%q]`, stranger.ID), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.defs.SetValue(e.ctx, uid, e.taskRef(), tc.def.ID, json.RawMessage(tc.value))
			if tc.ok {
				require.NoError(t, err)
				return
			}
			requireAppErr(t, err, appErr.CodeInvalid, "")
		})
	}

	values, err := e.defs.ListValues(e.ctx, uid, e.taskRef())
	require.NoError(t, err)
	require.Len(t, values, 4)
	for _, v := range values {
		if v.PropertyDefinitionID == multi.ID {
			require.JSONEq(t, `["a","b"]`, string(v.Value))
		}
	}
}

func TestDefinition_UpsertAndClear(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	def, err := e.defs.CreateDefinition(e.ctx, e.fx.Workspace.ID, uid, &DefinitionInput{
		Name: "Stage", Type: models.PropertySelect, Options: []models.PropertyOption{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
	})
	require.NoError(t, err)

	_, err = e.defs.SetValue(e.ctx, uid, e.taskRef(), def.ID, json.RawMessage(`"a"`))
	require.NoError(t, err)
	v, err := e.defs.SetValue(e.ctx, uid, e.taskRef(), def.ID, json.RawMessage(`"b"`))
	require.NoError(t, err)
	require.JSONEq(t, `"b"`, string(v.Value))

	values, err := e.defs.ListValues(e.ctx, uid, e.taskRef())
	require.NoError(t, err)
	require.Len(t, values, 1)

	require.NoError(t, e.defs.ClearValue(e.ctx, uid, e.taskRef(), def.ID))
	err = e.defs.ClearValue(e.ctx, uid, e.taskRef(), def.ID)
	requireAppErr(t, err, appErr.CodeNotFound, "")
}

func TestDefinition_CreateRules(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	ws := e.fx.Workspace.ID

	_, err := e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Stage", Type: models.PropertySelect})
	requireAppErr(t, err, appErr.CodeInvalid, "")
	_, err = e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Stage", Type: "rating"})
	requireAppErr(t, err, appErr.CodeInvalid, "")

	_, err = e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Due", Type: models.PropertyDate})
	require.NoError(t, err)
	_, err = e.defs.CreateDefinition(e.ctx, ws, uid, &DefinitionInput{Name: "Due", Type: models.PropertyDate})
	requireAppErr(t, err, appErr.CodeConflict, "")
}

func TestDeleteDefinition_CascadesValuesAndDisplay(t *testing.T) {
	e := newTestEnv(t)
	uid := e.fx.Owner.ID
	target := e.newRow(t)
	def, err := e.defs.CreateDefinition(e.ctx, e.fx.Workspace.ID, uid, &DefinitionInput{Name: "Launch", Type: models.PropertyDate})
	require.NoError(t, err)
	_, err = e.defs.SetValue(e.ctx, uid, e.taskRef(), def.ID, json.RawMessage(`"2026-04-01"`))
	require.NoError(t, err)
	_, err = e.links.CreateLink(e.ctx, uid, e.taskRef(), target)
	require.NoError(t, err)
	_, err = e.props.SetInheritedVisibility(e.ctx, uid, &VisibilityInput{Target: target, Source: e.taskRef(), PropertyKey: def.ID.String()})
	require.NoError(t, err)

	require.NoError(t, e.defs.DeleteDefinition(e.ctx, def.ID, uid))

	var values, display int64
	require.NoError(t, e.db.Model(&models.EntityPropertyValue{}).Count(&values).Error)
	require.NoError(t, e.db.Model(&models.InheritedDisplay{}).Where("property_key = ?", def.ID.String()).Count(&display).Error)
	require.Zero(t, values)
	require.Zero(t, display)

	defs, err := e.defs.ListDefinitions(e.ctx, e.fx.Workspace.ID, uid)
	require.NoError(t, err)
	require.Empty(t, defs)
}
