package serverest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/identity"
	"github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/scenario"
	api "github.com/maxiaolu1981/cretem/serverest-e2e/internal/pkg/serverest"
)

func TestLiveSuite(t *testing.T) {
	env := newEnv(t)
	suite := scenario.NewSuite(env)
	rec, err := scenario.NewRecorder(outputDir, suite.Name())
	require.NoError(t, err)
	defer func() { require.NoError(t, rec.Flush()) }()

	results, err := suite.Run(context.Background(), rec)
	require.NoError(t, err)
	for _, r := range results {
		assert.Truef(t, r.Success, "%s: %s", r.Name, r.Error)
	}
}

func TestLiveProductRoundTripLeavesNothingBehind(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	report, err := env.Workflow.ProductRoundTrip(ctx, map[string]interface{}{"quantidade": 2})
	require.NoError(t, err)
	assert.False(t, report.Residue)

	listed, err := env.Identity.Listed(ctx, identity.Products, report.OriginalName, report.ID)
	require.NoError(t, err)
	assert.False(t, listed)

	got, err := env.Client.GetProduct(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
	assert.Equal(t, api.MsgProductNotFound, got.Message)
}

func TestLiveUserLifecycle(t *testing.T) {
	env := newEnv(t)
	report, err := env.Workflow.UserLifecycle(context.Background(), nil, true)
	require.NoError(t, err)
	assert.NotEmpty(t, report.UpdatedName)
	assert.False(t, report.Residue)
}
