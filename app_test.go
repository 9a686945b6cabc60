package rivet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivetfw/rivet"
	"github.com/rivetfw/rivet/config"
	"github.com/rivetfw/rivet/internal/testutil"
)

func TestApp_BuildWiresEverything(t *testing.T) {
	app := rivet.NewApp(config.Default().Port(9999)).
		Register(testutil.NewTestDatabase, rivet.AsInjectable()).
		Register(testutil.NewTestRepository, rivet.AsInjectable()).
		Register(testutil.NewTestUserService, rivet.AsInjectable()).
		Register(newUserController, rivet.AsComponent("users"),
			rivet.WithEndpoints(rivet.GET("/users", "Users")))

	router, err := app.Build()
	require.NoError(t, err)

	assert.Same(t, router, app.Router())
	assert.True(t, router.HasRoute("/users", "GET"))
	assert.Equal(t, "localhost:9999", app.Config().Addr())
	assert.NotNil(t, app.Logger())
}

func TestApp_NilConfigUsesDefaults(t *testing.T) {
	app := rivet.NewApp(nil)
	assert.Equal(t, 8080, app.Config().ServerPort)
}

func TestApp_RegistrationErrorSurfacesAtBuild(t *testing.T) {
	app := rivet.NewApp(nil).
		Register(nil, rivet.AsInjectable()).
		Register(testutil.NewTestService, rivet.AsInjectable())

	_, err := app.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, rivet.ErrConstructorNil)
	assert.Nil(t, app.Router())
}

func TestApp_ContainerIsUsable(t *testing.T) {
	app := rivet.NewApp(nil).Register(testutil.NewTestService, rivet.AsInjectable())

	_, err := app.Build()
	require.NoError(t, err)

	svc, err := rivet.Get[*testutil.TestService](app.Container())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
