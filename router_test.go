package rivet_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivetfw/rivet"
	"github.com/rivetfw/rivet/internal/testutil"
	"github.com/rivetfw/rivet/reactive"
)

type userPayload struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// userController is the fixture component for router and dispatch tests.
type userController struct {
	svc *testutil.TestUserService
}

func newUserController(svc *testutil.TestUserService) *userController {
	return &userController{svc: svc}
}

func (c *userController) Users() []string { return []string{"ada", "grace"} }

func (c *userController) UserByID(id string) string { return "user-" + id }

func (c *userController) UserPost(id int, postID int) string {
	return fmt.Sprintf("user %d post %d", id, postID)
}

func (c *userController) Score(id int) int { return id * 2 }

func (c *userController) Search(q string) string { return "results for " + q }

func (c *userController) CreateUser(body string) string { return "created " + body }

func (c *userController) CreateTyped(u userPayload) string {
	return fmt.Sprintf("%s/%d", u.Name, u.Age)
}

func (c *userController) Ping() string { return "pong" }

func (c *userController) Info(ctx *rivet.RequestContext) string {
	return ctx.Method + " " + ctx.Path
}

func (c *userController) Fail() (string, error) { return "", testutil.ErrIntentional }

func (c *userController) Async() *reactive.Single { return reactive.Of("async-done") }

func (c *userController) Watch() <-chan string {
	ch := make(chan string, 1)
	ch <- "watch-1"
	close(ch)
	return ch
}

func (c *userController) Ghost(score float64) string {
	return fmt.Sprintf("ghost %.1f", score)
}

func userEndpoints() []rivet.Endpoint {
	return []rivet.Endpoint{
		rivet.GET("/users", "Users"),
		rivet.GET("/users/{id}", "UserByID"),
		rivet.GET("/users/{id}/posts/{postId}", "UserPost"),
		rivet.GET("/users/{id}/score", "Score"),
		rivet.GET("/search", "Search").Query("q"),
		rivet.POST("/users", "CreateUser").Body(),
		rivet.POST("/users/typed", "CreateTyped").Body(),
		rivet.GET("", "Ping"),
		rivet.GET("/info", "Info"),
		rivet.GET("/fail", "Fail"),
		rivet.GET("/async", "Async"),
		rivet.GET("/watch", "Watch"),
		rivet.GET("/ghost", "Ghost"),
	}
}

func newUserContainer(t *testing.T) *rivet.Container {
	t.Helper()
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newUserController,
		rivet.AsComponent("users"),
		rivet.WithProviders(
			testutil.NewTestDatabase,
			testutil.NewTestRepository,
			testutil.NewTestUserService,
		),
		rivet.WithEndpoints(userEndpoints()...)))
	return c
}

func newUserRouter(t *testing.T, opts ...rivet.RouterOption) *rivet.Router {
	t.Helper()
	router, err := rivet.NewRouter(newUserContainer(t), opts...)
	require.NoError(t, err)
	return router
}

func TestRouter_DiscoversComponentEndpoints(t *testing.T) {
	router := newUserRouter(t)

	assert.Len(t, router.AllRoutes(), len(userEndpoints()))
	assert.True(t, router.HasRoute("/users", "GET"))
	assert.True(t, router.HasRoute("/users/42", "GET"))
	assert.True(t, router.HasRoute("/users", "POST"))
}

func TestRouter_ControllerResolvedThroughContainer(t *testing.T) {
	c := newUserContainer(t)
	_, err := rivet.NewRouter(c)
	require.NoError(t, err)

	// Discovery instantiated the controller and its provider chain.
	ctrl, err := rivet.Get[*userController](c)
	require.NoError(t, err)
	require.NotNil(t, ctrl.svc)
	assert.NotNil(t, ctrl.svc.Repo.DB)
}

func TestRouter_StaticRouteWinsOverParameterized(t *testing.T) {
	router := newUserRouter(t)

	route, ok := router.FindRoute("/users", "GET")
	require.True(t, ok)
	assert.Equal(t, "/users", route.Path)

	route, ok = router.FindRoute("/users/42", "GET")
	require.True(t, ok)
	assert.Equal(t, "/users/{id}", route.Path)
}

func TestRouter_RegistrationOrderBreaksTies(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newUserController,
		rivet.AsComponent("users"),
		rivet.WithProviders(
			testutil.NewTestDatabase,
			testutil.NewTestRepository,
			testutil.NewTestUserService,
		),
		rivet.WithEndpoints(
			rivet.GET("/users/{id}", "UserByID"),
			rivet.GET("/users/{name}", "Search").Query("q"),
		)))

	router, err := rivet.NewRouter(c)
	require.NoError(t, err)

	route, ok := router.FindRoute("/users/42", "GET")
	require.True(t, ok)
	assert.Equal(t, "UserByID", route.HandlerName)
}

func TestRouter_DefaultPathFromHandlerName(t *testing.T) {
	router := newUserRouter(t)

	route, ok := router.FindRoute("/ping", "GET")
	require.True(t, ok)
	assert.Equal(t, "/ping", route.Path)
	assert.Equal(t, "Ping", route.HandlerName)
}

func TestRouter_MethodLookupIsCaseInsensitive(t *testing.T) {
	router := newUserRouter(t)

	_, ok := router.FindRoute("/users", "get")
	assert.True(t, ok)
}

func TestRouter_MissingRoute(t *testing.T) {
	router := newUserRouter(t)

	_, ok := router.FindRoute("/nowhere", "GET")
	assert.False(t, ok)

	// A known path with the wrong verb does not match either.
	_, ok = router.FindRoute("/users/42", "DELETE")
	assert.False(t, ok)
}

func TestRouter_MalformedEndpointFailsConstruction(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newUserController,
		rivet.AsComponent("users"),
		rivet.WithProviders(
			testutil.NewTestDatabase,
			testutil.NewTestRepository,
			testutil.NewTestUserService,
		),
		rivet.WithEndpoints(rivet.GET("/users/{id", "UserByID"))))

	_, err := rivet.NewRouter(c)
	require.Error(t, err)

	var re rivet.RouteError
	assert.ErrorAs(t, err, &re)
}

func TestRouter_UnknownHandlerFailsConstruction(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newUserController,
		rivet.AsComponent("users"),
		rivet.WithProviders(
			testutil.NewTestDatabase,
			testutil.NewTestRepository,
			testutil.NewTestUserService,
		),
		rivet.WithEndpoints(rivet.GET("/users", "NoSuchMethod"))))

	_, err := rivet.NewRouter(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, rivet.ErrHandlerNotFound)
}

func TestRouter_ComponentWithoutEndpoints(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(testutil.NewTestService, rivet.AsComponent("plain")))

	router, err := rivet.NewRouter(c)
	require.NoError(t, err)
	assert.Empty(t, router.AllRoutes())
}

func TestRouter_AddRoute(t *testing.T) {
	router := newUserRouter(t)

	route, err := rivet.NewRoute("GET", "/extra", &echoController{}, "Echo")
	require.NoError(t, err)
	router.AddRoute(route)

	assert.True(t, router.HasRoute("/extra", "GET"))
}

func TestRouter_Stats(t *testing.T) {
	router := newUserRouter(t)

	stats := router.Stats()
	assert.Equal(t, len(userEndpoints()), stats.Total)
	assert.Equal(t, 2, stats.ByMethod["POST"])
	assert.Equal(t, len(userEndpoints())-2, stats.ByMethod["GET"])
}

func TestRouter_RoutesByMethod(t *testing.T) {
	router := newUserRouter(t)

	posts := router.RoutesByMethod("post")
	require.Len(t, posts, 2)
	assert.Equal(t, "/users", posts[0].Path)
	assert.Equal(t, "/users/typed", posts[1].Path)
}

func TestRouter_ClearRoutes(t *testing.T) {
	router := newUserRouter(t)
	router.ClearRoutes()

	assert.Empty(t, router.AllRoutes())
	assert.False(t, router.HasRoute("/users", "GET"))
}
