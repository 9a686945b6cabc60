package rivet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivetfw/rivet"
)

type echoController struct{}

func (c *echoController) Echo() string { return "echo" }

func mustRoute(t *testing.T, method, path string) *rivet.Route {
	t.Helper()
	route, err := rivet.NewRoute(method, path, &echoController{}, "Echo")
	require.NoError(t, err)
	return route
}

func TestRoute_TemplateCompilation(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		match   string
		vars    map[string]string
		noMatch []string
	}{
		{
			name:    "static path",
			path:    "/users",
			match:   "/users",
			vars:    map[string]string{},
			noMatch: []string{"/users/42", "/user", "/users/"},
		},
		{
			name:    "single parameter",
			path:    "/users/{id}",
			match:   "/users/42",
			vars:    map[string]string{"id": "42"},
			noMatch: []string{"/users", "/users/42/posts", "/users//"},
		},
		{
			name:  "two parameters",
			path:  "/users/{id}/posts/{postId}",
			match: "/users/7/posts/9",
			vars:  map[string]string{"id": "7", "postId": "9"},
			noMatch: []string{
				"/users/7/posts",
				"/users/7/9",
				"/users/7/posts/9/comments",
			},
		},
		{
			name:    "parameter mid-path",
			path:    "/orgs/{org}/members",
			match:   "/orgs/acme/members",
			vars:    map[string]string{"org": "acme"},
			noMatch: []string{"/orgs/acme", "/orgs/acme/members/1"},
		},
		{
			name:    "regex metacharacters in literals stay literal",
			path:    "/v1.0/{id}",
			match:   "/v1.0/abc",
			vars:    map[string]string{"id": "abc"},
			noMatch: []string{"/v1x0/abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := mustRoute(t, "GET", tt.path)

			assert.True(t, route.Matches(tt.match, "GET"))
			assert.Equal(t, tt.vars, route.PathVariables(tt.match))

			for _, path := range tt.noMatch {
				assert.False(t, route.Matches(path, "GET"), "should not match %s", path)
			}
		})
	}
}

func TestRoute_MalformedTemplates(t *testing.T) {
	tests := []string{
		"/users/{id",
		"/users/id}",
		"/users/{}",
		"/users/{id}}",
		"/users/{{id}",
	}

	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			_, err := rivet.NewRoute("GET", path, &echoController{}, "Echo")
			require.Error(t, err)

			var re rivet.RouteError
			assert.ErrorAs(t, err, &re)
		})
	}
}

func TestRoute_MissingHandlerMethod(t *testing.T) {
	_, err := rivet.NewRoute("GET", "/users", &echoController{}, "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, rivet.ErrHandlerNotFound)
}

func TestRoute_MethodMatchingIsCaseInsensitive(t *testing.T) {
	route := mustRoute(t, "get", "/users")

	assert.Equal(t, "GET", route.Method)
	assert.True(t, route.Matches("/users", "GET"))
	assert.True(t, route.Matches("/users", "get"))
	assert.False(t, route.Matches("/users", "POST"))
}

func TestRoute_ParameterValueSpansOneSegment(t *testing.T) {
	route := mustRoute(t, "GET", "/files/{name}")

	// A placeholder never crosses a slash.
	assert.False(t, route.Matches("/files/a/b", "GET"))
	assert.Equal(t, map[string]string{"name": "report.pdf"}, route.PathVariables("/files/report.pdf"))
}

func TestRoute_PathVariablesOnNonMatchingPath(t *testing.T) {
	route := mustRoute(t, "GET", "/users/{id}")
	assert.Empty(t, route.PathVariables("/orders/42"))
}

func TestRoute_ParamIntrospection(t *testing.T) {
	static := mustRoute(t, "GET", "/users")
	assert.False(t, static.HasPathParams())
	assert.Equal(t, 0, static.ParamCount())

	dynamic := mustRoute(t, "GET", "/users/{id}/posts/{postId}")
	assert.True(t, dynamic.HasPathParams())
	assert.Equal(t, 2, dynamic.ParamCount())
	assert.Equal(t, []string{"id", "postId"}, dynamic.ParamNames)
}

func TestRoute_Description(t *testing.T) {
	route := mustRoute(t, "GET", "/users/{id}")
	assert.Equal(t, "GET /users/{id} -> echoController.Echo", route.Description())
}
