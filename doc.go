// Package rivet is a small application runtime built around two pieces:
// a reflective dependency injection container with constructor resolution
// and lifecycle management, and a declarative HTTP routing layer that
// discovers routes from the same component registry.
//
// # Overview
//
// rivet provides:
//   - Constructor injection with automatic, recursive dependency resolution
//   - Singleton and transient lifetimes (singleton is the default)
//   - Interface-to-implementation bindings
//   - Circular dependency detection before construction
//   - Declarative route registration with path templates like /users/{id}
//   - Argument binding from path variables, query parameters, and the
//     request body, with string-to-type coercion
//   - Thread-safe registration and resolution
//
// # Basic Usage
//
// Register components with their constructors, then resolve:
//
//	c := rivet.NewContainer()
//	c.Register(NewUserService, rivet.AsInjectable())
//	c.Register(NewUserController,
//	    rivet.AsComponent("user-controller"),
//	    rivet.WithEndpoints(
//	        rivet.GET("/users", "Users"),
//	        rivet.GET("/users/{id}", "UserByID"),
//	        rivet.POST("/users", "CreateUser").Body(),
//	    ),
//	)
//
//	svc, err := rivet.Get[*UserService](c)
//
// # Routing
//
// Routes are compiled once, eagerly, when the router is built. Dispatch is
// a linear scan over the per-verb route list in registration order; the
// first structurally matching route wins.
//
//	router, err := rivet.NewRouter(c)
//	result, err := router.ExecuteRoute("/users/42", "GET", ctx)
//
// The core does not open sockets or speak HTTP itself. The chi subpackage
// mounts a Router onto a go-chi mux for applications that want a real
// listener.
//
// # Lifetimes
//
// Every registered type is a singleton unless registered with
// rivet.Transient(). Singleton construction is guarded so that concurrent
// resolutions of the same uncached type construct exactly one instance.
//
// # Error Handling
//
// rivet reports failures through typed errors: ResolutionError,
// CircularDependencyError, InstantiationError, RouteNotFoundError,
// RouteExecutionError, ConversionError, and friends. All of them unwrap to
// their underlying cause.
package rivet
