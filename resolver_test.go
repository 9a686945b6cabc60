package rivet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivetfw/rivet"
	"github.com/rivetfw/rivet/internal/testutil"
)

type cycleA struct{ B *cycleB }

type cycleB struct{ A *cycleA }

func newCycleA(b *cycleB) *cycleA { return &cycleA{B: b} }

func newCycleB(a *cycleA) *cycleB { return &cycleB{A: a} }

type selfRef struct{ Self *selfRef }

func newSelfRef(s *selfRef) *selfRef { return &selfRef{Self: s} }

func TestResolver_DetectsTwoNodeCycle(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newCycleA, rivet.AsInjectable()))
	require.NoError(t, c.Register(newCycleB, rivet.AsInjectable()))

	circular, err := c.Resolver().HasCircularDependency(rivet.TypeOf[*cycleA]())
	require.NoError(t, err)
	assert.True(t, circular)

	_, err = rivet.Get[*cycleA](c)
	require.Error(t, err)
	assert.True(t, rivet.IsCircularDependency(err))
	assert.Contains(t, err.Error(), "cycleA")
	assert.Contains(t, err.Error(), "cycleB")
}

func TestResolver_DetectsSelfCycle(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newSelfRef, rivet.AsInjectable()))

	circular, err := c.Resolver().HasCircularDependency(rivet.TypeOf[*selfRef]())
	require.NoError(t, err)
	assert.True(t, circular)

	_, err = rivet.Get[*selfRef](c)
	assert.True(t, rivet.IsCircularDependency(err))
}

type diamondTop struct {
	Left  *testutil.TestRepository
	Right *testutil.TestUserService
}

func newDiamondTop(left *testutil.TestRepository, right *testutil.TestUserService) *diamondTop {
	return &diamondTop{Left: left, Right: right}
}

func TestResolver_DiamondIsNotACycle(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(testutil.NewTestDatabase, rivet.AsInjectable()))
	require.NoError(t, c.Register(testutil.NewTestRepository, rivet.AsInjectable()))
	require.NoError(t, c.Register(testutil.NewTestUserService, rivet.AsInjectable()))
	require.NoError(t, c.Register(newDiamondTop, rivet.AsInjectable()))

	circular, err := c.Resolver().HasCircularDependency(rivet.TypeOf[*diamondTop]())
	require.NoError(t, err)
	assert.False(t, circular)

	top, err := rivet.Get[*diamondTop](c)
	require.NoError(t, err)
	assert.Same(t, top.Left, top.Right.Repo)
}

func TestResolver_CycleAcrossBinding(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, rivet.Bind[testutil.TestLogger](c, func(_ *cycleA) *testutil.TestLoggerImpl {
		return testutil.NewTestLogger()
	}))
	require.NoError(t, c.Register(func(_ testutil.TestLogger) *cycleA {
		return &cycleA{}
	}, rivet.AsInjectable()))

	circular, err := c.Resolver().HasCircularDependency(rivet.TypeOf[*cycleA]())
	require.NoError(t, err)
	assert.True(t, circular)
}

func TestResolver_IntrospectionFailureIsDistinct(t *testing.T) {
	// In strict mode an ambiguous constructor makes dependency analysis
	// fail; that failure must surface as an error, never as "no cycle".
	c := rivet.NewContainer(rivet.WithStrictConstructorSelection())
	require.NoError(t, c.Register(newMultiCtorFromService, rivet.AsInjectable()))
	require.NoError(t, c.Register(newMultiCtorFromDB, rivet.AsInjectable()))

	circular, err := c.Resolver().HasCircularDependency(rivet.TypeOf[*multiCtorService]())
	require.Error(t, err)
	assert.False(t, circular)

	var ae rivet.AmbiguousConstructorError
	assert.ErrorAs(t, err, &ae)
}

func TestResolver_UnregisteredLeafIsNotACycle(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(testutil.NewTestRepository, rivet.AsInjectable()))

	// The database dependency is unresolvable, but that is a resolution
	// concern, not a cycle.
	circular, err := c.Resolver().HasCircularDependency(rivet.TypeOf[*testutil.TestRepository]())
	require.NoError(t, err)
	assert.False(t, circular)
}

func TestResolver_DependencyChain(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(testutil.NewTestDatabase, rivet.AsInjectable()))
	require.NoError(t, c.Register(testutil.NewTestRepository, rivet.AsInjectable()))
	require.NoError(t, c.Register(testutil.NewTestUserService, rivet.AsInjectable()))

	chain := c.Resolver().DependencyChain(rivet.TypeOf[*testutil.TestUserService]())

	require.Len(t, chain, 3)
	assert.Equal(t, rivet.TypeOf[*testutil.TestUserService](), chain[0])
	assert.Equal(t, rivet.TypeOf[*testutil.TestRepository](), chain[1])
	assert.Equal(t, rivet.TypeOf[*testutil.TestDatabase](), chain[2])
}

func TestResolver_DependencyChainStopsOnCycle(t *testing.T) {
	c := rivet.NewContainer()
	require.NoError(t, c.Register(newCycleA, rivet.AsInjectable()))
	require.NoError(t, c.Register(newCycleB, rivet.AsInjectable()))

	chain := c.Resolver().DependencyChain(rivet.TypeOf[*cycleA]())

	// Each type appears once; the walk terminates.
	assert.Len(t, chain, 2)
}
