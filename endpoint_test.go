package rivet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rivetfw/rivet"
)

func TestEndpoint_Verbs(t *testing.T) {
	assert.Equal(t, "GET", rivet.GET("/x", "H").Method)
	assert.Equal(t, "POST", rivet.POST("/x", "H").Method)
	assert.Equal(t, "PUT", rivet.PUT("/x", "H").Method)
	assert.Equal(t, "PATCH", rivet.PATCH("/x", "H").Method)
	assert.Equal(t, "DELETE", rivet.DELETE("/x", "H").Method)
}

func TestEndpoint_HintsAccumulateInParameterOrder(t *testing.T) {
	ep := rivet.POST("/users/{id}", "Update").Body().Param("id").Query("force")

	assert.Equal(t, []rivet.ParamHint{
		{Source: rivet.SourceBody},
		{Source: rivet.SourcePath, Name: "id"},
		{Source: rivet.SourceQuery, Name: "force"},
	}, ep.Hints)
}

func TestEndpoint_BuilderChainsDoNotAlias(t *testing.T) {
	base := rivet.GET("/items/{id}", "Item").Param("id")

	a := base.Query("verbose")
	b := base.Query("format")

	assert.Equal(t, rivet.ParamHint{Source: rivet.SourceQuery, Name: "verbose"}, a.Hints[1])
	assert.Equal(t, rivet.ParamHint{Source: rivet.SourceQuery, Name: "format"}, b.Hints[1])
	assert.Len(t, base.Hints, 1)
}
