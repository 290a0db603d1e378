package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHorizontalBarOptions(t *testing.T) {
	o := HorizontalBarOptions("Commits Per Repo")

	assert.Equal(t, "Commits Per Repo", o.Title)
	assert.Equal(t, IndexAxisY, o.IndexAxis)
	assert.Equal(t, LegendTop, o.Legend)
	assert.True(t, o.X.BeginAtZero)
	assert.False(t, o.X.Stacked)
	assert.False(t, o.Y.Stacked)
	assert.False(t, o.Y.AutoSkip)

	assert.Equal(t, "short-name", o.CategoryLabel("short-name"))
	assert.Equal(t, "a-very-long-...", o.CategoryLabel("a-very-long-repository"))
	assert.Equal(t, "12", o.TickLabel(12))
	assert.Equal(t, "-3", o.TooltipValue(-3))
}

func TestStackedBarOptions(t *testing.T) {
	o := StackedBarOptions("Stacked")
	assert.True(t, o.X.Stacked)
	assert.True(t, o.Y.Stacked)
	assert.True(t, o.X.BeginAtZero)
	assert.Equal(t, "7", o.TickLabel(7))
}

func TestDivergingOptions(t *testing.T) {
	o := DivergingOptions("Additions vs Deletions Per Repo")

	assert.Equal(t, "Additions vs Deletions Per Repo", o.Title)
	assert.Equal(t, IndexAxisY, o.IndexAxis)
	assert.True(t, o.X.Stacked)
	assert.True(t, o.Y.Stacked)

	assert.Equal(t, "45", o.TooltipValue(-45))
	assert.Equal(t, "45", o.TooltipValue(45))
	assert.Equal(t, "0", o.TooltipValue(0))
	assert.Equal(t, "Deletions: 45", o.TooltipLabel(DeletionsLabel, -45))
	assert.Equal(t, "250", o.TickLabel(-250))
	assert.Equal(t, "1.5", o.TickLabel(-1.5))
	assert.Equal(t, "kubernetes-o...", o.CategoryLabel("kubernetes-operator"))
}

func TestOptions_ZeroValueFallbacks(t *testing.T) {
	var o Options
	assert.Equal(t, "-4", o.TickLabel(-4))
	assert.Equal(t, "a-very-long-repository", o.CategoryLabel("a-very-long-repository"))
	assert.Equal(t, "x: 2", o.TooltipLabel("x", 2))
}
