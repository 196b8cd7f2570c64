package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlens/archlens/internal/analyzer"
	"github.com/archlens/archlens/internal/workflow"
)

func sampleResult(name string) *analyzer.Result {
	return &analyzer.Result{
		ProjectName: name,
		Summary: analyzer.Summary{
			TotalServices: 3,
			TotalFiles:    12,
			Complexity:    workflow.ComplexityLow,
			ServiceTypes:  []string{"AWS S3", "Flask", "Docker"},
			Groups:        map[string]int{"Storage": 1, "Framework": 1, "Compute": 1},
			Languages:     map[string]int{"Python": 10, "Terraform": 2},
		},
		Panel:   analyzer.Panel{Title: name + " Architecture", Description: "test"},
		Mermaid: "flowchart TD\n",
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	id, err := s.SaveRun(ctx, sampleResult("proj"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "proj", got.ProjectName)
	assert.Equal(t, 3, got.Summary.TotalServices)
	assert.Equal(t, workflow.ComplexityLow, got.Summary.Complexity)
	assert.Equal(t, "flowchart TD\n", got.Mermaid)
}

func TestGetRun_NotFound(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetRun(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestListRuns(t *testing.T) {
	s, err := OpenMemory()
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.SaveRun(ctx, sampleResult(name))
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for _, r := range runs {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, string(workflow.ComplexityLow), r.Complexity)
		assert.Equal(t, 3, r.Services)
		assert.False(t, r.CreatedAt.IsZero())
	}

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.SaveRun(context.Background(), sampleResult("persisted"))
	require.NoError(t, err)
}
