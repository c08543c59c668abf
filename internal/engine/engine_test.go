package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratify-labs/stratify/internal/config"
	"github.com/stratify-labs/stratify/internal/state"

	_ "github.com/stratify-labs/stratify/pkg/adapters/duckdb"
)

// extractFiles is a small but complete set of source extracts covering
// dedup, repair, decomposition, and join behavior end to end.
var extractFiles = map[string]string{
	"crm_customers.csv": `id,key,first_name,last_name,marital_status,gender,created
11000,AW00011000, Jon ,Yang,M,M,2025-01-15
11000,AW00011000,Jon,Yang,M,M,2025-03-10
11001,AW00011001,Eugene,Huang,S,F,2025-01-16
,AW99999999,Orphan,Row,S,M,2025-01-01
`,
	"crm_products.csv": `id,key,name,cost,line,start_date
210,CO-RF-FR-R92B-58,HL Road Frame,1059.31,R,2023-07-01
211,CO-RF-FR-R92B-58,HL Road Frame,1059.31,R,2024-07-01
`,
	"crm_sales.csv": `order_number,product_key,customer_id,order_date,ship_date,due_date,sales,quantity,price
SO43697,FR-R92B-58,11000,20250105,20250112,20250117,2118.62,2,1059.31
SO43698,FR-R92B-58,11001,0,20250201,20250206,25,1,30
`,
	"erp_customer_demo.csv": `id,birthdate,gender
NASAW00011000,1985-05-14,F
AW00011001,2090-01-01,Female
`,
	"erp_customer_location.csv": `id,country
AW-00011000,DE
AW00011001,US
`,
	"erp_product_category.csv": `id,category,subcategory,maintenance
CO_RF,Components,Road Frames,Yes
`,
}

func writeExtracts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range extractFiles {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func newTestEngine(t *testing.T, rawDir string) *Engine {
	t.Helper()
	cfg := &config.Config{
		RawDir:      rawDir,
		StatePath:   filepath.Join(t.TempDir(), "state.db"),
		Environment: "test",
		Concurrency: 2,
		Target:      &config.TargetConfig{Type: "duckdb"},
	}

	eng, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func stageStatuses(t *testing.T, eng *Engine, runID string) map[string]state.StageStatus {
	t.Helper()
	stages, err := eng.Store().ListStageRuns(runID)
	require.NoError(t, err)
	statuses := make(map[string]state.StageStatus, len(stages))
	for _, s := range stages {
		statuses[s.Stage] = s.Status
	}
	return statuses
}

func TestEngine_FullPipeline(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeExtracts(t))

	require.NoError(t, eng.LoadRaw(ctx))

	run, err := eng.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, state.RunStatusCompleted, run.Status)
	assert.NotNil(t, run.CompletedAt)
	assert.Empty(t, run.FailedStage)

	stages, err := eng.Store().ListStageRuns(run.ID)
	require.NoError(t, err)
	require.Len(t, stages, 9)

	rowsByStage := make(map[string]int64, len(stages))
	for _, s := range stages {
		assert.Equal(t, state.StageStatusSuccess, s.Status, s.Stage)
		assert.False(t, s.StartedAt.IsZero(), "stage %s missing start timestamp", s.Stage)
		require.NotNil(t, s.CompletedAt, "stage %s missing completion timestamp", s.Stage)
		assert.False(t, s.CompletedAt.Before(s.StartedAt), s.Stage)
		rowsByStage[s.Stage] = s.Rows
	}

	assert.Equal(t, int64(2), rowsByStage["cleanse.customers"], "duplicate and null-id rows removed")
	assert.Equal(t, int64(2), rowsByStage["cleanse.products"], "both versions kept in canonical")
	assert.Equal(t, int64(2), rowsByStage["cleanse.sales"])
	assert.Equal(t, int64(2), rowsByStage["mart.dim_customers"])
	assert.Equal(t, int64(1), rowsByStage["mart.dim_products"], "only the current version is projected")
	assert.Equal(t, int64(2), rowsByStage["mart.fact_sales"])
}

func TestEngine_ValidateAfterRun(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeExtracts(t))

	require.NoError(t, eng.LoadRaw(ctx))
	_, err := eng.Run(ctx)
	require.NoError(t, err)

	reports, err := eng.Validate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, reports)

	for _, r := range reports {
		assert.True(t, r.Passed(), "check %s reported violations: %v", r.CheckID, r.Violations)
	}
}

func TestEngine_Idempotence(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeExtracts(t))

	require.NoError(t, eng.LoadRaw(ctx))

	_, err := eng.Run(ctx)
	require.NoError(t, err)
	first, err := eng.readSnapshot(ctx)
	require.NoError(t, err)

	_, err = eng.Run(ctx)
	require.NoError(t, err)
	second, err := eng.readSnapshot(ctx)
	require.NoError(t, err)

	// Unchanged raw input rebuilds every layer identically, surrogate keys
	// included.
	assert.Equal(t, first.Customers, second.Customers)
	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, first.SalesLines, second.SalesLines)
	assert.Equal(t, first.CustomerDemos, second.CustomerDemos)
	assert.Equal(t, first.CustomerLocations, second.CustomerLocations)
	assert.Equal(t, first.ProductCategories, second.ProductCategories)
	assert.Equal(t, first.CustomerDim, second.CustomerDim)
	assert.Equal(t, first.ProductDim, second.ProductDim)
	assert.Equal(t, first.SalesFact, second.SalesFact)
}

func TestEngine_RunWithoutRawZoneFails(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, t.TempDir())

	run, err := eng.Run(ctx)
	require.Error(t, err)
	require.NotNil(t, run)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.NotEmpty(t, stageErr.Stage)

	assert.Equal(t, state.RunStatusFailed, run.Status)
	assert.Equal(t, stageErr.Stage, run.FailedStage)
	assert.NotEmpty(t, run.Error)

	statuses := stageStatuses(t, eng, run.ID)
	require.Len(t, statuses, 9)
	assert.Equal(t, state.StageStatusSkipped, statuses["mart.dim_customers"])
	assert.Equal(t, state.StageStatusSkipped, statuses["mart.dim_products"])
	assert.Equal(t, state.StageStatusSkipped, statuses["mart.fact_sales"])
}

func TestEngine_LoadRawMissingExtract(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crm_customers.csv"),
		[]byte("id\n1\n"), 0o600))

	eng := newTestEngine(t, dir)
	err := eng.LoadRaw(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing extract")
}

func TestEngine_RunHistory(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeExtracts(t))

	require.NoError(t, eng.LoadRaw(ctx))

	first, err := eng.Run(ctx)
	require.NoError(t, err)
	second, err := eng.Run(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	runs, err := eng.Store().ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	latest, err := eng.Store().GetLatestRun("test")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, second.ID, latest.ID)
}

func TestBuildGraph_Levels(t *testing.T) {
	graph, err := buildGraph(pipelineStages())
	require.NoError(t, err)

	levels, err := graph.ExecutionLevels()
	require.NoError(t, err)
	require.Len(t, levels, 3)

	assert.Len(t, levels[0], 6, "all cleansing stages are independent")
	assert.ElementsMatch(t, []string{"mart.dim_customers", "mart.dim_products"}, levels[1])
	assert.Equal(t, []string{"mart.fact_sales"}, levels[2])
}
