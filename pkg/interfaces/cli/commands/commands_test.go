package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
	"github.com/vsinha/mrpatp/pkg/infrastructure/config"
)

const scenarioDir = "../../../infrastructure/repositories/csv/testdata/saturn_v"

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATA_SOURCE", "DATA_DIR", "REDIS_ADDR", "KAFKA_BROKERS", "LOG_LEVEL", "PRETTY_LOGS", "MRP_MAX_DEPTH"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlan_Scenario(t *testing.T) {
	out, err := run(t, "plan", "--data-source", "csv", "--data-dir", scenarioDir, "--from", "2025-03-01", "-f", "json")
	require.NoError(t, err)

	var result dto.PlanningRunResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, dto.StatusCompleted, result.Status)
	assert.Contains(t, result.RunID, "RUN-")
	require.NotNil(t, result.Report)
	assert.Equal(t, 2, result.ShortageCount)
	assert.Equal(t, 2, result.SuggestionCount)
	for _, nr := range result.Report.NetRequirements {
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), nr.RequiredDate, "due date flows from demands.csv")
	}
}

func TestPlan_DemandFlag(t *testing.T) {
	out, err := run(t, "plan", "--data-source", "csv", "--data-dir", scenarioDir,
		"--from", "2025-03-01", "--demand", "F1_ENGINE=10")
	require.NoError(t, err)

	assert.Contains(t, out, "Status:       COMPLETED")
	assert.Contains(t, out, "F1_TURBOPUMP")
	assert.NotContains(t, out, "J2_ENGINE")
}

func TestPlan_ZeroDepth(t *testing.T) {
	out, err := run(t, "plan", "--data-source", "csv", "--data-dir", scenarioDir,
		"--from", "2025-03-01", "--max-depth", "0", "-f", "json")
	require.NoError(t, err)

	var result dto.PlanningRunResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Report)
	require.Len(t, result.Report.Requirements, 1)
	assert.Equal(t, entities.MaterialCode("SATURN_V"), result.Report.Requirements[0].Material)

	_, err = run(t, "plan", "--demand", "SATURN_V=1", "--max-depth=-1")
	assert.EqualError(t, err, "max depth cannot be negative, got -1")
}

func TestPlan_NoDemands(t *testing.T) {
	_, err := run(t, "plan")
	assert.EqualError(t, err, "no demands: pass --demand or use a csv scenario with demands.csv")
}

func TestPlan_BadFlags(t *testing.T) {
	_, err := run(t, "plan", "--demand", "SATURN_V")
	assert.ErrorContains(t, err, "expected MATERIAL=QTY[@YYYY-MM-DD]")

	_, err = run(t, "plan", "--demand", "SATURN_V=1", "--from", "03/01/2025")
	assert.ErrorContains(t, err, "invalid date format")

	_, err = run(t, "plan", "--demand", "SATURN_V=1", "-f", "html")
	assert.EqualError(t, err, "unsupported output format: html")

	_, err = run(t, "plan", "--demand", "SATURN_V=1", "--data-source", "mongo")
	assert.ErrorContains(t, err, "--data-source must be one of")
}

func TestExplode(t *testing.T) {
	out, err := run(t, "explode", "SATURN_V", "1", "--data-source", "csv", "--data-dir", scenarioDir, "-f", "json")
	require.NoError(t, err)

	var nodes []entities.RequirementNode
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))

	totals := map[entities.MaterialCode]decimal.Decimal{}
	for _, n := range nodes {
		totals[n.Material] = totals[n.Material].Add(n.Quantity)
	}
	assert.True(t, totals["F1_TURBOPUMP"].Equal(decimal.NewFromInt(5)))
	assert.True(t, totals["INJECTOR_PLATE"].Equal(decimal.RequireFromString("10.75")))
	assert.NotContains(t, totals, entities.MaterialCode("LEGACY_VALVE"))
}

func TestExplode_MaxDepth(t *testing.T) {
	out, err := run(t, "explode", "SATURN_V", "1", "--data-source", "csv", "--data-dir", scenarioDir, "--max-depth", "1", "-f", "csv")
	require.NoError(t, err)

	assert.Contains(t, out, "F1_ENGINE,1,5,-")
	assert.Contains(t, out, "J2_ENGINE,1,6,-")
	assert.NotContains(t, out, "INJECTOR_PLATE")
}

func TestExplode_BadQuantity(t *testing.T) {
	_, err := run(t, "explode", "SATURN_V", "lots")
	assert.EqualError(t, err, "invalid quantity: lots")

	_, err = run(t, "explode", "--", "SATURN_V", "-2")
	assert.EqualError(t, err, "quantity cannot be negative, got -2")
}

func TestATP(t *testing.T) {
	out, err := run(t, "atp", "F1_TURBOPUMP", "MICHOUD", "3", "2025-03-01", "--data-source", "csv", "--data-dir", scenarioDir)
	require.NoError(t, err)

	assert.Contains(t, out, "ATP:                2")
	assert.Contains(t, out, "Promised Date:      2025-03-04")
}

func TestATP_ZeroQuantity(t *testing.T) {
	_, err := run(t, "atp", "F1_TURBOPUMP", "MICHOUD", "0")
	assert.EqualError(t, err, "quantity must be positive, got 0")
}

func TestCTP(t *testing.T) {
	out, err := run(t, "ctp", "F1_TURBOPUMP", "MICHOUD", "ASSEMBLY_BAY", "2", "2025-03-31",
		"--data-source", "csv", "--data-dir", scenarioDir, "-f", "json")
	require.NoError(t, err)

	var result entities.CTPResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, entities.ConstraintNone, result.Constraint)
	assert.True(t, result.CanFulfill)

	out, err = run(t, "ctp", "F1_TURBOPUMP", "MICHOUD", "ASSEMBLY_BAY", "4", "2025-03-31",
		"--data-source", "csv", "--data-dir", scenarioDir, "-f", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, entities.ConstraintMaterial, result.Constraint)
	assert.False(t, result.CanFulfill)
}

func TestParseDemand(t *testing.T) {
	d, err := parseDemand("SATURN_V=2.5@2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, entities.MaterialCode("SATURN_V"), d.Material)
	assert.True(t, d.Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), d.DueDate)
	assert.Equal(t, "cli", d.Source)

	d, err = parseDemand("A=1")
	require.NoError(t, err)
	assert.True(t, d.DueDate.IsZero())

	for _, bad := range []string{"=1", "A", "A=x", "A=0", "A=1@tomorrow"} {
		_, err := parseDemand(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewApp_MemoryDefaults(t *testing.T) {
	cfg := &config.Config{
		DataSource:             "memory",
		MaxDepth:               3,
		PlanningWorkers:        2,
		CoalesceLevels:         true,
		RequiredDateOffsetDays: 14,
		DefaultLeadTimeDays:    7,
		DefaultMOQ:             100,
		ATPHorizonDays:         90,
		ATPDefaultCapacity:     1000,
	}
	app, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Empty(t, app.Demands)

	ctp, err := app.Orchestrator.ComputeCTP(context.Background(), entities.CTPRequest{
		Material:      "ANY",
		Plant:         "P1",
		Workstation:   "WS1",
		RequestedQty:  decimal.NewFromInt(1),
		RequestedDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.ConstraintMaterial, ctp.Constraint, "empty stores have nothing to promise")
	assert.True(t, ctp.AvailableCapacity.Equal(decimal.NewFromInt(1000)))
}
