package engine

import (
	"fmt"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-reconciler/internal/diagnostic"
	"stage-reconciler/internal/mapping"
	"stage-reconciler/internal/result"
	"stage-reconciler/internal/row"
	"stage-reconciler/internal/transform"
	"stage-reconciler/internal/value"
)

func newEngine(opts ...Option) (*Engine, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return New(append([]Option{WithLogger(log.NewEntry(logger))}, opts...)...), hook
}

func tolerance(t float64) *mapping.ValidationRules {
	return &mapping.ValidationRules{NumericTolerance: t}
}

func fullRules() *mapping.ValidationRules {
	return &mapping.ValidationRules{
		NumericTolerance: 0.05,
		DateFormats:      &mapping.DateFormats{Input: "dd-MMM-yy", Output: "dd/MM/yy"},
		Padding:          &mapping.Padding{PadChar: "0", PadDirection: mapping.PadLeft, TargetLength: 8},
	}
}

func orders(n int) row.Set {
	set := make(row.Set, n)
	for i := range set {
		set[i] = row.Record{
			"id":   value.Int(int64(i + 1)),
			"name": value.Text(fmt.Sprintf("order-%d", i+1)),
		}
	}

	return set
}

func mustSet(t *testing.T, rows []map[string]any) row.Set {
	t.Helper()

	set, err := row.FromMaps(rows)
	require.NoError(t, err)

	return set
}

func TestValidate_IdenticalSets(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Simple(map[string]string{"id": "id", "name": "name"})

	for _, rules := range []*mapping.ValidationRules{nil, tolerance(0)} {
		res, err := e.Validate(orders(5), orders(5), m, rules)
		require.NoError(t, err)

		assert.True(t, res.Success)
		assert.Equal(t, 5, res.MatchedRecords)
		assert.Equal(t, 5, res.ExpectedRowCount)
		assert.Equal(t, 5, res.ActualRowCount)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
		assert.InDelta(t, 100.0, res.MatchPercentage(), 1e-9)
	}
}

func TestValidate_TypeFollowsRules(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Simple(map[string]string{"id": "id"})

	res, err := e.Validate(orders(1), orders(1), m, nil)
	require.NoError(t, err)
	assert.Equal(t, result.TypeStaging, res.Type)

	res, err = e.Validate(orders(1), orders(1), m, tolerance(0))
	require.NoError(t, err)
	assert.Equal(t, result.TypeCurated, res.Type)
}

func TestValidate_RowCountMismatch(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Simple(map[string]string{"id": "id", "name": "name"})

	source := orders(3)
	target := orders(2)
	target[1]["name"] = value.Text("changed")

	res, err := e.Validate(source, target, m, nil)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 1, res.MatchedRecords)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "Row count mismatch: source has 3 rows, target has 2 rows", res.Errors[0])
	assert.Equal(t, "Record 2: Column 'name' -> 'name' mismatch. Expected: 'order-2', Actual: 'changed'", res.Errors[1])

	var rowCount int
	for _, d := range res.Findings.Errors {
		if d.Code == diagnostic.CodeRowCountMismatch {
			rowCount++
		}
	}

	assert.Equal(t, 1, rowCount)
}

func TestValidate_EmptySets(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Simple(map[string]string{"id": "id"})

	res, err := e.Validate(nil, row.Set{}, m, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Zero(t, res.MatchedRecords)
	assert.Zero(t, res.MatchPercentage())

	res, err = e.Validate(nil, orders(2), m, nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Row count mismatch: source has 0 rows, target has 2 rows"}, res.Errors)
}

func TestValidate_EmptyMappingChecksNoColumns(t *testing.T) {
	e, _ := newEngine()
	target := orders(2)
	target[0]["name"] = value.Text("different")

	res, err := e.Validate(orders(2), target, mapping.ColumnMapping{}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.MatchedRecords)
	assert.Empty(t, res.Warnings)
}

func TestValidate_TolerantAmount(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Simple(map[string]string{"amt": "amt"})
	source := mustSet(t, []map[string]any{{"id": 1, "amt": "100"}})

	res, err := e.Validate(source, mustSet(t, []map[string]any{{"id": 1, "amt": 100.03}}), m, tolerance(0.05))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.MatchedRecords)

	res, err = e.Validate(source, mustSet(t, []map[string]any{{"id": 1, "amt": 100.10}}), m, tolerance(0.05))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Zero(t, res.MatchedRecords)
	require.Len(t, res.Findings.Errors, 1)

	d := res.Findings.Errors[0]
	assert.Equal(t, 1, d.Record)
	assert.Equal(t, "amt", d.SourceColumn)
	assert.Equal(t, "100", d.Expected)
	assert.Equal(t, "100.1", d.Actual)
	assert.Contains(t, res.Errors[0], "Record 1: Column 'amt' -> 'amt'")
}

func TestValidate_Idempotent(t *testing.T) {
	e, _ := newEngine(WithWorkers(4), WithChunkSize(3))
	m := mapping.Simple(map[string]string{"id": "id", "name": "name", "missing": "missing"})

	source := orders(20)
	target := orders(18)
	target[4]["name"] = value.Text("x")
	target[11]["id"] = value.Int(99)

	first, err := e.Validate(source, target, m, tolerance(0.5))
	require.NoError(t, err)

	second, err := e.Validate(source, target, m, tolerance(0.5))
	require.NoError(t, err)

	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Warnings, second.Warnings)
	assert.Equal(t, first.MatchedRecords, second.MatchedRecords)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestValidate_ParallelKeepsRecordOrder(t *testing.T) {
	e, _ := newEngine(WithWorkers(3), WithChunkSize(2))
	m := mapping.Simple(map[string]string{"name": "name"})

	source := orders(10)
	target := orders(10)

	for _, i := range []int{2, 6, 9} {
		target[i]["name"] = value.Text("bad")
	}

	res, err := e.Validate(source, target, m, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, res.MatchedRecords)

	records := make([]int, 0, len(res.Findings.Errors))
	for _, d := range res.Findings.Errors {
		records = append(records, d.Record)
	}

	assert.Equal(t, []int{3, 7, 10}, records)
}

func TestValidate_ColumnPresenceWarnings(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Simple(map[string]string{"customer_name": "CUSTOMER_NAME"})

	source := row.Set{{"customer_nme": value.Text("Ann")}}
	target := row.Set{{"CUSTOMER_NAME": value.Text("Ann")}}

	res, err := e.Validate(source, target, m, nil)
	require.NoError(t, err)

	require.Len(t, res.Findings.Warnings, 1)
	w := res.Findings.Warnings[0]
	assert.Equal(t, diagnostic.CodeColumnNotFound, w.Code)
	assert.Equal(t, []string{"customer_nme"}, w.Suggestions)
	assert.Equal(t, "Column 'customer_name' not found in source (did you mean: customer_nme?)", res.Warnings[0])

	// The absent column reads as null on one side only.
	assert.False(t, res.Success)
}

func TestValidate_UnknownRule(t *testing.T) {
	e, _ := newEngine()
	m := mapping.Rich(map[string]mapping.Target{
		"code": {Column: "code", Rule: "DIRECT_COMPAR"},
		"id":   {Column: "id", Rule: "DIRECT_COMPAR"},
	})

	set := row.Set{{"code": value.Text("A"), "id": value.Int(1)}}

	res, err := e.Validate(set, set, m, tolerance(0))
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, res.Findings.Warnings, 2)
	for _, w := range res.Findings.Warnings {
		assert.Equal(t, diagnostic.CodeUnknownRule, w.Code)
		assert.Contains(t, w.Message, "Unknown transformation: DIRECT_COMPAR")
		assert.Contains(t, w.Suggestions, transform.RuleDirectCompare)
	}
}

func TestValidate_UnknownRuleLoggedOncePerColumn(t *testing.T) {
	e, hook := newEngine(WithChunkSize(7))
	m := mapping.Rich(map[string]mapping.Target{"name": {Column: "name", Rule: "UPPERCASE"}})

	res, err := e.Validate(orders(100), orders(100), m, tolerance(0))
	require.NoError(t, err)
	assert.Equal(t, 100, res.MatchedRecords)

	var warns []*log.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.WarnLevel {
			warns = append(warns, entry)
		}
	}

	require.Len(t, warns, 1)
	assert.Equal(t, "UPPERCASE", warns[0].Data["rule"])
	assert.Equal(t, "name", warns[0].Data["source_column"])
}

func TestValidateCurated(t *testing.T) {
	e, _ := newEngine()

	cfg := &mapping.CuratedConfig{
		SourceTable: "bronze.accounts",
		TargetTable: "silver.accounts",
		ColumnMappings: mapping.ColumnMapping{
			{Source: "acct", Target: "ACCOUNT_NO", Rule: transform.RulePadLeftZero8},
			{Source: "opened", Target: "OPEN_DATE", Rule: transform.RuleDateDdMonYy},
			{Source: "bal", Target: "BALANCE"},
		},
	}

	source := row.Set{
		{"acct": value.Text("7"), "opened": value.Text("25-Dec-23"), "bal": value.Float(10)},
		{"acct": value.Text("123"), "opened": value.Text("garbage"), "bal": value.Float(10)},
	}
	target := row.Set{
		{"ACCOUNT_NO": value.Text("00000007"), "OPEN_DATE": value.Text("25/12/23"), "BALANCE": value.Float(10.04)},
		{"ACCOUNT_NO": value.Text("00000123"), "OPEN_DATE": value.Text("garbage"), "BALANCE": value.Float(10.1)},
	}

	res, err := e.ValidateCurated(source, target, cfg, fullRules())
	require.NoError(t, err)

	assert.Equal(t, result.TypeCurated, res.Type)
	assert.Equal(t, "bronze.accounts", res.SourceName)
	assert.Equal(t, 1, res.MatchedRecords)
	assert.False(t, res.Success)

	require.Len(t, res.Findings.Errors, 1)
	assert.Equal(t, 2, res.Findings.Errors[0].Record)
	assert.Equal(t, "BALANCE", res.Findings.Errors[0].TargetColumn)

	require.Len(t, res.Findings.Warnings, 1)
	assert.Equal(t, diagnostic.CodeTransformFailed, res.Findings.Warnings[0].Code)
	assert.Equal(t, 2, res.Findings.Warnings[0].Record)
}

func TestValidateStaging(t *testing.T) {
	e, _ := newEngine()

	cfg := &mapping.StagingConfig{
		SourceFile:     "orders.csv",
		TargetTable:    "bronze.orders",
		ColumnMappings: mapping.Simple(map[string]string{"id": "ID"}),
	}

	source := row.FromStrings([]string{"id"}, [][]string{{"1"}, {"2"}})
	target := row.Set{{"ID": value.Int(1)}}

	res, err := e.ValidateStaging(source, target, cfg)
	require.NoError(t, err)

	assert.Equal(t, result.TypeStaging, res.Type)
	assert.Equal(t, []string{"Row count mismatch: CSV orders.csv has 2 rows, bronze.orders has 1 rows"}, res.Errors)
	assert.Equal(t, 1, res.MatchedRecords)
}

func TestRun_ContractViolations(t *testing.T) {
	e, _ := newEngine()
	set := orders(1)

	_, err := e.Validate(set, set, nil, nil)
	assert.ErrorIs(t, err, mapping.ErrMissingMapping)

	_, err = e.Validate(set, set, mapping.ColumnMapping{{Source: "id"}}, nil)
	assert.ErrorIs(t, err, mapping.ErrInvalidMapping)

	_, err = e.Validate(set, set, mapping.Simple(map[string]string{"id": "id"}), tolerance(-1))
	assert.ErrorIs(t, err, mapping.ErrInvalidRules)

	_, err = e.ValidateCurated(set, set, &mapping.CuratedConfig{
		SourceTable:    "b",
		TargetTable:    "s",
		ColumnMappings: mapping.Simple(map[string]string{"id": "id"}),
	}, nil)
	assert.ErrorIs(t, err, mapping.ErrMissingRules)

	padded := mapping.Rich(map[string]mapping.Target{"id": {Column: "id", Rule: "PAD_LEFT_SPACE_10"}})
	_, err = e.Validate(set, set, padded, tolerance(0))
	require.ErrorIs(t, err, ErrRuleSettings)
	assert.Contains(t, err.Error(), "paddingConfig")

	_, err = e.ValidateStaging(set, set, nil)
	assert.ErrorIs(t, err, ErrMissingStage)

	_, err = e.ValidateCurated(set, set, nil, fullRules())
	assert.ErrorIs(t, err, ErrMissingStage)
}

func TestRun_Logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	e := New(WithLogger(log.NewEntry(logger)))
	m := mapping.Simple(map[string]string{"name": "name"})

	target := orders(2)
	target[1]["name"] = value.Text("bad")

	_, err := e.Validate(orders(2), target, m, nil)
	require.NoError(t, err)

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}

	require.Len(t, messages, 3)
	assert.Equal(t, "Validation started", messages[0])
	assert.Contains(t, messages[1], "Record mismatch")
	assert.Contains(t, messages[1], "order-2")
	assert.Equal(t, "Validation completed", messages[2])

	last := hook.LastEntry()
	assert.Equal(t, log.InfoLevel, last.Level)
	assert.Equal(t, false, last.Data["success"])
	assert.Equal(t, 1, last.Data["matched"])
}
