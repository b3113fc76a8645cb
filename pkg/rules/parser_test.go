package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drc-rules")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRulesParsesRuleAndSelector(t *testing.T) {
	path := writeRuleFile(t, `
(rule high-speed
    (constraint clearance (min 0.3))
    (condition "A.netclass == 'Power'"))

(selector (match_netclass "Power") (rule high-speed))
`)

	selectors, parsed, err := rules.LoadRules(path)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	require.Len(t, selectors, 1)

	assert.Equal(t, "high-speed", parsed[0].Name)
	assert.True(t, parsed[0].HasClearance)
	assert.Equal(t, int64(300_000), parsed[0].MinClearance)
	assert.Equal(t, "Power", selectors[0].MatchNetclass)
	assert.Equal(t, "high-speed", selectors[0].RuleName)
}

func TestLoadRulesRejectsUnknownForm(t *testing.T) {
	path := writeRuleFile(t, `(bogus foo)`)

	_, _, err := rules.LoadRules(path)
	require.Error(t, err)
}

func TestLoadRulesReportsUnterminatedList(t *testing.T) {
	path := writeRuleFile(t, `(rule broken`)

	_, _, err := rules.LoadRules(path)
	require.Error(t, err)
}

func TestLoadRulesSelectorRequiresTargetRule(t *testing.T) {
	path := writeRuleFile(t, `(selector (match_layer "F.Cu"))`)

	_, _, err := rules.LoadRules(path)
	require.Error(t, err)
}
