package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Err())

	d.AddWarning("unused_name", "no property is called nmae", "", "nmae", "name")
	assert.True(t, d.IsValid())

	d.AddError("unknown_property", "no such property", "store.Customer", "emial", "email")
	d.AddError("bad_seed", "seed must be set when random is off", "", "")
	require.False(t, d.IsValid())

	assert.Equal(t,
		"[store.Customer] emial: [unknown_property] no such property (did you mean email?); [bad_seed] seed must be set when random is off",
		d.Err().Error())
	assert.Len(t, d.All(), 3)
	assert.Equal(t, SeverityWarning, d.All()[2].Severity)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics

	b.AddError("x", "x", "", "")
	a.Merge(&b)
	a.Merge(nil)

	assert.Len(t, a.Errors, 1)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "Severity(7)", Severity(7).String())
}
