package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	m := Default()
	assert.Equal(t, Changed, m.Kind)
	assert.Nil(t, m.PR)
	assert.NotNil(t, m.Fixes)
	assert.Empty(t, m.Fixes)
	assert.Nil(t, m.CoAuthoredBy)
}

func TestClone(t *testing.T) {
	orig := Metadata{
		Kind:         Fix,
		PR:           urlPtr("https://x.test/p/1"),
		Fixes:        []URL{MustParseURL("https://x.test/i/1")},
		CoAuthoredBy: strPtr("J <j@x.test>"),
	}

	c := orig.Clone()
	assert.Equal(t, orig, c)

	c.Kind = Added
	*c.PR = MustParseURL("https://x.test/p/2")
	c.Fixes[0] = MustParseURL("https://x.test/i/2")
	c.Fixes = append(c.Fixes, MustParseURL("https://x.test/i/3"))
	*c.CoAuthoredBy = "K <k@x.test>"

	assert.Equal(t, Fix, orig.Kind)
	assert.Equal(t, "https://x.test/p/1", orig.PR.String())
	assert.Len(t, orig.Fixes, 1)
	assert.Equal(t, "https://x.test/i/1", orig.Fixes[0].String())
	assert.Equal(t, "J <j@x.test>", *orig.CoAuthoredBy)
}

func TestClone_NilFixes(t *testing.T) {
	c := Metadata{Kind: Changed}.Clone()
	assert.NotNil(t, c.Fixes)
	assert.Empty(t, c.Fixes)
}

func TestMetadata_JSON(t *testing.T) {
	m := Metadata{
		Kind:         Fix,
		PR:           urlPtr("https://x.test/p/1"),
		Fixes:        []URL{MustParseURL("https://x.test/i/7")},
		CoAuthoredBy: strPtr("J <j@x.test>"),
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"fix","pr":"https://x.test/p/1","fixes":["https://x.test/i/7"],"co-authored-by":"J <j@x.test>"}`,
		string(data))

	data, err = json.Marshal(Default())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"changed","pr":null,"fixes":[],"co-authored-by":null}`, string(data))
}
