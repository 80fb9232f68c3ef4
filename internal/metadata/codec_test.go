package metadata

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCommit is an in-memory Commit.
type fakeCommit struct {
	id      string
	message []byte
}

func (c fakeCommit) ID() string           { return c.id }
func (c fakeCommit) MessageBytes() []byte { return c.message }

func strPtr(s string) *string { return &s }

func urlPtr(s string) *URL {
	u := MustParseURL(s)
	return &u
}

func TestLocate(t *testing.T) {
	tests := map[string]struct {
		message string
		want    string
		wantOK  bool
	}{
		"single separator": {
			message: "Fix bug\n\ntype: fix",
			want:    "type: fix",
			wantOK:  true,
		},
		"last separator wins": {
			message: "intro\n\ndetails\n\ntype: fix",
			want:    "type: fix",
			wantOK:  true,
		},
		"trailer is not trimmed": {
			message: "body\n\n  type: fix  \n",
			want:    "  type: fix  \n",
			wantOK:  true,
		},
		"message ending in blank line yields empty trailer": {
			message: "body\n\n",
			want:    "",
			wantOK:  true,
		},
		"three newlines splits at the last pair": {
			message: "body\n\n\ntype: fix",
			want:    "type: fix",
			wantOK:  true,
		},
		"no blank line": {
			message: "One line only",
			wantOK:  false,
		},
		"single newline only": {
			message: "subject\ntype: fix",
			wantOK:  false,
		},
		"empty message": {
			message: "",
			wantOK:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := Locate(tt.message)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMessage_Scenarios(t *testing.T) {
	tests := map[string]struct {
		message string
		want    Metadata
	}{
		"fix with pr": {
			message: "Fix off-by-one\n\ntype: fix\npr: https://x.test/p/1\n",
			want: Metadata{
				Kind:  Fix,
				PR:    urlPtr("https://x.test/p/1"),
				Fixes: []URL{},
			},
		},
		"changed with fixes": {
			message: "Refactor loop\n\ntype: changed\nfixes:\n  - https://x.test/i/7\n  - https://x.test/i/8\n",
			want: Metadata{
				Kind:  Changed,
				Fixes: []URL{MustParseURL("https://x.test/i/7"), MustParseURL("https://x.test/i/8")},
			},
		},
		"multi paragraph body with co-author": {
			message: "A\n\nB\n\ntype: added\nco-authored-by: J <j@x.test>\n",
			want: Metadata{
				Kind:         Added,
				Fixes:        []URL{},
				CoAuthoredBy: strPtr("J <j@x.test>"),
			},
		},
		"all fields": {
			message: "Body\n\ntype: fix\npr: https://example.org/repo/pull/123\nfixes:\n  - https://example.org/repo/issues/42\n  - https://example.org/repo/issues/43\nco-authored-by: Jane Doe <jane@example.org>\n",
			want: Metadata{
				Kind: Fix,
				PR:   urlPtr("https://example.org/repo/pull/123"),
				Fixes: []URL{
					MustParseURL("https://example.org/repo/issues/42"),
					MustParseURL("https://example.org/repo/issues/43"),
				},
				CoAuthoredBy: strPtr("Jane Doe <jane@example.org>"),
			},
		},
		"duplicate fixes are kept in order": {
			message: "Body\n\ntype: fix\nfixes: [https://x.test/i/2, https://x.test/i/1, https://x.test/i/2]\n",
			want: Metadata{
				Kind: Fix,
				Fixes: []URL{
					MustParseURL("https://x.test/i/2"),
					MustParseURL("https://x.test/i/1"),
					MustParseURL("https://x.test/i/2"),
				},
			},
		},
		"explicit nulls are absent": {
			message: "Body\n\ntype: testing\npr: ~\nfixes: ~\nco-authored-by: null\n",
			want:    Metadata{Kind: Testing, Fixes: []URL{}},
		},
		"minimal trailer": {
			message: "Body\n\ntype: changed",
			want:    Metadata{Kind: Changed, Fixes: []URL{}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := FromMessage("abc123", []byte(tt.message))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got.Fixes)
		})
	}
}

func TestFromMessage_Missing(t *testing.T) {
	tests := map[string]string{
		"one line":          "One line only",
		"subject with body": "subject\nbody line\ntype: fix",
		"empty":             "",
	}

	for name, message := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromMessage("abc123", []byte(message))
			require.Error(t, err)

			var missing *MissingError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "abc123", missing.CommitID)
			assert.Equal(t, message, missing.Message)
			assert.True(t, IsMissing(err))
			assert.False(t, IsDeserialize(err))
		})
	}
}

func TestFromMessage_Deserialize(t *testing.T) {
	tests := map[string]struct {
		message     string
		errContains string
	}{
		"not yaml": {
			message: "Body\n\nNot YAML at all: : :",
		},
		"missing type": {
			message:     "Body\n\npr: https://x.test/p/1\n",
			errContains: "missing field `type`",
		},
		"empty trailer": {
			message:     "Body\n\n",
			errContains: "missing field `type`",
		},
		"null type": {
			message:     "Body\n\ntype: ~\n",
			errContains: "missing field `type`",
		},
		"unknown kind": {
			message:     "Body\n\ntype: feature\n",
			errContains: "unknown variant",
		},
		"kind is case-sensitive": {
			message:     "Body\n\ntype: Fix\n",
			errContains: "unknown variant",
		},
		"kind is not a scalar": {
			message:     "Body\n\ntype: [fix]\n",
			errContains: "type must be a string",
		},
		"empty pr": {
			message:     "Body\n\ntype: fix\npr: \"\"\n",
			errContains: "invalid URL",
		},
		"relative pr": {
			message:     "Body\n\ntype: fix\npr: /pull/1\n",
			errContains: "invalid URL",
		},
		"fixes is not a sequence": {
			message: "Body\n\ntype: fix\nfixes: https://x.test/i/1\n",
		},
		"null entry in fixes": {
			message:     "Body\n\ntype: fix\nfixes:\n  - ~\n",
			errContains: "fixes[0]",
		},
		"malformed fix": {
			message:     "Body\n\ntype: fix\nfixes:\n  - not a url\n",
			errContains: "invalid URL",
		},
		"underscored co-author key": {
			message:     "Body\n\ntype: fix\nco_authored_by: J <j@x.test>\n",
			errContains: "co_authored_by",
		},
		"unhyphenated co-author key": {
			message:     "Body\n\ntype: fix\ncoauthoredby: J <j@x.test>\n",
			errContains: "coauthoredby",
		},
		"duplicate key": {
			message: "Body\n\ntype: fix\ntype: added\n",
		},
		"bare scalar": {
			message: "Body\n\njust some prose",
		},
		"sequence": {
			message: "Body\n\n- type: fix\n",
		},
		"two documents": {
			message:     "Body\n\ntype: fix\n---\ntype: added\n",
			errContains: "single YAML document",
		},
		"trailer taken from last paragraph only": {
			message:     "Body\n\ntype: fix\n\nSigned-off-by: someone\n",
			errContains: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromMessage("deadbeef", []byte(tt.message))
			require.Error(t, err)

			var de *DeserializeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "deadbeef", de.CommitID)
			assert.Equal(t, tt.message, de.Message)
			require.Error(t, de.Unwrap())
			assert.False(t, IsMissing(err))
			if tt.errContains != "" {
				assert.Contains(t, de.Err.Error(), tt.errContains)
			}
		})
	}
}

func TestFromMessage_LossyUTF8(t *testing.T) {
	raw := append([]byte("Caf\xe9 \xff\xfe body\n\n"), []byte("type: fix\nco-authored-by: J\xff\xfe\n")...)

	got, err := FromMessage("abc", raw)
	require.NoError(t, err)
	assert.Equal(t, Fix, got.Kind)
	require.NotNil(t, got.CoAuthoredBy)
	assert.Equal(t, "J\uFFFD\uFFFD", *got.CoAuthoredBy)

	_, err = FromMessage("abc", []byte("x\xff\xfe"))
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "x\uFFFD\uFFFD", missing.Message)
}

func TestLossyString(t *testing.T) {
	tests := map[string]struct {
		input string
		want  string
	}{
		"valid text unchanged":         {input: "Café ✓", want: "Café ✓"},
		"literal replacement kept":     {input: "a\uFFFDb", want: "a\uFFFDb"},
		"one per stray byte":           {input: "J\xff\xfe", want: "J\uFFFD\uFFFD"},
		"lead byte before ascii":       {input: "Caf\xe9 x", want: "Caf\uFFFD x"},
		"truncated four byte sequence": {input: "\xf0\x9f\x98x", want: "\uFFFDx"},
		"truncated at end of input":    {input: "ok\xe2\x82", want: "ok\uFFFD"},
		"overlong encoding":            {input: "\xc0\xaf", want: "\uFFFD\uFFFD"},
		"surrogate half":               {input: "\xed\xa0\x80", want: "\uFFFD\uFFFD\uFFFD"},
		"above max code point":         {input: "\xf4\x90\x80\x80", want: "\uFFFD\uFFFD\uFFFD\uFFFD"},
		"lone continuation bytes":      {input: "\x80\x80", want: "\uFFFD\uFFFD"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, lossyString([]byte(tt.input)))
		})
	}
}

func TestFromCommit(t *testing.T) {
	c := fakeCommit{id: "0123abcd", message: []byte("Add thing\n\ntype: added\n")}

	got, err := FromCommit(c)
	require.NoError(t, err)
	assert.Equal(t, Added, got.Kind)

	_, err = FromCommit(fakeCommit{id: "0123abcd", message: []byte("Add thing")})
	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "0123abcd", missing.CommitID)
	assert.Contains(t, err.Error(), "0123abcd")
}

func TestEncode_Default(t *testing.T) {
	assert.Equal(t,
		"\ntype: changed\npr: null\nfixes: []\nco-authored-by: null\n",
		Encode(Default()))
}

func TestEncode_AllFields(t *testing.T) {
	m := Metadata{
		Kind: Fix,
		PR:   urlPtr("https://example.org/repo/pull/123"),
		Fixes: []URL{
			MustParseURL("https://example.org/repo/issues/42"),
			MustParseURL("https://example.org/repo/issues/43"),
		},
		CoAuthoredBy: strPtr("Jane Doe <jane@example.org>"),
	}

	want := `
type: fix
pr: https://example.org/repo/pull/123
fixes:
  - https://example.org/repo/issues/42
  - https://example.org/repo/issues/43
co-authored-by: Jane Doe <jane@example.org>
`
	assert.Equal(t, want, m.String())
}

func TestEncode_KeyOrder(t *testing.T) {
	out := Encode(Metadata{Kind: Added, PR: urlPtr("https://x.test/p/1"), CoAuthoredBy: strPtr("J <j@x.test>")})

	typeAt := strings.Index(out, "type:")
	prAt := strings.Index(out, "pr:")
	fixesAt := strings.Index(out, "fixes:")
	authorAt := strings.Index(out, "co-authored-by:")
	assert.True(t, typeAt < prAt && prAt < fixesAt && fixesAt < authorAt, "keys out of order:\n%s", out)
	assert.True(t, strings.HasPrefix(out, "\n"))
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.NotContains(t, out, "---")
}

func TestEncode_InvalidKindPanics(t *testing.T) {
	assert.Panics(t, func() {
		_ = Encode(Metadata{})
	})
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]Metadata{
		"default": Default(),
		"every kind field set": {
			Kind:         Breaking,
			PR:           urlPtr("https://git.example.com/org/repo/-/merge_requests/9"),
			Fixes:        []URL{MustParseURL("https://x.test/i/1")},
			CoAuthoredBy: strPtr("Jane Doe <jane@example.org>"),
		},
		"duplicate fixes": {
			Kind:  Fix,
			Fixes: []URL{MustParseURL("https://x.test/i/1"), MustParseURL("https://x.test/i/1")},
		},
		"co-author that looks like a number": {
			Kind:         Reform,
			Fixes:        []URL{},
			CoAuthoredBy: strPtr("123"),
		},
		"co-author that looks like a boolean": {
			Kind:         Release,
			Fixes:        []URL{},
			CoAuthoredBy: strPtr("yes"),
		},
		"co-author with yaml indicators": {
			Kind:         Documentation,
			Fixes:        []URL{},
			CoAuthoredBy: strPtr("- #weird: name <a@b.c>"),
		},
		"co-author with blank line": {
			Kind:         Development,
			Fixes:        []URL{},
			CoAuthoredBy: strPtr("first\n\nsecond"),
		},
		"empty co-author": {
			Kind:         Distribution,
			Fixes:        []URL{},
			CoAuthoredBy: strPtr(""),
		},
		"url with query and fragment": {
			Kind:  Testing,
			PR:    urlPtr("https://x.test/p/1?tab=files#diff-1"),
			Fixes: []URL{},
		},
	}

	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			trailer := strings.TrimPrefix(Encode(m), "\n")
			got, err := FromMessage("rt", []byte("prefix\n\n"+trailer))
			require.NoError(t, err, "trailer:\n%s", trailer)
			assert.Equal(t, m, got)
		})
	}
}

func TestRoundTrip_AllKinds(t *testing.T) {
	for _, k := range Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			m := Default()
			m.Kind = k
			got, err := Decode(strings.TrimPrefix(Encode(m), "\n"))
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestDecode_Concurrent(t *testing.T) {
	const workers = 16
	trailer := "type: fix\npr: https://x.test/p/1\nfixes:\n  - https://x.test/i/1\n"

	var wg sync.WaitGroup
	results := make([]Metadata, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Decode(trailer)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}
