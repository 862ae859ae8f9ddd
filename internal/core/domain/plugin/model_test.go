package plugindomain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		source   Source
		expected Identity
		wantErr  bool
	}{
		{name: "https url", source: "https://github.com/zsh-users/zsh-autosuggestions", expected: Identity{Owner: "zsh-users", Name: "zsh-autosuggestions"}},
		{name: "url with .git suffix", source: "https://github.com/owner/name.git", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "url with trailing slash", source: "https://gitlab.com/group/sub/name/", expected: Identity{Owner: "sub", Name: "name"}},
		{name: "url with query", source: "https://host/owner/name?ref=main#readme", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "shorthand", source: "owner/name", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "host shorthand", source: "github.com/owner/name", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "scp style", source: "git@github.com:owner/name.git", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "padded", source: "  owner//name  ", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "local path", source: "/srv/plugins/owner/name", expected: Identity{Owner: "owner", Name: "name"}},
		{name: "single segment", source: "singleseg", wantErr: true},
		{name: "empty", source: "", wantErr: true},
		{name: "root only url", source: "https://github.com/", wantErr: true},
		{name: "url with one segment", source: "https://github.com/name", wantErr: true},
		{name: "bare .git name", source: "owner/.git", wantErr: true},
		{name: "dot segments", source: "../..", wantErr: true},
		{name: "scp without owner", source: "git@github.com:name.git", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Resolve(tt.source)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSource)
				assert.Equal(t, Identity{}, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "owner/name", Identity{Owner: "owner", Name: "name"}.String())
}

func TestCloneURL(t *testing.T) {
	tests := []struct {
		source   Source
		host     string
		expected string
	}{
		{source: "owner/name", expected: "https://github.com/owner/name.git"},
		{source: "owner/name.git", host: "git.example.org", expected: "https://git.example.org/owner/name.git"},
		{source: "gitlab.com/owner/name", expected: "https://gitlab.com/owner/name"},
		{source: "https://github.com/owner/name", expected: "https://github.com/owner/name"},
		{source: "git@github.com:owner/name.git", expected: "git@github.com:owner/name.git"},
		{source: "/srv/plugins/owner/name", expected: "/srv/plugins/owner/name"},
		{source: "./owner/name", expected: "./owner/name"},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			assert.Equal(t, tt.expected, CloneURL(tt.source, tt.host))
		})
	}
}

func TestResolve_PropertyBased_ShorthandAndURLAgree(t *testing.T) {
	segment := rapid.StringMatching(`[a-zA-Z0-9_-][a-zA-Z0-9_.-]{0,20}`)

	rapid.Check(t, func(t *rapid.T) {
		owner := segment.Draw(t, "owner")
		name := segment.Draw(t, "name")
		if owner == ".." || name == ".." || owner == "." || name == "." {
			t.Skip("dot segments are rejected")
		}

		fromShorthand, err := Resolve(Source(owner + "/" + name))
		if err != nil {
			assert.ErrorIs(t, err, ErrInvalidSource)
			return
		}
		fromURL, err := Resolve(Source("https://example.com/" + owner + "/" + name))
		require.NoError(t, err)

		assert.Equal(t, fromShorthand, fromURL, "shorthand and URL forms must resolve identically")
		assert.NotEmpty(t, fromURL.Owner)
		assert.NotEmpty(t, fromURL.Name)

		again, err := Resolve(Source(owner + "/" + name))
		require.NoError(t, err)
		assert.Equal(t, fromShorthand, again, "resolution must be deterministic")
	})
}

func TestFingerprintOf_PropertyBased_ByteEquality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SliceOf(rapid.Byte()).Draw(t, "a")
		b := rapid.SliceOf(rapid.Byte()).Draw(t, "b")

		assert.Equal(t, FingerprintOf(a), FingerprintOf(append([]byte(nil), a...)), "identical bytes must match")
		if !bytes.Equal(a, b) {
			assert.NotEqual(t, FingerprintOf(a), FingerprintOf(b), "distinct bytes must differ")
		}
	})
}

func TestFingerprint_FormattingIsSignificant(t *testing.T) {
	compact := FingerprintOf([]byte(`{"plugins":["owner/name"]}`))
	pretty := FingerprintOf([]byte("{\n  \"plugins\": [\"owner/name\"]\n}"))

	assert.NotEqual(t, compact, pretty)
}

func TestParseFingerprint_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fp := FingerprintOf(rapid.SliceOf(rapid.Byte()).Draw(t, "raw"))

		parsed, err := ParseFingerprint(fp.String())
		require.NoError(t, err)
		assert.Equal(t, fp, parsed)
		assert.NotEqual(t, Fingerprint{}, parsed)
	})
}

func TestParseFingerprint_Invalid(t *testing.T) {
	for _, input := range []string{"", "zz", "abcd", FingerprintOf(nil).String() + "00"} {
		_, err := ParseFingerprint(input)
		assert.Error(t, err, "input %q", input)
	}
}
