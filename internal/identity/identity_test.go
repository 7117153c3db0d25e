package identity

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^glu_[0-9a-z]+_[0-9a-f]{12}$`)

	id := Generate()
	require.Regexp(t, pattern, id)
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := Generate()
		require.False(t, seen[id], "duplicate identity %s", id)
		seen[id] = true
	}
}

func TestGenerateSortableByCreationTime(t *testing.T) {
	t.Parallel()

	// The base36 timestamp prefix keeps same-length identities ordered;
	// both of these were generated in the same run so lengths match.
	first := Generate()
	second := Generate()
	assert.LessOrEqual(t, strings.SplitN(first, "_", 3)[1], strings.SplitN(second, "_", 3)[1])
}

func TestHasIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{
			name:     "plain message",
			message:  "fix: handle empty input",
			expected: false,
		},
		{
			name:     "message with trailer",
			message:  "fix: handle empty input\n\nGlu-ID: glu_abc123_0123456789ab",
			expected: true,
		},
		{
			name:     "trailer among other trailers",
			message:  "feat: thing\n\nSigned-off-by: Dev <dev@example.com>\nGlu-ID: glu_abc_def\nReviewed-by: Someone",
			expected: true,
		},
		{
			name:     "permissive short token",
			message:  "subject\n\nGlu-ID: glu_x",
			expected: true,
		},
		{
			name:     "identity mentioned mid-line does not count",
			message:  "talk about Glu-ID: glu_abc in prose wording",
			expected: false,
		},
		{
			name:     "wrong prefix",
			message:  "subject\n\nGlu-ID: other_abc123",
			expected: false,
		},
		{
			name:     "empty message",
			message:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, HasIdentity(tt.message))
		})
	}
}

func TestExtractIdentity(t *testing.T) {
	t.Parallel()

	id, ok := ExtractIdentity("subject\n\nGlu-ID: glu_abc123_0123456789ab")
	require.True(t, ok)
	assert.Equal(t, "glu_abc123_0123456789ab", id)

	_, ok = ExtractIdentity("subject with no trailer")
	assert.False(t, ok)
}

func TestEmbedRoundTrip(t *testing.T) {
	t.Parallel()

	message := "feat: add parser\n\nLonger body explaining the change."

	embedded := Embed(message, "glu_test_abc")

	id, ok := ExtractIdentity(embedded)
	require.True(t, ok)
	assert.Equal(t, "glu_test_abc", id)

	assert.Equal(t, message, Strip(embedded))
}

func TestEmbedGeneratesWhenEmpty(t *testing.T) {
	t.Parallel()

	embedded := Embed("subject", "")

	id, ok := ExtractIdentity(embedded)
	require.True(t, ok)
	assert.Regexp(t, `^glu_[0-9a-z]+_[0-9a-f]{12}$`, id)
}

func TestEmbedIsIdempotent(t *testing.T) {
	t.Parallel()

	embedded := Embed("subject", "glu_first_123456789abc")
	again := Embed(embedded, "glu_second_123456789abc")

	// Never overwrites an existing identity
	assert.Equal(t, embedded, again)

	id, _ := ExtractIdentity(again)
	assert.Equal(t, "glu_first_123456789abc", id)
}

func TestStripLeavesOtherTrailersAlone(t *testing.T) {
	t.Parallel()

	message := "feat: thing\n\nSigned-off-by: Dev <dev@example.com>\nGlu-ID: glu_abc_def\nReviewed-by: Someone"

	stripped := Strip(message)

	assert.NotContains(t, stripped, "Glu-ID")
	assert.Contains(t, stripped, "Signed-off-by: Dev <dev@example.com>")
	assert.Contains(t, stripped, "Reviewed-by: Someone")
}

func TestStripTrailerOnFirstLine(t *testing.T) {
	t.Parallel()

	// A malformed message may carry the trailer before any content; strip
	// must not leave a leading newline behind
	assert.Equal(t, "rest of message", Strip("Glu-ID: glu_x\nrest of message"))
	assert.Equal(t, "", Strip("Glu-ID: glu_x"))
}

func TestStripWithoutIdentityIsNoop(t *testing.T) {
	t.Parallel()

	message := "subject\n\nbody text"
	assert.Equal(t, message, Strip(message))
}
