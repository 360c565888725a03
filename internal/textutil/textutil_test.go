package textutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a \t b\n\nc  "))
	assert.Equal(t, "", CollapseWhitespace(" \n "))
}

func TestFixQuotes(t *testing.T) {
	assert.Equal(t, `"hi" it's`, FixQuotes("“hi” it’s"))
	assert.Equal(t, "plain", FixQuotes("plain"))
}

func TestSplitContent(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		tags     []string
		sentence string
	}{
		{"tags and sentence", "tag1, tag2, tag3., This is a test.", []string{"tag1", "tag2", "tag3"}, "This is a test."},
		{"tags only", "a, b", []string{"a", "b"}, ""},
		{"sentence keeps later markers", "a., one., two", []string{"a"}, "one., two"},
		{"empty", "", []string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTags, gotSentence := SplitContent(tt.in)
			assert.Equal(t, tt.tags, gotTags)
			assert.Equal(t, tt.sentence, gotSentence)
		})
	}
}

func TestJSONToText(t *testing.T) {
	got, err := JSONToText([]byte(`"Test caption"`))
	require.NoError(t, err)
	assert.Equal(t, "Test caption", got)

	got, err = JSONToText([]byte(`{"caption": "Obj caption", "other": 1}`))
	require.NoError(t, err)
	assert.Equal(t, "Obj caption", got)

	_, err = JSONToText([]byte(`{"not_caption": "x"}`))
	assert.ErrorIs(t, err, ErrNoCaption)

	_, err = JSONToText([]byte(`42`))
	assert.ErrorIs(t, err, ErrNoCaption)

	_, err = JSONToText([]byte(`{ invalid`))
	assert.Error(t, err)
}

func TestCaptionExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, CaptionExists(filepath.Join(dir, "missing.txt")))
	assert.False(t, CaptionExists(writeFile(t, dir, "empty.txt", "")))
	assert.False(t, CaptionExists(writeFile(t, dir, "blank.txt", "   \n  \t  ")))
	assert.True(t, CaptionExists(writeFile(t, dir, "ok.txt", "This is a caption")))
}

func TestReplaceInFile(t *testing.T) {
	dir := t.TempDir()

	path := writeFile(t, dir, "a.txt", "red fox, red panda")
	changed, err := ReplaceInFile(path, "red", "blue", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "blue fox, blue panda", readFile(t, path))

	path = writeFile(t, dir, "b.txt", "a  remove me  b")
	changed, err = ReplaceInFile(path, "remove me", "", false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "a b", readFile(t, path))

	changed, err = ReplaceInFile(path, "absent", "x", false)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = ReplaceInFile(path, "", "x", false)
	require.NoError(t, err)
	assert.False(t, changed, "empty search is a no-op")
}

func TestReplaceInFile_DryRun(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "old")
	changed, err := ReplaceInFile(path, "old", "new", true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "old", readFile(t, path))
}

func TestFixQuotesInFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.txt", "“quoted”")
	changed, err := FixQuotesInFile(path, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, `"quoted"`, readFile(t, path))

	changed, err = FixQuotesInFile(path, false)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStripImageExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"x.jpg.txt", "x.txt", true},
		{"x.JPEG.caption", "x.caption", true},
		{"x.png.txt", "x.txt", true},
		{"a.b.png.txt", "a.b.txt", true},
		{"x.webp.txt", "x.webp.txt", false},
		{"x.txt", "x.txt", false},
		{"x.jpg", "x.jpg", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := StripImageExtension(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestStripImageExtensionFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.jpg.txt", "caption")

	newPath, renamed, err := StripImageExtensionFile(path, false)
	require.NoError(t, err)
	assert.True(t, renamed)
	assert.Equal(t, filepath.Join(dir, "x.txt"), newPath)
	assert.Equal(t, "caption", readFile(t, newPath))
	assert.NoFileExists(t, path)

	other := writeFile(t, dir, "x.png.txt", "second")
	_, renamed, err = StripImageExtensionFile(other, false)
	assert.ErrorIs(t, err, ErrTargetExists)
	assert.False(t, renamed)
	assert.FileExists(t, other)
}

func TestStripImageExtensionFile_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "y.jpg.txt", "c")
	_, renamed, err := StripImageExtensionFile(path, true)
	require.NoError(t, err)
	assert.True(t, renamed)
	assert.FileExists(t, path)
}

func TestSplitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.txt", "tag1, tag2,, tag3., A sentence, with commas.\n")

	got, err := SplitFile(path, "tags", "caption", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x.caption"), filepath.Join(dir, "x.tags")}, got)
	assert.Equal(t, "tag1, tag2, tag3", readFile(t, filepath.Join(dir, "x.tags")))
	assert.Equal(t, "A sentence, with commas.", readFile(t, filepath.Join(dir, "x.caption")))
	assert.FileExists(t, path, "source is kept")
}

func TestSplitFile_TagsOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.txt", "a, b")

	got, err := SplitFile(path, "tags", "caption", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "x.tags")}, got)
	assert.NoFileExists(t, filepath.Join(dir, "x.caption"))
}

func TestSplitFile_RefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.txt", "a, b., Words.")
	writeFile(t, dir, "x.caption", "keep me")

	_, err := SplitFile(path, "tags", "caption", false)
	assert.ErrorIs(t, err, ErrTargetExists)
	assert.NoFileExists(t, filepath.Join(dir, "x.tags"), "nothing is written when any target is taken")
	assert.Equal(t, "keep me", readFile(t, filepath.Join(dir, "x.caption")))

	_, err = SplitFile(path, "txt", "caption2", false)
	assert.ErrorIs(t, err, ErrTargetExists, "the source itself is never a target")
}

func TestSplitFile_DryRunAndBlank(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.txt", "a., b")

	got, err := SplitFile(path, "tags", "caption", true)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoFileExists(t, filepath.Join(dir, "x.tags"))

	got, err = SplitFile(writeFile(t, dir, "blank.txt", "  \n"), "tags", "caption", false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCaptionText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "A cat.", "A cat."},
		{"json string", `"A cat."`, "A cat."},
		{"json object", `{"caption": " A cat. "}`, "A cat."},
		{"object without caption", `{"text": "A cat."}`, `{"text": "A cat."}`},
		{"broken json", `{"caption": `, `{"caption": `},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CaptionText(tt.in))
		})
	}
}
