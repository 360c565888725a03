package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/tagsmith/internal/check"
	"github.com/backmassage/tagsmith/internal/fsio"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	base := []string{"--no-color", "--env-file", filepath.Join(t.TempDir(), "none.env")}
	root.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestConcat(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "x.jpg"), "")
	write(t, filepath.Join(dir, "x.wd"), "tag1, tag2, tag3")
	write(t, filepath.Join(dir, "x.tags"), "tag2, tag4, tag5")
	write(t, filepath.Join(dir, "x.caption"), "a photo of a person")

	_, err := execute(t, "concat", dir)
	require.NoError(t, err)
	assert.Equal(t, "tag1, tag2, tag3, tag4, tag5, a photo of a person", read(t, filepath.Join(dir, "x.txt")))

	_, err = execute(t, "concat", "--keep-duplicate-tags", dir)
	require.NoError(t, err)
	assert.Equal(t, "tag1, tag2, tag3, tag2, tag4, tag5, a photo of a person", read(t, filepath.Join(dir, "x.txt")))
}

func TestConcat_ConfigFileAndFlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "x.png"), "")
	write(t, filepath.Join(dir, "x.wd"), "b, a")
	write(t, filepath.Join(dir, "x.florence"), "a cat")
	cfgPath := filepath.Join(t.TempDir(), "tagsmith.yaml")
	write(t, cfgPath, "concat:\n  extensions: [wd, florence]\n  tag_separator: \" | \"\n")

	_, err := execute(t, "concat", "--config", cfgPath, dir)
	require.NoError(t, err)
	assert.Equal(t, "a | b | a cat", read(t, filepath.Join(dir, "x.txt")))

	_, err = execute(t, "concat", "--config", cfgPath, "--separator", ", ", dir)
	require.NoError(t, err)
	assert.Equal(t, "a, b, a cat", read(t, filepath.Join(dir, "x.txt")))
}

func TestConcat_Errors(t *testing.T) {
	_, err := execute(t, "concat", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, check.ErrInputNotFound)

	_, err = execute(t, "concat", "--preset", "nope", t.TempDir())
	assert.Error(t, err)

	_, err = execute(t, "concat", "--output-ext", "wd", t.TempDir())
	assert.Error(t, err)

	_, err = execute(t, "concat")
	assert.Error(t, err, "directory argument is required")
}

func TestConcat_WriteFailureNamesCount(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "x.jpg"), "")
	write(t, filepath.Join(dir, "x.wd"), "a")
	write(t, filepath.Join(dir, "x.tags"), "b")
	write(t, filepath.Join(dir, "x.caption"), "c")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "x.txt"), 0o755))

	_, err := execute(t, "concat", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, fsio.ErrWrite)
	assert.Contains(t, err.Error(), "1 caption not written")
}

func TestE621_File(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "post.json")
	write(t, in, `{"post": {"file": {"url": "https://x/data/ff/ee/ffee.png"}, "rating": "s",
		"tags": {"artist": ["artist2 (artist)"], "general": ["2023", "grin"]}}}`)

	_, err := execute(t, "e621", "--artist-prefix", "art by ", in)
	require.NoError(t, err)
	assert.Equal(t, "safe, art by artist2, grin", read(t, filepath.Join(dir, "ffee.txt")))
}

func TestE621_DirectoryAndDryRun(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.json"), `{"post": {"file": {"url": "https://x/aaa.jpg"}, "tags": {"general": ["x"]}}}`)
	write(t, filepath.Join(dir, "sub", "b.json"), `{"post": {"file": {"url": "https://x/bbb.jpg"}, "tags": {"general": ["y"]}}}`)

	_, err := execute(t, "e621", "--dry-run", dir)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "aaa.txt"))

	_, err = execute(t, "e621", "--no-rating-map", dir)
	require.NoError(t, err)
	assert.Equal(t, "q, x", read(t, filepath.Join(dir, "aaa.txt")))
	assert.Equal(t, "q, y", read(t, filepath.Join(dir, "sub", "bbb.txt")))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "x.jpg"), "")
	write(t, filepath.Join(dir, "x.wd"), "a")

	out, err := execute(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 groups complete, 1 group incomplete")
	assert.NoFileExists(t, filepath.Join(dir, "x.txt"))
}

func TestCheck(t *testing.T) {
	_, err := execute(t, "check", t.TempDir())
	assert.NoError(t, err)

	_, err = execute(t, "check", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, errCheckFailed)

	_, err = execute(t, "check")
	assert.NoError(t, err, "config-only check needs no directory")
}

func TestTextCommands(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a.txt"), "red fox, “quoted”")
	write(t, filepath.Join(dir, "b.jpg.txt"), "caption")
	write(t, filepath.Join(dir, "p.json"), `{"cat": 0.9, "hat (worn)": 0.5, "low": 0.1}`)

	_, err := execute(t, "replace", "--search", "red", "--replace", "blue", dir)
	require.NoError(t, err)
	_, err = execute(t, "fix-quotes", dir)
	require.NoError(t, err)
	assert.Equal(t, `blue fox, "quoted"`, read(t, filepath.Join(dir, "a.txt")))

	_, err = execute(t, "strip-ext", dir)
	require.NoError(t, err)
	assert.Equal(t, "caption", read(t, filepath.Join(dir, "b.txt")))

	_, err = execute(t, "probs", filepath.Join(dir, "p.json"))
	require.NoError(t, err)
	assert.Equal(t, `cat, hat \(worn\)`, read(t, filepath.Join(dir, "p.txt")))
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "x.txt"), "a, b., A sentence.")
	write(t, filepath.Join(dir, "y.txt"), "c")

	_, err := execute(t, "split", dir)
	require.NoError(t, err)
	assert.Equal(t, "a, b", read(t, filepath.Join(dir, "x.tags")))
	assert.Equal(t, "A sentence.", read(t, filepath.Join(dir, "x.caption")))
	assert.Equal(t, "c", read(t, filepath.Join(dir, "y.tags")))

	_, err = execute(t, "split", filepath.Join(dir, "x.txt"))
	assert.Error(t, err, "existing targets are not overwritten")
}
