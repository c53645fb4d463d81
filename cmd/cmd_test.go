package cmd

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/ryukoposting/ustack/internal/content"
	"github.com/ryukoposting/ustack/internal/scaffold"
)

func TestBindFlagsUsesConfigKeys(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("cache-ttl", 300, "")
	flags.String("config", "", "")
	assert.NilError(t, flags.Parse([]string{"--cache-ttl=42"}))

	v := viper.New()
	assert.NilError(t, bindFlags(v, flags))
	assert.Equal(t, v.GetInt("cache_ttl"), 42)
	assert.Assert(t, !v.IsSet("config"))
}

func TestPrintTree(t *testing.T) {
	root := t.TempDir()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := scaffold.Init(root, quiet)
	assert.NilError(t, err)

	post := "---\ntitle: Tagged\ncreated: 2 Feb 2024 09:00 +0000\ntags: [go, web]\n---\nbody\n"
	assert.NilError(t, os.WriteFile(filepath.Join(root, scaffold.PostsDir, "tagged.md"), []byte(post), 0o644))

	cache, err := content.New(filepath.Join(root, scaffold.PostsDir), time.Minute, quiet)
	assert.NilError(t, err)
	_, err = cache.RefreshIndex(true)
	assert.NilError(t, err)

	var buf bytes.Buffer
	assert.NilError(t, printTree(&buf, cache))
	out := buf.String()
	assert.Assert(t, is.Contains(out, "My Blog"))
	assert.Assert(t, is.Contains(out, "2024-02-02  tagged  Tagged"))
	assert.Assert(t, is.Contains(out, "#go"))
	assert.Assert(t, is.Contains(out, "#web"))
}
