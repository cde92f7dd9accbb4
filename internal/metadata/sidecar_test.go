package metadata

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	md := Build([]string{"index.html", "app.a1b2c3d4e5f6g7h8i9j0.js", "LICENSE"}, "", DefaultFile)

	require.Len(t, md, 4)
	assert.Equal(t, EntryCacheControl, md["index.html"].Headers.CacheControl)
	assert.Equal(t, ImmutableCacheControl, md["app.a1b2c3d4e5f6g7h8i9j0.js"].Headers.CacheControl)
	assert.Equal(t, &Headers{CacheControl: NoCache}, md["LICENSE"].Headers)
	assert.Equal(t, &Headers{CacheControl: NoCache, ContentType: "application/json"}, md[DefaultFile].Headers)
}

func TestBuildWithBlobDir(t *testing.T) {
	md := Build([]string{"index.html"}, "site", "")

	require.Len(t, md, 1)
	assert.Contains(t, md, "site/index.html")
}

func TestMarshalIsIdempotent(t *testing.T) {
	rels := []string{"index.html", "static/app.a1b2c3d4e5f6g7h8i9j0.js", "readme.txt", "logo.png"}

	first, err := Build(rels, "", DefaultFile).Marshal()
	require.NoError(t, err)
	second, err := Build(rels, "", DefaultFile).Marshal()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMarshalShape(t *testing.T) {
	md := Metadata{
		"LICENSE":    {Headers: &Headers{CacheControl: NoCache}},
		"index.html": {Headers: &Headers{CacheControl: EntryCacheControl, ContentType: "text/html"}},
		"empty":      {},
	}
	buf, err := md.Marshal()
	require.NoError(t, err)

	exp := `{
  "LICENSE": {
    "headers": {
      "CacheControl": "no-cache"
    }
  },
  "empty": {},
  "index.html": {
    "headers": {
      "CacheControl": "max-age=600, stale-while-revalidate=180, stale-if-error=300, public",
      "ContentType": "text/html"
    }
  }
}
`
	assert.Equal(t, exp, string(buf))
}

func TestWriteLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("dist", 0755))

	md := Build([]string{"index.html"}, "", DefaultFile)
	path, err := Write(fs, "dist", DefaultFile, md)
	require.NoError(t, err)
	assert.Equal(t, "dist/.metadata.json", path)

	loaded, err := Load(fs, "dist", DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, md, loaded)
}

func TestLoadMissing(t *testing.T) {
	md, err := Load(afero.NewMemMapFs(), "dist", DefaultFile)
	assert.NoError(t, err)
	assert.Nil(t, md)
}

func TestLoadMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "dist/.metadata.json", []byte("{not json"), 0644))

	_, err := Load(fs, "dist", DefaultFile)
	assert.Error(t, err)
}

func TestResolverLookup(t *testing.T) {
	sidecar := Metadata{
		"site/custom.bin": {Headers: &Headers{ContentType: "application/x-custom"}},
		"plain.txt":       {Headers: &Headers{CacheControl: "max-age=5"}},
		"bare":            {},
	}
	r := NewResolver("site", sidecar)

	assert.Equal(t, "site/custom.bin", r.Key("custom.bin"))
	assert.Equal(t, Headers{ContentType: "application/x-custom"}, r.Lookup("custom.bin"))
	assert.Equal(t, Headers{CacheControl: "max-age=5"}, r.Lookup("plain.txt"))
	assert.Equal(t, Headers{}, r.Lookup("bare"))
	assert.Equal(t, EntryCacheControl, r.Lookup("index.html").CacheControl)

	noSidecar := NewResolver("", nil)
	assert.Equal(t, Derive("index.html"), noSidecar.Lookup("index.html"))
}
