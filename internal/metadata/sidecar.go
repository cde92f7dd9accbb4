package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultFile is the sidecar name written into the source directory.
const DefaultFile = ".metadata.json"

// Object is the sidecar entry of one blob.
type Object struct {
	Headers *Headers `json:"headers,omitempty"`
}

// Metadata maps a blob key to its entry.
type Metadata map[string]Object

// Build derives the entry of every relative path under blobDir. When sidecar
// is set, the sidecar file gets its own entry so that it is served as JSON.
func Build(rels []string, blobDir, sidecar string) Metadata {
	md := make(Metadata, len(rels)+1)
	for _, rel := range rels {
		key := Key(blobDir, rel)
		md[key] = newObject(Derive(key))
	}
	if sidecar != "" {
		md[Key(blobDir, sidecar)] = newObject(Headers{
			ContentType:  "application/json",
			CacheControl: NoCache,
		})
	}
	return md
}

func newObject(h Headers) Object {
	if h.IsZero() {
		return Object{}
	}
	return Object{Headers: &h}
}

// Marshal encodes md as indented JSON. Keys come out sorted, so equal
// metadata always gives identical bytes.
func (md Metadata) Marshal() ([]byte, error) {
	buf, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(buf, '\n'), nil
}

// Write stores md as dir/name and returns the written path.
func Write(fs afero.Fs, dir, name string, md Metadata) (string, error) {
	buf, err := md.Marshal()
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	target := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, target, buf, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}

// Load reads dir/name. A missing sidecar is not an error: it returns nil.
func Load(fs afero.Fs, dir, name string) (Metadata, error) {
	target := filepath.Join(dir, name)
	buf, err := afero.ReadFile(fs, target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	var md Metadata
	if err := json.Unmarshal(buf, &md); err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}
	return md, nil
}

// Resolver answers the headers of a blob for upload transports. Entries
// from a sidecar take precedence over derived ones.
type Resolver struct {
	blobDir string
	sidecar Metadata
}

// NewResolver returns a Resolver for keys under blobDir. sidecar may be nil.
func NewResolver(blobDir string, sidecar Metadata) Resolver {
	return Resolver{blobDir: blobDir, sidecar: sidecar}
}

// Key returns the blob key for rel.
func (r Resolver) Key(rel string) string {
	return Key(r.blobDir, rel)
}

// Lookup returns the headers for the blob at rel.
func (r Resolver) Lookup(rel string) Headers {
	key := r.Key(rel)
	for _, candidate := range []string{key, rel} {
		if obj, ok := r.sidecar[candidate]; ok {
			if obj.Headers == nil {
				return Headers{}
			}
			return *obj.Headers
		}
	}
	return Derive(key)
}
