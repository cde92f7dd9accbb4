// Package tree turns a flat list of relative file paths into the set of
// remote directories that have to exist before the files can be written.
package tree

import (
	"fmt"
	"strings"
)

// Kind tells a file leaf apart from a directory.
type Kind int

const (
	File Kind = iota
	Dir
)

func (k Kind) String() string {
	if k == Dir {
		return "directory"
	}
	return "file"
}

// Node is one path segment. Children is only set for directories.
type Node struct {
	Kind     Kind
	Children Trie
}

// Trie maps a path segment to the node it names.
type Trie map[string]Node

// MalformedPathError is returned for any input that cannot be represented as
// a directory tree: empty paths, relative segments, or a name used both as a
// file and as a directory.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (err *MalformedPathError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("malformed path: %s", err.Reason)
	}
	return fmt.Sprintf("malformed path %q: %s", err.Path, err.Reason)
}

// Build merges every path into a single trie.
func Build(paths []string) (Trie, error) {
	t := Trie{}
	for _, p := range paths {
		var err error
		if t, err = Insert(t, p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Insert returns a new trie holding the contents of t plus path.
func Insert(t Trie, path string) (Trie, error) {
	segments, err := split(path)
	if err != nil {
		return nil, err
	}
	return Merge(t, branch(segments))
}

// Merge returns the union of a and b. Neither argument is modified.
func Merge(a, b Trie) (Trie, error) {
	return merge(a, b, "")
}

func merge(a, b Trie, prefix string) (Trie, error) {
	out := make(Trie, len(a)+len(b))
	for key, node := range a {
		out[key] = node
	}
	for key, right := range b {
		left, ok := out[key]
		if !ok {
			out[key] = right
			continue
		}

		at := join(prefix, key)
		switch {
		case left.Kind == File && right.Kind == File:
			// same file listed twice
		case left.Kind == Dir && right.Kind == Dir:
			children, err := merge(left.Children, right.Children, at)
			if err != nil {
				return nil, err
			}
			out[key] = Node{Kind: Dir, Children: children}
		default:
			return nil, &MalformedPathError{
				Path:   at,
				Reason: fmt.Sprintf("used both as a %s and as a %s", left.Kind, right.Kind),
			}
		}
	}
	return out, nil
}

// branch builds the single-path trie {s0: {s1: ... {sN: File}}}.
func branch(segments []string) Trie {
	if len(segments) == 1 {
		return Trie{segments[0]: {Kind: File}}
	}
	return Trie{segments[0]: {Kind: Dir, Children: branch(segments[1:])}}
}

func split(path string) ([]string, error) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil, &MalformedPathError{Path: path, Reason: "empty path"}
	}

	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		switch s {
		case "":
			return nil, &MalformedPathError{Path: path, Reason: "empty segment"}
		case ".", "..":
			return nil, &MalformedPathError{Path: path, Reason: fmt.Sprintf("relative segment %q", s)}
		}
	}
	return segments, nil
}

func join(prefix, key string) string {
	switch prefix {
	case "":
		return key
	case "/":
		return "/" + key
	}
	return prefix + "/" + key
}
