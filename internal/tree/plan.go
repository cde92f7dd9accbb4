package tree

import (
	"sort"
	"strings"
)

// Flatten lists, below prefix, the directories of t that must be created
// explicitly. A directory holding only files is listed by itself; one with
// subdirectories is covered by its deepest descendants, since `mkdir -p`
// creates every intermediate segment.
//
// The boolean is false when t has no subdirectory at all.
func Flatten(t Trie, prefix string) ([]string, bool) {
	var dirs []string
	for _, key := range sortedKeys(t) {
		node := t[key]
		if node.Kind != Dir {
			continue
		}

		at := join(prefix, key)
		nested, ok := Flatten(node.Children, "")
		if !ok {
			dirs = append(dirs, at)
			continue
		}
		for _, sub := range nested {
			dirs = append(dirs, at+"/"+sub)
		}
	}
	return dirs, len(dirs) > 0
}

// Plan returns the directories to create under destination before the files
// of t are transferred. With no subdirectories it is just the destination.
func Plan(t Trie, destination string) []string {
	root := TrimDestination(destination)
	if dirs, ok := Flatten(t, root); ok {
		return dirs
	}
	return []string{root}
}

// TrimDestination drops trailing slashes but keeps a bare "/".
func TrimDestination(destination string) string {
	trimmed := strings.TrimRight(destination, "/")
	if trimmed == "" && strings.HasPrefix(destination, "/") {
		return "/"
	}
	return trimmed
}

// MkdirCommandLine renders the plan as a single POSIX shell command line.
func MkdirCommandLine(plan []string) string {
	commands := make([]string, 0, len(plan))
	for _, dir := range plan {
		commands = append(commands, "mkdir -p "+shellQuote(dir))
	}
	return strings.Join(commands, ";")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sortedKeys(t Trie) []string {
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
