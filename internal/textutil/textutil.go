// Package textutil provides the text and filesystem helpers shared by the
// platform probes: regex-driven subtree searches for sysfs-style paths,
// repeated regex substitution, and whitespace normalization.
package textutil

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

// maxReplaceRounds bounds the ReplaceAll fixpoint loop so that a
// replacement which re-introduces its own pattern cannot spin forever.
const maxReplaceRounds = 1024

// Find walks the tree rooted at base and returns the first regular file or
// directory whose full path matches pattern. Traversal order is the order
// os.ReadDir yields entries, so when several paths match, which one wins is
// filesystem-dependent. Unreadable subtrees are skipped rather than treated
// as fatal.
func Find(base, pattern string) (string, bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false
	}

	var found string
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		if re.MatchString(path) {
			found = path
			return fs.SkipAll
		}
		return nil
	})

	return found, found != ""
}

// FindAll walks the tree rooted at base and collects every regular file or
// directory whose full path matches pattern. The result grows as needed;
// there is no fixed capacity. Returns nil when the pattern does not compile
// or nothing matches.
func FindAll(base, pattern string) []string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}

	var paths []string
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		if re.MatchString(path) {
			paths = append(paths, path)
		}
		return nil
	})

	return paths
}

// ReplaceFirst substitutes the first match of pattern in text with repl,
// taken literally. Returns text unchanged when the pattern does not compile
// or does not match.
func ReplaceFirst(pattern, repl, text string) string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return text
	}

	loc := re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + repl + text[loc[1]:]
}

// ReplaceAll applies ReplaceFirst until the text stops changing. One extra
// application of ReplaceAll is therefore a no-op. The round limit guards
// against replacement strings that contain their own pattern.
func ReplaceAll(pattern, repl, text string) string {
	for i := 0; i < maxReplaceRounds; i++ {
		next := ReplaceFirst(pattern, repl, text)
		if next == text {
			return text
		}
		text = next
	}
	return text
}

// Trim collapses every whitespace run in text, internal runs included, to a
// single space and strips leading and trailing whitespace. A string of pure
// whitespace collapses to "".
func Trim(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
