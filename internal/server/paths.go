package server

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const indexDocument = "index.html"

var drivePrefix = regexp.MustCompile(`^[A-Za-z]:`)

// Resolver maps untrusted request targets to regular files under a fixed,
// canonical root. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	root        string
	rootWithSep string
}

// NewResolver canonicalizes root once. The caller must not start serving if
// this fails.
func NewResolver(root string) (*Resolver, error) {
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	canonicalRoot, err := filepath.EvalSymlinks(absoluteRoot)
	if err != nil {
		return nil, fmt.Errorf("canonicalize root %q: %w", absoluteRoot, err)
	}

	info, err := os.Stat(canonicalRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root %q: %w", canonicalRoot, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory", canonicalRoot)
	}

	withSep := canonicalRoot
	if !strings.HasSuffix(withSep, string(filepath.Separator)) {
		withSep += string(filepath.Separator)
	}

	return &Resolver{
		root:        canonicalRoot,
		rootWithSep: withSep,
	}, nil
}

// Root returns the canonical root directory.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve turns a raw request target (path plus optional query) into the
// canonical path of a regular file inside the root. The returned error is
// always one of ErrBadRequest, ErrForbidden or ErrNotFound.
func (r *Resolver) Resolve(target string) (string, error) {
	rel, err := relativePath(target)
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(r.root, filepath.FromSlash(rel))
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		candidate = filepath.Join(candidate, indexDocument)
	}

	info, err := os.Stat(candidate)
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}

	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", ErrNotFound
	}

	if !r.contains(canonical) {
		return "", ErrForbidden
	}

	return canonical, nil
}

// contains reports whether a canonical path is the root or lies beneath it.
func (r *Resolver) contains(canonical string) bool {
	return canonical == r.root || strings.HasPrefix(canonical, r.rootWithSep)
}

// relativePath performs the lexical half of resolution: it never touches the
// filesystem and yields a slash-separated path relative to the root.
func relativePath(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", ErrBadRequest
	}

	escaped := u.EscapedPath()
	if escaped == "" {
		escaped = "/"
	}

	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return "", ErrBadRequest
	}

	if strings.ContainsRune(decoded, 0) {
		return "", ErrBadRequest
	}

	// Cleaning without the leading slash keeps a climb above the root visible
	// as a leading "..", instead of silently clamping it at "/".
	cleaned := path.Clean(strings.TrimLeft(decoded, "/"))
	rel := strings.TrimLeft(cleaned, `/\`)

	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrForbidden
	}

	// UNC prefixes cannot survive the trim above; drive letters and
	// host-specific absolute forms can.
	if filepath.IsAbs(rel) || drivePrefix.MatchString(rel) {
		return "", ErrForbidden
	}

	if rel == "" || rel == "." {
		rel = indexDocument
	}

	return rel, nil
}
