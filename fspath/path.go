// Package fspath implements the folder-path grammar used throughout
// foldertree: validation, component iteration, parent-path extraction and
// longest-common-ancestor computation. It is a pure function library with
// no locking and no knowledge of the tree itself.
package fspath

import "strings"

// MaxFolderNameLength is the longest a single path component may be.
const MaxFolderNameLength = 255

// Root is the path of the tree's root folder.
const Root = "/"

// Valid reports whether p has the form "/" or "/c1/c2/.../ck/" where each
// ci is 1..MaxFolderNameLength lowercase ASCII letters.
func Valid(p string) bool {
	if p == Root {
		return true
	}
	if len(p) < 2 || p[0] != '/' || p[len(p)-1] != '/' {
		return false
	}
	for _, c := range strings.Split(p[1:len(p)-1], "/") {
		if !validComponent(c) {
			return false
		}
	}
	return true
}

func validComponent(c string) bool {
	if len(c) == 0 || len(c) > MaxFolderNameLength {
		return false
	}
	for _, r := range c {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Split returns the components of p in descending order, e.g.
// Split("/a/b/") == []string{"a", "b"}. Split(Root) returns nil.
// The caller must have already validated p with Valid.
func Split(p string) []string {
	if p == Root {
		return nil
	}
	return strings.Split(p[1:len(p)-1], "/")
}

// Join rebuilds a path from its components. Join() == Root.
func Join(components ...string) string {
	if len(components) == 0 {
		return Root
	}
	return "/" + strings.Join(components, "/") + "/"
}

// Parent splits p into its parent path and its final component name. If p
// is Root, ok is false (the root has no parent). The caller must have
// already validated p with Valid.
func Parent(p string) (parent string, name string, ok bool) {
	components := Split(p)
	if len(components) == 0 {
		return "", "", false
	}
	name = components[len(components)-1]
	parent = Join(components[:len(components)-1]...)
	return parent, name, true
}

// LCA returns the longest common ancestor directory of a and b: the
// deepest path that is a prefix (in terms of whole components, not
// characters) of both. Both a and b must already be valid paths.
func LCA(a, b string) string {
	ca, cb := Split(a), Split(b)
	n := len(ca)
	if len(cb) < n {
		n = len(cb)
	}
	i := 0
	for i < n && ca[i] == cb[i] {
		i++
	}
	return Join(ca[:i]...)
}

// HasPrefix reports whether target is strictly inside the subtree rooted
// at source, i.e. target != source and every component of source is a
// component-wise prefix of target. Both paths must already be valid.
func HasPrefix(target, source string) bool {
	if target == source {
		return false
	}
	cs, ct := Split(source), Split(target)
	if len(ct) < len(cs) {
		return false
	}
	for i, c := range cs {
		if ct[i] != c {
			return false
		}
	}
	return true
}
