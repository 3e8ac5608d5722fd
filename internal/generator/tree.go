package generator

import (
	"sort"
	"strings"

	"github.com/example/extstub/internal/declaration"
)

// MergedClass is the union of every package's contributions to one class
type MergedClass struct {
	Namespace string // backslash-joined, e.g. App\Models
	Class     string
	Uses      []string             // insertion order, deduplicated
	Methods   []declaration.Method // package-processing order, unique by name

	useSet    map[string]struct{}
	methodSet map[string]struct{}
}

// FQCN returns the fully-qualified class name.
func (c *MergedClass) FQCN() string {
	if c.Namespace == "" {
		return c.Class
	}
	return c.Namespace + `\` + c.Class
}

func (c *MergedClass) addUse(use string) {
	if _, ok := c.useSet[use]; ok {
		return
	}
	c.useSet[use] = struct{}{}
	c.Uses = append(c.Uses, use)
}

func (c *MergedClass) hasMethod(name string) bool {
	_, ok := c.methodSet[name]
	return ok
}

func (c *MergedClass) addMethod(m declaration.Method) {
	c.methodSet[m.Name] = struct{}{}
	c.Methods = append(c.Methods, m)
}

// Namespace is one node of the tree. Path holds the segments from the root,
// so the root node has an empty Path.
type Namespace struct {
	Path     []string
	Children map[string]*Namespace
	Classes  map[string]*MergedClass
}

func newNamespace(path []string) *Namespace {
	return &Namespace{
		Path:     path,
		Children: make(map[string]*Namespace),
		Classes:  make(map[string]*MergedClass),
	}
}

// Name returns the node's own segment ("" for the root).
func (n *Namespace) Name() string {
	if len(n.Path) == 0 {
		return ""
	}
	return n.Path[len(n.Path)-1]
}

// child returns the child for segment, creating it when absent.
func (n *Namespace) child(segment string) *Namespace {
	if c, ok := n.Children[segment]; ok {
		return c
	}
	path := make([]string, len(n.Path)+1)
	copy(path, n.Path)
	path[len(n.Path)] = segment

	c := newNamespace(path)
	n.Children[segment] = c
	return c
}

// class returns the leaf for name, creating it when absent.
func (n *Namespace) class(name string) *MergedClass {
	if c, ok := n.Classes[name]; ok {
		return c
	}
	c := &MergedClass{
		Namespace: strings.Join(n.Path, `\`),
		Class:     name,
		useSet:    make(map[string]struct{}),
		methodSet: make(map[string]struct{}),
	}
	n.Classes[name] = c
	return c
}

// ChildNames returns child segment names in lexicographic order.
func (n *Namespace) ChildNames() []string {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassNames returns class names in lexicographic order.
func (n *Namespace) ClassNames() []string {
	names := make([]string, 0, len(n.Classes))
	for name := range n.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tree is the merged namespace tree for one run
type Tree struct {
	Root *Namespace
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{Root: newNamespace(nil)}
}

// SplitNamespace splits a dot- or backslash-delimited namespace into its
// segments, ignoring empty ones.
func SplitNamespace(ns string) []string {
	return strings.FieldsFunc(ns, func(r rune) bool {
		return r == '\\' || r == '.'
	})
}

// Node walks (and creates) the namespace nodes for ns.
func (t *Tree) Node(ns string) *Namespace {
	node := t.Root
	for _, segment := range SplitNamespace(ns) {
		node = node.child(segment)
	}
	return node
}

// Lookup finds a merged class by namespace and class name without
// modifying the tree.
func (t *Tree) Lookup(ns, class string) (*MergedClass, bool) {
	node := t.Root
	for _, segment := range SplitNamespace(ns) {
		next, ok := node.Children[segment]
		if !ok {
			return nil, false
		}
		node = next
	}
	c, ok := node.Classes[class]
	return c, ok
}

// Classes returns every merged class ordered by namespace path then name.
func (t *Tree) Classes() []*MergedClass {
	var out []*MergedClass
	var walk func(n *Namespace)
	walk = func(n *Namespace) {
		for _, name := range n.ClassNames() {
			out = append(out, n.Classes[name])
		}
		for _, name := range n.ChildNames() {
			walk(n.Children[name])
		}
	}
	walk(t.Root)
	return out
}
