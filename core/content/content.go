package content

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidContent is returned when the content tree cannot be built.
	ErrInvalidContent = errors.New("invalid site content")
)

// Page is a node in the site content tree.
type Page struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Slug         string  `yaml:"slug"`
	Title        string  `yaml:"title"`
	Body         string  `yaml:"body"`
	ContactEmail string  `yaml:"contact_email"`
	ContactForm  bool    `yaml:"contact_form"`
	Children     []*Page `yaml:"children"`

	// Path is the normalized URL path, computed on load.
	Path   string `yaml:"-"`
	parent *Page
}

// Parent returns the enclosing page, nil for the root.
func (p *Page) Parent() *Page {
	return p.parent
}

// Ancestors returns the ancestor-or-self chain, nearest first.
func (p *Page) Ancestors() []*Page {
	var chain []*Page
	for n := p; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	return chain
}

// Site answers page lookups for the request path being served.
type Site interface {
	Page(path string) (*Page, bool)
	Root() *Page
}

// Tree is an immutable in-memory Site.
type Tree struct {
	root   *Page
	byPath map[string]*Page
}

var _ Site = (*Tree)(nil)

// LoadFile reads a YAML content tree from path.
func LoadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML content tree whose document root is the home page.
func Parse(r io.Reader) (*Tree, error) {
	var root Page
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&root); err != nil {
		return nil, errors.Join(ErrInvalidContent, fmt.Errorf("decode content: %w", err))
	}
	return NewTree(&root)
}

// NewTree indexes root and its descendants by path. The root page is served
// at "/"; every other page at its parent's path plus its slug.
func NewTree(root *Page) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: missing root page", ErrInvalidContent)
	}
	t := &Tree{root: root, byPath: make(map[string]*Page)}
	root.parent = nil
	root.Path = "/"
	if err := t.index(root); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) index(p *Page) error {
	key := normalize(p.Path)
	if _, dup := t.byPath[key]; dup {
		return fmt.Errorf("%w: duplicate page path %q", ErrInvalidContent, p.Path)
	}
	t.byPath[key] = p

	for _, child := range p.Children {
		if child == nil {
			continue
		}
		slug := strings.Trim(strings.TrimSpace(child.Slug), "/")
		if slug == "" {
			return fmt.Errorf("%w: page %q under %q has no slug", ErrInvalidContent, child.Name, p.Path)
		}
		child.parent = p
		child.Path = strings.TrimSuffix(p.Path, "/") + "/" + slug
		if err := t.index(child); err != nil {
			return err
		}
	}
	return nil
}

// Page looks up a page by URL path. Matching ignores case and a trailing slash.
func (t *Tree) Page(path string) (*Page, bool) {
	p, ok := t.byPath[normalize(path)]
	return p, ok
}

// Root returns the home page.
func (t *Tree) Root() *Page {
	return t.root
}

func normalize(path string) string {
	path = strings.ToLower(strings.TrimSpace(path))
	path = strings.TrimRight(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ResolveContactRecipient returns the nearest non-blank contact address on the
// ancestor-or-self chain of page, or "" when none is configured.
func ResolveContactRecipient(page *Page) string {
	if page == nil {
		return ""
	}
	for _, p := range page.Ancestors() {
		if addr := strings.TrimSpace(p.ContactEmail); addr != "" {
			return addr
		}
	}
	return ""
}
