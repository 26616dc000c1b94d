package depgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"golang.org/x/mod/modfile"
)

// DefaultMaxFileSize is the largest source file Load will parse (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	// ErrNoGoMod is returned when the root has no go.mod.
	ErrNoGoMod = errors.New("no go.mod found")

	// ErrFileTooLarge is returned when a source file exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

// Option configures Load.
type Option func(*loader)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *slog.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithMaxFileSize sets the largest source file Load accepts.
func WithMaxFileSize(bytes int64) Option {
	return func(l *loader) {
		if bytes > 0 {
			l.maxFileSize = bytes
		}
	}
}

// WithTests includes _test.go files.
func WithTests() Option {
	return func(l *loader) {
		l.tests = true
	}
}

type loader struct {
	logger      *slog.Logger
	maxFileSize int64
	tests       bool
}

// Load builds the import graph of the module rooted at root.
//
// Every directory holding non-test .go files becomes a unit named after its
// import path. Directories named vendor or testdata, hidden or _-prefixed
// directories, and nested modules are skipped.
func Load(ctx context.Context, root string, opts ...Option) (*Graph, error) {
	l := &loader{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(l)
	}

	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w in %s", ErrNoGoMod, root)
	}
	if err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}
	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return nil, fmt.Errorf("parse go.mod: no module directive in %s", root)
	}

	g := New()
	g.module = modulePath

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if p != root && skipDir(p, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !l.wantFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return err
		}
		unit := modulePath
		if rel != "." {
			unit = path.Join(modulePath, filepath.ToSlash(rel))
		}

		imports, err := l.parseFile(ctx, p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		g.AddImport(unit, imports...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", root, err)
	}

	l.logger.Debug("loaded dependency graph",
		slog.String("module", modulePath),
		slog.Int("units", len(g.imports)),
		slog.Int("edges", g.Edges()))

	return g, nil
}

func skipDir(p, name string) bool {
	if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	// nested module
	_, err := os.Stat(filepath.Join(p, "go.mod"))
	return err == nil
}

func (l *loader) wantFile(name string) bool {
	if !strings.HasSuffix(name, ".go") {
		return false
	}
	return l.tests || !strings.HasSuffix(name, "_test.go")
}

func (l *loader) parseFile(ctx context.Context, p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.Size() > l.maxFileSize {
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, info.Size(), l.maxFileSize)
	}

	content, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return ParseImports(ctx, content)
}

// ParseImports returns the import paths declared in Go source content, in
// source order.
func ParseImports(ctx context.Context, content []byte) ([]string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	var imports []string
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() != "import_declaration" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			spec := child.Child(j)
			switch spec.Type() {
			case "import_spec":
				imports = appendSpec(imports, spec, content)
			case "import_spec_list":
				for k := 0; k < int(spec.ChildCount()); k++ {
					if item := spec.Child(k); item.Type() == "import_spec" {
						imports = appendSpec(imports, item, content)
					}
				}
			}
		}
	}
	return imports, nil
}

func appendSpec(imports []string, spec *sitter.Node, content []byte) []string {
	for i := 0; i < int(spec.ChildCount()); i++ {
		child := spec.Child(i)
		switch child.Type() {
		case "interpreted_string_literal", "raw_string_literal":
			raw := string(content[child.StartByte():child.EndByte()])
			if p := strings.Trim(raw, "\"`"); p != "" {
				imports = append(imports, p)
			}
		}
	}
	return imports
}
