// Package parser turns script and component sources into jsast and markup
// trees. Scripts are parsed with the tree-sitter TypeScript grammar, which
// also accepts plain JavaScript.
package parser

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"sveltedoctor/internal/jsast"
	"sveltedoctor/internal/markup"
	"sveltedoctor/internal/source"
)

// ErrSyntax is returned when a script contains syntax errors.
var ErrSyntax = errors.New("syntax error")

// ParseScript parses a standalone .ts/.js file.
func ParseScript(ctx context.Context, file source.FileID, src []byte) (*jsast.Program, error) {
	return parseAt(ctx, file, src, 0)
}

// ParseComponent scans a .svelte file and parses its script blocks. Script
// node spans are file offsets, not offsets inside the block.
func ParseComponent(ctx context.Context, file source.FileID, src []byte) (*markup.Component, error) {
	comp, err := markup.Scan(file, src)
	if err != nil {
		return nil, err
	}
	for _, sc := range []*markup.Script{comp.Instance, comp.Module} {
		if sc == nil {
			continue
		}
		content := src[sc.Content.Start:sc.Content.End]
		prog, err := parseAt(ctx, file, content, sc.Content.Start)
		if err != nil {
			return nil, fmt.Errorf("script at offset %d: %w", sc.Loc.Start, err)
		}
		sc.Program = prog
	}
	return comp, nil
}

func parseAt(ctx context.Context, file source.FileID, src []byte, base uint32) (*jsast.Program, error) {
	p := sitter.NewParser()
	p.SetLanguage(typescript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w at %s", ErrSyntax, firstError(root))
	}
	c := &converter{src: src, file: file, base: base}
	return c.program(root), nil
}

// firstError locates the first ERROR or MISSING node for the error message.
func firstError(n *sitter.Node) string {
	if n.Type() == "ERROR" || n.IsMissing() {
		pt := n.StartPoint()
		return fmt.Sprintf("%d:%d", pt.Row+1, pt.Column+1)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch != nil && ch.HasError() {
			return firstError(ch)
		}
	}
	pt := n.StartPoint()
	return fmt.Sprintf("%d:%d", pt.Row+1, pt.Column+1)
}
