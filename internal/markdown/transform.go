package markdown

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const maxHeadingLevel = 6

// headingShifter demotes headings one level; the article title is the page h1.
type headingShifter struct{}

func (headingShifter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if heading, ok := n.(*ast.Heading); ok {
			heading.Level = min(heading.Level+1, maxHeadingLevel)
		}
		return ast.WalkContinue, nil
	})
}

// KindFigure identifies a paragraph that held nothing but an image.
var KindFigure = ast.NewNodeKind("Figure")

type figureNode struct {
	ast.BaseBlock
	caption []byte
}

func (n *figureNode) Kind() ast.NodeKind {
	return KindFigure
}

func (n *figureNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Caption": string(n.caption)}, nil)
}

// figureTransformer swaps image-only paragraphs for figure nodes carrying the
// alt text as caption.
type figureTransformer struct{}

func (figureTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	var paragraphs []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if para, ok := n.(*ast.Paragraph); ok {
			if para.ChildCount() == 1 {
				if _, isImage := para.FirstChild().(*ast.Image); isImage {
					paragraphs = append(paragraphs, para)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, para := range paragraphs {
		image := para.FirstChild().(*ast.Image)
		figure := &figureNode{caption: image.Text(source)}
		parent := para.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, para, figure)
		figure.AppendChild(figure, image)
	}
}

type figureRenderer struct{}

func (r figureRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFigure, r.renderFigure)
}

func (figureRenderer) renderFigure(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	figure := n.(*figureNode)
	if entering {
		_, _ = w.WriteString(`<figure class="article-figure">`)
		return ast.WalkContinue, nil
	}
	if len(figure.caption) > 0 {
		_, _ = w.WriteString("<figcaption>")
		_, _ = w.Write(util.EscapeHTML(figure.caption))
		_, _ = w.WriteString("</figcaption>")
	}
	_, _ = w.WriteString("</figure>\n")
	return ast.WalkContinue, nil
}
