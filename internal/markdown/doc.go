// Package markdown loads post files (YAML front-matter plus Markdown body)
// from an fs.FS and renders them to HTML with goldmark.
package markdown
