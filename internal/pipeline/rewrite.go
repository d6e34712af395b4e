package pipeline

import (
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-gitex/internal/fragment"
)

// MathClass is added to every <img> whose source is a rendered formula.
const MathClass = "gitex-math"

// ImageRewrite configures RewriteImages.
type ImageRewrite struct {
	// SourceDir is the directory of the translated document. Relative
	// sources resolve against it. Empty leaves sources untouched.
	SourceDir string
	// RawPrefix is the raw GitHub URL prefix of SourceDir
	// (https://raw.githubusercontent.com/<user>/<repo>/<branch>/). Sources
	// under it are served from the local checkout instead, so a preview
	// works before anything is pushed.
	RawPrefix string
}

// RewriteImages rewrites <img src> and relative <a href> values so the
// preview opens from disk, and tags formula images with MathClass.
//
// Left alone:
//   - absolute paths and URLs other than RawPrefix
//   - sources escaping SourceDir
//   - srcset and CSS url() references
func RewriteImages(htmlContent string, rw ImageRewrite) (string, error) {
	absSourceDir := ""
	if rw.SourceDir != "" {
		var err error
		absSourceDir, err = filepath.Abs(rw.SourceDir)
		if err != nil {
			return "", err
		}
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, absSourceDir, rw.RawPrefix)

	return renderHTML(doc, isFragment)
}

// parseHTML parses either a full document or a fragment. Fragments are
// parsed in a <body> context and wrapped in a bare document node.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders doc, or only its children for a fragment.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, sourceDir, rawPrefix string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteImg(n, sourceDir, rawPrefix)
		case atom.A:
			if sourceDir != "" {
				rewriteAttr(n, "href", sourceDir)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, sourceDir, rawPrefix)
	}
}

func rewriteImg(n *html.Node, sourceDir, rawPrefix string) {
	src, ok := attr(n, "src")
	if !ok {
		return
	}
	if isFormulaImage(src) {
		addClass(n, MathClass)
	}
	if sourceDir == "" {
		return
	}

	if rawPrefix != "" && strings.HasPrefix(src, rawPrefix) {
		local := filepath.Join(sourceDir, filepath.FromSlash(strings.TrimPrefix(src, rawPrefix)))
		if isPathUnderDir(local, sourceDir) {
			setAttr(n, "src", pathToFileURL(local))
		}
		return
	}
	rewriteAttr(n, "src", sourceDir)
}

// rewriteAttr replaces a relative path attribute with a file:// URL.
func rewriteAttr(n *html.Node, attrName, sourceDir string) {
	for i, a := range n.Attr {
		if a.Key != attrName || !isRelativePath(a.Val) {
			continue
		}

		absPath := filepath.Join(sourceDir, a.Val)
		if !isPathUnderDir(absPath, sourceDir) {
			continue
		}
		n.Attr[i].Val = pathToFileURL(absPath)
	}
}

// isFormulaImage reports whether src names a tex_<key>.png artifact,
// locally or behind a URL.
func isFormulaImage(src string) bool {
	if u, err := url.Parse(src); err == nil && u.Path != "" {
		src = u.Path
	}
	_, ok := fragment.KeyFromArtifact(path.Base(filepath.ToSlash(src)))
	return ok
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func addClass(n *html.Node, class string) {
	existing, _ := attr(n, "class")
	fields := strings.Fields(existing)
	if slices.Contains(fields, class) {
		return
	}
	setAttr(n, "class", strings.Join(append(fields, class), " "))
}

// isRelativePath reports whether path is a local relative reference.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	for _, scheme := range []string{"http://", "https://", "file://", "data:", "mailto:"} {
		if strings.HasPrefix(path, scheme) {
			return false
		}
	}
	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// isPathUnderDir checks if absPath is dir or lies below it.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
