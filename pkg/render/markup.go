package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	verrors "github.com/vango-dev/vtree/internal/errors"
)

// renderObject writes obj as an element: the class is the tag, Name comes
// first, then props in key order. Props prefixed with "_" and handlers are
// skipped.
func (r *Renderer) renderObject(w io.Writer, obj *Object, depth int) error {
	if obj.destroyed {
		return verrors.New(verrors.CodeDestroyedObject).WithDetail(obj.Path())
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, `<%s Name="%s"`, obj.Class, escapeAttr(obj.Name)); err != nil {
		return err
	}
	if err := r.renderAttributes(w, obj); err != nil {
		return err
	}

	children := obj.Children()
	if len(children) == 0 {
		if _, err := io.WriteString(w, "/>"); err != nil {
			return err
		}
		r.writeNewline(w)
		return nil
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	r.writeNewline(w)
	for _, child := range children {
		if err := r.renderObject(w, child, depth+1); err != nil {
			return err
		}
	}
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "</%s>", obj.Class); err != nil {
		return err
	}
	r.writeNewline(w)
	return nil
}

// renderAttributes renders the object's props in sorted order.
func (r *Renderer) renderAttributes(w io.Writer, obj *Object) error {
	keys := make([]string, 0, len(obj.Props))
	for key, value := range obj.Props {
		if strings.HasPrefix(key, "_") || isHandler(value) {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(propToString(obj.Props[key]))); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

func (r *Renderer) writeNewline(w io.Writer) {
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
}

// escapeAttr escapes text for safe inclusion in attribute values.
// In addition to the standard entities, it also escapes whitespace
// characters that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
