package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/ianaindex"
)

// ParsingError wraps the underlying encoding/xml error with a fixed
// message, matching the teacher's ParsingError (decoder.go).
type ParsingError struct {
	Err error
}

func (e *ParsingError) Error() string { return fmt.Sprintf("XML parsing error: %v", e.Err) }
func (e *ParsingError) Unwrap() error { return e.Err }

// Decode reads XML from r and builds a Tree.
//
// CDATA sections are reported by encoding/xml as ordinary character data,
// so they decode as text nodes, not a distinct node kind — the same
// documented limitation the teacher's Decoder carries. Declared
// non-UTF-8 encodings are handled through golang.org/x/text's IANA
// charset registry, same as the teacher.
func Decode(r io.Reader) (*Tree, error) {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.CharsetReader = charsetReader

	t := NewTree()
	stack := []Node{t.Root()}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParsingError{Err: err}
		}

		parent := stack[len(stack)-1]

		switch tt := tok.(type) {
		case xml.StartElement:
			name := ExpandedName{URI: tt.Name.Space, Local: tt.Name.Local}
			el := t.AddElement(parent, name, "")
			for _, a := range tt.Attr {
				switch {
				case a.Name.Space == "xmlns":
					t.DeclareNamespace(el, a.Name.Local, a.Value)
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					t.DeclareNamespace(el, "", a.Value)
				default:
					t.SetAttribute(el, ExpandedName{URI: a.Name.Space, Local: a.Name.Local}, "", a.Value)
				}
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			t.AddText(parent, string(tt))
		case xml.Comment:
			t.AddComment(parent, string(tt))
		case xml.ProcInst:
			t.AddPI(parent, tt.Target, string(tt.Inst))
		case xml.Directive:
			// DTDs and other markup declarations carry no XPath-visible
			// node; ignored like the teacher's decoder ignores them when
			// not building a DocumentType.
		}
	}
	return t, nil
}

// DecodeBytes is a convenience wrapper around Decode for a fully buffered
// document (used by the CLI for "-" stdin, which it reads fully first,
// matching the original CLI's read_to_string-then-parse shape; files go
// through Decode directly).
func DecodeBytes(data []byte) (*Tree, error) {
	return Decode(bytes.NewReader(data))
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
