package validation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WellFormednessChecker decides whether a document is structurally valid.
// A nil error means well-formed; a non-nil error carries the reason.
type WellFormednessChecker interface {
	Check(content []byte) error
}

// CheckerFunc adapts a function to WellFormednessChecker.
type CheckerFunc func(content []byte) error

// Check implements WellFormednessChecker.
func (f CheckerFunc) Check(content []byte) error {
	return f(content)
}

// XMLChecker checks XML 1.0 well-formedness: balanced tags, exactly one root
// element and no content after it. Attribute names must be unique per element
// and an XML declaration may only appear at the very start of the document.
// Documents declaring a non-UTF-8 encoding are decoded before checking.
type XMLChecker struct{}

// NewXMLChecker creates an XMLChecker.
func NewXMLChecker() *XMLChecker {
	return &XMLChecker{}
}

// Check implements WellFormednessChecker.
func (c *XMLChecker) Check(content []byte) error {
	content = bytes.TrimPrefix(content, utf8BOM)

	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	depth := 0
	roots := 0
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					line, _ := dec.InputPos()
					return fmt.Errorf("line %d: extra content at the end of the document: <%s>", line, t.Name.Local)
				}
			}
			if err := checkAttributes(t); err != nil {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: %w", line, err)
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.ProcInst:
			if strings.EqualFold(t.Target, "xml") && offset != 0 {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: XML declaration allowed only at the start of the document", line)
			}
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				line, _ := dec.InputPos()
				return fmt.Errorf("line %d: text content outside the root element", line)
			}
		}
	}

	if depth != 0 {
		return fmt.Errorf("unexpected end of document: %d unclosed element(s)", depth)
	}
	if roots == 0 {
		return fmt.Errorf("document has no root element")
	}
	return nil
}

// checkAttributes rejects an element that repeats an attribute name.
func checkAttributes(el xml.StartElement) error {
	if len(el.Attr) < 2 {
		return nil
	}
	seen := make(map[xml.Name]struct{}, len(el.Attr))
	for _, a := range el.Attr {
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("attribute %s redefined on <%s>", attrName(a.Name), el.Name.Local)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// Ensure XMLChecker implements WellFormednessChecker.
var _ WellFormednessChecker = (*XMLChecker)(nil)
