package fileread

import (
	"encoding/xml"
	"fmt"
	"os"
)

// xmlElement is a generic XML node: its attributes, text content, and
// child elements, each of which decodes recursively the same way. The
// standard library's encoding/xml is used deliberately: no third-party XML
// library serving simple element-to-map flattening was found in the
// reference codebases for this project.
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Content  string       `xml:",chardata"`
	Children []xmlElement `xml:",any"`
}

// readXML reads an XML document whose root wraps one repeated child
// element (e.g. <users><user id="1" name="Alice"/>...</users>), normalizing
// each child to the canonical row shape from its attributes and
// leaf-element text.
func readXML(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fileread: read %s: %w", path, err)
	}

	var root xmlElement
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("fileread: decode %s: %w", path, err)
	}

	var rows []Row
	for _, child := range root.Children {
		rows = append(rows, normalizeRecord(elementFields(child)))
	}
	return rows, nil
}

// elementFields flattens one element's attributes and leaf-child text into
// a single string-keyed field map.
func elementFields(e xmlElement) map[string]any {
	fields := make(map[string]any, len(e.Attrs)+len(e.Children))
	for _, a := range e.Attrs {
		fields[a.Name.Local] = a.Value
	}
	for _, c := range e.Children {
		fields[c.XMLName.Local] = c.Content
	}
	return fields
}
