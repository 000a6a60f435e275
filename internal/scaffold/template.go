package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/formblock/formstool/internal/components"
)

const (
	baseCommonPrefix   = "../form-common/"
	customCommonPrefix = "../../models/form-common/"
)

type nodeKind int

const (
	kindObject nodeKind = iota
	kindArray
	kindString
	kindLiteral
)

// node is a JSON value that keeps object members in source order.
type node struct {
	kind    nodeKind
	members []member
	items   []*node
	str     string
	raw     []byte
}

type member struct {
	key string
	val *node
}

func stringNode(s string) *node { return &node{kind: kindString, str: s} }

func (n *node) get(key string) *node {
	for _, m := range n.members {
		if m.key == key {
			return m.val
		}
	}
	return nil
}

// set replaces key in place or appends it.
func (n *node) set(key string, v *node) {
	for i := range n.members {
		if n.members[i].key == key {
			n.members[i].val = v
			return
		}
	}
	n.members = append(n.members, member{key: key, val: v})
}

// object returns the object under key, creating it when missing.
func (n *node) object(key string) *node {
	if child := n.get(key); child != nil && child.kind == kindObject {
		return child
	}
	child := &node{kind: kindObject}
	n.set(key, child)
	return child
}

func parseJSON(data []byte) (*node, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	return parseValue(value, typ)
}

func parseValue(data []byte, typ jsonparser.ValueType) (*node, error) {
	switch typ {
	case jsonparser.Object:
		n := &node{kind: kindObject}
		err := jsonparser.ObjectEach(data, func(key, value []byte, vt jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			child, err := parseValue(value, vt)
			if err != nil {
				return err
			}
			n.members = append(n.members, member{key: k, val: child})
			return nil
		})
		return n, err
	case jsonparser.Array:
		n := &node{kind: kindArray}
		var inner error
		_, err := jsonparser.ArrayEach(data, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}
			if err != nil {
				inner = err
				return
			}
			child, err := parseValue(value, vt)
			if err != nil {
				inner = err
				return
			}
			n.items = append(n.items, child)
		})
		if err == nil {
			err = inner
		}
		return n, err
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, err
		}
		return stringNode(s), nil
	case jsonparser.Number, jsonparser.Boolean, jsonparser.Null:
		return &node{kind: kindLiteral, raw: bytes.Clone(data)}, nil
	}
	return nil, fmt.Errorf("unsupported JSON value type %s", typ)
}

// encode writes n with two-space indentation.
func (n *node) encode(buf *bytes.Buffer, indent string) error {
	switch n.kind {
	case kindObject:
		if len(n.members) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, m := range n.members {
			buf.WriteString(indent + "  ")
			if err := writeString(buf, m.key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := m.val.encode(buf, indent+"  "); err != nil {
				return err
			}
			if i < len(n.members)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "}")
	case kindArray:
		if len(n.items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.items {
			buf.WriteString(indent + "  ")
			if err := item.encode(buf, indent+"  "); err != nil {
				return err
			}
			if i < len(n.items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "]")
	case kindString:
		return writeString(buf, n.str)
	default:
		buf.Write(n.raw)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// CustomizeTemplate derives a new component's JSON from a base component's
// JSON. Member order of the base is kept.
func CustomizeTemplate(base []byte, name string) ([]byte, error) {
	root, err := parseJSON(base)
	if err != nil {
		return nil, err
	}
	if root.kind != kindObject {
		return nil, errors.New("template is not a JSON object")
	}
	title := components.Capitalize(name)

	defs := root.get("definitions")
	if defs == nil || defs.kind != kindArray {
		return nil, errors.New("template has no definitions array")
	}
	for _, def := range defs.items {
		if def.kind != kindObject {
			return nil, errors.New("definition is not an object")
		}
		def.set("title", stringNode(title))
		def.set("id", stringNode(name))
		page, err := requireObject(def, "plugins", "xwalk", "page")
		if err != nil {
			return nil, err
		}
		tpl := page.object("template")
		tpl.set("jcr:title", stringNode(title))
		tpl.set("fd:viewType", stringNode(name))
	}

	models := root.get("models")
	if models == nil || models.kind != kindArray {
		return nil, errors.New("template has no models array")
	}
	for _, model := range models.items {
		if model.kind != kindObject {
			return nil, errors.New("model is not an object")
		}
		model.set("id", stringNode(name))
		rewriteCommonRefs(model)
	}

	var buf bytes.Buffer
	if err := root.encode(&buf, ""); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func requireObject(n *node, path ...string) (*node, error) {
	cur := n
	for i, key := range path {
		next := cur.get(key)
		if next == nil || next.kind != kindObject {
			return nil, fmt.Errorf("definition has no %s object", strings.Join(path[:i+1], "."))
		}
		cur = next
	}
	return cur, nil
}

// rewriteCommonRefs points "..." includes of shared form-common fragments at
// the location used by custom components.
func rewriteCommonRefs(n *node) {
	switch n.kind {
	case kindObject:
		for _, m := range n.members {
			if m.key == "..." && m.val.kind == kindString {
				if strings.HasPrefix(m.val.str, baseCommonPrefix) {
					m.val.str = customCommonPrefix + strings.TrimPrefix(m.val.str, baseCommonPrefix)
				}
				continue
			}
			rewriteCommonRefs(m.val)
		}
	case kindArray:
		for _, item := range n.items {
			rewriteCommonRefs(item)
		}
	}
}

// FallbackTemplate is used when the base component JSON cannot be read.
func FallbackTemplate(name string) []byte {
	title := components.Capitalize(name)
	return []byte(fmt.Sprintf(`{
  "definitions": [
    {
      "title": "%[1]s",
      "id": "%[2]s",
      "plugins": {
        "xwalk": {
          "page": {
            "resourceType": "core/fd/components/form/textinput/v1/textinput",
            "template": {
              "jcr:title": "%[1]s",
              "fieldType": "text-input",
              "fd:viewType": "%[2]s"
            }
          }
        }
      }
    }
  ],
  "models": [
    {
      "id": "%[2]s",
      "fields": [
        {
          "component": "container",
          "name": "basic",
          "label": "Basic",
          "collapsible": false,
          "...": "../../models/form-common/_basic-input-fields.json"
        },
        {
          "...": "../../models/form-common/_help-container.json"
        }
      ]
    }
  ]
}
`, title, name))
}

// ModuleStub is the behavior module written for a new component.
func ModuleStub(name string, base BaseComponent) []byte {
	return []byte(fmt.Sprintf(`/**
 * Custom %[1]s component
 * Based on: %[2]s
 */
export default async function decorate(fieldDiv, fieldJson) {
  console.log('Decorating %[1]s component:', fieldDiv, fieldJson);

  // TODO: Implement your custom component logic here
  // You can access the field properties via fieldJson.properties

  return fieldDiv;
}
`, name, base.Name))
}

// StyleStub is the stylesheet written for a new component.
func StyleStub(name string) []byte {
	return []byte(fmt.Sprintf(`/* %s component styles */

.%s {
  /* Add your custom styles here */
}
`, components.Capitalize(name), name))
}
