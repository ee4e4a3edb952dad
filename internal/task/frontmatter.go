package task

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterKeys lists the known scalar/sequence fields in the order
// they are written when a fresh key must be appended. Existing keys
// keep whatever position they already occupy in the YAML mapping node,
// which is how unknown fields and a human's preferred ordering survive
// a round trip untouched.
var frontmatterKeys = []string{
	"id", "title", "status", "priority", "assignee",
	"labels", "dependencies", "due_date", "created_at", "updated_at",
}

// frontmatterNode wraps the raw YAML mapping node backing one task's
// frontmatter so that unknown fields present on read are written back
// unchanged, per the store's forward-compatibility contract.
type frontmatterNode struct {
	node *yaml.Node // MappingNode
}

func newFrontmatterNode() *frontmatterNode {
	return &frontmatterNode{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

func parseFrontmatterNode(raw []byte) (*frontmatterNode, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return newFrontmatterNode(), nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &MalformedTaskError{Reason: "frontmatter is not a YAML mapping"}
	}
	return &frontmatterNode{node: mapping}, nil
}

func (f *frontmatterNode) indexOf(key string) int {
	for i := 0; i < len(f.node.Content); i += 2 {
		if f.node.Content[i].Value == key {
			return i
		}
	}
	return -1
}

func (f *frontmatterNode) get(key string) (string, bool) {
	i := f.indexOf(key)
	if i < 0 {
		return "", false
	}
	return f.node.Content[i+1].Value, true
}

func (f *frontmatterNode) getSeq(key string) ([]string, bool) {
	i := f.indexOf(key)
	if i < 0 {
		return nil, false
	}
	val := f.node.Content[i+1]
	if val.Kind != yaml.SequenceNode {
		return nil, false
	}
	out := make([]string, 0, len(val.Content))
	for _, item := range val.Content {
		out = append(out, item.Value)
	}
	return out, true
}

// set writes a scalar field, creating it at the end if it didn't
// already exist, leaving its position unchanged otherwise.
func (f *frontmatterNode) set(key, value string) {
	i := f.indexOf(key)
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if i >= 0 {
		f.node.Content[i+1] = valNode
		return
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	f.node.Content = append(f.node.Content, keyNode, valNode)
}

func (f *frontmatterNode) setSeq(key string, values []string) {
	i := f.indexOf(key)
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	if i >= 0 {
		f.node.Content[i+1] = seq
		return
	}
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	f.node.Content = append(f.node.Content, keyNode, seq)
}

func (f *frontmatterNode) marshal() ([]byte, error) {
	return yaml.Marshal(f.node)
}

// splitFrontmatter separates a task file's leading "---" delimited
// YAML block from its markdown body.
func splitFrontmatter(data []byte) (frontmatter, body []byte, err error) {
	text := string(data)
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return nil, nil, &MalformedTaskError{Reason: "missing frontmatter delimiter"}
	}
	rest := text[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, nil, &MalformedTaskError{Reason: "unterminated frontmatter block"}
	}
	fm := rest[:end]
	afterDelim := rest[end+4:]
	afterDelim = strings.TrimPrefix(afterDelim, "\r\n")
	afterDelim = strings.TrimPrefix(afterDelim, "\n")
	return []byte(fm), []byte(afterDelim), nil
}

func joinFrontmatter(fm, body []byte) []byte {
	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(fm)
	if !strings.HasSuffix(string(fm), "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("---\n")
	sb.Write(body)
	return []byte(sb.String())
}
