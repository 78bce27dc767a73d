package http

import (
	"strings"
	"time"

	"github.com/venky7799/aemsearch"
)

// Property names of the Sling JSON rendering.
const (
	propContent           = "jcr:content"
	propPrimaryType       = "jcr:primaryType"
	propTitle             = "jcr:title"
	propMetadata          = "metadata"
	propDCTitle           = "dc:title"
	propCQLastModified    = "cq:lastModified"
	propJCRLastModified   = "jcr:lastModified"
	propReplicationAction = "cq:lastReplicationAction"
)

// dateLayouts are the timestamp formats found in Sling JSON output.
var dateLayouts = []string{
	time.RFC3339Nano,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"2006-01-02T15:04:05.000-07:00",
}

// collectNodes walks the JSON tree rooted at props, whose path is root, and
// calls fn for every child node at most depth levels below it. jcr:content
// subtrees and access control nodes are not content nodes.
func collectNodes(props map[string]any, root string, depth int, fn func(*aemsearch.Node)) {
	if depth <= 0 {
		return
	}
	for name, v := range props {
		child, ok := v.(map[string]any)
		if !ok || skipChild(name) {
			continue
		}
		p := aemsearch.JoinPath(root, name)
		fn(nodeFromProps(p, name, child))
		collectNodes(child, p, depth-1, fn)
	}
}

func skipChild(name string) bool {
	return name == propContent || strings.HasPrefix(name, "rep:")
}

// nodeFromProps builds a Node from the JSON object of a node.
func nodeFromProps(path, name string, props map[string]any) *aemsearch.Node {
	content, _ := props[propContent].(map[string]any)
	return &aemsearch.Node{
		Path:         path,
		Name:         name,
		Title:        title(props, content),
		NodeType:     stringProp(props, propPrimaryType),
		LastModified: lastModified(props, content),
		Active:       isActive(props),
	}
}

// isActive reports whether a node is published. A node without jcr:content,
// such as a folder, is considered active.
func isActive(props map[string]any) bool {
	content, ok := props[propContent].(map[string]any)
	if !ok {
		return true
	}
	return stringProp(content, propReplicationAction) == "Activate"
}

func title(props, content map[string]any) string {
	if t := stringProp(content, propTitle); t != "" {
		return t
	}
	if t := stringProp(props, propTitle); t != "" {
		return t
	}
	meta, _ := content[propMetadata].(map[string]any)
	switch t := meta[propDCTitle].(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			s, _ := t[0].(string)
			return s
		}
	}
	return ""
}

func lastModified(props, content map[string]any) time.Time {
	for _, s := range []string{
		stringProp(content, propCQLastModified),
		stringProp(content, propJCRLastModified),
		stringProp(props, propCQLastModified),
		stringProp(props, propJCRLastModified),
	} {
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// stringProp returns props[key] if it is a string. props may be nil.
func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}
