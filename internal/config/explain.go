package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a YAML-like path and the source
// that last wrote it. Paths use dots for mappings and [i] for list items:
//
//	border_px
//	gaps.inner_h
//	keys[3].command
//	monitor_rules[0].mfact
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	var doc yaml.Node
	if err := doc.Encode(res.Config); err != nil {
		return nil, Source{}, err
	}
	node, err := lookupNode(&doc, path)
	if err != nil {
		return nil, Source{}, err
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, Source{}, err
	}

	for p := path; p != ""; p = parentPath(p) {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupNode(root *yaml.Node, path string) (*yaml.Node, error) {
	node := root
	for _, seg := range splitPath(path) {
		if idx, ok := seg.index(); ok {
			if node.Kind != yaml.SequenceNode || idx < 0 || idx >= len(node.Content) {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			node = node.Content[idx]
			continue
		}
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == string(seg) {
				next = node.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node = next
	}
	return node, nil
}

type pathSegment string

func (s pathSegment) index() (int, bool) {
	if !strings.HasPrefix(string(s), "[") || !strings.HasSuffix(string(s), "]") {
		return 0, false
	}
	i, err := strconv.Atoi(string(s[1 : len(s)-1]))
	return i, err == nil
}

// splitPath turns "keys[3].command" into "keys", "[3]", "command".
func splitPath(path string) []pathSegment {
	var out []pathSegment
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				out = append(out, pathSegment(part))
				break
			}
			if open > 0 {
				out = append(out, pathSegment(part[:open]))
			}
			end := strings.IndexByte(part[open:], ']')
			if end < 0 {
				out = append(out, pathSegment(part[open:]))
				break
			}
			out = append(out, pathSegment(part[open:open+end+1]))
			part = part[open+end+1:]
		}
	}
	return out
}
