package override

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// override Name[(dep, dep)][: type]
var headerRE = regexp.MustCompile(`^override\s+([^\s(:]+)\s*(?:\(([^)]*)\))?\s*(?::\s*(.*?))?\s*$`)

// ParseText parses the text format.
func ParseText(r io.Reader) (*Registry, error) {
	var (
		entries []Entry
		cur     *Entry
		code    []string
		lineNo  int
	)
	flush := func() {
		if cur == nil {
			return
		}
		for len(code) > 0 && strings.TrimSpace(code[len(code)-1]) == "" {
			code = code[:len(code)-1]
		}
		cur.Code = strings.Join(code, "\n")
		entries = append(entries, *cur)
		cur, code = nil, nil
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "override" || strings.HasPrefix(line, "override ") || strings.HasPrefix(line, "override\t") {
			m := headerRE.FindStringSubmatch(line)
			if m == nil {
				return nil, errors.Newf("line %d: malformed override header %q", lineNo, line)
			}
			flush()
			cur = &Entry{Name: m[1], Deps: splitList(m[2]), Type: m[3]}
			continue
		}
		if cur == nil {
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "#") {
				return nil, errors.Newf("line %d: code outside of an override: %q", lineNo, line)
			}
			continue
		}
		code = append(code, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read overrides")
	}
	flush()
	return New(entries...)
}

// ParseYAML parses the YAML mapping format. Each key is a qualified name;
// its value is either the code as a string, or a mapping with type, code
// and deps keys.
func ParseYAML(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, errors.Wrap(err, "decode overrides")
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errors.Newf("line %d: overrides must be a mapping", root.Line)
	}
	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var e Entry
		if err := val.Decode(&e); err != nil {
			return nil, errors.Wrapf(err, "line %d: override %q", key.Line, key.Value)
		}
		e.Name = key.Value
		e.Code = strings.TrimRight(e.Code, "\n")
		entries = append(entries, e)
	}
	return New(entries...)
}

// UnmarshalYAML accepts a plain string as the code of the entry.
func (e *Entry) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		e.Code = n.Value
		return nil
	case yaml.MappingNode:
		type plain Entry
		var p plain
		if err := n.Decode(&p); err != nil {
			return err
		}
		*e = Entry(p)
		return nil
	default:
		return errors.Newf("expected a string or a mapping")
	}
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
