package detector

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// resourceBlock is one structurally extracted infrastructure declaration:
// a declaration token, quoted type, quoted name, and a brace-delimited
// body parsed into key/value pairs with nested blocks as nested maps.
type resourceBlock struct {
	Type string
	Name string
	Body map[string]any
}

var resourceHeader = regexp.MustCompile(`^\s*resource\s+"([^"]+)"\s+"([^"]+)"\s*\{`)

// nestedHeader matches the start of a nested block or map assignment
// inside a resource body: `tags = {` or `attribute {`.
var nestedHeader = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*(=\s*)?\{\s*$`)

var keyValueLine = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+?)\s*$`)

// parseResourceBlocks extracts resource blocks from Terraform file content
// using brace-depth counting: depth increments on '{', decrements on '}',
// and a block ends when depth returns to zero. A file ending with
// unbalanced braces yields an ambiguity reason and the malformed block is
// dropped; blocks parsed before it are kept.
func parseResourceBlocks(content string) ([]resourceBlock, string) {
	var blocks []resourceBlock
	lines := strings.Split(content, "\n")

	i := 0
	for i < len(lines) {
		m := resourceHeader.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		block := resourceBlock{Type: m[1], Name: m[2], Body: make(map[string]any)}
		depth := 1
		// Anything after the opening brace on the header line counts too.
		rest := lines[i][strings.Index(lines[i], "{")+1:]
		depth += braceDelta(rest)
		i++

		// Stack of open bodies; nested blocks push a child map.
		stack := []map[string]any{block.Body}

		for i < len(lines) && depth > 0 {
			line := lines[i]
			trimmed := strings.TrimSpace(line)
			current := stack[len(stack)-1]

			switch {
			case trimmed == "}" || trimmed == "},":
				depth--
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			case nestedHeader.MatchString(line):
				nm := nestedHeader.FindStringSubmatch(line)
				child := make(map[string]any)
				current[nm[1]] = child
				stack = append(stack, child)
				depth++
			default:
				if kv := keyValueLine.FindStringSubmatch(line); kv != nil {
					current[kv[1]] = parseScalar(kv[2])
				} else {
					depth += braceDelta(line)
				}
			}
			i++
		}

		if depth > 0 {
			return blocks, fmt.Sprintf("unbalanced braces in resource %q %q", block.Type, block.Name)
		}
		blocks = append(blocks, block)
	}

	return blocks, ""
}

// braceDelta counts the net brace depth change of a line, ignoring braces
// inside string literals.
func braceDelta(line string) int {
	delta := 0
	inString := false
	for j := 0; j < len(line); j++ {
		switch line[j] {
		case '"':
			if j == 0 || line[j-1] != '\\' {
				inString = !inString
			}
		case '{':
			if !inString {
				delta++
			}
		case '}':
			if !inString {
				delta--
			}
		}
	}
	return delta
}

// parseScalar converts an HCL scalar literal to a Go value. Quoted strings
// lose their quotes; numbers and booleans parse natively; anything else
// (expressions, references) is kept verbatim.
func parseScalar(raw string) any {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ",")

	if len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`) {
		return raw[1 : len(raw)-1]
	}
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// FormatResourceBlock renders a config mapping back into HCL block syntax.
// The output round-trips through parseResourceBlocks preserving key sets
// and nesting.
func FormatResourceBlock(resourceType, resourceName string, config map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "resource %q %q {\n", resourceType, resourceName)
	writeBody(&b, config, 1)
	b.WriteString("}")
	return b.String()
}

func writeBody(b *strings.Builder, body map[string]any, indent int) {
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pad := strings.Repeat("  ", indent)
	for _, k := range keys {
		switch v := body[k].(type) {
		case map[string]any:
			fmt.Fprintf(b, "%s%s {\n", pad, k)
			writeBody(b, v, indent+1)
			fmt.Fprintf(b, "%s}\n", pad)
		case string:
			fmt.Fprintf(b, "%s%s = %q\n", pad, k, v)
		case bool:
			fmt.Fprintf(b, "%s%s = %t\n", pad, k, v)
		default:
			fmt.Fprintf(b, "%s%s = %v\n", pad, k, v)
		}
	}
}
