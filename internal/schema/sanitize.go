package schema

// maxNameLen matches the tightest tool-name length bound among supported
// frameworks (OpenAI's 64-character function name limit).
const maxNameLen = 64

// SanitizeName maps an MCP tool name onto the character set accepted by
// framework tool names: [A-Za-z0-9_-], not starting with a digit, at most
// 64 characters. The mapping is deterministic but collision-unsafe — two
// server-side names differing only in sanitized characters map to the same
// identifier. That limitation is inherited from the protocol side, which
// sets no naming rules; no disambiguation is attempted.
func SanitizeName(name string) string {
	if name == "" {
		return "_"
	}
	out := make([]byte, 0, len(name)+1)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '-':
			out = append(out, c)
		case c >= '0' && c <= '9':
			if i == 0 {
				out = append(out, '_')
			}
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	if len(out) > maxNameLen {
		out = out[:maxNameLen]
	}
	return string(out)
}
