package skills

import "strings"

const frontMatterDelim = "---"

// frontMatter returns the block between a leading "---" line and the next
// "\n---", or false when the manifest has no such block.
func frontMatter(content string) (string, bool) {
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return "", false
	}
	rest := content[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// extractDescription pulls the description: value out of the front matter.
// Only the description key is consulted; the skill's identity is always
// its directory name.
func extractDescription(content string) string {
	block, ok := frontMatter(content)
	if !ok {
		return ""
	}
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "description:") {
			continue
		}
		value := strings.TrimPrefix(trimmed, "description:")
		return strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return ""
}

// Body returns the manifest with its leading front matter removed.
func Body(content string) string {
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return content
	}
	rest := content[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return content
	}
	return strings.TrimLeft(rest[end+1+len(frontMatterDelim):], "\n")
}
