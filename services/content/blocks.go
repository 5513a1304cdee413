package content

import (
	"strings"

	"github.com/UnicornXOS/bl1nk-web-portal/services/craft"
)

const DefaultRenderDepth = 5

// RenderBlocks flattens a Craft block tree into markdown. Children are indented two
// spaces per level; anything deeper than maxDepth levels below the root is dropped.
func RenderBlocks(root *craft.Block, maxDepth int) string {
	if root == nil {
		return ""
	}
	if maxDepth <= 0 {
		maxDepth = DefaultRenderDepth
	}
	var b strings.Builder
	renderBlock(&b, root, 0, maxDepth)
	return strings.TrimRight(b.String(), "\n")
}

func renderBlock(b *strings.Builder, blk *craft.Block, depth, maxDepth int) {
	if depth > maxDepth {
		return
	}
	if text := strings.TrimSpace(blk.Markdown); text != "" {
		indent := strings.Repeat("  ", depth)
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(indent)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	for i := range blk.Content {
		renderBlock(b, &blk.Content[i], depth+1, maxDepth)
	}
}
