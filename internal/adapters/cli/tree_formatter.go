package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/chaincommand-go/internal/application/simulation"
)

// TreeFormatter renders the command forest
type TreeFormatter struct {
	useColors bool
	useEmojis bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors, useEmojis bool) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		useEmojis: useEmojis,
	}
}

// FormatForest renders every root with its subtree
func (f *TreeFormatter) FormatForest(roots []*simulation.TreeNode) string {
	if len(roots) == 0 {
		return "(no divisions standing)\n"
	}

	var builder strings.Builder
	for _, root := range roots {
		f.formatNode(&builder, root, "", true, true)
	}
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *simulation.TreeNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	ordersText := ""
	if node.Current != "" {
		ordersText = " " + node.Current
	}
	queued := node.Orders
	if node.Current != "" {
		queued--
	}
	if queued > 0 {
		ordersText += fmt.Sprintf(" +%d queued", queued)
	}
	if node.Background > 0 {
		ordersText += fmt.Sprintf(" +%d bg", node.Background)
	}

	builder.WriteString(fmt.Sprintf("%s%s %s%s%s (%s, %d soldiers) @ (%.1f, %.1f)%s\n",
		linePrefix,
		f.icon(node),
		f.teamColor(int(node.Team)),
		node.Name,
		f.colorReset(),
		node.ID,
		node.Soldiers,
		node.Position.X,
		node.Position.Y,
		ordersText,
	))

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) icon(node *simulation.TreeNode) string {
	if !f.useEmojis {
		if node.Courier {
			return "[c]"
		}
		return "[d]"
	}
	if node.Courier {
		return "📨"
	}
	return "🚩"
}

// teamColor returns an ANSI color per team
func (f *TreeFormatter) teamColor(team int) string {
	if !f.useColors {
		return ""
	}
	colors := []string{"\033[34m", "\033[31m", "\033[32m", "\033[33m"}
	return colors[team%len(colors)]
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}
