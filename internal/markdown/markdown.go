// Package markdown converts Notion block content into GitHub-flavored
// markdown. Only the first level of blocks is rendered; nested children
// are intentionally never fetched or recursed into.
package markdown

import (
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

// ToMarkdown renders an ordered block sequence as a single markdown string.
// Blocks whose text is empty or whitespace-only emit nothing, unrecognized
// block types are skipped, and the result is trimmed. An empty return value
// means no renderable content was found.
func ToMarkdown(blocks []notionapi.Block) string {
	var parts []string

	for _, b := range blocks {
		switch blk := b.(type) {
		case *notionapi.ParagraphBlock:
			if text := plainText(blk.Paragraph.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, text, "")
			}

		case *notionapi.Heading1Block:
			if text := plainText(blk.Heading1.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "# "+text, "")
			}

		case *notionapi.Heading2Block:
			if text := plainText(blk.Heading2.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "## "+text, "")
			}

		case *notionapi.Heading3Block:
			if text := plainText(blk.Heading3.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "### "+text, "")
			}

		case *notionapi.BulletedListItemBlock:
			if text := plainText(blk.BulletedListItem.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "- "+text)
			}

		case *notionapi.NumberedListItemBlock:
			// Markdown renumbers on display, so every item uses "1.".
			if text := plainText(blk.NumberedListItem.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "1. "+text)
			}

		case *notionapi.ToDoBlock:
			if text := plainText(blk.ToDo.RichText); strings.TrimSpace(text) != "" {
				checkbox := "- [ ]"
				if blk.ToDo.Checked {
					checkbox = "- [x]"
				}
				parts = append(parts, checkbox+" "+text)
			}

		case *notionapi.CodeBlock:
			if text := plainText(blk.Code.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "```"+blk.Code.Language, text, "```", "")
			}

		case *notionapi.QuoteBlock:
			if text := plainText(blk.Quote.RichText); strings.TrimSpace(text) != "" {
				parts = append(parts, "> "+text, "")
			}

		case *notionapi.CalloutBlock:
			if text := plainText(blk.Callout.RichText); strings.TrimSpace(text) != "" {
				icon := "💡"
				if blk.Callout.Icon != nil && blk.Callout.Icon.Emoji != nil {
					icon = string(*blk.Callout.Icon.Emoji)
				}
				parts = append(parts, fmt.Sprintf("> %s **%s**", icon, text), "")
			}

		case *notionapi.DividerBlock:
			parts = append(parts, "---", "")

		case *notionapi.ImageBlock:
			url := fileURL(blk.Image.File, blk.Image.External)
			caption := plainText(blk.Image.Caption)
			switch {
			case url != "" && caption != "":
				parts = append(parts, fmt.Sprintf("![%s](%s)", caption, url))
			case url != "":
				parts = append(parts, fmt.Sprintf("![Image](%s)", url))
			case caption != "":
				parts = append(parts, fmt.Sprintf("![Image: %s]", caption))
			default:
				parts = append(parts, "![Image]")
			}
			parts = append(parts, "")

		case *notionapi.FileBlock:
			url := fileURL(blk.File.File, blk.File.External)
			parts = append(parts, attachmentLine("📎", "File", url, plainText(blk.File.Caption)), "")

		case *notionapi.VideoBlock:
			url := fileURL(blk.Video.File, blk.Video.External)
			parts = append(parts, attachmentLine("🎥", "Video", url, plainText(blk.Video.Caption)), "")
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// plainText concatenates the plain-text portions of a rich-text run
// sequence, dropping all styling.
func plainText(runs []notionapi.RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}

// fileURL resolves a block's direct URL, preferring the Notion-hosted file
// over an external reference.
func fileURL(file, external *notionapi.FileObject) string {
	if file != nil && file.URL != "" {
		return file.URL
	}
	if external != nil && external.URL != "" {
		return external.URL
	}
	return ""
}

// attachmentLine renders a file or video reference, degrading to a
// caption-only or bare placeholder when no URL is resolvable.
func attachmentLine(icon, kind, url, caption string) string {
	switch {
	case url != "" && caption != "":
		return fmt.Sprintf("[%s %s](%s)", icon, caption, url)
	case url != "":
		return fmt.Sprintf("[%s %s](%s)", icon, kind, url)
	case caption != "":
		return fmt.Sprintf("%s %s", icon, caption)
	default:
		return fmt.Sprintf("%s %s", icon, kind)
	}
}
