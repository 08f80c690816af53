package markdown

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runs(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text}}
}

func TestToMarkdown_TextBlocks(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: runs("Title")}},
		&notionapi.Heading2Block{Heading2: notionapi.Heading{RichText: runs("Section")}},
		&notionapi.Heading3Block{Heading3: notionapi.Heading{RichText: runs("Detail")}},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: runs("Some prose.")}},
		&notionapi.QuoteBlock{Quote: notionapi.Quote{RichText: runs("a quote")}},
	}

	got := ToMarkdown(blocks)
	want := "# Title\n\n## Section\n\n### Detail\n\nSome prose.\n\n> a quote"
	assert.Equal(t, want, got)
}

func TestToMarkdown_ListItems(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: runs("first")}},
		&notionapi.NumberedListItemBlock{NumberedListItem: notionapi.ListItem{RichText: runs("one")}},
		&notionapi.NumberedListItemBlock{NumberedListItem: notionapi.ListItem{RichText: runs("two")}},
		&notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: runs("done"), Checked: true}},
		&notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: runs("pending")}},
	}

	got := ToMarkdown(blocks)
	// Numbered items deliberately all use "1." and let markdown renumber.
	want := "- first\n1. one\n1. two\n- [x] done\n- [ ] pending"
	assert.Equal(t, want, got)
}

func TestToMarkdown_CodeBlock(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.CodeBlock{Code: notionapi.Code{RichText: runs("fmt.Println(\"hi\")"), Language: "go"}},
	}

	got := ToMarkdown(blocks)
	assert.Equal(t, "```go\nfmt.Println(\"hi\")\n```", got)
}

func TestToMarkdown_Callout(t *testing.T) {
	emoji := notionapi.Emoji("⚠️")
	blocks := []notionapi.Block{
		&notionapi.CalloutBlock{Callout: notionapi.Callout{
			RichText: runs("watch out"),
			Icon:     &notionapi.Icon{Emoji: &emoji},
		}},
		&notionapi.CalloutBlock{Callout: notionapi.Callout{RichText: runs("note")}},
	}

	got := ToMarkdown(blocks)
	assert.Equal(t, "> ⚠️ **watch out**\n\n> 💡 **note**", got)
}

func TestToMarkdown_Divider(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: runs("above")}},
		&notionapi.DividerBlock{},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: runs("below")}},
	}

	got := ToMarkdown(blocks)
	assert.Equal(t, "above\n\n---\n\nbelow", got)
}

func TestToMarkdown_Image(t *testing.T) {
	tests := []struct {
		name  string
		image notionapi.Image
		want  string
	}{
		{
			name: "url and caption",
			image: notionapi.Image{
				File:    &notionapi.FileObject{URL: "https://files.example/a.png"},
				Caption: runs("diagram"),
			},
			want: "![diagram](https://files.example/a.png)",
		},
		{
			name:  "external url only",
			image: notionapi.Image{External: &notionapi.FileObject{URL: "https://img.example/b.png"}},
			want:  "![Image](https://img.example/b.png)",
		},
		{
			name:  "caption only",
			image: notionapi.Image{Caption: runs("missing asset")},
			want:  "![Image: missing asset]",
		},
		{
			name: "nothing resolvable",
			want: "![Image]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToMarkdown([]notionapi.Block{&notionapi.ImageBlock{Image: tt.image}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToMarkdown_InternalFilePreferredOverExternal(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.FileBlock{File: notionapi.BlockFile{
			File:     &notionapi.FileObject{URL: "https://files.example/doc.pdf"},
			External: &notionapi.FileObject{URL: "https://elsewhere.example/doc.pdf"},
			Caption:  runs("spec sheet"),
		}},
	}

	got := ToMarkdown(blocks)
	assert.Equal(t, "[📎 spec sheet](https://files.example/doc.pdf)", got)
}

func TestToMarkdown_VideoFallbacks(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.VideoBlock{Video: notionapi.Video{
			External: &notionapi.FileObject{URL: "https://video.example/v.mp4"},
		}},
		&notionapi.VideoBlock{Video: notionapi.Video{Caption: runs("demo recording")}},
		&notionapi.VideoBlock{Video: notionapi.Video{}},
	}

	got := ToMarkdown(blocks)
	assert.Equal(t, "[🎥 Video](https://video.example/v.mp4)\n\n🎥 demo recording\n\n🎥 Video", got)
}

func TestToMarkdown_WhitespaceOnlyBlocksEmitNothing(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: runs("   ")}},
		&notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: runs("")}},
		&notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: runs("\t")}},
		&notionapi.CodeBlock{Code: notionapi.Code{RichText: runs("  \n  "), Language: "go"}},
		&notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: nil, Checked: true}},
	}

	assert.Empty(t, ToMarkdown(blocks))
}

func TestToMarkdown_EmptyInput(t *testing.T) {
	assert.Empty(t, ToMarkdown(nil))
	assert.Empty(t, ToMarkdown([]notionapi.Block{}))
}

func TestToMarkdown_UnknownBlockKindsSkipped(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.TableOfContentsBlock{},
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: runs("kept")}},
	}

	assert.Equal(t, "kept", ToMarkdown(blocks))
}

func TestToMarkdown_Deterministic(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: runs("Title")}},
		&notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: runs("item")}},
		&notionapi.CodeBlock{Code: notionapi.Code{RichText: runs("x := 1"), Language: "go"}},
	}

	first := ToMarkdown(blocks)
	require.NotEmpty(t, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ToMarkdown(blocks))
	}
}

func TestToMarkdown_MultipleRunsConcatenated(t *testing.T) {
	blocks := []notionapi.Block{
		&notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: []notionapi.RichText{
			{PlainText: "bold and "},
			{PlainText: "plain"},
		}}},
	}

	assert.Equal(t, "bold and plain", ToMarkdown(blocks))
}
