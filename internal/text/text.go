// Package text renders user-authored markdown into safe HTML.
package text

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/netslap-dev/netslap/shared/domain"
)

// replyLinkRegex matches >>N after markdown rendering has escaped the angle
// brackets.
var replyLinkRegex = regexp.MustCompile(`&gt;&gt;(\d+)`)

type Processor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// New builds a processor with a deliberately small markdown surface: code,
// emphasis and strikethrough. Headings, raw HTML and autolinks stay off so
// posts cannot restyle the page.
func New() *Processor {
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewFencedCodeBlockParser(), 700),
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)

	md := goldmark.New(
		goldmark.WithParser(p),
		goldmark.WithRendererOptions(html.WithUnsafe()),
		goldmark.WithExtensions(extension.Strikethrough),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile("^reply-link$")).OnElements("a")
	policy.RequireNoFollowOnLinks(false)

	return &Processor{
		md:     md,
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

// Render converts a post body to sanitized HTML, rewriting >>N quotes into
// in-thread anchors.
func (p *Processor) Render(threadId domain.ThreadId, raw string) string {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(raw), &buf); err != nil {
		// fall back to the escaped plain text
		return p.strict.Sanitize(raw)
	}
	rendered := strings.TrimSpace(buf.String())
	rendered = p.linkReplies(threadId, rendered)
	return p.policy.Sanitize(rendered)
}

// Clean strips all markup from incoming plain text. Applied on write, so
// stored bodies and the excerpts derived from them never carry HTML.
func (p *Processor) Clean(raw string) string {
	return p.strict.Sanitize(raw)
}

func (p *Processor) linkReplies(threadId domain.ThreadId, rendered string) string {
	return replyLinkRegex.ReplaceAllStringFunc(rendered, func(match string) string {
		submatch := replyLinkRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		replyId, err := strconv.ParseInt(submatch[1], 10, 64)
		if err != nil {
			return match
		}
		return fmt.Sprintf(`<a class="reply-link" href="/threads/%d#reply-%d">&gt;&gt;%d</a>`, threadId, replyId, replyId)
	})
}
