// File: internal/services/chat/render.go
package chat

import (
    "bytes"

    "github.com/yuin/goldmark"
    "github.com/yuin/goldmark/extension"
    "github.com/yuin/goldmark/renderer/html"
)

// markdown is shared across requests; goldmark.Markdown is safe for
// concurrent use.
var markdown = goldmark.New(
    goldmark.WithExtensions(extension.GFM),
    goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderMarkdown converts an assistant reply to HTML for clients that render
// rich text. The plain reply stays authoritative; rendering failures degrade
// to an empty HTML field rather than failing the request.
func RenderMarkdown(reply string) string {
    var buf bytes.Buffer
    if err := markdown.Convert([]byte(reply), &buf); err != nil {
        return ""
    }
    return buf.String()
}
