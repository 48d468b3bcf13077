package render

import (
	"fmt"
	"io"

	"github.com/strand-dev/strand/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page around
// a session's first paint.
type PageData struct {
	// Body is the root VNode for the page content
	Body *vdom.VNode

	// Title is the page title
	Title string

	// SessionID is the session identifier the client presents when it
	// opens its websocket
	SessionID string

	// ClientScript is the path to the thin client JavaScript.
	// Defaults to "/strand/client.js" if not specified.
	ClientScript string

	// EndpointPath is the websocket endpoint the client connects to.
	// Defaults to "/strand/ws" if not specified.
	EndpointPath string

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	clientScript := page.ClientScript
	if clientScript == "" {
		clientScript = "/strand/client.js"
	}
	endpoint := page.EndpointPath
	if endpoint == "" {
		endpoint = "/strand/ws"
	}

	if _, err := w.Write([]byte("<!DOCTYPE html>\n")); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, `<html lang="%s">`+"\n", escapeAttr(lang)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := w.Write([]byte("<body>\n")); err != nil {
		return err
	}

	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}

	// The client reads its session and endpoint from the script tag.
	if _, err := fmt.Fprintf(w,
		"\n"+`<script src="%s" data-session="%s" data-endpoint="%s" defer></script>`+"\n",
		escapeAttr(clientScript), escapeAttr(page.SessionID), escapeAttr(endpoint)); err != nil {
		return err
	}

	if _, err := w.Write([]byte("</body>\n</html>\n")); err != nil {
		return err
	}

	return nil
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := w.Write([]byte("<head>\n")); err != nil {
		return err
	}

	if _, err := w.Write([]byte(`  <meta charset="utf-8">` + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}

	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, `  <link rel="stylesheet" href="%s">`+"\n", escapeAttr(href)); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte("</head>\n")); err != nil {
		return err
	}

	return nil
}
