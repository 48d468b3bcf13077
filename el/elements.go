package el

// Document structure elements

func Html(args ...any) *VNode  { return E("html", args...) }
func Head(args ...any) *VNode  { return E("head", args...) }
func Body(args ...any) *VNode  { return E("body", args...) }
func Title(args ...any) *VNode { return E("title", args...) }
func Meta(args ...any) *VNode  { return E("meta", args...) }
func LinkEl(args ...any) *VNode { return E("link", args...) }

// Content sectioning elements

func Header(args ...any) *VNode  { return E("header", args...) }
func Footer(args ...any) *VNode  { return E("footer", args...) }
func Main(args ...any) *VNode    { return E("main", args...) }
func Nav(args ...any) *VNode     { return E("nav", args...) }
func Section(args ...any) *VNode { return E("section", args...) }
func Article(args ...any) *VNode { return E("article", args...) }
func Aside(args ...any) *VNode   { return E("aside", args...) }
func H1(args ...any) *VNode      { return E("h1", args...) }
func H2(args ...any) *VNode      { return E("h2", args...) }
func H3(args ...any) *VNode      { return E("h3", args...) }
func H4(args ...any) *VNode      { return E("h4", args...) }
func H5(args ...any) *VNode      { return E("h5", args...) }
func H6(args ...any) *VNode      { return E("h6", args...) }

// Text content elements

func Div(args ...any) *VNode        { return E("div", args...) }
func P(args ...any) *VNode          { return E("p", args...) }
func Span(args ...any) *VNode       { return E("span", args...) }
func Pre(args ...any) *VNode        { return E("pre", args...) }
func Blockquote(args ...any) *VNode { return E("blockquote", args...) }
func Ul(args ...any) *VNode         { return E("ul", args...) }
func Ol(args ...any) *VNode         { return E("ol", args...) }
func Li(args ...any) *VNode         { return E("li", args...) }
func Hr(args ...any) *VNode         { return E("hr", args...) }
func Figure(args ...any) *VNode     { return E("figure", args...) }
func Figcaption(args ...any) *VNode { return E("figcaption", args...) }

// Inline text semantics

func A(args ...any) *VNode      { return E("a", args...) }
func Strong(args ...any) *VNode { return E("strong", args...) }
func Em(args ...any) *VNode     { return E("em", args...) }
func B(args ...any) *VNode      { return E("b", args...) }
func I(args ...any) *VNode      { return E("i", args...) }
func Small(args ...any) *VNode  { return E("small", args...) }
func Mark(args ...any) *VNode   { return E("mark", args...) }
func Code(args ...any) *VNode   { return E("code", args...) }
func Kbd(args ...any) *VNode    { return E("kbd", args...) }
func Abbr(args ...any) *VNode   { return E("abbr", args...) }
func Time_(args ...any) *VNode  { return E("time", args...) }
func Br(args ...any) *VNode     { return E("br", args...) }

// Forms

func Form(args ...any) *VNode     { return E("form", args...) }
func Input(args ...any) *VNode    { return E("input", args...) }
func Textarea(args ...any) *VNode { return E("textarea", args...) }
func Select(args ...any) *VNode   { return E("select", args...) }
func Option(args ...any) *VNode   { return E("option", args...) }
func Button(args ...any) *VNode   { return E("button", args...) }
func Label(args ...any) *VNode    { return E("label", args...) }
func Fieldset(args ...any) *VNode { return E("fieldset", args...) }
func Legend(args ...any) *VNode   { return E("legend", args...) }
func Progress(args ...any) *VNode { return E("progress", args...) }

// Tables

func Table(args ...any) *VNode   { return E("table", args...) }
func Thead(args ...any) *VNode   { return E("thead", args...) }
func Tbody(args ...any) *VNode   { return E("tbody", args...) }
func Tfoot(args ...any) *VNode   { return E("tfoot", args...) }
func Tr(args ...any) *VNode      { return E("tr", args...) }
func Th(args ...any) *VNode      { return E("th", args...) }
func Td(args ...any) *VNode      { return E("td", args...) }
func Caption(args ...any) *VNode { return E("caption", args...) }

// Media

func Img(args ...any) *VNode    { return E("img", args...) }
func Video(args ...any) *VNode  { return E("video", args...) }
func Audio(args ...any) *VNode  { return E("audio", args...) }
func Source(args ...any) *VNode { return E("source", args...) }
func Canvas(args ...any) *VNode { return E("canvas", args...) }
func Svg(args ...any) *VNode    { return E("svg", args...) }

// Interactive elements

func Details(args ...any) *VNode { return E("details", args...) }
func Summary(args ...any) *VNode { return E("summary", args...) }
func Dialog(args ...any) *VNode  { return E("dialog", args...) }

// Scripting

func Script(args ...any) *VNode   { return E("script", args...) }
func Noscript(args ...any) *VNode { return E("noscript", args...) }
func Template(args ...any) *VNode { return E("template", args...) }
func Style(args ...any) *VNode    { return E("style", args...) }
