package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/strand-dev/strand/el"
	"github.com/strand-dev/strand/pkg/engine"
	"github.com/strand-dev/strand/pkg/vdom"
)

// The demo app served by `strand serve`: a todo list with a draft input,
// per-item child components, and a task that stamps the last change.

type todoState struct {
	Draft    string
	Items    []string
	LastEdit string
}

type todoItemProps struct {
	Text   string
	Done   bool
	Remove *engine.Thunk
	Toggle *engine.Thunk
}

func todoApp(h engine.Helpers) engine.Config {
	return engine.Config{
		State: func(props any) any {
			return todoState{
				Items: []string{"Read the docs", "Build something"},
			}
		},

		Actions: map[string]engine.ActionFunc{
			"draft": func(payload any, ctx engine.Context) (any, engine.Next) {
				st := ctx.State.(todoState)
				st.Draft = ctx.Event.Value
				return st, engine.Next{}
			},

			"add": func(payload any, ctx engine.Context) (any, engine.Next) {
				st := ctx.State.(todoState)
				text := strings.TrimSpace(st.Draft)
				if text == "" {
					return ctx.State, engine.Next{}
				}
				st.Items = append(append([]string(nil), st.Items...), text)
				st.Draft = ""
				return st, engine.One(h.Task("stamp"))
			},

			"remove": func(payload any, ctx engine.Context) (any, engine.Next) {
				st := ctx.State.(todoState)
				idx, ok := payload.(int)
				if !ok || idx < 0 || idx >= len(st.Items) {
					return ctx.State, engine.Next{}
				}
				items := append([]string(nil), st.Items[:idx]...)
				st.Items = append(items, st.Items[idx+1:]...)
				return st, engine.One(h.Task("stamp"))
			},

			"toggle": func(payload any, ctx engine.Context) (any, engine.Next) {
				st := ctx.State.(todoState)
				idx, ok := payload.(int)
				if !ok || idx < 0 || idx >= len(st.Items) {
					return ctx.State, engine.Next{}
				}
				if strings.HasPrefix(st.Items[idx], "✓ ") {
					st.Items = replaceItem(st.Items, idx, strings.TrimPrefix(st.Items[idx], "✓ "))
				} else {
					st.Items = replaceItem(st.Items, idx, "✓ "+st.Items[idx])
				}
				return st, engine.Next{}
			},

			"stamped": func(payload any, ctx engine.Context) (any, engine.Next) {
				st := ctx.State.(todoState)
				st.LastEdit = payload.(string)
				return st, engine.Next{}
			},
		},

		Tasks: map[string]engine.TaskFunc{
			"stamp": func(payload any) engine.Task {
				return engine.Task{
					Perform: func() (any, error) {
						return time.Now().Format(time.Kitchen), nil
					},
					Success: func(value any, ctx engine.Context) engine.Next {
						return engine.One(h.Action("stamped", value))
					},
				}
			},
		},

		View: func(id string, ctx engine.Context) *vdom.VNode {
			st := ctx.State.(todoState)

			items := make([]*vdom.VNode, 0, len(st.Items))
			for i, text := range st.Items {
				key := fmt.Sprintf("item-%d", i)
				items = append(items, h.Component(key, todoItem, todoItemProps{
					Text:   strings.TrimPrefix(text, "✓ "),
					Done:   strings.HasPrefix(text, "✓ "),
					Remove: h.Action("remove", i),
					Toggle: h.Action("toggle", i),
				}))
			}

			return el.Main(el.Class("todo"),
				el.H1("Strand Todos"),
				el.Div(el.Class("compose"),
					el.Input(
						el.Type("text"),
						el.Placeholder("What needs doing?"),
						el.Value(st.Draft),
						el.OnInput(h.Action("draft")),
					),
					el.Button(el.OnClick(h.Action("add")), "Add"),
				),
				el.Ul(el.Class("items"), items),
				el.If(st.LastEdit != "",
					el.P(el.Class("stamp"), el.Textf("last change at %s", st.LastEdit)),
				),
			)
		},
	}
}

func todoItem(h engine.Helpers) engine.Config {
	return engine.Config{
		View: func(id string, ctx engine.Context) *vdom.VNode {
			p := ctx.Props.(todoItemProps)
			class := "item"
			if p.Done {
				class = "item done"
			}
			return el.Li(el.Class(class),
				el.Span(el.OnClick(p.Toggle), p.Text),
				el.Button(el.Class("remove"), el.OnClick(p.Remove), "×"),
			)
		},
	}
}

func replaceItem(items []string, idx int, text string) []string {
	out := append([]string(nil), items...)
	out[idx] = text
	return out
}
