package main

import (
	"github.com/vango-dev/reactor/pkg/cell"
	"github.com/vango-dev/reactor/pkg/reactor"
)

// TodoList is the model used by demo and serve. Items are deep, so each
// map pushed onto "items" becomes a record with reactive fields.
var TodoList = reactor.NewType("TodoList").
	Scalar("title").
	ArrayProp("items", reactor.Deep()).
	Derived("remaining", remaining).
	Event("cleared").
	Extend("title", cell.ExtendSpec{"log": "TodoList.title", "notify": "always"})

func remaining(o *reactor.Object) any {
	items, err := o.Array("items")
	if err != nil {
		return 0
	}
	n := 0
	for _, item := range items.Items() {
		if !isDone(item) {
			n++
		}
	}
	return n
}

func isDone(item any) bool {
	rec, ok := item.(*reactor.Object)
	if !ok {
		return false
	}
	done, err := rec.Get("done")
	return err == nil && done == true
}

func newTodoList(title string, todos ...string) *reactor.Object {
	l := TodoList.New()
	l.MustSet("title", title)
	items := make([]any, len(todos))
	for i, text := range todos {
		items[i] = map[string]any{"text": text, "done": false}
	}
	l.MustSet("items", items)
	return l
}

func addTodo(l *reactor.Object, text string) {
	items, _ := l.Array("items")
	items.Push(map[string]any{"text": text, "done": false})
}

// toggle flips the done flag of the i-th item.
func toggle(l *reactor.Object, i int) {
	items, _ := l.Array("items")
	if i < 0 || i >= items.Len() {
		return
	}
	rec := items.At(i).(*reactor.Object)
	rec.MustSet("done", !isDone(rec))
}

// clearDone removes finished items and fires "cleared" with their count.
func clearDone(l *reactor.Object) int {
	items, _ := l.Array("items")
	removed := items.RemoveFunc(isDone)
	for _, r := range removed {
		if rec, ok := r.(*reactor.Object); ok {
			reactor.ForgetRecord(rec)
		}
	}
	if ev, err := l.Event("cleared"); err == nil {
		ev.Fire(len(removed))
	}
	return len(removed)
}
