package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/pkg/cell"
	"github.com/vango-dev/reactor/pkg/reactor"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted session and print every notification",
		Long: `Build a todo list, subscribe to its title, derived "remaining" count,
item diffs and "cleared" event, then run a fixed sequence of mutations.

Examples:
  reactor demo
  reactor demo --config reactor.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(os.Stdout)
		},
	}
}

func runDemo(w io.Writer) error {
	l := newTodoList("groceries", "milk", "eggs")

	var subs reactor.Disposable
	defer subs.Dispose()

	// The title cell itself, so "notify: always" shows on repeated writes.
	title, err := reactor.Unwrap(l, "title")
	if err != nil {
		return err
	}
	_, err = subs.Subscribe(title, func(v any) {
		fmt.Fprintf(w, "title      -> %v\n", v)
	})
	if err != nil {
		return err
	}
	_, err = subs.Subscribe(func() any { return l.MustGet("remaining") }, func(v any) {
		fmt.Fprintf(w, "remaining  -> %v\n", v)
	})
	if err != nil {
		return err
	}
	_, err = subs.Subscribe(func() any { return l.MustGet("items") }, func(changes []cell.ArrayChange) {
		for _, c := range changes {
			fmt.Fprintf(w, "items      %s %v at %d\n", c.Status, reactor.Snapshot(c.Value), c.Index)
		}
	}, reactor.OnEvent(cell.EventArrayChange))
	if err != nil {
		return err
	}
	ev, err := l.Event("cleared")
	if err != nil {
		return err
	}
	subs.Track(reactor.SubscribeEvent(ev, func(args ...any) {
		fmt.Fprintf(w, "cleared    %v item(s)\n", args...)
	}))

	steps := []struct {
		name string
		run  func()
	}{
		{"add bread", func() { addTodo(l, "bread") }},
		{"finish milk", func() { toggle(l, 0) }},
		{"rename", func() { l.MustSet("title", "weekly groceries") }},
		{"rename to the same title", func() { l.MustSet("title", "weekly groceries") }},
		{"finish eggs and bread in one batch", func() {
			cell.Batch(func() {
				toggle(l, 1)
				toggle(l, 2)
			})
		}},
		{"clear finished", func() { clearDone(l) }},
	}
	for _, s := range steps {
		fmt.Fprintf(w, "\n# %s\n", s.name)
		s.run()
	}

	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(reactor.Snapshot(l), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", out)
	return nil
}
