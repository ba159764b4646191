// Package inspect serves live views of reactive objects over HTTP.
//
// A Hub watches named objects. Clients read JSON snapshots from /objects
// or connect to /ws and receive one snapshot per object followed by a
// message for every change, array diff and event:
//
//	hub := inspect.NewHub(inspect.WithGatherer(reg))
//	hub.Watch("todos", list)
//	go hub.ListenAndServe(ctx, "localhost:7070")
//
//	hub.Do(func() {
//	    list.MustGet("items").(*reactor.Array).Push("milk")
//	})
//
// Objects are not safe for concurrent use. Mutate watched objects inside
// Do so that feed writes and HTTP snapshots never overlap with engine work.
package inspect
