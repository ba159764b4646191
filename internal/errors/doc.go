// Package errors provides structured, actionable error messages for reactor.
//
// Every error the engine reports has a code (e.g., "R001") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A hint on how to fix it
//   - A documentation URL
//
// # Error Categories
//
//   - declaration: type declarations that cannot work (missing getter, duplicate key)
//   - runtime: reads and writes that violate a property's state
//   - subscription: invalid subscribe targets or callbacks
//   - config: invalid reactor.yaml
//   - cli: command failures
//
// # Usage
//
//	err := errors.New("R001").WithSubject("TodoList.title")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Uninitialized reactive property
//	//
//	//   TodoList.title
//	//
//	//   The property is declared reactive but was read before its first
//	//   write, so no cell exists yet.
//	//
//	//   Hint: Assign the property with Set before reading it.
//	//
//	//   Learn more: https://reactor.vango.dev/errors/R001
package errors
