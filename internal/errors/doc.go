// Package errors provides structured, coded errors for vtree.
//
// Every failure the reconciler, its reference collaborators and the CLI can
// report has a stable code (e.g. "V003") that maps to:
//   - A category (reconcile, tree, element, component, renderer, config, scene)
//   - A short message
//   - An optional hint on how to fix it
//   - Whether the condition is fatal or only a diagnostic
//
// # Error Categories
//
//   - reconcile: kind dispatch and node lifecycle (unknown kind, portals,
//     double unmount, component type changes)
//   - tree: Tree API contract violations (use after unmount, nil root)
//   - component: stateful component lifecycle misuse
//   - renderer: host renderer failures
//   - config, scene: loading vtree.yaml and scene files
//
// # Usage
//
//	err := errors.New(errors.CodeTreeUnmounted).
//	    WithDetail("tree \"app\" was unmounted")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR V003: Invalid operation on unmounted tree
//	//
//	//   tree "app" was unmounted
//	//
//	//   Hint: Mount a new tree instead of reusing one that was unmounted
//
// TreeError implements Is by code, so a bare New(code) value works as a
// sentinel with the standard library's errors.Is.
package errors
