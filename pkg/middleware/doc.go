// Package middleware provides observability middleware for vtree
// reconcilers.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//
// Both are vtree.Middleware values that also implement vtree.Observer, so
// passing them to vtree.WithMiddleware wires the node lifecycle hooks too.
//
// # OpenTelemetry Middleware
//
// Every MountTree, UpdateTree and UnmountTree call gets a span carrying the
// root key and element. Type-change replacements inside the operation are
// added to the span as events.
//
//	r := vtree.New(renderer,
//	    vtree.WithMiddleware(middleware.OpenTelemetry(
//	        middleware.WithTracerName("my-app"),
//	        middleware.WithOperationFilter(func(op *vtree.Operation) bool {
//	            return op.Type != vtree.OpUnmountTree
//	        }),
//	    )),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware counts and times tree operations and tracks
// live nodes by kind:
//   - vtree_tree_operations_total
//   - vtree_tree_operation_duration_seconds
//   - vtree_live_nodes
//   - vtree_node_replacements_total
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
