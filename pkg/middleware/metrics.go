package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	verrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vtree"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for operation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for reconciliation.
type metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
	nodesMounted      *prometheus.CounterVec
	nodesUpdated      *prometheus.CounterVec
	nodesUnmounted    *prometheus.CounterVec
	liveNodes         *prometheus.GaugeVec
	replacements      *prometheus.CounterVec
	mountedTrees      prometheus.Gauge
	hostOps           *prometheus.CounterVec
}

// globalMetrics is the singleton metrics instance.
// Created on first call to Prometheus().
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		operationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_operations_total",
			Help:        "Total number of tree operations by operation and status",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "status"}),

		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_operation_duration_seconds",
			Help:        "Tree operation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),

		operationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tree_operation_errors_total",
			Help:        "Total number of failed tree operations by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "code"}),

		nodesMounted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_mounted_total",
			Help:        "Total number of nodes mounted by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		nodesUpdated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_updated_total",
			Help:        "Total number of in-place node updates by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		nodesUnmounted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_unmounted_total",
			Help:        "Total number of nodes unmounted by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		liveNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Number of currently mounted nodes by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		replacements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "node_replacements_total",
			Help:        "Total number of nodes replaced because the component changed type",
			ConstLabels: config.ConstLabels,
		}, []string{"from_kind", "to_kind"}),

		mountedTrees: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_trees",
			Help:        "Number of trees currently mounted",
			ConstLabels: config.ConstLabels,
		}),

		hostOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "host_ops_total",
			Help:        "Total number of host platform mutations by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

// prometheusMiddleware times tree operations and counts node lifecycle
// events. It is both a vtree.Middleware and a vtree.Observer.
type prometheusMiddleware struct {
	m *metrics
}

var (
	_ vtree.Middleware = (*prometheusMiddleware)(nil)
	_ vtree.Observer   = (*prometheusMiddleware)(nil)
)

// Prometheus creates middleware that collects Prometheus metrics for tree
// operations. Passed to vtree.WithMiddleware it is also registered as an
// observer and counts node lifecycle events.
//
// Metrics collected:
//   - vtree_tree_operations_total: Counter of operations by op and status
//   - vtree_tree_operation_duration_seconds: Histogram of operation duration
//   - vtree_tree_operation_errors_total: Counter of failures by op and error code
//   - vtree_nodes_mounted_total / nodes_updated_total / nodes_unmounted_total
//   - vtree_live_nodes: Gauge of mounted nodes by kind
//   - vtree_node_replacements_total: Counter of type-change replacements
//   - vtree_mounted_trees: Gauge of mounted trees
//   - vtree_host_ops_total: Counter of host mutations (when RecordHostOp is called)
//
// Example:
//
//	r := vtree.New(renderer,
//	    vtree.WithMiddleware(middleware.Prometheus(middleware.WithNamespace("myapp"))),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) vtree.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Initialize metrics once
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return &prometheusMiddleware{m: m}
}

// Handle implements vtree.Middleware.
func (p *prometheusMiddleware) Handle(op *vtree.Operation, next func() error) error {
	name := op.Type.String()
	start := time.Now()

	err := next()

	p.m.operationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
		p.m.operationErrors.WithLabelValues(name, errorCode(err)).Inc()
	} else {
		switch op.Type {
		case vtree.OpMountTree:
			p.m.mountedTrees.Inc()
		case vtree.OpUnmountTree:
			p.m.mountedTrees.Dec()
		}
	}
	p.m.operationsTotal.WithLabelValues(name, status).Inc()

	return err
}

// NodeMounted implements vtree.Observer.
func (p *prometheusMiddleware) NodeMounted(node *vtree.Node) {
	kind := node.Kind().String()
	p.m.nodesMounted.WithLabelValues(kind).Inc()
	p.m.liveNodes.WithLabelValues(kind).Inc()
}

// NodeUpdated implements vtree.Observer.
func (p *prometheusMiddleware) NodeUpdated(node *vtree.Node) {
	p.m.nodesUpdated.WithLabelValues(node.Kind().String()).Inc()
}

// NodeUnmounted implements vtree.Observer.
func (p *prometheusMiddleware) NodeUnmounted(node *vtree.Node) {
	kind := node.Kind().String()
	p.m.nodesUnmounted.WithLabelValues(kind).Inc()
	p.m.liveNodes.WithLabelValues(kind).Dec()
}

// NodeReplaced implements vtree.Observer.
func (p *prometheusMiddleware) NodeReplaced(old *vtree.Node, next *vtree.Element) {
	p.m.replacements.WithLabelValues(old.Kind().String(), next.Kind().String()).Inc()
}

// errorCode returns the error's code, keeping label cardinality bounded
// to the error registry.
func errorCode(err error) string {
	if code := verrors.CodeOf(err); code != "" {
		return code
	}
	return "internal"
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// RecordHostOp records one host platform mutation, e.g. from a
// render.RendererConfig OnOp hook.
func RecordHostOp(op string) {
	globalMetricsMu.Lock()
	m := globalMetrics
	globalMetricsMu.Unlock()
	if m != nil {
		m.hostOps.WithLabelValues(op).Inc()
	}
}

// =============================================================================
// Metrics Collector
// =============================================================================

// Collector exposes the reconcile metrics for custom registrations and
// tests.
type Collector struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationErrors   *prometheus.CounterVec
	NodesMounted      *prometheus.CounterVec
	NodesUpdated      *prometheus.CounterVec
	NodesUnmounted    *prometheus.CounterVec
	LiveNodes         *prometheus.GaugeVec
	Replacements      *prometheus.CounterVec
	MountedTrees      prometheus.Gauge
	HostOps           *prometheus.CounterVec
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		return nil
	}
	return &Collector{
		OperationsTotal:   globalMetrics.operationsTotal,
		OperationDuration: globalMetrics.operationDuration,
		OperationErrors:   globalMetrics.operationErrors,
		NodesMounted:      globalMetrics.nodesMounted,
		NodesUpdated:      globalMetrics.nodesUpdated,
		NodesUnmounted:    globalMetrics.nodesUnmounted,
		LiveNodes:         globalMetrics.liveNodes,
		Replacements:      globalMetrics.replacements,
		MountedTrees:      globalMetrics.mountedTrees,
		HostOps:           globalMetrics.hostOps,
	}
}
