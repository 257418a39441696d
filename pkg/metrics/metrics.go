// Package metrics 图书服务的Prometheus指标
//
// 指标一览:
//   - http_requests_total / http_request_duration_seconds / http_requests_in_progress:
//     由middleware.Metrics记录,path标签取路由模板(/books/:isbn),不使用原始URL
//   - book_operations_total{operation,result} / book_operation_duration_seconds{operation}:
//     每个用例执行一次记录一次
//   - books_created_total: 成功写入的图书数(批量创建按条数累加)
//   - book_events_total{event,result}: 生命周期事件发布结果(success/failure/dropped)
//   - circuit_breaker_state / circuit_breaker_requests_total: MQ发布熔断器
//   - messages_published_total{exchange,routing_key}
//
// 用法:
//
//	metrics.InitMetrics()                                  // 进程启动时
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))      // 暴露端点
//	defer func() { metrics.RecordBookOperation(metrics.OpGet, start, err) }()
//
// 所有Record*函数内部都会调用InitMetrics,测试中无需手动初始化。
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 图书操作名称(operation标签的取值)
const (
	OpCreate     = "create"
	OpCreateMany = "create_many"
	OpList       = "list"
	OpGet        = "get"
	OpUpdate     = "update"
	OpDelete     = "delete"
)

// 结果标签取值
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
	ResultDropped  = "dropped"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板,如/books/:isbn）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// BookOperationsTotal 图书操作总数（Counter）
	// 标签：operation（create/list/...）、result（success/failure）
	BookOperationsTotal *prometheus.CounterVec

	// BookOperationDuration 图书操作耗时（Histogram,包含存储访问）
	BookOperationDuration *prometheus.HistogramVec

	// BooksCreatedTotal 成功写入的图书数量（批量创建按条数计）
	BooksCreatedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name（熔断器名称）、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange（交换机）、routing_key（路由键）
	MessagesPublishedTotal *prometheus.CounterVec

	// EventsTotal 图书事件总数（Counter）
	// 标签：event（book.created等）、result（success/failure/dropped）
	EventsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 使用promauto注册到默认Registry;重复调用是安全的
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	BookOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_operations_total",
			Help: "图书操作总数",
		},
		[]string{"operation", "result"},
	)

	BookOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "book_operation_duration_seconds",
			Help: "图书操作耗时（秒）",
			// 存储访问通常在毫秒级
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)

	BooksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "books_created_total",
			Help: "成功创建的图书数量",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "book_events_total",
			Help: "图书事件总数",
		},
		[]string{"event", "result"},
	)
}

// =========================================
// 业务记录函数
// =========================================

// RecordHTTPRequest 记录一次HTTP请求
func RecordHTTPRequest(method, path string, status int, start time.Time) {
	InitMetrics()
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
}

// TrackHTTPInFlight 正在处理的请求数+1,返回的函数在请求结束时-1
func TrackHTTPInFlight() func() {
	InitMetrics()
	HTTPRequestsInProgress.Inc()
	return HTTPRequestsInProgress.Dec
}

// RecordBookOperation 记录一次图书操作的结果和耗时
func RecordBookOperation(operation string, start time.Time, err error) {
	InitMetrics()
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	BookOperationsTotal.WithLabelValues(operation, result).Inc()
	BookOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// AddBooksCreated 累加成功创建的图书数量
func AddBooksCreated(n int) {
	InitMetrics()
	BooksCreatedTotal.Add(float64(n))
}

// RecordEvent 记录一次事件发布结果
func RecordEvent(event, result string) {
	InitMetrics()
	EventsTotal.WithLabelValues(event, result).Inc()
}

// RecordCircuitBreaker 记录熔断器状态与请求结果
func RecordCircuitBreaker(name string, state int, result string) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	if result != "" {
		CircuitBreakerRequests.WithLabelValues(name, result).Inc()
	}
}

// RecordMessagePublished 记录一条已发布的消息
func RecordMessagePublished(exchange, routingKey string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey).Inc()
}

// =========================================
// 通用辅助函数
// =========================================

// IncCounter 递增Counter（便捷函数）
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
