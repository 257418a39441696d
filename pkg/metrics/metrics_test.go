package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// 指标注册在全局Registry上,各测试使用互不相同的标签值避免相互影响

// TestInitMetrics 测试指标初始化（重复调用不会重复注册）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	if HTTPRequestsTotal == nil || BookOperationsTotal == nil || EventsTotal == nil {
		t.Fatal("指标未初始化")
	}
}

// TestRecordBookOperation 测试图书操作指标
func TestRecordBookOperation(t *testing.T) {
	start := time.Now()
	RecordBookOperation(OpGet, start, nil)
	RecordBookOperation(OpGet, start, nil)
	RecordBookOperation(OpGet, start, errors.New("not found"))

	if v := getCounterVecValue(t, BookOperationsTotal, map[string]string{"operation": OpGet, "result": ResultSuccess}); v != 2 {
		t.Errorf("成功次数错误: expected=2, got=%f", v)
	}
	if v := getCounterVecValue(t, BookOperationsTotal, map[string]string{"operation": OpGet, "result": ResultFailure}); v != 1 {
		t.Errorf("失败次数错误: expected=1, got=%f", v)
	}
	if c := getHistogramVecCount(t, BookOperationDuration, map[string]string{"operation": OpGet}); c != 3 {
		t.Errorf("耗时观测次数错误: expected=3, got=%d", c)
	}
}

// TestRecordHTTPRequest 测试HTTP指标（path使用路由模板）
func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("DELETE", "/books/:isbn", 404, time.Now())
	RecordHTTPRequest("DELETE", "/books/:isbn", 200, time.Now())

	labels := map[string]string{"method": "DELETE", "path": "/books/:isbn", "status": "404"}
	if v := getCounterVecValue(t, HTTPRequestsTotal, labels); v != 1 {
		t.Errorf("CounterVec值错误: expected=1, got=%f", v)
	}
	if c := getHistogramVecCount(t, HTTPRequestDuration, map[string]string{"method": "DELETE", "path": "/books/:isbn"}); c != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", c)
	}
}

// TestGauge 测试正在处理的请求数
func TestGauge(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 1 {
		t.Errorf("Gauge值错误: expected=1, got=%f", v)
	}
	SetGauge(HTTPRequestsInProgress, 0)
}

// TestTrackHTTPInFlight 测试请求进出时Gauge的增减
func TestTrackHTTPInFlight(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	done := TrackHTTPInFlight()
	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 1 {
		t.Errorf("请求中Gauge值错误: expected=1, got=%f", v)
	}
	done()
	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 0 {
		t.Errorf("请求结束Gauge值错误: expected=0, got=%f", v)
	}
}

// TestCounter 测试创建数量累加
func TestCounter(t *testing.T) {
	InitMetrics()
	before := getCounterValue(t, BooksCreatedTotal)

	AddBooksCreated(3)
	IncCounter(BooksCreatedTotal)

	if v := getCounterValue(t, BooksCreatedTotal) - before; v != 4 {
		t.Errorf("Counter增量错误: expected=4, got=%f", v)
	}
}

// TestRecordCircuitBreaker 测试熔断器指标
func TestRecordCircuitBreaker(t *testing.T) {
	RecordCircuitBreaker("metrics-test-mq", 1, ResultRejected)
	RecordCircuitBreaker("metrics-test-mq", 1, "")

	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "metrics-test-mq"}); v != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v)
	}
	labels := map[string]string{"name": "metrics-test-mq", "result": ResultRejected}
	if v := getCounterVecValue(t, CircuitBreakerRequests, labels); v != 1 {
		t.Errorf("熔断拒绝次数错误: expected=1, got=%f", v)
	}
}

// TestRecordEvent 测试事件与消息指标
func TestRecordEvent(t *testing.T) {
	RecordEvent("metrics.test", ResultDropped)
	RecordMessagePublished("metrics-test-exchange", "book.created")
	IncCounterVec(MessagesPublishedTotal, map[string]string{"exchange": "metrics-test-exchange", "routing_key": "book.created"})

	if v := getCounterVecValue(t, EventsTotal, map[string]string{"event": "metrics.test", "result": ResultDropped}); v != 1 {
		t.Errorf("事件计数错误: expected=1, got=%f", v)
	}
	labels := map[string]string{"exchange": "metrics-test-exchange", "routing_key": "book.created"}
	if v := getCounterVecValue(t, MessagesPublishedTotal, labels); v != 2 {
		t.Errorf("消息计数错误: expected=2, got=%f", v)
	}
}

// TestHistogramVec 测试直接观测
func TestHistogramVec(t *testing.T) {
	InitMetrics()
	labels := map[string]string{"operation": "metrics-test"}
	ObserveHistogramVec(BookOperationDuration, labels, 0.05)
	ObserveHistogramVec(BookOperationDuration, labels, 0.5)

	if c := getHistogramVecCount(t, BookOperationDuration, labels); c != 2 {
		t.Errorf("HistogramVec观测次数错误: expected=2, got=%d", c)
	}
}

// 辅助函数：获取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := counterVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := gaugeVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
