// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// 各サービス層は必要なメソッドだけを自前のインターフェースで受け取る。
type Collector struct {
	boardsCreated       prometheus.Counter
	boardsDeleted       prometheus.Counter
	quotaDenied         prometheus.Counter
	reorder             *prometheus.CounterVec
	webhookEvents       *prometheus.CounterVec
	auditCleanupDeleted prometheus.Counter
	httpStatus          *prometheus.CounterVec
	actionLatency       prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		boardsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_boards_created_total",
			Help: "ボード作成成功の合計数",
		}),
		boardsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_boards_deleted_total",
			Help: "ボード削除成功の合計数",
		}),
		quotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_quota_denied_total",
			Help: "フリープラン上限によるボード作成拒否の合計数",
		}),
		reorder: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_reorder_total",
			Help: "エンティティ別・結果別の並べ替えバッチ数",
		}, []string{"entity", "outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_webhook_events_total",
			Help: "イベント種別・結果別のwebhook処理数",
		}, []string{"event_type", "outcome"}),
		auditCleanupDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_audit_cleanup_deleted_total",
			Help: "クリーンアップジョブで削除された監査ログの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		actionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "boardman_action_latency_seconds",
			Help:    "変更操作のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.boardsCreated,
		c.boardsDeleted,
		c.quotaDenied,
		c.reorder,
		c.webhookEvents,
		c.auditCleanupDeleted,
		c.httpStatus,
		c.actionLatency,
	)

	return c
}

// RecordBoardCreated はボード作成成功を記録する。
func (c *Collector) RecordBoardCreated() {
	c.boardsCreated.Inc()
}

// RecordBoardDeleted はボード削除成功を記録する。
func (c *Collector) RecordBoardDeleted() {
	c.boardsDeleted.Inc()
}

// RecordQuotaDenied はフリープラン上限による作成拒否を記録する。
func (c *Collector) RecordQuotaDenied() {
	c.quotaDenied.Inc()
}

// RecordReorder は並べ替えバッチの結果を記録する。
// entityは"list"または"card"、outcomeは"success"または"failure"。
func (c *Collector) RecordReorder(entity, outcome string) {
	c.reorder.WithLabelValues(entity, outcome).Inc()
}

// RecordWebhookEvent はwebhookイベントの処理結果を記録する。
func (c *Collector) RecordWebhookEvent(eventType, outcome string) {
	c.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordAuditCleanupDeleted はクリーンアップで削除された監査ログ数を記録する。
func (c *Collector) RecordAuditCleanupDeleted(count int64) {
	c.auditCleanupDeleted.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordActionLatency は変更操作のレイテンシを記録する。
func (c *Collector) RecordActionLatency(duration time.Duration) {
	c.actionLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
