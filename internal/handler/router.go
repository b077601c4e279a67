package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/boardman/internal/middleware"
)

// ActionMetrics は変更操作のレイテンシ記録インターフェース。nil許容。
type ActionMetrics interface {
	RecordActionLatency(duration time.Duration)
}

// HealthChecker はDB疎通確認のインターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	StatusMetrics     middleware.StatusMetrics
	ActionMetrics     ActionMetrics

	// ヘルスチェック・メトリクス公開
	HealthChecker  HealthChecker
	MetricsHandler http.Handler

	// セッション・組織
	OrgSelector OrgSelectorInterface

	// ボード・リスト・カード
	BoardService BoardServiceInterface
	ListService  ListServiceInterface
	CardService  CardServiceInterface

	// 課金
	BillingRedirector BillingRedirectorInterface
	WebhookProcessor  WebhookProcessorInterface

	// 監査・利用状況・画像
	AuditService AuditServiceInterface
	QuotaReader  QuotaReaderInterface
	SubChecker   SubscriptionCheckerInterface
	ImagePicker  ImagePickerInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery
//	  → （認証ルート）Session → RateLimit(General) → （組織ルート）Org
//
// Webhookとヘルスチェックはセッションチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.StatusMetrics))
	r.Use(middleware.NewRecoveryMiddleware())

	boardHandler := NewBoardHandler(deps.BoardService)
	listHandler := NewListHandler(deps.ListService)
	cardHandler := NewCardHandler(deps.CardService)
	billingHandler := NewBillingHandler(deps.BillingRedirector, deps.WebhookProcessor)
	auditHandler := NewAuditHandler(deps.AuditService)
	limitsHandler := NewLimitsHandler(deps.QuotaReader, deps.SubChecker)
	imageHandler := NewImageHandler(deps.ImagePicker)
	orgHandler := NewOrgHandler(deps.OrgSelector)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if deps.HealthChecker != nil {
			if err := deps.HealthChecker.PingContext(req.Context()); err != nil {
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// Webhookは署名検証が認証を兼ねる
	r.Post("/api/webhook/stripe", billingHandler.Webhook)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(newActionLatencyMiddleware(deps.ActionMetrics))

		// 組織選択（組織未選択でも呼べる）
		r.Post("/api/orgs/select", orgHandler.SelectOrg)

		// --- 選択中の組織が必要なルート ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewOrgMiddleware())

			// ボード管理
			r.Route("/api/boards", func(r chi.Router) {
				r.Get("/", boardHandler.ListBoards)
				// POST /api/boards - ボード作成（作成専用レート制限を追加）
				r.With(deps.RateLimiter.BoardRegistrationMiddleware()).Post("/", boardHandler.CreateBoard)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", boardHandler.GetBoard)
					r.Patch("/", boardHandler.UpdateBoard)
					r.Delete("/", boardHandler.DeleteBoard)

					r.Get("/lists", listHandler.ListLists)
					r.Post("/lists", listHandler.CreateList)
					r.Put("/lists/order", listHandler.ReorderLists)
					r.Put("/cards/order", cardHandler.ReorderCards)
				})
			})

			// リスト管理
			r.Route("/api/lists/{id}", func(r chi.Router) {
				r.Patch("/", listHandler.UpdateList)
				r.Delete("/", listHandler.DeleteList)
				r.Post("/copy", listHandler.CopyList)
				r.Get("/cards", cardHandler.ListCards)
				r.Post("/cards", cardHandler.CreateCard)
			})

			// カード管理
			r.Route("/api/cards/{id}", func(r chi.Router) {
				r.Get("/", cardHandler.GetCard)
				r.Patch("/", cardHandler.UpdateCard)
				r.Delete("/", cardHandler.DeleteCard)
				r.Get("/logs", auditHandler.CardLogs)
			})

			// 課金・監査・利用状況・画像
			r.Post("/api/billing/redirect", billingHandler.Redirect)
			r.Get("/api/activity", auditHandler.ListActivity)
			r.Get("/api/limits", limitsHandler.GetLimits)
			r.Get("/api/images/random", imageHandler.RandomImages)
		})
	})

	return r
}

// newActionLatencyMiddleware は変更系メソッドのレイテンシを記録するミドルウェアを返す。
func newActionLatencyMiddleware(metrics ActionMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if metrics == nil || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			next.ServeHTTP(w, r)
			metrics.RecordActionLatency(time.Since(start))
		})
	}
}
