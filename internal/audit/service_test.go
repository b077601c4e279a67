package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hitoshi/boardman/internal/model"
)

type mockAuditRepo struct {
	createFn          func(ctx context.Context, entry *model.AuditLog) error
	listByOrgFn       func(ctx context.Context, orgID string, limit, offset int) ([]*model.AuditLog, error)
	listByEntityFn    func(ctx context.Context, orgID, entityID string) ([]*model.AuditLog, error)
	deleteOlderThanFn func(ctx context.Context, retentionDays int) (int64, error)
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}
func (m *mockAuditRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int) ([]*model.AuditLog, error) {
	if m.listByOrgFn != nil {
		return m.listByOrgFn(ctx, orgID, limit, offset)
	}
	return nil, nil
}
func (m *mockAuditRepo) ListByEntity(ctx context.Context, orgID, entityID string) ([]*model.AuditLog, error) {
	if m.listByEntityFn != nil {
		return m.listByEntityFn(ctx, orgID, entityID)
	}
	return nil, nil
}
func (m *mockAuditRepo) DeleteOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if m.deleteOlderThanFn != nil {
		return m.deleteOlderThanFn(ctx, retentionDays)
	}
	return 0, nil
}

var testActor = model.Actor{
	UserID:  "user-1",
	Email:   "taro@example.com",
	OrgID:   "org-1",
	OrgSlug: "acme",
}

// TestService_Write は操作主体と対象からエントリが組み立てられることを検証する。
func TestService_Write(t *testing.T) {
	var created *model.AuditLog
	repo := &mockAuditRepo{
		createFn: func(ctx context.Context, entry *model.AuditLog) error {
			created = entry
			return nil
		},
	}
	svc := NewService(repo)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	err := svc.Write(context.Background(), testActor, model.EntityTypeBoard, "board-1", "開発ボード", model.AuditActionCreate)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if created == nil {
		t.Fatal("entry was not created")
	}
	if created.ID == "" {
		t.Error("ID must be generated")
	}
	if created.OrgID != "org-1" || created.UserID != "user-1" {
		t.Errorf("actor fields = (%q, %q)", created.OrgID, created.UserID)
	}
	if created.EntityType != model.EntityTypeBoard || created.EntityID != "board-1" {
		t.Errorf("entity fields = (%v, %q)", created.EntityType, created.EntityID)
	}
	if created.EntityTitle != "開発ボード" {
		t.Errorf("EntityTitle = %q", created.EntityTitle)
	}
	if created.Action != model.AuditActionCreate {
		t.Errorf("Action = %v", created.Action)
	}
	if !created.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", created.CreatedAt, now)
	}
}

// TestService_ListByOrg はページングのオフセット計算と既定値を検証する。
func TestService_ListByOrg(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantLimit  int
		wantOffset int
	}{
		{name: "2ページ目", page: 2, limit: 10, wantLimit: 10, wantOffset: 10},
		{name: "limit未指定は既定値", page: 1, limit: 0, wantLimit: 20, wantOffset: 0},
		{name: "page未指定は1ページ目", page: 0, limit: 10, wantLimit: 10, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit, gotOffset int
			repo := &mockAuditRepo{
				listByOrgFn: func(ctx context.Context, orgID string, limit, offset int) ([]*model.AuditLog, error) {
					gotLimit = limit
					gotOffset = offset
					return nil, nil
				},
			}
			svc := NewService(repo)

			if _, err := svc.ListByOrg(context.Background(), testActor, tt.page, tt.limit); err != nil {
				t.Fatalf("ListByOrg() error = %v", err)
			}
			if gotLimit != tt.wantLimit || gotOffset != tt.wantOffset {
				t.Errorf("(limit, offset) = (%d, %d), want (%d, %d)", gotLimit, gotOffset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

// TestService_ListByOrg_NoOrg は組織未選択が拒否されることを検証する。
func TestService_ListByOrg_NoOrg(t *testing.T) {
	svc := NewService(&mockAuditRepo{})

	_, err := svc.ListByOrg(context.Background(), model.Actor{UserID: "user-1"}, 1, 10)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeOrgNotSelected {
		t.Fatalf("ListByOrg() error = %v, want ORG_NOT_SELECTED", err)
	}
}

// TestCleanupJob_Run は削除件数がメトリクスに記録されることを検証する。
func TestCleanupJob_Run(t *testing.T) {
	var gotRetentionDays int
	repo := &mockAuditRepo{
		deleteOlderThanFn: func(ctx context.Context, retentionDays int) (int64, error) {
			gotRetentionDays = retentionDays
			return 42, nil
		},
	}
	metrics := &mockCleanupMetrics{}
	job := NewCleanupJob(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gotRetentionDays != DefaultRetentionDays {
		t.Errorf("retentionDays = %d, want %d", gotRetentionDays, DefaultRetentionDays)
	}
	if metrics.deleted != 42 {
		t.Errorf("recorded deleted = %d, want 42", metrics.deleted)
	}
}

// TestCleanupJob_Run_RepoError は削除失敗がエラーになることを検証する。
func TestCleanupJob_Run_RepoError(t *testing.T) {
	repo := &mockAuditRepo{
		deleteOlderThanFn: func(ctx context.Context, retentionDays int) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}
	job := NewCleanupJob(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error")
	}
}

type mockCleanupMetrics struct {
	deleted int64
}

func (m *mockCleanupMetrics) RecordAuditCleanupDeleted(count int64) {
	m.deleted = count
}
