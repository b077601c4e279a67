package board

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/boardman/internal/model"
)

// --- モック ---

type mockBoardRepo struct {
	createFn          func(ctx context.Context, board *model.Board) error
	findByIDAndOrgFn  func(ctx context.Context, id, orgID string) (*model.Board, error)
	listByOrgFn       func(ctx context.Context, orgID string) ([]*model.Board, error)
	updateTitleFn     func(ctx context.Context, id, orgID, title string) (*model.Board, error)
	deleteByIDAndOrgF func(ctx context.Context, id, orgID string) (*model.Board, error)
}

func (m *mockBoardRepo) Create(ctx context.Context, board *model.Board) error {
	if m.createFn != nil {
		return m.createFn(ctx, board)
	}
	return nil
}
func (m *mockBoardRepo) FindByIDAndOrg(ctx context.Context, id, orgID string) (*model.Board, error) {
	if m.findByIDAndOrgFn != nil {
		return m.findByIDAndOrgFn(ctx, id, orgID)
	}
	return nil, nil
}
func (m *mockBoardRepo) ListByOrg(ctx context.Context, orgID string) ([]*model.Board, error) {
	if m.listByOrgFn != nil {
		return m.listByOrgFn(ctx, orgID)
	}
	return nil, nil
}
func (m *mockBoardRepo) UpdateTitle(ctx context.Context, id, orgID, title string) (*model.Board, error) {
	if m.updateTitleFn != nil {
		return m.updateTitleFn(ctx, id, orgID, title)
	}
	return nil, nil
}
func (m *mockBoardRepo) DeleteByIDAndOrg(ctx context.Context, id, orgID string) (*model.Board, error) {
	if m.deleteByIDAndOrgF != nil {
		return m.deleteByIDAndOrgF(ctx, id, orgID)
	}
	return nil, nil
}
func (m *mockBoardRepo) CountByOrg(ctx context.Context, orgID string) (int, error) {
	return 0, nil
}

type mockQuota struct {
	maxFree       int
	hasAvailable  bool
	incrementFn   func(ctx context.Context, orgID string) error
	decrementFn   func(ctx context.Context, orgID string) error
	incrementCall int
	decrementCall int
}

func (m *mockQuota) MaxFree() int {
	if m.maxFree > 0 {
		return m.maxFree
	}
	return 5
}
func (m *mockQuota) HasAvailableCount(ctx context.Context, orgID string) (bool, error) {
	return m.hasAvailable, nil
}
func (m *mockQuota) IncrementAvailableCount(ctx context.Context, orgID string) error {
	m.incrementCall++
	if m.incrementFn != nil {
		return m.incrementFn(ctx, orgID)
	}
	return nil
}
func (m *mockQuota) DecreaseAvailableCount(ctx context.Context, orgID string) error {
	m.decrementCall++
	if m.decrementFn != nil {
		return m.decrementFn(ctx, orgID)
	}
	return nil
}

type mockSub struct {
	isPro bool
	err   error
}

func (m *mockSub) Check(ctx context.Context, orgID string) (bool, error) {
	return m.isPro, m.err
}

type mockAudit struct {
	entries []model.AuditAction
	writeFn func(ctx context.Context, actor model.Actor, entityType model.EntityType, entityID, entityTitle string, auditAction model.AuditAction) error
}

func (m *mockAudit) Write(ctx context.Context, actor model.Actor, entityType model.EntityType, entityID, entityTitle string, auditAction model.AuditAction) error {
	m.entries = append(m.entries, auditAction)
	if m.writeFn != nil {
		return m.writeFn(ctx, actor, entityType, entityID, entityTitle, auditAction)
	}
	return nil
}

var testActor = model.Actor{
	UserID: "user-1",
	Email:  "taro@example.com",
	OrgID:  "org-1",
}

const validImage = "img-1|https://example.com/t.jpg|https://example.com/f.jpg|https://example.com/p|Taro"

// --- テスト ---

// TestService_Create_Success はボード作成成功時にカウンター加算と
// 監査ログ書き込みがそれぞれ1回行われることを検証する。
func TestService_Create_Success(t *testing.T) {
	quota := &mockQuota{hasAvailable: true}
	auditW := &mockAudit{}
	repo := &mockBoardRepo{}

	svc := NewService(repo, quota, &mockSub{isPro: false}, auditW, nil)

	b, err := svc.Create(context.Background(), testActor, CreateInput{
		Title: "開発ボード",
		Image: validImage,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Title != "開発ボード" {
		t.Errorf("Title = %q, want %q", b.Title, "開発ボード")
	}
	if b.OrgID != "org-1" {
		t.Errorf("OrgID = %q, want %q", b.OrgID, "org-1")
	}
	if b.Image.ID != "img-1" {
		t.Errorf("Image.ID = %q, want %q", b.Image.ID, "img-1")
	}
	if quota.incrementCall != 1 {
		t.Errorf("increment calls = %d, want 1", quota.incrementCall)
	}
	if len(auditW.entries) != 1 || auditW.entries[0] != model.AuditActionCreate {
		t.Errorf("audit entries = %v, want [CREATE]", auditW.entries)
	}
}

// TestService_Create_QuotaExceeded は上限到達かつ未購読の組織が
// QUOTA_EXCEEDEDで拒否され、一切の書き込みが行われないことを検証する。
func TestService_Create_QuotaExceeded(t *testing.T) {
	quota := &mockQuota{hasAvailable: false, maxFree: 5}
	auditW := &mockAudit{}
	created := false
	repo := &mockBoardRepo{
		createFn: func(ctx context.Context, board *model.Board) error {
			created = true
			return nil
		},
	}

	svc := NewService(repo, quota, &mockSub{isPro: false}, auditW, nil)

	_, err := svc.Create(context.Background(), testActor, CreateInput{
		Title: "上限超過",
		Image: validImage,
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeQuotaExceeded {
		t.Fatalf("Create() error = %v, want QUOTA_EXCEEDED", err)
	}
	if created {
		t.Error("board should not be created when quota is exceeded")
	}
	if quota.incrementCall != 0 || len(auditW.entries) != 0 {
		t.Error("no side effects expected on quota denial")
	}
}

// TestService_Create_SubscribedBypassesQuota は購読中の組織が上限到達後も
// 作成でき、カウンターに触れないことを検証する。
func TestService_Create_SubscribedBypassesQuota(t *testing.T) {
	quota := &mockQuota{hasAvailable: false}
	auditW := &mockAudit{}

	svc := NewService(&mockBoardRepo{}, quota, &mockSub{isPro: true}, auditW, nil)

	_, err := svc.Create(context.Background(), testActor, CreateInput{
		Title: "購読中ボード",
		Image: validImage,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if quota.incrementCall != 0 {
		t.Errorf("increment calls = %d, want 0 while subscribed", quota.incrementCall)
	}
	if len(auditW.entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(auditW.entries))
	}
}

// TestService_Create_InvalidImage は画像記述子が不正な場合に
// INVALID_IMAGEで拒否され、書き込みが行われないことを検証する。
func TestService_Create_InvalidImage(t *testing.T) {
	quota := &mockQuota{hasAvailable: true}
	auditW := &mockAudit{}
	created := false
	repo := &mockBoardRepo{
		createFn: func(ctx context.Context, board *model.Board) error {
			created = true
			return nil
		},
	}

	svc := NewService(repo, quota, &mockSub{}, auditW, nil)

	// フィールドが1つ欠けた記述子
	_, err := svc.Create(context.Background(), testActor, CreateInput{
		Title: "画像不正",
		Image: "img-1|https://example.com/t.jpg|https://example.com/f.jpg|https://example.com/p",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidImage {
		t.Fatalf("Create() error = %v, want INVALID_IMAGE", err)
	}
	if created || quota.incrementCall != 0 || len(auditW.entries) != 0 {
		t.Error("no side effects expected on invalid image")
	}
}

// TestService_Create_RepoFailure はINSERT失敗時にカウンター加算と
// 監査ログ書き込みが実行されないことを検証する。
func TestService_Create_RepoFailure(t *testing.T) {
	quota := &mockQuota{hasAvailable: true}
	auditW := &mockAudit{}
	repo := &mockBoardRepo{
		createFn: func(ctx context.Context, board *model.Board) error {
			return errors.New("connection reset")
		},
	}

	svc := NewService(repo, quota, &mockSub{}, auditW, nil)

	_, err := svc.Create(context.Background(), testActor, CreateInput{
		Title: "失敗ボード",
		Image: validImage,
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCreateFailed {
		t.Fatalf("Create() error = %v, want CREATE_FAILED", err)
	}
	if quota.incrementCall != 0 || len(auditW.entries) != 0 {
		t.Error("no side effects expected when insert fails")
	}
}

// TestService_Create_Unauthorized は組織未選択の操作主体が拒否されることを検証する。
func TestService_Create_Unauthorized(t *testing.T) {
	svc := NewService(&mockBoardRepo{}, &mockQuota{hasAvailable: true}, &mockSub{}, &mockAudit{}, nil)

	_, err := svc.Create(context.Background(), model.Actor{UserID: "user-1"}, CreateInput{
		Title: "組織なし",
		Image: validImage,
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUnauthorized {
		t.Fatalf("Create() error = %v, want UNAUTHORIZED", err)
	}
}

// TestService_Delete_Success は削除成功時にカウンター減算・監査ログ・
// 遷移先パスが揃うことを検証する。
func TestService_Delete_Success(t *testing.T) {
	quota := &mockQuota{}
	auditW := &mockAudit{}
	repo := &mockBoardRepo{
		deleteByIDAndOrgF: func(ctx context.Context, id, orgID string) (*model.Board, error) {
			return &model.Board{ID: id, OrgID: orgID, Title: "削除対象"}, nil
		},
	}

	svc := NewService(repo, quota, &mockSub{isPro: false}, auditW, nil)

	redirectTo, err := svc.Delete(context.Background(), testActor, "board-1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if redirectTo != "/organization/org-1" {
		t.Errorf("redirectTo = %q, want %q", redirectTo, "/organization/org-1")
	}
	if quota.decrementCall != 1 {
		t.Errorf("decrement calls = %d, want 1", quota.decrementCall)
	}
	if len(auditW.entries) != 1 || auditW.entries[0] != model.AuditActionDelete {
		t.Errorf("audit entries = %v, want [DELETE]", auditW.entries)
	}
}

// TestService_Delete_NotFound は他組織のボード指定が何も削除せず
// BOARD_NOT_FOUNDになることを検証する。
func TestService_Delete_NotFound(t *testing.T) {
	quota := &mockQuota{}
	auditW := &mockAudit{}
	repo := &mockBoardRepo{
		deleteByIDAndOrgF: func(ctx context.Context, id, orgID string) (*model.Board, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, quota, &mockSub{}, auditW, nil)

	_, err := svc.Delete(context.Background(), testActor, "other-org-board")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeBoardNotFound {
		t.Fatalf("Delete() error = %v, want BOARD_NOT_FOUND", err)
	}
	if quota.decrementCall != 0 || len(auditW.entries) != 0 {
		t.Error("no side effects expected when board is not found")
	}
}

// TestService_Delete_SubscribedSkipsCounter は購読中の削除が
// カウンターに触れないことを検証する。
func TestService_Delete_SubscribedSkipsCounter(t *testing.T) {
	quota := &mockQuota{}
	repo := &mockBoardRepo{
		deleteByIDAndOrgF: func(ctx context.Context, id, orgID string) (*model.Board, error) {
			return &model.Board{ID: id, OrgID: orgID, Title: "購読中削除"}, nil
		},
	}

	svc := NewService(repo, quota, &mockSub{isPro: true}, &mockAudit{}, nil)

	if _, err := svc.Delete(context.Background(), testActor, "board-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if quota.decrementCall != 0 {
		t.Errorf("decrement calls = %d, want 0 while subscribed", quota.decrementCall)
	}
}

// TestService_UpdateTitle_NotFound は更新対象なしがUPDATE系エラーではなく
// BOARD_NOT_FOUNDになることを検証する。
func TestService_UpdateTitle_NotFound(t *testing.T) {
	svc := NewService(&mockBoardRepo{}, &mockQuota{}, &mockSub{}, &mockAudit{}, nil)

	_, err := svc.UpdateTitle(context.Background(), testActor, "missing", "新タイトル")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeBoardNotFound {
		t.Fatalf("UpdateTitle() error = %v, want BOARD_NOT_FOUND", err)
	}
}
