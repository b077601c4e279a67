package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/boardman/internal/model"
)

type mockSubRepo struct {
	findByOrgIDFn func(ctx context.Context, orgID string) (*model.OrgSubscription, error)
}

func (m *mockSubRepo) FindByOrgID(ctx context.Context, orgID string) (*model.OrgSubscription, error) {
	if m.findByOrgIDFn != nil {
		return m.findByOrgIDFn(ctx, orgID)
	}
	return nil, nil
}
func (m *mockSubRepo) Create(ctx context.Context, sub *model.OrgSubscription) error {
	return nil
}
func (m *mockSubRepo) UpdateBySubscriptionID(ctx context.Context, stripeSubscriptionID, priceID string, periodEnd time.Time) error {
	return nil
}

func newTestService(sub *model.OrgSubscription, now time.Time) *Service {
	svc := NewService(&mockSubRepo{
		findByOrgIDFn: func(ctx context.Context, orgID string) (*model.OrgSubscription, error) {
			return sub, nil
		},
	})
	svc.now = func() time.Time { return now }
	return svc
}

// TestService_Check は猶予1日を含む有効性判定を検証する。
func TestService_Check(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  *model.OrgSubscription
		want bool
	}{
		{
			name: "レコードなしは無効",
			sub:  nil,
			want: false,
		},
		{
			name: "期間内は有効",
			sub: &model.OrgSubscription{
				StripePriceID:          "price_1",
				StripeCurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
			},
			want: true,
		},
		{
			name: "期間終了23時間後はまだ有効（猶予内）",
			sub: &model.OrgSubscription{
				StripePriceID:          "price_1",
				StripeCurrentPeriodEnd: now.Add(-23 * time.Hour),
			},
			want: true,
		},
		{
			name: "期間終了25時間後は無効（猶予超過）",
			sub: &model.OrgSubscription{
				StripePriceID:          "price_1",
				StripeCurrentPeriodEnd: now.Add(-25 * time.Hour),
			},
			want: false,
		},
		{
			name: "プライスID未設定は期間内でも無効",
			sub: &model.OrgSubscription{
				StripePriceID:          "",
				StripeCurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.sub, now)

			got, err := svc.Check(context.Background(), "org-1")
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Check() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestService_Check_EmptyOrgID は組織ID未指定がDBに触れずfalseになることを検証する。
func TestService_Check_EmptyOrgID(t *testing.T) {
	called := false
	svc := NewService(&mockSubRepo{
		findByOrgIDFn: func(ctx context.Context, orgID string) (*model.OrgSubscription, error) {
			called = true
			return nil, nil
		},
	})

	got, err := svc.Check(context.Background(), "")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if got {
		t.Error("Check() = true, want false for empty orgID")
	}
	if called {
		t.Error("repository should not be queried for empty orgID")
	}
}

// TestService_Check_RepoError はDBエラーがラップされて返ることを検証する。
func TestService_Check_RepoError(t *testing.T) {
	svc := NewService(&mockSubRepo{
		findByOrgIDFn: func(ctx context.Context, orgID string) (*model.OrgSubscription, error) {
			return nil, errors.New("connection refused")
		},
	})

	if _, err := svc.Check(context.Background(), "org-1"); err == nil {
		t.Fatal("Check() expected error")
	}
}
