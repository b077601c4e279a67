package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/boardman/internal/model"
)

var redirectActor = model.Actor{
	UserID:  "user-1",
	Email:   "taro@example.com",
	OrgID:   "org-1",
	OrgSlug: "acme",
}

// TestRedirector_ExistingCustomer は既存顧客が請求ポータルへ誘導され、
// 戻り先が組織の設定ページになることを検証する。
func TestRedirector_ExistingCustomer(t *testing.T) {
	var gotCustomerID, gotReturnURL string
	provider := &mockProvider{
		portalFn: func(ctx context.Context, customerID, returnURL string) (string, error) {
			gotCustomerID = customerID
			gotReturnURL = returnURL
			return "https://portal.example.com/s", nil
		},
		checkoutFn: func(ctx context.Context, p CheckoutParams) (string, error) {
			t.Error("checkout must not be used for an existing customer")
			return "", nil
		},
	}

	r := NewRedirector(&subRepoWithCustomer{}, provider, "https://boardman.example.com")

	url, err := r.Redirect(context.Background(), redirectActor)
	if err != nil {
		t.Fatalf("Redirect() error = %v", err)
	}
	if url != "https://portal.example.com/s" {
		t.Errorf("url = %q", url)
	}
	if gotCustomerID != "cus_1" {
		t.Errorf("customerID = %q, want cus_1", gotCustomerID)
	}
	if gotReturnURL != "https://boardman.example.com/organization/org-1" {
		t.Errorf("returnURL = %q", gotReturnURL)
	}
}

type subRepoWithCustomer struct {
	mockSubRepo
}

func (s *subRepoWithCustomer) FindByOrgID(ctx context.Context, orgID string) (*model.OrgSubscription, error) {
	return &model.OrgSubscription{OrgID: orgID, StripeCustomerID: "cus_1"}, nil
}

// TestRedirector_NewCustomer は未契約組織がチェックアウトへ誘導され、
// 成功・キャンセルの両戻り先が設定ページになることを検証する。
func TestRedirector_NewCustomer(t *testing.T) {
	var gotParams CheckoutParams
	provider := &mockProvider{
		checkoutFn: func(ctx context.Context, p CheckoutParams) (string, error) {
			gotParams = p
			return "https://checkout.example.com/s", nil
		},
		portalFn: func(ctx context.Context, customerID, returnURL string) (string, error) {
			t.Error("portal must not be used for a new customer")
			return "", nil
		},
	}

	r := NewRedirector(&mockSubRepo{}, provider, "https://boardman.example.com")

	url, err := r.Redirect(context.Background(), redirectActor)
	if err != nil {
		t.Fatalf("Redirect() error = %v", err)
	}
	if url != "https://checkout.example.com/s" {
		t.Errorf("url = %q", url)
	}
	if gotParams.OrgID != "org-1" {
		t.Errorf("OrgID = %q, want org-1", gotParams.OrgID)
	}
	if gotParams.UserEmail != "taro@example.com" {
		t.Errorf("UserEmail = %q", gotParams.UserEmail)
	}
	settings := "https://boardman.example.com/organization/org-1"
	if gotParams.SuccessURL != settings || gotParams.CancelURL != settings {
		t.Errorf("return URLs = (%q, %q), want both %q", gotParams.SuccessURL, gotParams.CancelURL, settings)
	}
}

// TestRedirector_ProviderFailure はプロバイダ障害がBILLING_FAILEDに
// 変換されることを検証する。
func TestRedirector_ProviderFailure(t *testing.T) {
	provider := &mockProvider{
		checkoutFn: func(ctx context.Context, p CheckoutParams) (string, error) {
			return "", errors.New("api unavailable")
		},
	}

	r := NewRedirector(&mockSubRepo{}, provider, "https://boardman.example.com")

	_, err := r.Redirect(context.Background(), redirectActor)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeBillingFailed {
		t.Fatalf("Redirect() error = %v, want BILLING_FAILED", err)
	}
}

// TestRedirector_Unauthorized は組織未選択アクターが拒否されることを検証する。
func TestRedirector_Unauthorized(t *testing.T) {
	r := NewRedirector(&mockSubRepo{}, &mockProvider{}, "https://boardman.example.com")

	if _, err := r.Redirect(context.Background(), model.Actor{UserID: "user-1"}); err == nil {
		t.Fatal("Redirect() expected error for actor without org")
	}
}
