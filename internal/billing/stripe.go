package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Proプランの商品定義。月額$20固定。
const (
	proProductName        = "Boardman Pro"
	proProductDescription = "組織のボードを無制限に作成できます"
	proUnitAmount         = 2000
	proCurrency           = "usd"
	proInterval           = "month"
)

// metadataOrgIDKey はチェックアウトセッションに埋め込む組織IDのキー。
// Webhook側はこのメタデータでイベントを組織に紐付ける。
const metadataOrgIDKey = "org_id"

// StripeProvider はProviderのStripe実装。
type StripeProvider struct {
	sc            *client.API
	webhookSecret string
}

var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider はStripeProviderの新しいインスタンスを生成する。
func NewStripeProvider(apiKey, webhookSecret string) *StripeProvider {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &StripeProvider{
		sc:            sc,
		webhookSecret: webhookSecret,
	}
}

// NewCheckoutSession はProプラン契約用のチェックアウトセッションを作成する。
func (p *StripeProvider) NewCheckoutSession(ctx context.Context, in CheckoutParams) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		SuccessURL:               stripe.String(in.SuccessURL),
		CancelURL:                stripe.String(in.CancelURL),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		Mode:                     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		CustomerEmail:            stripe.String(in.UserEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(proCurrency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(proProductName),
						Description: stripe.String(proProductDescription),
					},
					UnitAmount: stripe.Int64(proUnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(proInterval),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata(metadataOrgIDKey, in.OrgID)

	sess, err := p.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("チェックアウトセッションの作成に失敗しました: %w", err)
	}
	return sess.URL, nil
}

// NewPortalSession は既存顧客向けの請求ポータルセッションを作成する。
func (p *StripeProvider) NewPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}

	sess, err := p.sc.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("請求ポータルセッションの作成に失敗しました: %w", err)
	}
	return sess.URL, nil
}

// GetSubscription はサブスクリプションの現在状態を取得する。
func (p *StripeProvider) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionDetails, error) {
	params := &stripe.SubscriptionParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	sub, err := p.sc.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("サブスクリプションの取得に失敗しました: %w", err)
	}

	details := &SubscriptionDetails{
		SubscriptionID:   sub.ID,
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0),
	}
	if sub.Customer != nil {
		details.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		details.PriceID = sub.Items.Data[0].Price.ID
	}
	return details, nil
}

// ConstructEvent はWebhookペイロードの署名を検証し、イベントを返す。
func (p *StripeProvider) ConstructEvent(payload []byte, sigHeader string) (Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, sigHeader, p.webhookSecret)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrSignature, err.Error())
	}

	ev := Event{Type: string(stripeEvent.Type)}

	switch ev.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return Event{}, fmt.Errorf("チェックアウトイベントのパースに失敗しました: %w", err)
		}
		ev.OrgID = sess.Metadata[metadataOrgIDKey]
		if sess.Subscription != nil {
			ev.SubscriptionID = sess.Subscription.ID
		}
	case EventInvoicePaid:
		var inv stripe.Invoice
		if err := json.Unmarshal(stripeEvent.Data.Raw, &inv); err != nil {
			return Event{}, fmt.Errorf("請求イベントのパースに失敗しました: %w", err)
		}
		if inv.Subscription != nil {
			ev.SubscriptionID = inv.Subscription.ID
		}
	}

	return ev, nil
}
