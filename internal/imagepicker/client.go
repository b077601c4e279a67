// Package imagepicker はボード背景画像の候補取得を提供する。
//
// Unsplash APIからランダムな画像を取得し、外部API障害時は組み込みの
// フォールバック画像にフェイルオーバーする。画像取得はベストエフォートで、
// ボード作成フローを外部APIの可用性に依存させない。
package imagepicker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/doyensec/safeurl"

	"github.com/hitoshi/boardman/internal/model"
)

// unsplashEndpoint はランダム画像取得のエンドポイント。
const unsplashEndpoint = "https://api.unsplash.com/photos/random"

// imageCount は1回の取得で返す画像候補数。ピッカーUIの3x3グリッド分。
const imageCount = 9

// maxResponseSize はUnsplash応答の最大読み取りサイズ。
const maxResponseSize = 1 << 20

// Client はUnsplash APIのクライアント。
type Client struct {
	httpClient  *http.Client
	accessKey   string
	collections string
}

// NewClient はClientの新しいインスタンスを生成する。
// HTTPクライアントはSSRF防止機能付きで、プライベートIPや
// メタデータIPへのリクエストをDNS解決後に検証してブロックする。
func NewClient(accessKey, collections string, timeout time.Duration) *Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	wrappedClient := safeurl.Client(config)

	return &Client{
		httpClient:  wrappedClient.Client,
		accessKey:   accessKey,
		collections: collections,
	}
}

// unsplashPhoto はUnsplash APIの応答のうち使用するフィールドのみを表す。
type unsplashPhoto struct {
	ID   string `json:"id"`
	URLs struct {
		Thumb string `json:"thumb"`
		Full  string `json:"full"`
	} `json:"urls"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

// RandomImages はボード背景候補の画像を9枚返す。
// アクセスキー未設定・API障害・応答不備の場合は組み込みの
// フォールバック画像を返し、エラーにはしない。
func (c *Client) RandomImages(ctx context.Context) []model.BoardImage {
	if c.accessKey == "" {
		return DefaultImages()
	}

	photos, err := c.fetchRandom(ctx)
	if err != nil {
		return DefaultImages()
	}

	images := make([]model.BoardImage, 0, len(photos))
	for _, p := range photos {
		img := model.BoardImage{
			ID:       p.ID,
			ThumbURL: p.URLs.Thumb,
			FullURL:  p.URLs.Full,
			LinkHTML: p.Links.HTML,
			UserName: p.User.Name,
		}
		// 記述子に再構成できない画像は候補から外す
		if _, ok := model.ParseBoardImage(img.Descriptor()); !ok {
			continue
		}
		images = append(images, img)
	}

	if len(images) == 0 {
		return DefaultImages()
	}
	return images
}

func (c *Client) fetchRandom(ctx context.Context) ([]unsplashPhoto, error) {
	q := url.Values{}
	q.Set("collections", c.collections)
	q.Set("count", fmt.Sprintf("%d", imageCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, unsplashEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("画像の取得に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("画像APIが異常応答を返しました: status=%d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("応答の読み取りに失敗しました: %w", err)
	}

	var photos []unsplashPhoto
	if err := json.Unmarshal(body, &photos); err != nil {
		return nil, fmt.Errorf("応答のパースに失敗しました: %w", err)
	}
	return photos, nil
}
