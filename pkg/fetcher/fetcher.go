package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// ----------------------------------------------------------------------
// 定数とインターフェース
// ----------------------------------------------------------------------

const (
	// DefaultHTTPTimeout は、デフォルトのHTTPタイムアウトです。
	DefaultHTTPTimeout = 10 * time.Second
)

// ErrEmptyBody は、通信は成功したがレスポンスボディが空だったことを示します。
var ErrEmptyBody = errors.New("レスポンスボディが空です")

// ErrBodyTooLarge は、レスポンスボディが読み込み上限を超えたことを示します。
var ErrBodyTooLarge = errors.New("レスポンスボディのサイズが上限を超えました")

// Fetcher は、抽出処理が依存するコンテンツ取得のインターフェースです。
// ref は絶対URL、またはベースURLからの相対URLです。
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// Client は httpkit.Doer をラップし、相対URLの解決と空ボディの判定を行います。
// ステータスコードは判定に使わず、2xx 以外でもボディをそのまま返します。
type Client struct {
	doer httpkit.Doer
	base *url.URL
}

// ----------------------------------------------------------------------
// 設定とコンストラクタ
// ----------------------------------------------------------------------

// New は、httpkit.Client を初期化し、Client を返します。
// リクエストは httpkit.Client.Do で1回だけ送信し、リトライは行いません。
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return NewWithDoer(baseURL, httpkit.New(timeout))
}

// NewWithDoer は、任意の httpkit.Doer を使って Client を生成します。
func NewWithDoer(baseURL string, doer httpkit.Doer) (*Client, error) {
	if doer == nil {
		return nil, fmt.Errorf("fetcher.NewWithDoer: Doer cannot be nil")
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ベースURLのパースエラー: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("ベースURLはスキームとホストを含む必要があります: %s", baseURL)
	}
	return &Client{doer: doer, base: base}, nil
}

// ----------------------------------------------------------------------
// メインメソッド
// ----------------------------------------------------------------------

// Resolve は、ref をベースURLに対して解決した絶対URLを返します。
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー (ref: %s): %w", ref, err)
	}
	return c.base.ResolveReference(u).String(), nil
}

// Fetch は ref のコンテンツを取得し、テキストとして返します。
// 通信エラー、上限超過、または空のボディの場合のみエラーを返します。
// 404 や 500 などのステータスでも、ボディがあればそのまま返します。
func (c *Client) Fetch(ctx context.Context, ref string) (string, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("HTTP GETリクエストの作成に失敗しました (URL: %s): %w", target, err)
	}
	req.Header.Set("User-Agent", httpkit.UserAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("コンテンツの取得に失敗しました (URL: %s): %w", target, err)
	}

	// 上限 + 1 バイトまで読み込み、超過を検出する
	body, err := httpkit.HandleLimitedResponse(resp, httpkit.MaxResponseBodySize+1)
	if err != nil {
		return "", fmt.Errorf("コンテンツの取得に失敗しました (URL: %s): %w", target, err)
	}
	if int64(len(body)) > httpkit.MaxResponseBodySize {
		return "", fmt.Errorf("%w (URL: %s, 上限: %dバイト)", ErrBodyTooLarge, target, httpkit.MaxResponseBodySize)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("%w (URL: %s)", ErrEmptyBody, target)
	}
	return string(body), nil
}
