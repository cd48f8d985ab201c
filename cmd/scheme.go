package cmd

import (
	"fmt"
	"net/url"
	"strings"
)

// ensureScheme は、URLのスキームが存在しない場合に https:// を補完します。
// スキームが既に存在する場合は、それが http または https であるかをチェックします。
func ensureScheme(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("URLが指定されていません")
	}

	// 1. まず現在のURLをパース
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	// 2. スキームが既に存在する場合のチェック
	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		return rawURL, nil
	}

	// 3. スキームがない場合、HTTPSをデフォルトとして付与
	return "https://" + rawURL, nil
}
