// Package source は画像を data URL、ローカルファイル、http(s)、gs:// から読み込みます。
package source

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

var (
	ErrUnsupported    = errors.New("source: no reader configured for this reference")
	ErrUnsafeURL      = errors.New("source: unsafe url")
	ErrInvalidDataURL = errors.New("source: invalid data url")
)

// ImageCacher は、画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// Loader は参照文字列から画像データを取得します。
// リモートの取得結果だけをキャッシュします。
type Loader struct {
	httpClient httpkit.ClientInterface
	reader     remoteio.InputReader
	cache      ImageCacher
	expiration time.Duration
}

// NewLoader は Loader を作成します。
// httpClient や reader が nil の場合、対応するスキームは ErrUnsupported になります。cache も nil を許容します。
func NewLoader(httpClient httpkit.ClientInterface, reader remoteio.InputReader, cache ImageCacher, cacheTTL time.Duration) *Loader {
	return &Loader{
		httpClient: httpClient,
		reader:     reader,
		cache:      cache,
		expiration: cacheTTL,
	}
}

// Load は ref の種類に応じて画像データを読み込みます。
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return DecodeDataURL(ref)
	case strings.HasPrefix(ref, "gs://"):
		return l.cached(ctx, ref, l.readGCS)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return l.cached(ctx, ref, l.fetchHTTP)
	default:
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("ファイルの読み込みに失敗しました: %w", err)
		}
		return data, nil
	}
}

func (l *Loader) cached(ctx context.Context, ref string, fetch func(context.Context, string) ([]byte, error)) ([]byte, error) {
	if l.cache != nil {
		if val, ok := l.cache.Get(ref); ok {
			if data, ok := val.([]byte); ok {
				return data, nil
			}
			slog.WarnContext(ctx, "キャッシュデータが不正な型です", "ref", ref, "type", fmt.Sprintf("%T", val))
		}
	}

	data, err := fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		l.cache.Set(ref, data, l.expiration)
	}
	return data, nil
}

func (l *Loader) readGCS(ctx context.Context, uri string) ([]byte, error) {
	if l.reader == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, uri)
	}
	rc, err := l.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("GCSオブジェクトを開けませんでした: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	if l.httpClient == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, rawURL)
	}
	if safe, err := IsSafeURL(rawURL); err != nil || !safe {
		slog.WarnContext(ctx, "SSRFの可能性がある、または不正なURLをブロックしました", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnsafeURL, err)
	}
	data, err := l.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("画像のダウンロードに失敗しました: %w", err)
	}
	return data, nil
}

// DecodeDataURL は base64 の data URL (data:image/png;base64,...) を復号します。
func DecodeDataURL(s string) ([]byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return data, nil
}
