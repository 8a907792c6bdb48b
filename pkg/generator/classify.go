package generator

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"google.golang.org/genai"
)

// ErrorKind はモデル呼び出しの失敗の分類です。
type ErrorKind int

const (
	// Terminal はリトライもフォールバックもしない失敗です。
	Terminal ErrorKind = iota
	// Transient は同じモデルへの再試行で回復しうる失敗です。
	Transient
	// QuotaOrUnavailable はモデル自体が使えない失敗で、即座にフォールバックします。
	QuotaOrUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case QuotaOrUnavailable:
		return "quota_or_unavailable"
	default:
		return "terminal"
	}
}

var (
	quotaPattern = regexp.MustCompile(
		`\b(429|404)\b|RESOURCE_EXHAUSTED|NOT_FOUND|Quota exceeded|limit: 0|\bnot found\b|rate limit`)
	transientPattern = regexp.MustCompile(
		`\b(500|502|503|504)\b|UNAVAILABLE|INTERNAL|overloaded|Service Unavailable|Internal Server Error`)
)

// Classify はエラーを分類します。
// genai.APIError はステータスコードだけで判定し、メッセージは見ません。
// それ以外のエラーはメッセージの内容で判定します。
func Classify(err error) ErrorKind {
	if err == nil {
		return Terminal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Terminal
	}

	if code, status, ok := apiErrorCode(err); ok {
		return classifyCode(code, status)
	}

	msg := err.Error()
	switch {
	case quotaPattern.MatchString(msg):
		return QuotaOrUnavailable
	case transientPattern.MatchString(msg):
		return Transient
	}
	return Terminal
}

func apiErrorCode(err error) (int, string, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v.Code, v.Status, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return p.Code, p.Status, true
	}
	return 0, "", false
}

func classifyCode(code int, status string) ErrorKind {
	switch {
	case code == http.StatusTooManyRequests, code == http.StatusNotFound,
		status == "RESOURCE_EXHAUSTED", status == "NOT_FOUND":
		return QuotaOrUnavailable
	case code >= 500 && code <= 599,
		status == "UNAVAILABLE", status == "INTERNAL":
		return Transient
	}
	return Terminal
}
