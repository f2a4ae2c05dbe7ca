package utils

import (
	"net"
	"net/http"
	"strings"
)

// UnknownClient 在任何请求头都取不到来源地址时使用的兜底标识
const UnknownClient = "unknown"

// ClientIP 从代理转发头中解析客户端标识，优先级依次为：
// X-Forwarded-For 的第一段、X-Real-IP、X-Remote-Addr、连接的 RemoteAddr。
// 该值是领取配额的键，必须保证总能得到一个非空字符串。
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For 可能包含多跳地址，第一段才是原始客户端
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if remote := strings.TrimSpace(r.Header.Get("X-Remote-Addr")); remote != "" {
		return remote
	}

	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}

	return UnknownClient
}
