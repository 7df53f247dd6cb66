package middleware

import (
	"net/http"
	"strings"
)

// OriginAllowed 根据允许列表构造来源校验函数。allowed 为空或包含 "*" 时放行所有来源。
func OriginAllowed(allowed []string) func(origin string) bool {
	allowAll := len(allowed) == 0
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
			continue
		}
		origins[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(origin string) bool {
		if allowAll {
			return true
		}
		_, ok := origins[strings.TrimRight(origin, "/")]
		return ok
	}
}

// CORS 允许浏览器客户端跨域访问 API。
func CORS(allowed []string) func(http.Handler) http.Handler {
	allowAll := OriginAllowed(allowed)("*")
	check := OriginAllowed(allowed)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if allowAll {
					w.Header().Set("Access-Control-Allow-Origin", "*")
				} else if check(origin) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
