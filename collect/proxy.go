package collect

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
)

var ErrNoProxy = errors.New("no proxy configured")

// Proxies 配置中的代理列表。
// http 渲染每次请求轮换一个，浏览器会话固定使用第一个。
type Proxies struct {
	urls []*url.URL
	next uint32
}

// ParseProxies 解析代理地址，没有 scheme 时按 http 处理，只接受 http、https、socks5
func ParseProxies(addrs ...string) (*Proxies, error) {
	if len(addrs) == 0 {
		return nil, ErrNoProxy
	}

	p := &Proxies{urls: make([]*url.URL, 0, len(addrs))}
	for _, addr := range addrs {
		addr = strings.TrimSpace(addr)
		if !strings.Contains(addr, "://") {
			addr = "http://" + addr
		}

		u, err := url.Parse(addr)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", addr, err)
		}

		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("proxy %q: unsupported scheme %q", addr, u.Scheme)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("proxy %q: missing host", addr)
		}

		p.urls = append(p.urls, u)
	}

	return p, nil
}

// Next 用作 http.Transport.Proxy
func (p *Proxies) Next(*http.Request) (*url.URL, error) {
	if p == nil || len(p.urls) == 0 {
		return nil, ErrNoProxy
	}

	i := atomic.AddUint32(&p.next, 1) - 1

	return p.urls[i%uint32(len(p.urls))], nil
}

// Server 浏览器会话使用的代理地址，没有代理时为空
func (p *Proxies) Server() string {
	if p == nil || len(p.urls) == 0 {
		return ""
	}

	return p.urls[0].String()
}

func (p *Proxies) Len() int {
	if p == nil {
		return 0
	}

	return len(p.urls)
}
