package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dreamerjackson/mangacrawler/extensions"
	"github.com/dreamerjackson/mangacrawler/spider"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// HTTPRender 不执行 JS 的渲染器，直接下载 HTML。
// 适合服务端渲染的目录站点，也用于测试。
type HTTPRender struct {
	options
	client *http.Client
}

func NewHTTPRender(opts ...Option) *HTTPRender {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	h := &HTTPRender{options: options}
	h.client = &http.Client{
		Timeout: h.Timeout,
	}

	if h.Proxies.Len() > 0 {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = h.Proxies.Next
		h.client.Transport = transport
		h.logger.Info("http proxies", zap.Int("count", h.Proxies.Len()))
	}

	return h
}

// 模拟浏览器访问
func (h *HTTPRender) Render(ctx context.Context, url string) (*spider.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	if len(h.Cookie) > 0 {
		req.Header.Set("Cookie", h.Cookie)
	}

	req.Header.Set("User-Agent", extensions.GenerateRandomUA())

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d url:%s", resp.StatusCode, url)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DeterminEncoding(bodyReader, resp.Header.Get("Content-Type"))
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("read body failed:%w", err)
	}

	h.logger.Debug("render", zap.String("url", url), zap.Int("length", len(body)))

	return spider.NewDocument(resp.Request.URL.String(), body)
}

// Activate 对于静态页面，激活控件就是跟随它的 href
func (h *HTTPRender) Activate(ctx context.Context, doc *spider.Document, selector string) (*spider.Document, error) {
	href, ok := spider.Attr(doc.QueryOne(selector), "href")
	if !ok {
		return nil, spider.ErrControlNotFound
	}

	return h.Render(ctx, doc.Resolve(href))
}

func (h *HTTPRender) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

func DeterminEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil && len(bytes) == 0 {
		if err != io.EOF {
			zap.L().Error("fetch failed", zap.Error(err))
		}

		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, contentType)

	return e
}
