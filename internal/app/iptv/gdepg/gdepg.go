package gdepg

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"gdtv/internal/app/iptv"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Client struct {
	httpClient      *http.Client      // HTTP客户端
	catalogURL      string            // 频道列表接口地址
	scheduleBaseURL string            // 节目单接口的基础地址
	headers         map[string]string // 自定义HTTP请求头
	limiter         *rate.Limiter     // 节目单请求限速

	logger *zap.Logger // 日志
}

var _ iptv.Client = (*Client)(nil)

func NewClient(httpClient *http.Client, catalogURL, scheduleBaseURL string, headers map[string]string, limiter *rate.Limiter) (*Client, error) {
	if catalogURL == "" {
		return nil, errors.New("catalogURL is empty")
	} else if scheduleBaseURL == "" {
		return nil, errors.New("scheduleBaseURL is empty")
	}

	c := Client{
		httpClient:      httpClient,
		catalogURL:      catalogURL,
		scheduleBaseURL: strings.TrimRight(scheduleBaseURL, "/"),
		headers:         headers,
		limiter:         limiter,
		logger:          zap.L(),
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &c, nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	// 设置自定义HTTP请求头，User-Agent由配置提供
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// getBody 发送GET请求并返回解压后的响应内容，所有失败都归为网络错误
func (c *Client) getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", iptv.ErrNetwork, err)
	}

	// 设置请求头
	c.setCommonHeaders(req)

	// 执行请求
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", iptv.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http status code: %d", iptv.ErrNetwork, resp.StatusCode)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", iptv.ErrNetwork, err)
	}
	defer body.Close()

	result, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", iptv.ErrNetwork, err)
	}
	return result, nil
}

// decodeBody 根据Content-Encoding解压响应内容
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}
