package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ErrNotJSON 端点返回了非 JSON 内容（通常是部署权限配置错误时返回的 HTML 登录页）。
// 属于配置问题而非瞬时故障，不做自动重试。
var ErrNotJSON = errors.New("镜像端点返回非 JSON 内容")

// Client 外部电子表格镜像的 HTTP 客户端
// 推送为 POST sync_all 信封，拉取为 GET 顶层快照
type Client struct {
	httpc  *http.Client
	logger *zap.Logger
}

// NewClient 创建镜像客户端
// 不设请求超时：推送由去抖定时器调度，挂起的端点只会推迟下一次尝试
func NewClient(logger *zap.Logger) *Client {
	return &Client{
		httpc:  &http.Client{},
		logger: logger,
	}
}

// pushEnvelope 推送信封
type pushEnvelope struct {
	Action string    `json:"action"`
	Data   *Snapshot `json:"data"`
}

// pushResult 镜像端的处理结果
type pushResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Push 将完整快照推送到镜像端点
// Content-Type 用 text/plain 规避表格脚本网关的 CORS 预检
func (c *Client) Push(ctx context.Context, url string, snap *Snapshot) error {
	body, err := json.Marshal(pushEnvelope{Action: "sync_all", Data: snap})
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("构造推送请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("推送请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取推送响应失败: %w", err)
	}

	var result pushResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: %s", ErrNotJSON, excerpt(raw))
	}
	if !result.Success {
		return fmt.Errorf("镜像端拒绝同步: %s", result.Error)
	}
	return nil
}

// Pull 从镜像端点拉取完整快照
func (c *Client) Pull(ctx context.Context, url string) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("构造拉取请求失败: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("拉取请求失败: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取拉取响应失败: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotJSON, excerpt(raw))
	}
	return &snap, nil
}

// excerpt 截取响应片段供运维排查
func excerpt(raw []byte) string {
	const max = 200
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
