package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/dolmetscher/internal/ai/client"
	"github.com/robalyx/dolmetscher/internal/ai/persona"
	"github.com/robalyx/dolmetscher/internal/profile"
)

// Describe returns the message shown to the operator for a failed request.
func Describe(err error) string {
	var upstream *client.UpstreamError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, persona.ErrUnknownPersona):
		return "不支持的角色"
	case errors.Is(err, profile.ErrNotConfigured):
		return "请先配置API密钥"
	case errors.Is(err, client.ErrAuth) && !errors.As(err, &upstream):
		return "请先配置API密钥"
	case errors.As(err, &upstream):
		return fmt.Sprintf("API请求失败 (%d): %s", upstream.Status, upstream.Message)
	case errors.Is(err, context.DeadlineExceeded):
		return "请求超时"
	default:
		return "请求失败：" + err.Error()
	}
}
