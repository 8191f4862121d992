package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/robalyx/dolmetscher/pkg/utils"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

const allowedHeaders = "authorization, x-client-info, apikey, content-type"

// Vendor translates text with a vendor API key.
type Vendor interface {
	Translate(ctx context.Context, apiKey, text, sourceLang, targetLang string) (*Translation, error)
}

// Server implements the back-translation relay.
type Server struct {
	vendor        Vendor
	maxTextLength int
	allowedOrigin string
	logger        *zap.Logger
}

// NewServer creates the relay HTTP handler.
func NewServer(cfg *config.RelayConfig, vendor Vendor, logger *zap.Logger) http.Handler {
	server := &Server{
		vendor:        vendor,
		maxTextLength: cfg.MaxTextLength,
		allowedOrigin: cfg.AllowedOrigin,
		logger:        logger.Named("relay"),
	}

	router := bunrouter.New()
	router.Use(server.cors).WithGroup("", func(g *bunrouter.Group) {
		g.POST("/translate", server.Translate)
		g.OPTIONS("/translate", server.Preflight)
		g.GET("/health", server.Health)
	})

	return router
}

// cors adds the cross-origin headers to every response.
func (s *Server) cors(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		return next(w, req)
	}
}

// Preflight answers CORS preflight requests.
func (s *Server) Preflight(w http.ResponseWriter, _ bunrouter.Request) error {
	_, err := w.Write([]byte("ok"))
	return err
}

// Health reports that the relay is serving.
func (s *Server) Health(w http.ResponseWriter, _ bunrouter.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Translate forwards a translation request to the vendor.
func (s *Server) Translate(w http.ResponseWriter, req bunrouter.Request) error {
	var body Request
	if err := sonic.ConfigDefault.NewDecoder(req.Body).Decode(&body); err != nil {
		s.logger.Error("Failed to decode relay request", zap.Error(err))
		return writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Edge Function内部错误",
			Code:    CodeFunctionError,
			Message: err.Error(),
		})
	}

	if body.SourceLang == "" {
		body.SourceLang = DefaultSourceLang
	}
	if body.TargetLang == "" {
		body.TargetLang = DefaultTargetLang
	}

	// Validate required parameters
	switch {
	case body.Text == "":
		return writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "缺少翻译文本", Code: CodeMissingText})
	case body.APIKey == "":
		return writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "缺少DeepL API密钥", Code: CodeMissingAPIKey})
	case utils.UTF16Len(body.Text) > s.maxTextLength:
		return writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("文本长度超过%d字符限制", s.maxTextLength),
			Code:  CodeTextTooLong,
		})
	}

	s.logger.Debug("Translation request", zap.String("text", utils.Preview(body.Text, 50)))

	translation, err := s.vendor.Translate(req.Context(), body.APIKey, body.Text, body.SourceLang, body.TargetLang)
	if err != nil {
		return s.writeVendorError(w, err)
	}

	s.logger.Debug("Translation succeeded", zap.String("translation", utils.Preview(translation.Text, 50)))

	return writeJSON(w, http.StatusOK, Response{
		Success:                true,
		Translation:            translation.Text,
		DetectedSourceLanguage: translation.DetectedSourceLanguage,
		SourceLang:             body.SourceLang,
		TargetLang:             body.TargetLang,
	})
}

// writeVendorError maps a vendor failure to the relay error body.
func (s *Server) writeVendorError(w http.ResponseWriter, err error) error {
	var vendorErr *VendorError
	switch {
	case errors.As(err, &vendorErr):
		message, code := describeVendorStatus(vendorErr)
		s.logger.Warn("DeepL request failed",
			zap.Int("status", vendorErr.Status),
			zap.String("code", code))
		return writeJSON(w, vendorErr.Status, ErrorResponse{
			Error:   message,
			Code:    code,
			Details: vendorErr.Details,
		})
	case errors.Is(err, ErrInvalidResponse):
		s.logger.Warn("DeepL returned an invalid payload", zap.Error(err))
		return writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "DeepL API返回数据格式错误",
			Code:  CodeInvalidResponseFormat,
		})
	default:
		s.logger.Error("Relay request failed", zap.Error(err))
		return writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Edge Function内部错误",
			Code:    CodeFunctionError,
			Message: err.Error(),
		})
	}
}

// describeVendorStatus returns the user-facing message and code for a vendor status.
func describeVendorStatus(e *VendorError) (string, string) {
	switch e.Status {
	case http.StatusBadRequest:
		return "请求参数错误", CodeBadRequest
	case http.StatusForbidden:
		return "API密钥无效或权限不足", CodeInvalidAPIKey
	case http.StatusRequestEntityTooLarge:
		return "翻译文本过长", CodeTextTooLong
	case http.StatusTooManyRequests:
		return "请求过于频繁，请稍后重试", CodeRateLimit
	case 456:
		return "API配额已用完", CodeQuotaExceeded
	case http.StatusServiceUnavailable:
		return "DeepL服务暂时不可用", CodeServiceUnavailable
	default:
		message := strings.TrimSpace(e.Message)
		if message == "" {
			message = http.StatusText(e.Status)
		}
		return fmt.Sprintf("DeepL API错误 (%d): %s", e.Status, message), CodeDeepLError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}
