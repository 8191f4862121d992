package client

import (
	"github.com/openai/openai-go"
)

// Feature title suffixes sent in the X-Title header.
const (
	TitleTranslate     = ""
	TitleDetect        = "Language-Detection"
	TitleReverse       = "DeToCn"
	TitleRegisterFlip  = "DuSie-Switch"
	TitleDashRemoval   = "Remove-Dash"
	TitleEmojiRemoval  = "Remove-Emoji"
	TitleCommentStrip  = "Remove-Comments"
	TitleConvert       = "DuSie-Conversion"
	TitleGrammar       = "Grammar-Check"
	TitleAssistant     = "German-Helper"
	TitleOCR           = "OCR"
	TitleBackTranslate = "BackTranslate"
)

// Settings describes the sampling configuration of one kind of request.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	// Full also sends top_p and the penalty fields.
	Full bool
}

// Params builds the request body for the given messages.
func (s Settings) Params(messages ...openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       s.Model,
		Temperature: openai.Float(s.Temperature),
		MaxTokens:   openai.Int(s.MaxTokens),
	}

	if s.Full {
		params.TopP = openai.Float(1)
		params.FrequencyPenalty = openai.Float(0)
		params.PresencePenalty = openai.Float(0)
	}

	return params
}

// Text builds a single user message request.
func (s Settings) Text(prompt string) openai.ChatCompletionNewParams {
	return s.Params(openai.UserMessage(prompt))
}

// WithModel returns a copy using another model.
func (s Settings) WithModel(model string) Settings {
	if model != "" {
		s.Model = model
	}
	return s
}
