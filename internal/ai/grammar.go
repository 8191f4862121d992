package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/robalyx/dolmetscher/internal/ai/client"
)

// grammarCleanup removes filler the model tends to add around its findings.
// Each rule keeps the captured marker that ends the removed span.
var grammarCleanup = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?s)^(?:好的，|我来|让我|首先).*?(检查结果|1\.|基础错误|问题)`), "$1"},
	{regexp.MustCompile(`(?s)德语文本：.*?(中文对照：|检查结果|1\.|基础错误)`), "$1"},
	{regexp.MustCompile(`(?s)中文对照：.*?(---|检查结果|1\.|基础错误)`), "$1"},
	{regexp.MustCompile(`---+`), ""},
	{regexp.MustCompile(`(?:准确|自然流畅|很好|合适|恰当|正确|没有错误)[。，]`), ""},
	{regexp.MustCompile(`(?:表达|翻译|用法)(?:准确|自然|流畅|清晰|恰当)[。，]`), ""},
	{regexp.MustCompile(`总结：.*?(?:准确性|合适|恰当|很好)[^。]*。`), ""},
	{regexp.MustCompile(`(?:综合评价|整体.*?评价|最终.*?建议|总结：)[\s\S]*$`), ""},
	{regexp.MustCompile(`\n\s*\n\s*\n`), "\n\n"},
}

// GrammarChecker reviews German text for errors.
type GrammarChecker struct {
	completer client.Completer
	settings  client.Settings
}

// NewGrammarChecker creates a GrammarChecker. An empty model keeps the default.
func NewGrammarChecker(completer client.Completer, model string) *GrammarChecker {
	return &GrammarChecker{completer: completer, settings: grammarSettings.WithModel(model)}
}

// Check reviews german. When chinese is not blank the review also covers
// translation accuracy and the mapping of 你/您 to du/Sie.
func (g *GrammarChecker) Check(ctx context.Context, credential, german, chinese string) (string, error) {
	if strings.TrimSpace(german) == "" {
		return "", ErrEmptyInput
	}

	prompt := fmt.Sprintf(GrammarPrompt, german)
	if strings.TrimSpace(chinese) != "" {
		prompt = fmt.Sprintf(GrammarWithReferencePrompt, german, chinese)
	}

	result, err := g.completer.Complete(ctx, client.Call{
		Credential: credential,
		Title:      client.TitleGrammar,
		Params:     g.settings.Text(prompt),
	})
	if err != nil {
		return "", err
	}

	return CleanGrammarResult(result), nil
}

// CleanGrammarResult strips pleasantries, echoed input, separators and the
// closing summary from a grammar review.
func CleanGrammarResult(result string) string {
	for _, rule := range grammarCleanup {
		result = rule.pattern.ReplaceAllString(result, rule.repl)
	}
	return strings.TrimSpace(result)
}
