package persona

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalyx/dolmetscher/internal/glossary"
)

// ErrUnknownPersona is returned for persona ids that are not registered.
var ErrUnknownPersona = errors.New("unknown persona")

// Default persona ids.
const (
	Professor             = "professor"
	Assistant25           = "assistant-25"
	Assistant35           = "assistant-35"
	AnnouncementAssistant = "announcement-assistant"
	Troll1                = "troll-1"
	Troll2                = "troll-2"
	Troll3                = "troll-3"
	Troll4                = "troll-4"
)

const (
	modelGemini  = "google/gemini-2.5-flash"
	modelMistral = "mistralai/mistral-small-3.2-24b-instruct"
)

// Rules is appended to every persona instruction and cannot be changed per persona.
const Rules = `
1. „您“ als „Sie“, „你“ als „Du“
2. Nur übersetzen, wenn Emoji im Original – sonst keines hinzufügen
3. Nur deutsche Übersetzung als Output, keine Anführungszeichen, Klammern, Kommentare oder Formatierung
4. Rollen-, Geschlechts- oder Altersangaben nicht übersetzen
5. Ohne Anrede im Original auch keine in der Übersetzung, keine deutschen Brief-/Mail-Formatelemente
6. Inhalt und Stil kompakt und originalgetreu halten

`

const (
	glossaryHeader = "\n\n专业词汇固定对照表：\n"
	glossaryFooter = "\n\n请在翻译时优先使用上述词汇表中的对应翻译。"
	sourceLeadIn   = "\n请翻译以下中文："
)

// Persona is a translation voice with its model and base instruction.
type Persona struct {
	ID          string
	Name        string
	Model       string
	Instruction string
}

// Registry holds the registered personas in registration order.
type Registry struct {
	order []string
	byID  map[string]Persona
}

// NewRegistry creates a registry from the given personas.
func NewRegistry(personas ...Persona) *Registry {
	r := &Registry{byID: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		if _, ok := r.byID[p.ID]; !ok {
			r.order = append(r.order, p.ID)
		}
		r.byID[p.ID] = p
	}
	return r
}

// Default returns the built-in persona set.
func Default() *Registry {
	return NewRegistry(
		Persona{
			ID: Professor, Name: "教授", Model: modelGemini,
			Instruction: "请将以下中文翻译成正式、专业的德语，适合在金融领域的社群中由一位教授对学生或投资者进行解释或分析，语言应学术化、清晰、无情绪色彩。",
		},
		Persona{
			ID: Assistant25, Name: "25岁女助理", Model: modelMistral,
			Instruction: "请将以下中文翻译成亲切自然的德语，语气年轻女性化，适合在Telegram或WhatsApp群组中用日常口语与投资者沟通，内容与金融、加密货币相关。",
		},
		Persona{
			ID: Assistant35, Name: "35岁女助理", Model: modelMistral,
			Instruction: "请将以下中文翻译成成熟稳重的德语，语气平和可信，适合一位35岁女性在社群中以助理身份提醒或引导用户讨论金融、股市或虚拟货币话题。",
		},
		Persona{
			ID: AnnouncementAssistant, Name: "公告女助理", Model: modelGemini,
			Instruction: "请将以下中文翻译成简洁正式的德语公告风格，用于Telegram或WhatsApp群组中发布金融、股票或虚拟货币相关的重要信息或提醒。",
		},
		Persona{
			ID: Troll1, Name: "水军1号（普通型）", Model: modelMistral,
			Instruction: "请将以下中文翻译成自然流畅的德语口语，语气正常、平和，适合在群组中进行日常交流和讨论金融、币圈话题，不带明显情绪色彩。",
		},
		Persona{
			ID: Troll2, Name: "水军2号（情绪型）", Model: modelMistral,
			Instruction: "请将以下中文翻译成基础口语化的德语，句子简短，语气夸张、热情，适合在群组中吸引注意力或炒热金融、币圈话题。",
		},
		Persona{
			ID: Troll3, Name: "水军3号（引导型）", Model: modelMistral,
			Instruction: "请将以下中文翻译成互动性强的德语，多使用简单疑问句，语气好奇、自然，适合在Telegram群组中引发用户对金融或币圈事件的讨论。",
		},
		Persona{
			ID: Troll4, Name: "水军4号（煽动型）", Model: modelMistral,
			Instruction: "请将以下中文翻译成具有煽动性、夸张且情绪化的德语，语言激烈，适合在群组中制造争议或带节奏，内容与金融或币圈话题相关。",
		},
	)
}

// Get returns the persona with the given id.
func (r *Registry) Get(id string) (Persona, error) {
	p, ok := r.byID[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %s", ErrUnknownPersona, id)
	}
	return p, nil
}

// List returns all personas in registration order.
func (r *Registry) List() []Persona {
	out := make([]Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ModelFor returns the model identifier of a persona.
func (r *Registry) ModelFor(id string) (string, error) {
	p, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return p.Model, nil
}

// BuildPrompt assembles the full translation instruction. The source text is
// always the literal final suffix of the result.
func (r *Registry) BuildPrompt(id, source string, entries []glossary.Entry) (string, error) {
	p, err := r.Get(id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(p.Instruction)
	b.WriteString(Rules)

	if len(entries) > 0 {
		b.WriteString(glossaryHeader)
		for i, e := range entries {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "\"%s\" → \"%s\"", e.Chinese, e.German)
		}
		b.WriteString(glossaryFooter)
	}

	b.WriteString(sourceLeadIn)
	b.WriteString(source)
	return b.String(), nil
}
