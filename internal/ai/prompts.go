package ai

const (
	// BackTranslatePrompt asks for a plain Chinese rendering of German text.
	BackTranslatePrompt = "请将以下德语文本翻译成中文，只输出中文翻译结果，不要添加任何解释：\n\n%s"

	// RegisterFlipPrompt swaps the Du and Sie forms of address.
	RegisterFlipPrompt = `请将以下德语文本在Du/Sie形式之间进行转换：
- 如果文本使用Du(你)形式，请转换为Sie(您)形式
- 如果文本使用Sie(您)形式，请转换为Du(你)形式
- 如果文本没有明确的人称，请保持原文不变
- 除了人称代词及其相关变位，请保持其他内容完全不变

德语文本：
%s

请只返回转换后的德语文本，不要添加任何解释。`

	// DashRemovalPrompt replaces connector dashes with commas.
	DashRemovalPrompt = `请去掉以下德语文本中的短横线符号（–, —, -）换成逗号，保持其他内容完全不变。仅去除作为连接符或破折号的短横线，不要去除复合词中的连字符。

德语文本：
%s

请只返回处理后的德语文本，不要添加任何解释。`

	// EmojiRemovalPrompt strips emoji.
	EmojiRemovalPrompt = `请去掉以下德语文本中的所有emoji表情符号和表情图标，保持其他内容完全不变。只需要去除emoji符号，不要改变任何德语单词、标点符号或格式。
德语文本：
%s
请只返回去除表情符号后的德语文本，不要添加任何解释。`

	// CommentStripPrompt removes client notes, numbering and role markers from Chinese text.
	CommentStripPrompt = `请清洗以下中文文本，去除其中的甲方备注、编号、角色信息等无关内容，只保留需要翻译的核心内容。

清洗规则：
1. 去除明显的备注文字（如括号内的说明、注释）
2. 去除编号（如1、2、3或（一）（二）等）
3. 去除角色标识（如"客户："、"经理："、"注："等）
4. 去除格式标记和多余的标点符号
5. 保留所有实际需要翻译的内容，不要遗漏重要信息
6. 如果不确定某部分是否应该删除，请保留

只返回清洗后的中文文本，不要添加任何解释或说明。

原始文本：
%s`

	// ToDuPrompt converts German text to the informal form.
	ToDuPrompt = "请把以下德语文本转换为Duzen形式。只转换指向对话对象的人称代词(Sie/Ihnen/Ihre→du/dir/dich/deine)，" +
		"不要改变说话者(ich)或第三人称代词。保持句子原意不变。如果已经是Duzen形式，直接输出原文。\n\n德语文本：%s"

	// ToSiePrompt converts German text to the formal form.
	ToSiePrompt = "请把以下德语文本转换为Siezen形式。只转换指向对话对象的人称代词(du/dir/dich/deine→Sie/Ihnen/Ihre)，" +
		"不要改变说话者(ich)或第三人称代词。保持句子原意不变。如果已经是Siezen形式，直接输出原文。\n\n德语文本：%s"

	grammarIntro = "请检查以下德语文本的质量，背景是投资股票基金虚拟货币的社交媒体群组。\n\n" +
		"1. 基础错误检查：详细指出语法、动词变位、格变、大小写、标点符号等问题\n" +
		"2. 表达风格：如有问题用1-2句话简述\n"
	grammarOutro = "要求：重点关注基础错误，其他方面除非有明显问题否则简述或不提。直接给出问题和建议，不要客套话。"

	// GrammarWithReferencePrompt checks German text against its Chinese source.
	GrammarWithReferencePrompt = grammarIntro +
		"3. 翻译准确性：如有问题用1-2句话简述\n" +
		"4. 人称对应：如有你/您与du/Sie不对应的问题用1-2句话简述\n\n" +
		"德语文本：%s\n\n中文对照：%s\n\n" + grammarOutro

	// GrammarPrompt checks German text on its own.
	GrammarPrompt = grammarIntro +
		"3. 表达自然性：如有问题用1-2句话简述\n\n" +
		"德语文本：%s\n\n" + grammarOutro

	// AssistantPrompt answers questions about the German language and life in Germany.
	AssistantPrompt = "你是一个熟知德语和德国生活和文化的人，请基于以下问题提供准确、实用的回答：\n\n用户问题：%s\n\n请用中文回答，并在涉及德语时提供解释。"

	// OCRPrompt accompanies the image in text extraction requests.
	OCRPrompt = `请识别图片中的所有文字内容。图片中主要包含德语和中文文字。请按照以下要求输出：
1. 准确识别所有可见的文字
2. 保持原有的文字排列和格式
3. 如果有多行文字，请保持换行格式
4. 在开头用中文对图片内容进行描述，然后只输出识别到的文字内容，不要添加任何解释或说明
5. 如果某些文字不清楚，请用[不清楚]标注`

	// ReversePrompt translates German into Chinese.
	ReversePrompt = "请把以下德语翻译成恰当的中文。只需要给出一个版本的中文译文，除了译文不要包含其他任何内容，包括不限于解释性注释和引号。\n\n德语文本：%s"

	// DetectPrompt asks for the name of the language of a text.
	DetectPrompt = `请检测以下文本的语言。只需要回复语言名称，不要包含任何解释或额外内容。
支持的语言包括：德语、英语、法语、意大利语、西班牙语、中文、日语、韩语、俄语等。

文本：%s`
)
