package content

import "fmt"

func polishPrompt(r Request) string {
	return fmt.Sprintf(`
请把下面的文案润色成小红书风格，内容保持不变，只让它更贴合小红书的表达习惯。

要求：
1. 不改动原文的主要内容和结构
2. 加入 emoji 表情，让文案更活泼
3. 适当使用小红书常见的表达方式
4. 调整排版，合理换行，方便阅读
5. 原文没有标签时，在文末补充 3-5 个相关标签，格式为 #标签内容

【原始文案】
标题：%s

正文：
%s

附加说明：
%s
`, r.Theme, r.Context, r.Description)
}

func concisePrompt(r Request) string {
	return fmt.Sprintf(`
请帮我写一篇小红书风格的精简文案。

要求：
1. 包含标题、正文和标签
2. 标题抓人眼球，突出主题
3. 正文简洁明了、重点突出，符合小红书风格
4. 标签以井号(#)开头，共 3-5 个
5. 全文 100-300 字
6. 语气活泼，带 emoji 表情
7. 注意换行，不要挤成一团

【主题】
%s

【上下文】
%s

【描述】
%s
`, r.Theme, r.Context, r.Description)
}

func detailedPrompt(r Request) string {
	return fmt.Sprintf(`
请帮我写三篇小红书风格的文案，篇与篇之间用三个连续的星号 %s 分隔。

要求：
1. 每篇都包含标题、正文和标签
2. 标题抓人眼球，突出主题
3. 正文内容充实，符合小红书风格，语言生动活泼
4. 标签以井号(#)开头，每篇至少 3 个
5. 每篇 200-500 字
6. 语气活泼，带 emoji 表情
7. 三篇层层递进：内容各不相同，但前后呼应、逐步深入
8. 注意换行，不要挤成一团

【主题】
%s

【上下文】
%s

【描述】
%s
`, Separator, r.Theme, r.Context, r.Description)
}
