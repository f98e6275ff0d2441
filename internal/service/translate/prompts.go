package translate

import "fmt"

func conciseEnglishPrompt(text string) string {
	return fmt.Sprintf(`
请把下面的中文提示词改写成适合 Stable Diffusion 的英文提示词。
要求：
1. 抓住核心内容，译成简洁有力的英文短语
2. 补充适合图像生成的修饰词，例如 "high quality, detailed, beautiful lighting"
3. 删掉多余的修饰，保留原意
4. 只输出英文提示词本身，不要任何解释或其他文字
5. 输出精简的短语，不要写成完整句子

中文提示词:
%s

英文提示词（只输出结果）:
`, text)
}

func translationPrompt(text string) string {
	return fmt.Sprintf(`
把下面的中文文本翻译成英文，并给出 3 个最适合用来搜索图片的关键词。

要求：
1. 译文保留原文的核心意思
2. 关键词应是最能代表文本主题的实体或概念
3. 关键词要适合在图片搜索引擎中使用
4. 必须以 JSON 返回，包含 translation 和 keywords 两个字段

中文文本:
%s

以 JSON 返回（keywords 必须是数组）:
`, text)
}
