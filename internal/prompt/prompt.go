// Package prompt composes the system instruction sent with every
// translation request.
package prompt

import (
	"strings"

	"codeberg.org/snonux/deeptranslate/internal/translation"
)

const (
	header = "你是一个专业翻译家，请遵守以下规则：\n" +
		"1. 自动识别输入语言并翻译为指定目标语言\n" +
		"2. 严格应用以下术语替换规则：\n"

	// SubstitutionInstruction precedes the glossary entries
	SubstitutionInstruction = "在翻译时若遇到以下词或词组对中的左侧或右侧，请直接按照对应关系替换：\n"

	criteria = "3. 翻译标准：\n" +
		"- 信：忠实原文内容\n" +
		"- 达：译文通顺自然\n" +
		"- 雅：语言优美地道\n"

	targetDirective = "4. 目标语言："
)

// Build returns the system prompt for a translation into target. Glossary
// entries are quoted one per line in the given order, without any
// validation or deduplication.
func Build(glossary []string, target translation.Language) string {
	var b strings.Builder

	b.WriteString(header)

	if len(glossary) > 0 {
		b.WriteString(SubstitutionInstruction)
		for _, entry := range glossary {
			b.WriteString(`- "`)
			b.WriteString(entry)
			b.WriteString("\"\n")
		}
	}

	b.WriteString(criteria)
	b.WriteString(targetDirective)
	b.WriteString(target.String())

	return b.String()
}
