package progress

import (
	"bytes"
	"encoding/json"
)

// Subsection - минимальная единица прохождения внутри урока.
type Subsection struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// LessonContent - результат разбора Lesson.Content.
// Либо в контенте есть список subsections, либо структурированного контента нет,
// и тогда весь урок считается одним подразделом.
type LessonContent struct {
	Subsections []Subsection
	structured  bool
}

func (c LessonContent) HasSubsections() bool {
	return c.structured
}

// SubsectionCount всегда >= 1.
func (c LessonContent) SubsectionCount() int {
	if !c.structured || len(c.Subsections) == 0 {
		return 1
	}
	return len(c.Subsections)
}

type contentEnvelope struct {
	Subsections *[]json.RawMessage `json:"subsections"`
}

// ParseContent никогда не возвращает ошибку: всё, что не удалось разобрать,
// превращается в урок без подразделов.
func ParseContent(raw []byte) LessonContent {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return LessonContent{}
	}

	// Текстовые колонки иногда хранят JSON внутри JSON-строки
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return LessonContent{}
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) == 0 || raw[0] == '"' {
			return LessonContent{}
		}
	}

	var env contentEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Subsections == nil {
		return LessonContent{}
	}

	subs := make([]Subsection, 0, len(*env.Subsections))
	for _, item := range *env.Subsections {
		var s Subsection
		// Элемент может быть не объектом, но всё равно считается подразделом
		_ = json.Unmarshal(item, &s)
		subs = append(subs, s)
	}
	return LessonContent{Subsections: subs, structured: true}
}

func SubsectionCount(raw []byte) int {
	return ParseContent(raw).SubsectionCount()
}
