package driven

// PromptAnswer names the answer template. It must contain the {context}
// and {question} placeholders.
const PromptAnswer = "answer"

// PromptStore serves user-customised prompt templates by name, falling
// back to the built-in template when there is no usable override.
type PromptStore interface {
	Load(name string) (string, error)
}
