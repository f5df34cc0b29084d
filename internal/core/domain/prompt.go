package domain

// AnswerTemplate is the answer prompt, with {context} and {question}
// placeholders. Clients depend on its exact text, including the leading
// newline and the trailing indentation.
const AnswerTemplate = `
You are a helpful assistant. Use the context below to answer the question.

Context:
{context}

Question:
{question}

Answer in a clear, concise way.
  `
