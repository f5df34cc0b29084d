package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptExt is the file extension of prompt files.
const promptExt = ".txt"

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to the built-in defaults.
//
// Initialisation is lazy: the directory and default files are written on the
// first Load, never in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts are written to disk on first use and served when a file is missing.
var defaultPrompts = map[string]string{
	driven.PromptAnswer: domain.AnswerTemplate,
}

// placeholders a prompt file must keep; an edited file missing one is ignored.
var placeholders = map[string][]string{
	driven.PromptAnswer: {"{context}", "{question}"},
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.docqa/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// File content is returned verbatim; whitespace in a template is significant.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	if missing := missingPlaceholder(name, prompt); missing != "" {
		logger.Warn("prompt %s lacks %s, using built-in template", s.Path(name), missing)
		prompt = defaultPrompts[name]
	}

	// Keep whichever value a concurrent load cached first.
	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Path returns the file path of the named prompt.
func (s *PromptStore) Path(name string) string {
	return filepath.Join(s.promptDir, name+promptExt)
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := s.Path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

func missingPlaceholder(name, prompt string) string {
	for _, p := range placeholders[name] {
		if !strings.Contains(prompt, p) {
			return p
		}
	}
	return ""
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	content := `# docqa Prompts

This directory holds the prompt templates docqa sends to the language model.

## Files

- ` + "`answer.txt`" + ` - Builds the question-answering prompt from retrieved chunks

## Placeholders

- ` + "`{context}`" + ` - The retrieved chunks, separated by blank lines
- ` + "`{question}`" + ` - The user's question

Both placeholders are replaced in a single pass, so text inside the question
or the chunks is never substituted again. A file missing either placeholder
is ignored in favour of the default. Delete a file to restore its default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
