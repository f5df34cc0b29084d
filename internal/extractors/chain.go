package extractors

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Verify interface compliance.
var _ driven.ExtractorChain = (*Chain)(nil)

// DefaultConcurrency is the number of documents extracted in parallel.
const DefaultConcurrency = domain.DefaultIngestConcurrency

// Table maps each kind to its strategies in order of preference.
type Table map[domain.Kind][]driven.Extractor

// Chain runs the extraction table over upload batches.
type Chain struct {
	table       Table
	concurrency int
}

// Option configures the chain.
type Option func(*Chain)

// WithConcurrency bounds the number of documents extracted in parallel.
func WithConcurrency(n int) Option {
	return func(c *Chain) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewChain creates a chain over the given table.
func NewChain(table Table, opts ...Option) *Chain {
	c := &Chain{
		table:       table,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractAll extracts every document in parallel and returns the results
// in input order. Only cancellation of ctx fails the batch.
func (c *Chain) ExtractAll(ctx context.Context, docs []*domain.SourceDocument) (*domain.ExtractionBatch, error) {
	batch := &domain.ExtractionBatch{
		Texts:       make([]domain.ExtractedText, len(docs)),
		Diagnostics: make([]domain.ExtractionDiagnostic, len(docs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, doc := range docs {
		g.Go(func() error {
			batch.Texts[i], batch.Diagnostics[i] = c.Extract(gctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract batch: %w", err)
	}

	if n := batch.DegradedCount(); n > 0 {
		logger.Warn("extraction: %d of %d documents yielded no text", n, len(docs))
	}
	return batch, nil
}

// Extract runs the strategies for one document until one yields text.
func (c *Chain) Extract(ctx context.Context, doc *domain.SourceDocument) (domain.ExtractedText, domain.ExtractionDiagnostic) {
	kind := DetectKind(doc.OriginalName, doc.DeclaredMediaType, doc.RawBytes)

	text := domain.ExtractedText{SourceID: doc.ID, Name: doc.OriginalName, Method: domain.MethodNone}
	diag := domain.ExtractionDiagnostic{
		SourceID: doc.ID,
		Name:     doc.OriginalName,
		Kind:     kind,
		Method:   domain.MethodNone,
	}

	strategies := c.table[kind]
	if len(strategies) == 0 {
		logger.Warn("extraction: unsupported file type %q for %s", doc.DeclaredMediaType, doc.OriginalName)
		diag.Degraded = true
		diag.Reason = fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, describeType(doc)).Error()
		return text, diag
	}

	var failures []string
	for _, strategy := range strategies {
		out, err := run(ctx, strategy, doc)
		if err != nil {
			logger.Debug("extraction: %s via %s failed: %v", doc.OriginalName, strategy.Method(), err)
			failures = append(failures, fmt.Sprintf("%s: %v", strategy.Method(), err))
			continue
		}
		if strings.TrimSpace(out) == "" {
			failures = append(failures, fmt.Sprintf("%s: no text", strategy.Method()))
			continue
		}

		logger.Debug("extraction: %s via %s (%d bytes)", doc.OriginalName, strategy.Method(), len(out))
		text.Text = out
		text.Method = strategy.Method()
		diag.Method = strategy.Method()
		return text, diag
	}

	logger.Warn("extraction: %s (%s) yielded no text", doc.OriginalName, kind)
	diag.Degraded = true
	diag.Reason = fmt.Errorf("%w: %s", domain.ErrExtractionDegraded, strings.Join(failures, "; ")).Error()
	return text, diag
}

// run calls the strategy, converting a parser panic into an error.
func run(ctx context.Context, strategy driven.Extractor, doc *domain.SourceDocument) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("panic: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strategy.Extract(ctx, doc)
}

func describeType(doc *domain.SourceDocument) string {
	if doc.DeclaredMediaType != "" {
		return doc.DeclaredMediaType
	}
	if doc.OriginalName != "" {
		return doc.OriginalName
	}
	return "unknown"
}
