// Package services implements the question-to-SQL pipeline.
package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/llm"
	"github.com/dataquill-io/dataquill-engine/pkg/models"
	"github.com/dataquill-io/dataquill-engine/pkg/prompts"
)

// Generation methods reported to the caller.
const (
	MethodAI      = "ai"
	MethodPattern = "pattern"
)

const (
	generationTemperature = 0.1
	generationMaxTokens   = 500
)

// GeneratedQuery is the generator's output: one SQL statement and the
// strategy that produced it.
type GeneratedQuery struct {
	Query  string `json:"query"`
	Method string `json:"method"`
}

// QueryGenerator turns a natural-language question into a candidate SQL
// statement. The remote strategy is best-effort; any failure falls back to
// the deterministic pattern strategy and is never surfaced to the caller.
type QueryGenerator struct {
	client llm.Client // nil when no remote service is configured
	logger *zap.Logger
}

// NewQueryGenerator creates a generator. client may be nil, in which case
// only the pattern strategy is used.
func NewQueryGenerator(client llm.Client, logger *zap.Logger) *QueryGenerator {
	return &QueryGenerator{client: client, logger: logger.Named("generator")}
}

// Generate produces a SQL statement for the question. It always succeeds:
// remote failures of any kind are absorbed and redirected to the pattern
// strategy, distinguishable only via the Method field.
func (g *QueryGenerator) Generate(ctx context.Context, question string, schema *models.Schema, docs models.Documentation) GeneratedQuery {
	if g.client != nil {
		sql, err := g.generateRemote(ctx, question, schema, docs)
		if err == nil {
			return GeneratedQuery{Query: sql, Method: MethodAI}
		}
		g.logger.Warn("remote generation failed, using pattern fallback", zap.Error(err))
	}

	return GeneratedQuery{Query: GeneratePatternQuery(question, schema), Method: MethodPattern}
}

func (g *QueryGenerator) generateRemote(ctx context.Context, question string, schema *models.Schema, docs models.Documentation) (string, error) {
	prompt := prompts.SQLGeneration(prompts.RenderSchemaContext(schema, docs), question)

	raw, err := g.client.Complete(ctx, prompt, generationTemperature, generationMaxTokens)
	if err != nil {
		return "", err
	}

	sql := stripCodeFences(raw)
	if sql == "" {
		return "", fmt.Errorf("empty completion")
	}
	return sql, nil
}

// stripCodeFences removes markdown code-fence decoration some models wrap
// around the statement.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
