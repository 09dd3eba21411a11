package bula

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"bula/internal/llm"
	"bula/internal/logger"
)

// MinNameLength is the shortest answer accepted as a medicine name, in characters.
const MinNameLength = 3

// NameExtractor asks a language model for the medicine name printed on a package.
type NameExtractor struct {
	gen   llm.Generator
	model string
	log   zerolog.Logger
}

// NewNameExtractor creates an extractor that sends prompts to model through gen.
func NewNameExtractor(gen llm.Generator, model string) *NameExtractor {
	return &NameExtractor{
		gen:   gen,
		model: model,
		log:   logger.WithComponent("name-extractor"),
	}
}

// Extract returns the medicine name found in ocrText.
// It makes exactly one generation call.
func (e *NameExtractor) Extract(ctx context.Context, ocrText string) (string, error) {
	const op = "ExtractName"

	reply, err := e.gen.Generate(ctx, e.model, NamePrompt(ocrText))
	if err != nil {
		return "", internal(op, "Erro interno ao identificar o medicamento.", err)
	}

	name := CleanName(reply)
	if name == NameNotIdentified || utf8.RuneCountInString(name) < MinNameLength {
		e.log.Info().Str("reply", reply).Msg("Model could not identify a medicine name")
		return "", notFound(op,
			"Não foi possível identificar o nome do medicamento a partir da imagem. Tente uma foto mais clara ou com mais detalhes.",
			ErrNameNotIdentified)
	}

	return name, nil
}

// CleanName trims a model answer and strips one pair of surrounding quotes.
func CleanName(reply string) string {
	name := strings.TrimSpace(reply)
	for _, q := range [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}} {
		if len(name) >= len(q[0])+len(q[1]) && strings.HasPrefix(name, q[0]) && strings.HasSuffix(name, q[1]) {
			name = strings.TrimSpace(name[len(q[0]) : len(name)-len(q[1])])
			break
		}
	}
	return name
}
