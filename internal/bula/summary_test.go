package bula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bula/pkg/models"
)

const rawSummary = `{
  "contraindicacoes": "Alergia à dipirona.",
  "como_usar": "Via oral.",
  "posologia": "1 comprimido até 4 vezes ao dia.",
  "reacoes_adversas": "Hipotensão.",
  "riscos_cuidados": "Evitar na gravidez."
}`

func TestParseSummaryFencedAndRawAreEquivalent(t *testing.T) {
	raw, missing, err := ParseSummary(rawSummary)
	require.NoError(t, err)
	assert.Empty(t, missing)

	fenced, _, err := ParseSummary("Aqui está o resumo:\n```json\n" + rawSummary + "\n```\nEspero ter ajudado.")
	require.NoError(t, err)

	assert.Equal(t, raw, fenced)
	assert.Equal(t, "Hipotensão.", raw.AdverseReactions)
}

func TestParseSummaryFenceVariants(t *testing.T) {
	for name, reply := range map[string]string{
		"no newline":   "```json" + rawSummary + "```",
		"crlf":         "```json\r\n" + rawSummary + "\r\n```",
		"padded reply": "\n\n  " + rawSummary + "  \n",
		"uppercase tag": "Resumo:\n```JSON\n" + rawSummary + "\n```",
		"untagged":     "Resumo:\n```\n" + rawSummary + "\n```\nFim.",
	} {
		t.Run(name, func(t *testing.T) {
			s, _, err := ParseSummary(reply)
			require.NoError(t, err)
			assert.Equal(t, "Via oral.", s.Usage)
		})
	}
}

func TestParseSummaryMissingKeys(t *testing.T) {
	s, missing, err := ParseSummary(`{"como_usar": "Via oral.", "riscos_cuidados": null, "extra": "ignorado"}`)
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.KeyContraindications,
		models.KeyDosage,
		models.KeyAdverseReactions,
		models.KeyRisksAndPrecautions,
	}, missing)
	assert.Equal(t, "Via oral.", s.Usage)
	assert.Equal(t, MissingSummaryValue, s.RisksAndPrecautions)
}

func TestParseSummaryNonStringValues(t *testing.T) {
	s, _, err := ParseSummary(`{"reacoes_adversas": ["Náusea", "Tontura"], "posologia": 2}`)
	require.NoError(t, err)
	assert.Equal(t, "Náusea\nTontura", s.AdverseReactions)
	assert.Equal(t, "2", s.Dosage)
}

func TestParseSummaryMalformed(t *testing.T) {
	for _, reply := range []string{
		"",
		"not json",
		"null",
		`["contraindicacoes"]`,
		"```json\n{broken\n```",
	} {
		_, _, err := ParseSummary(reply)
		assert.ErrorIs(t, err, ErrMalformedSummary, "reply %q", reply)
	}
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"Paracetamol":           "Paracetamol",
		"  Paracetamol \n":      "Paracetamol",
		`"Dipirona Sódica"`:     "Dipirona Sódica",
		"'Tylenol'":             "Tylenol",
		"“Dorflex”":             "Dorflex",
		`""Duplo""`:             `"Duplo"`,
		`"`:                     `"`,
		`"NÃO_IDENTIFICADO"`:    NameNotIdentified,
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanName(in), "input %q", in)
	}
}

func TestPromptsEmbedInput(t *testing.T) {
	name := NamePrompt("TYLENOL 750mg")
	assert.Contains(t, name, "Texto da caixa:\nTYLENOL 750mg")
	assert.Contains(t, name, `"NÃO_IDENTIFICADO"`)

	summary := SummaryPrompt("Texto completo")
	assert.Contains(t, summary, "Texto da Bula:\nTexto completo\n---")
	assert.Contains(t, summary, DefaultSummaryValue)
	for _, key := range models.SummaryKeys {
		assert.Contains(t, summary, `"`+key+`"`)
	}
}
