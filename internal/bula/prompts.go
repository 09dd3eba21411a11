package bula

import "fmt"

// NameNotIdentified is the answer the name prompt asks for when no medicine name is legible.
const NameNotIdentified = "NÃO_IDENTIFICADO"

// DefaultSummaryValue is the value the summary prompt asks for when the leaflet is silent on a point.
const DefaultSummaryValue = "Não especificado na bula."

// MissingSummaryValue backfills keys the model left out of its answer.
const MissingSummaryValue = "Não especificado ou não gerado pelo modelo."

const namePromptTemplate = `Dado o seguinte texto extraído da caixa de um medicamento, identifique e retorne apenas o nome oficial do medicamento.
Se houver nomes de marca e nomes genéricos, prefira o nome genérico se for claramente identificável.
Retorne apenas o nome do medicamento, sem explicações ou frases adicionais.
Se não conseguir identificar um nome de medicamento claro, retorne "%[1]s".

Exemplos:
Texto: "PARACETAMOL 500mg Comprimidos"
Nome: "Paracetamol"

Texto: "TYLENOL 750mg"
Nome: "Tylenol"

Texto: "DIPIRONA SÓDICA 500 MG"
Nome: "Dipirona Sódica"

Texto: "R$ 19,99 VENCIMENTO 12/25"
Nome: "%[1]s"

Texto da caixa:
%[2]s
`

const summaryPromptTemplate = `Dado o seguinte texto de bula de medicamento, extraia e resuma os seguintes pontos-chave de forma clara e concisa em português:

1. **Contraindicações:**
2. **Como usar / Modo de Uso:**
3. **Posologia:**
4. **Quais as reações adversas e os efeitos colaterais:**
5. **Riscos e Cuidados (incluindo interações medicamentosas, gravidez, amamentação, etc.):**

Formate a saída como um objeto JSON onde as chaves correspondem aos títulos dos pontos (ex: "contraindicacoes", "como_usar") e os valores são os resumos em texto. Se alguma informação não estiver explicitamente presente na bula, use "%[1]s" como valor para aquela chave.

Exemplo de formato de saída JSON:
{
  "contraindicacoes": "Não usar se tiver alergia a X ou Y.",
  "como_usar": "Ingerir 1 comprimido com água.",
  "posologia": "1 comprimido a cada 8 horas.",
  "reacoes_adversas": "Náuseas, tontura.",
  "riscos_cuidados": "Evitar álcool. Consultar médico em caso de gravidez."
}

---
Texto da Bula:
%[2]s
---
`

// NamePrompt builds the name extraction prompt for OCR text.
func NamePrompt(ocrText string) string {
	return fmt.Sprintf(namePromptTemplate, NameNotIdentified, ocrText)
}

// SummaryPrompt builds the five-point summary prompt for a leaflet's full text.
func SummaryPrompt(fullText string) string {
	return fmt.Sprintf(summaryPromptTemplate, DefaultSummaryValue, fullText)
}
