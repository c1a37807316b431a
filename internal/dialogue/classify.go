package dialogue

import "strings"

// ErrorKind names why a conversation was handed to a human.
type ErrorKind string

const (
	KindRateLimit   ErrorKind = "rate_limit"
	KindAuth        ErrorKind = "auth"
	KindTimeout     ErrorKind = "timeout"
	KindNetwork     ErrorKind = "network"
	KindGeneric     ErrorKind = "generic"
	KindNoAnswer    ErrorKind = "no_answer"
	KindLLMTransfer ErrorKind = "llm_transfer"
)

type classifyRule struct {
	kind    ErrorKind
	needles []string
}

// Order matters: the first rule with a matching needle wins.
var classifyRules = []classifyRule{
	{KindRateLimit, []string{"rate limit", "429"}},
	{KindAuth, []string{"unauthorized", "invalid api key", "401"}},
	{KindTimeout, []string{"timeout", "timed out"}},
	{KindNetwork, []string{"connection", "network"}},
}

// Classify maps a provider error message to an ErrorKind by case-insensitive
// substring search. It is a heuristic over free text; anything unrecognized
// is KindGeneric.
func Classify(message string) ErrorKind {
	lowered := strings.ToLower(message)
	for _, rule := range classifyRules {
		for _, n := range rule.needles {
			if strings.Contains(lowered, n) {
				return rule.kind
			}
		}
	}
	return KindGeneric
}

var technicalReasons = map[ErrorKind]string{
	KindRateLimit:   "Límite de velocidad excedido en servicio de IA",
	KindAuth:        "Error de autenticación con proveedor de IA",
	KindTimeout:     "Tiempo de respuesta agotado al consultar la IA",
	KindNetwork:     "Incidencia de red al consultar servicio de IA",
	KindGeneric:     "Fallo inesperado al generar respuesta con IA",
	KindNoAnswer:    "No se encontró información relevante en la base de conocimientos",
	KindLLMTransfer: "El modelo recomienda atención humana",
}

var userMessages = map[ErrorKind]string{
	KindNoAnswer: "Lo siento, no tengo información específica sobre esa pregunta en mi base de datos. " +
		"Voy a transferir su consulta a uno de nuestros agentes especializados que podrá ayudarle mejor.",
	KindRateLimit: "Nuestra IA está atendiendo muchas consultas en este momento y no pudo responder a tiempo. " +
		"Te conecto con un agente humano para continuar.",
	KindTimeout: "La IA tardó más de lo esperado en responder. " +
		"Derivaré tu caso a un agente humano para que recibas ayuda inmediata.",
	KindAuth: "No pude autenticarme con el servicio de IA. " +
		"Permíteme transferirte con un agente humano para resolverlo contigo.",
	KindNetwork: "Tuvimos un inconveniente de conexión con el servicio de IA. " +
		"Enseguida te enlazo con un agente humano que pueda ayudarte.",
	KindGeneric: "Ocurrió un imprevisto al generar la respuesta automática. " +
		"Te conectaré con un agente humano para continuar.",
	KindLLMTransfer: "Para darte una respuesta más precisa, compartiré tu consulta con uno de nuestros agentes especialistas. " +
		"¡En un momento se pondrá en contacto contigo!",
}

// TechnicalReason is the reason recorded for the human agent.
func TechnicalReason(kind ErrorKind) string {
	if r, ok := technicalReasons[kind]; ok {
		return r
	}
	return technicalReasons[KindGeneric]
}

// UserMessage is the apology shown to the customer on transfer.
func UserMessage(kind ErrorKind) string {
	if m, ok := userMessages[kind]; ok {
		return m
	}
	return userMessages[KindGeneric]
}

// PipelineFailureReason is the technical reason used when the transfer
// recommendation step itself fails.
func PipelineFailureReason(kind ErrorKind) string {
	return "Fallo en el pipeline de transferencia: " + TechnicalReason(kind)
}
