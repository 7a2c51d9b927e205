package mentor

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	MissingKeyText  = "ERRO DE CONFIGURAÇÃO: \n\n1. Defina MENTORD_GEMINI_API_KEY (ou GEMINI_API_KEY) no ambiente ou no arquivo .env.\n2. Coloque sua API Key do Google como valor.\n3. Reinicie o mentord.\n\nSem a chave, o Mentor não pode responder."
	RateLimitText   = "ERRO DE LIMITE (429): Muitas requisições. O plano gratuito tem limites de RPM (Requisições por minuto). Aguarde um momento."
	UnavailableText = "ERRO DE SERVIDOR (503): O Google Gemini está instável no momento. Tente novamente em 30 segundos."
	GenericText     = "ERRO DE SISTEMA: Verifique sua conexão ou a configuração da API Key."
)

func ModelNotFoundText(modelName string) string {
	if modelName == "" {
		modelName = DefaultModel
	}
	return fmt.Sprintf("ERRO CRÍTICO: Modelo não encontrado. Verifique se sua chave API tem acesso ao '%s'.", modelName)
}

// Diagnose turns a failed mentor call into the message shown to the user. Raw errors never
// reach the conversation.
func Diagnose(err error, modelName string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingAPIKey) {
		return MissingKeyText
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return ModelNotFoundText(modelName)
		case http.StatusTooManyRequests:
			return RateLimitText
		case http.StatusServiceUnavailable:
			return UnavailableText
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return ModelNotFoundText(modelName)
	case strings.Contains(msg, "429"):
		return RateLimitText
	case strings.Contains(msg, "503"):
		return UnavailableText
	default:
		return GenericText
	}
}
