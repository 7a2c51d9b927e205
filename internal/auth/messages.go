package auth

import "errors"

// Message is the login screen text for an auth failure.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCredentials):
		return "Preencha todos os campos."
	case errors.Is(err, ErrInvalidEmail):
		return "E-mail inválido. Use um endereço real (sem acentos/espaços)."
	case errors.Is(err, ErrEmailInUse):
		return "Este e-mail já está em uso. Faça login."
	case errors.Is(err, ErrWeakPassword):
		return "A senha deve ter no mínimo 6 caracteres."
	case errors.Is(err, ErrAccountNotFound):
		return "Conta não encontrada. Verifique o e-mail ou cadastre-se."
	case errors.Is(err, ErrInvalidCredentials):
		return "Credenciais inválidas. Tente novamente."
	default:
		return "Erro inesperado. Tente novamente."
	}
}
