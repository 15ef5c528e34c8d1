// Package serverest describes the HTTP surface of the ServeRest demo API that the
// harness consumes: paths, the literal messages the API answers with, and the JSON
// bodies of each endpoint. Both the client and the in-process fake server use it.
package serverest

import (
	"regexp"
	"strings"
)

// DefaultBaseURL is the public ServeRest deployment.
const DefaultBaseURL = "https://serverest.dev"

const (
	PathLogin    = "/login"
	PathProducts = "/produtos"
	PathUsers    = "/usuarios"
)

// Messages returned by the API.
const (
	MsgLoginSuccess       = "Login realizado com sucesso"
	MsgInvalidCredentials = "Email e/ou senha inválidos"
	MsgCreated            = "Cadastro realizado com sucesso"
	MsgUpdated            = "Registro alterado com sucesso"
	MsgDeleted            = "Registro excluído com sucesso"
	MsgNothingDeleted     = "Nenhum registro excluído"
	MsgProductNotFound    = "Produto não encontrado"
	MsgUserNotFound       = "Usuário não encontrado"
	MsgDuplicateProduct   = "Já existe produto com esse nome"
	MsgDuplicateEmail     = "Este email já está sendo usado"
	MsgAdminOnly          = "Rota exclusiva para administradores"
	MsgTokenInvalid       = "Token de acesso ausente, inválido, expirado ou usuário do token não existe mais"
)

var (
	bearerPattern             = regexp.MustCompile(`^Bearer\s.+`)
	invalidCredentialsPattern = regexp.MustCompile(`(?i)Email e/ou senha inválidos`)
	updatedPattern            = regexp.MustCompile(`(?i)alterado com sucesso`)
	createdPattern            = regexp.MustCompile(`(?i)cadastro realizado com sucesso`)
	notFoundPattern           = regexp.MustCompile(`(?i)não encontrado`)
)

// IsBearer reports whether an authorization value has the "Bearer <opaque>" shape.
func IsBearer(authorization string) bool {
	return bearerPattern.MatchString(authorization)
}

func IsInvalidCredentials(message string) bool {
	return invalidCredentialsPattern.MatchString(message)
}

func IsUpdated(message string) bool {
	return updatedPattern.MatchString(message)
}

func IsCreated(message string) bool {
	return createdPattern.MatchString(message)
}

// IsNotFound matches both "Produto não encontrado" and "Usuário não encontrado".
func IsNotFound(message string) bool {
	return notFoundPattern.MatchString(message)
}

// Admin flag values; the API expects strings, not booleans.
const (
	AdminTrue  = "true"
	AdminFalse = "false"
)

// AdminFlag converts a boolean into the API representation.
func AdminFlag(admin bool) string {
	if admin {
		return AdminTrue
	}
	return AdminFalse
}

// ValidAdminFlag reports whether v is one of the two accepted flag values.
func ValidAdminFlag(v string) bool {
	v = strings.TrimSpace(v)
	return v == AdminTrue || v == AdminFalse
}
