// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"strings"

	"github.com/piadas/piadas/internal/model"
)

// RegisterRequest is the body of POST /registrar.
// Fields are pointers so a missing key can be told apart from an empty string.
type RegisterRequest struct {
	Nome  *string `json:"nome"`
	Email *string `json:"email"`
	Senha *string `json:"senha"`
}

// Missing returns the names of absent fields.
func (r RegisterRequest) Missing() []string {
	var missing []string
	if r.Nome == nil {
		missing = append(missing, "nome")
	}
	if r.Email == nil {
		missing = append(missing, "email")
	}
	if r.Senha == nil {
		missing = append(missing, "senha")
	}
	return missing
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email *string `json:"email"`
	Senha *string `json:"senha"`
}

// Missing returns the names of absent fields.
func (r LoginRequest) Missing() []string {
	var missing []string
	if r.Email == nil {
		missing = append(missing, "email")
	}
	if r.Senha == nil {
		missing = append(missing, "senha")
	}
	return missing
}

// TokenResponse carries a freshly issued token.
type TokenResponse struct {
	JWT string `json:"jwt"`
}

// JokeResponse is the joke shape returned to callers.
type JokeResponse struct {
	ID       int    `json:"id"`
	Pergunta string `json:"Pergunta"`
	Resposta string `json:"Resposta"`
}

// ToJokeResponse converts a model.Joke.
func ToJokeResponse(j *model.Joke) JokeResponse {
	return JokeResponse{
		ID:       j.ID,
		Pergunta: j.Pergunta,
		Resposta: j.Resposta,
	}
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MissingFieldsDetail formats the 422 message for absent fields.
func MissingFieldsDetail(fields []string) string {
	return "Campos obrigatórios ausentes: " + strings.Join(fields, ", ")
}
