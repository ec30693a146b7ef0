package model

// Joke is a question/answer pair returned by the joke provider.
// Field names are part of the public response contract.
type Joke struct {
	ID       int    `json:"id"`
	Pergunta string `json:"Pergunta"`
	Resposta string `json:"Resposta"`
}
