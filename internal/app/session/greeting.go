package session

import (
	"fmt"
	"time"
)

var weekdays = [...]string{
	"Domingo",
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
}

// greetingText seeds a fresh conversation with the day-of-week greeting.
func greetingText(t time.Time) string {
	return fmt.Sprintf("Boa %s!\nQue bom ter você aqui. Sobre o que você gostaria de falar hoje?", weekdays[t.Weekday()])
}

// musicContextText seeds the conversation after the "talk about music"
// topic switch. Predefined, no model call involved.
const musicContextText = "'Explicar a Garrafa' é sobre quebrar o velho script. O que essa metáfora desperta em você?"

// User-facing error lines, in the site's voice.
const (
	assistantUnavailableText = "O assistente não está disponível no momento. Tente novamente mais tarde."
	chatInitFailedText       = "Não foi possível iniciar o chat. Verifique a chave da API."
)
