package llm

import (
	"fmt"
	"strings"
)

const DefaultModel = "GPT-4"

type model struct {
	name string
	id   string
}

// порядок важен: в таком виде список отдается пользователю
var allowedModels = []model{
	{"GPT-4", "gpt-4"},
	{"GPT-4-0613", "gpt-4-0613"},
	{"GPT-4-32k", "gpt-4-32k"},
	{"GPT-4-0314", "gpt-4-0314"},
	{"GPT-4-32k-0314", "gpt-4-32k-0314"},
	{"GPT-3.5-Turbo", "gpt-3.5-turbo"},
	{"GPT-3.5-Turbo-16k", "gpt-3.5-turbo-16k"},
	{"GPT-3.5-Turbo-0613", "gpt-3.5-turbo-0613"},
	{"GPT-3.5-Turbo-16k-0613", "gpt-3.5-turbo-16k-0613"},
	{"GPT-3.5-Turbo-0301", "gpt-3.5-turbo-0301"},
	{"Text-Davinci-003", "text-davinci-003"},
	{"Text-Davinci-002", "text-davinci-002"},
	{"Code-Davinci-002", "code-davinci-002"},
	{"GPT-3", "gpt-3"},
	{"Text-Curie-001", "text-curie-001"},
	{"Text-Babbage-001", "text-babbage-001"},
	{"Text-Ada-001", "text-ada-001"},
	{"Davinci", "davinci"},
	{"Curie", "curie"},
	{"Babbage", "babbage"},
	{"Ada", "ada"},
	{"Babbage-002", "babbage-002"},
	{"Davinci-002", "davinci-002"},
	{"GPT-4o", "gpt-4o"},
	{"ChatGPT", "chatgpt"},
}

// Models returns the allow-listed model names.
func Models() []string {
	names := make([]string, len(allowedModels))
	for i, m := range allowedModels {
		names[i] = m.name
	}
	return names
}

func ValidModel(name string) bool {
	_, err := ResolveModel(name)
	return err == nil
}

// ResolveModel maps an allow-listed name to the identifier the service expects.
// Names are matched exactly.
func ResolveModel(name string) (string, error) {
	for _, m := range allowedModels {
		if m.name == name {
			return m.id, nil
		}
	}
	return "", &Error{
		Kind:    KindModelNotFound,
		Message: fmt.Sprintf("invalid model: %s. Available models: %s", name, strings.Join(Models(), ", ")),
	}
}
