package translate

import (
	"context"
	"strings"

	"trivia-quiz/internal/domain"
)

// Dictionary is the offline backend: exact-match phrases bundled per language.
type Dictionary struct {
	phrases map[string]map[string]string
}

func NewDictionary() *Dictionary {
	return &Dictionary{phrases: bundled}
}

func (d *Dictionary) Translate(_ context.Context, text, lang string) (string, error) {
	table, ok := d.phrases[strings.ToLower(lang)]
	if !ok {
		return "", domain.ErrTranslationUnavailable
	}
	if translated, ok := table[strings.TrimSpace(text)]; ok {
		return translated, nil
	}
	return "", domain.ErrTranslationUnavailable
}

// Languages lists the languages the dictionary covers.
func (d *Dictionary) Languages() []string {
	out := make([]string, 0, len(d.phrases))
	for lang := range d.phrases {
		out = append(out, lang)
	}
	return out
}

var bundled = map[string]map[string]string{
	"fr": {
		"Hello":             "Bonjour",
		"True":              "Vrai",
		"False":             "Faux",
		"Easy":              "Facile",
		"Medium":            "Moyen",
		"Hard":              "Difficile",
		"General Knowledge": "Culture générale",
		"Books":             "Livres",
		"Film":              "Cinéma",
		"Music":             "Musique",
		"Television":        "Télévision",
		"Video Games":       "Jeux vidéo",
		"Science & Nature":  "Science et nature",
		"Computers":         "Informatique",
		"Mathematics":       "Mathématiques",
		"Sports":            "Sports",
		"Geography":         "Géographie",
		"History":           "Histoire",
		"Politics":          "Politique",
		"Art":               "Art",
		"Celebrities":       "Célébrités",
		"Animals":           "Animaux",
	},
	"es": {
		"Hello":             "Hola",
		"True":              "Verdadero",
		"False":             "Falso",
		"Easy":              "Fácil",
		"Medium":            "Medio",
		"Hard":              "Difícil",
		"General Knowledge": "Cultura general",
		"Books":             "Libros",
		"Film":              "Cine",
		"Music":             "Música",
		"Television":        "Televisión",
		"Video Games":       "Videojuegos",
		"Science & Nature":  "Ciencia y naturaleza",
		"Computers":         "Informática",
		"Mathematics":       "Matemáticas",
		"Sports":            "Deportes",
		"Geography":         "Geografía",
		"History":           "Historia",
		"Politics":          "Política",
		"Art":               "Arte",
		"Celebrities":       "Celebridades",
		"Animals":           "Animales",
	},
}
