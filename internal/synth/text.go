package synth

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text produces French-looking filler prose and person names from a seeded
// source. It is not safe for concurrent use.
type Text struct {
	rng *rand.Rand
}

// NewText returns a generator drawing from rng.
func NewText(rng *rand.Rand) *Text {
	return &Text{rng: rng}
}

// Sentence returns a capitalised sentence of roughly n words ending in a period.
// The actual count varies by up to 40% like typical lorem generators.
func (t *Text) Sentence(n int) string {
	if n < 1 {
		n = 1
	}
	n = t.vary(n)
	words := t.Words(n)
	return capitalize(strings.Join(words, " ")) + "."
}

// Paragraph returns n sentences of 6-14 words.
func (t *Text) Paragraph(n int) string {
	if n < 1 {
		n = 1
	}
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = t.Sentence(6 + t.rng.IntN(9))
	}
	return strings.Join(sentences, " ")
}

// Words returns n random words.
func (t *Text) Words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = words[t.rng.IntN(len(words))]
	}
	return out
}

// FirstName returns a French first name.
func (t *Text) FirstName() string {
	return firstNames[t.rng.IntN(len(firstNames))]
}

// LastName returns a French last name.
func (t *Text) LastName() string {
	return lastNames[t.rng.IntN(len(lastNames))]
}

// Name returns "First Last", occasionally with an honorific prefix.
func (t *Text) Name() string {
	name := t.FirstName() + " " + t.LastName()
	if t.rng.IntN(10) == 0 {
		return prefixes[t.rng.IntN(len(prefixes))] + " " + name
	}
	return name
}

// Slug returns a few hyphen-joined words, e.g. for DOI suffixes.
func (t *Text) Slug() string {
	return strings.Join(t.Words(3), "-")
}

func (t *Text) vary(n int) int {
	spread := n * 40 / 100
	if spread == 0 {
		return n
	}
	return n - spread + t.rng.IntN(2*spread+1)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var prefixes = []string{"Dr.", "Pr.", "Mme", "M."}

var firstNames = []string{
	"Émilie", "Marc", "Camille", "Julien", "Chloé", "Antoine", "Léa", "Hugo",
	"Manon", "Thomas", "Inès", "Nicolas", "Sophie", "Mathieu", "Élodie", "Lucas",
	"Margaux", "Théo", "Clémence", "Raphaël", "Océane", "Maxime", "Anaïs", "Benoît",
	"Céline", "Étienne", "Juliette", "François", "Hélène", "Jérôme", "Noémie", "Sébastien",
	"Agathe", "Grégoire", "Zoé", "Louis", "Amélie", "Rémi", "Capucine", "Gaël",
}

var lastNames = []string{
	"Bernard", "Lambert", "Dubois", "Moreau", "Laurent", "Lefèvre", "Girard", "Roux",
	"Fournier", "Mercier", "Bonnet", "Durand", "Faure", "André", "Rousseau", "Blanc",
	"Guérin", "Muller", "Henry", "Roussel", "Nicolas", "Perrin", "Morin", "Mathieu",
	"Clément", "Gauthier", "Dumont", "Lopez", "Fontaine", "Chevalier", "Robin", "Masson",
	"Sanchez", "Gérard", "Nguyen", "Boyer", "Denis", "Lemaire", "Duval", "Joly",
	"Gautier", "Roger", "Roche", "Roy", "Noël", "Meyer", "Lucas", "Meunier",
}

var words = []string{
	"analyse", "approche", "modèle", "données", "résultat", "hypothèse", "méthode",
	"système", "structure", "processus", "mesure", "échantillon", "variable", "théorie",
	"expérience", "observation", "évolution", "impact", "réseau", "cellule", "protocole",
	"étude", "cadre", "facteur", "mécanisme", "interaction", "dynamique", "signal",
	"recherche", "projet", "question", "réponse", "niveau", "principe", "contexte",
	"permet", "révèle", "montre", "suggère", "confirme", "propose", "explore", "décrit",
	"améliore", "compare", "soutient", "modifie", "favorise", "réduit", "augmente",
	"nouveau", "important", "complexe", "significatif", "robuste", "précis", "général",
	"récent", "durable", "fondamental", "expérimental", "statistique", "numérique",
	"biologique", "cognitif", "quantique", "environnemental", "clinique", "théorique",
	"le", "la", "les", "un", "une", "des", "du", "de", "et", "ou", "pour", "avec",
	"dans", "sur", "par", "entre", "sans", "selon", "vers", "chez", "ainsi", "donc",
	"également", "notamment", "cependant", "toutefois", "désormais", "souvent", "plus",
}
