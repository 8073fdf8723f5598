package generate

import (
	"fmt"
	"html"
	"strings"
)

// Paragraph styles used in generated content.
const (
	styleDefault = "mb-4 leading-relaxed"
	styleLead    = "lead text-xl font-medium text-muted-foreground mb-6"
	styleLarge   = "text-lg leading-relaxed mb-4"
	styleSmall   = "text-sm text-muted-foreground mb-3"
	styleMuted   = "text-muted-foreground mb-4"
)

const (
	h2 = `<h2 class="text-2xl font-bold mb-4">%s</h2>`
	h3 = `<h3 class="text-xl font-semibold mb-3">%s</h3>`
	h4 = `<h4 class="text-lg font-medium mb-3">%s</h4>`
)

// CitationsPerArticle is the length of the reference list.
const CitationsPerArticle = 10

const methodologyQuote = "Cette méthodologie repose sur une approche reproductible et rigoureuse des protocoles scientifiques."

const comparisonTable = `<div class="my-8 overflow-x-auto">
<h3 class="text-xl font-semibold mb-4">Tableau Comparatif</h3>
<table class="w-full border-collapse">
<thead class="bg-muted">
<tr><th class="border px-4 py-2 text-left">Critère</th><th class="border px-4 py-2 text-left">Option A</th><th class="border px-4 py-2 text-left">Option B</th></tr>
</thead>
<tbody>
<tr><td class="border px-4 py-2">Efficacité</td><td class="border px-4 py-2 font-medium">87%</td><td class="border px-4 py-2 font-medium">79%</td></tr>
<tr><td class="border px-4 py-2">Précision</td><td class="border px-4 py-2 font-medium">91%</td><td class="border px-4 py-2 font-medium">84%</td></tr>
<tr><td class="border px-4 py-2">Coût</td><td class="border px-4 py-2">Modéré</td><td class="border px-4 py-2">Élevé</td></tr>
</tbody>
</table>
</div>`

// Content builds the HTML body of an article. One theme drawn from the
// vocabulary's domains is used for every section.
func (d *Drafter) Content() string {
	theme := d.pick(d.vocab.Domains)
	p := func(style string, sentences int) string {
		return fmt.Sprintf(`<p class="%s">%s</p>`, style, d.themedParagraph(theme, sentences))
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(`<article class="prose prose-slate dark:prose-invert max-w-none">`)

	line(`<header class="mb-8">`)
	line(fmt.Sprintf(h2, "Résumé"))
	line(p(styleLead, 6))
	line(`</header>`)

	section := func(heading string, body ...string) {
		line(`<section>`)
		line(heading)
		for _, s := range body {
			line(s)
		}
		line(`</section>`)
	}

	section(fmt.Sprintf(h2, "Introduction"), p(styleLarge, 8))
	section(fmt.Sprintf(h3, "Contexte"), p(styleDefault, 8))
	section(fmt.Sprintf(h4, "Historique"), p(styleSmall, 5))
	section(fmt.Sprintf(h2, "Méthodologie"), p(styleDefault, 8),
		`<blockquote class="border-l-4 border-primary pl-4 italic my-6">`+methodologyQuote+`</blockquote>`)
	section(fmt.Sprintf(h2, "Résultats"), p(styleDefault, 8), comparisonTable)

	var ul strings.Builder
	ul.WriteString(`<ul class="list-disc pl-6 mb-6 space-y-2">`)
	for range 4 {
		fmt.Fprintf(&ul, `<li class="text-muted-foreground">%s</li>`, html.EscapeString(d.text.Sentence(8)))
	}
	ul.WriteString(`</ul>`)
	section(fmt.Sprintf(h2, "Discussion"), p(styleDefault, 8), ul.String())

	section(fmt.Sprintf(h2, "Conclusion"), p(styleMuted, 6))

	var ol strings.Builder
	ol.WriteString(`<ol class="list-decimal pl-6 space-y-3">`)
	for range CitationsPerArticle {
		fmt.Fprintf(&ol, `<li class="text-muted-foreground">%s</li>`, d.Citation().HTML())
	}
	ol.WriteString(`</ol>`)
	section(fmt.Sprintf(h2, "Références"), ol.String())

	b.WriteString(`</article>`)
	return b.String()
}

// themedParagraph frames n-2 filler sentences between a fixed opening and
// closing sentence about theme.
func (d *Drafter) themedParagraph(theme string, n int) string {
	parts := make([]string, 0, n)
	parts = append(parts, fmt.Sprintf("%s est un domaine de recherche dynamique qui connaît une croissance constante dans les milieux scientifiques.", theme))
	for range max(n-2, 0) {
		parts = append(parts, d.text.Sentence(8))
	}
	parts = append(parts, fmt.Sprintf("En résumé, %s représente aujourd'hui l'un des axes majeurs de l'innovation scientifique.", strings.ToLower(theme)))
	return html.EscapeString(strings.Join(parts, " "))
}
