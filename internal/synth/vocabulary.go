package synth

// Vocabulary holds the themed word lists the generators draw from.
type Vocabulary struct {
	Domains      []string
	Titles       []string
	Universities []string
	Degrees      []string
	ArticleTypes []string
	Tags         []string
	Journals     []string
}

// DefaultVocabulary returns the French academic vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Domains: []string{
			"Neurosciences", "Intelligence Artificielle", "Physique Quantique",
			"Biologie Moléculaire", "Climatologie", "Astrophysique", "Génétique",
			"Informatique", "Mathématiques", "Chimie", "Génie Biomédical",
			"Psychologie", "Écologie", "Science des Matériaux", "Économie",
		},
		Titles: []string{
			"Professeur", "Professeur Associé", "Professeur Assistant",
			"Chercheur Principal", "Maître de Conférences", "Postdoctorant", "Doctorant",
		},
		Universities: []string{
			"Université Paris-Saclay", "Sorbonne Université", "Université PSL",
			"École Polytechnique", "Université de Genève", "ETH Zurich",
			"Université de Montréal", "Université McGill", "Université de Liège",
			"Université Libre de Bruxelles", "École Normale Supérieure",
			"Université de Strasbourg", "Université Claude Bernard Lyon 1",
			"Université Aix-Marseille", "Institut Pasteur",
		},
		Degrees: []string{
			"Doctorat", "Doctorat en Médecine", "Doctorat ès Sciences",
			"Master", "Licence", "Ingénieur", "HDR",
		},
		ArticleTypes: []string{
			"Article de Recherche", "Revue de Littérature", "Communication Courte",
			"Étude de Cas", "Méthodologie", "Perspective", "Commentaire",
		},
		Tags: []string{
			"apprentissage automatique", "apprentissage profond", "réseaux de neurones",
			"génomique", "protéomique", "informatique quantique", "nanotechnologie",
			"changement climatique", "biotechnologie", "immunologie",
			"sciences cognitives", "physique théorique", "mathématiques appliquées",
			"science des données", "robotique",
		},
		Journals: []string{
			"Nature Climate Change",
			"Science Advances",
			"Environmental Research Letters",
			"Global Environmental Change",
			"Sustainability Science",
		},
	}
}
