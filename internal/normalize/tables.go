package normalize

// entry is one row of a lookup table. Keys are stored pre-normalized so
// matching never has to re-fold them.
type entry struct {
	Key       string // normalized abbreviation, nickname, or misspelling
	Canonical string // canonical brand or product name, display casing
}

// brandAbbreviations maps common shorthand to canonical brand names.
// Declaration order is the tie-break order for downstream variant ranking.
//
//nolint:gochecknoglobals // Static lookup table, content is a business decision
var brandAbbreviations = []entry{
	{"ysl", "Yves Saint Laurent"},
	{"tf", "Tom Ford"},
	{"jpg", "Jean Paul Gaultier"},
	{"adg", "Acqua di Gio"},
	{"adp", "Acqua di Parma"},
	{"ch", "Carolina Herrera"},
	{"ck", "Calvin Klein"},
	{"dg", "Dolce and Gabbana"},
	{"d and g", "Dolce and Gabbana"},
	{"pdm", "Parfums de Marly"},
	{"mfk", "Maison Francis Kurkdjian"},
	{"fm", "Frederic Malle"},
	{"bdc", "Bleu de Chanel"},
	{"lv", "Louis Vuitton"},
	{"cdg", "Comme des Garcons"},
	{"bnv", "Bottega Veneta"},
	{"abercrombie", "Abercrombie and Fitch"},
	{"af", "Abercrombie and Fitch"},
	{"armani", "Giorgio Armani"},
	{"zara man", "Zara"},
}

// nicknames maps community nicknames and colloquial phrasings to canonical
// product names.
//
//nolint:gochecknoglobals // Static lookup table, content is a business decision
var nicknames = []entry{
	{"chanel blue", "Bleu de Chanel"},
	{"blue chanel", "Bleu de Chanel"},
	{"blue de chanel", "Bleu de Chanel"},
	{"dior sauvage", "Sauvage"},
	{"savage", "Sauvage"},
	{"aventus", "Creed Aventus"},
	{"creed", "Creed Aventus"},
	{"la nuit", "La Nuit de L'Homme"},
	{"ysl la nuit", "La Nuit de L'Homme"},
	{"eros", "Versace Eros"},
	{"invictus", "Paco Rabanne Invictus"},
	{"one million", "Paco Rabanne 1 Million"},
	{"1 million", "Paco Rabanne 1 Million"},
	{"stronger with you", "Emporio Armani Stronger With You"},
	{"swy", "Emporio Armani Stronger With You"},
	{"mojave ghost", "Byredo Mojave Ghost"},
	{"gypsy water", "Byredo Gypsy Water"},
	{"baccarat", "Baccarat Rouge 540"},
	{"br540", "Baccarat Rouge 540"},
	{"layton", "Parfums de Marly Layton"},
	{"ombre nomade", "Louis Vuitton Ombre Nomade"},
	{"tobacco vanille", "Tom Ford Tobacco Vanille"},
	{"lost cherry", "Tom Ford Lost Cherry"},
	{"good girl", "Carolina Herrera Good Girl"},
	{"bad boy", "Carolina Herrera Bad Boy"},
	{"libre", "YSL Libre"},
	{"black opium", "YSL Black Opium"},
	{"light blue", "Dolce and Gabbana Light Blue"},
	{"the one", "Dolce and Gabbana The One"},
	{"acqua di gio", "Acqua di Gio"},
	{"profumo", "Acqua di Gio Profumo"},
}

// typoCorrections maps frequent misspellings straight to the corrected term,
// skipping the edit-distance scan.
//
//nolint:gochecknoglobals // Static lookup table, content is a business decision
var typoCorrections = []entry{
	{"chanle", "chanel"},
	{"channel", "chanel"},
	{"dioor", "dior"},
	{"giorgo", "giorgio"},
	{"armany", "armani"},
	{"versach", "versace"},
	{"versase", "versace"},
	{"guchi", "gucci"},
	{"gucchi", "gucci"},
	{"burbery", "burberry"},
	{"given chy", "givenchy"},
	{"givanchy", "givenchy"},
	{"herms", "hermes"},
	{"perfum", "parfum"},
	{"sovage", "sauvage"},
	{"adventus", "aventus"},
	{"bacarat", "baccarat"},
}

// vocabulary is the union of all table keys and canonical values, normalized
// and deduplicated. It bounds the brute-force edit-distance scan to a few
// hundred strings.
//
//nolint:gochecknoglobals // Derived once at init from the static tables
var vocabulary = buildVocabulary()

func buildVocabulary() []string {
	seen := make(map[string]bool)
	var vocab []string
	add := func(term string) {
		n := Normalize(term)
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		vocab = append(vocab, n)
	}

	for _, e := range brandAbbreviations {
		add(e.Key)
		add(e.Canonical)
	}
	for _, e := range nicknames {
		add(e.Key)
		add(e.Canonical)
	}
	for _, e := range typoCorrections {
		add(e.Key)
		add(e.Canonical)
	}
	return vocab
}

// Vocabulary returns the known-term vocabulary used for typo correction.
func Vocabulary() []string {
	return vocabulary
}
