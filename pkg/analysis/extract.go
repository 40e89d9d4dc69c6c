package analysis

// Features holds one FrequencyMap per category
type Features map[Category]*FrequencyMap

// Extract runs all seven extractors over the annotation
func Extract(a *Annotation, labels Labels) Features {
	return Features{
		People:               ExtractEntities(a, labels.Person),
		Places:               ExtractEntities(a, labels.Location),
		Organizations:        ExtractEntities(a, labels.Organization),
		Lemmas:               ExtractLemmas(a),
		MultiWordExpressions: ExtractMWE(a),
		Keyphrases:           ExtractKeyphrases(a),
		Dates:                ExtractEntities(a, labels.Date),
	}
}

// ExtractEntities counts the surface text of entities tagged with label
func ExtractEntities(a *Annotation, label string) *FrequencyMap {
	m := NewFrequencyMap()
	if label == "" {
		return m
	}
	for _, ent := range a.Entities {
		if ent.Label == label {
			m.Add(ent.Text)
		}
	}
	return m
}

// ExtractLemmas counts lemmas of alphabetic non-stopword tokens
func ExtractLemmas(a *Annotation) *FrequencyMap {
	m := NewFrequencyMap()
	for _, tok := range a.Tokens {
		if tok.IsAlpha && !tok.IsStop {
			m.Add(tok.Lemma)
		}
	}
	return m
}

// ExtractMWE counts noun chunks longer than one token
func ExtractMWE(a *Annotation) *FrequencyMap {
	m := NewFrequencyMap()
	for _, chunk := range a.NounChunks {
		if chunk.TokenCount > 1 {
			m.Add(chunk.Text)
		}
	}
	return m
}

// ExtractKeyphrases counts noun chunks free of stopwords with an alphabetic root
func ExtractKeyphrases(a *Annotation) *FrequencyMap {
	m := NewFrequencyMap()
	for _, chunk := range a.NounChunks {
		if !chunk.HasStopword && chunk.RootIsAlpha {
			m.Add(chunk.Text)
		}
	}
	return m
}

// RankAll ranks every category to at most n entries
func (f Features) RankAll(n int) map[Category]RankedList {
	ranked := make(map[Category]RankedList, len(f))
	for _, c := range Categories {
		m, ok := f[c]
		if !ok {
			m = NewFrequencyMap()
		}
		ranked[c] = Rank(m, n)
	}
	return ranked
}
