package analysis

import "fmt"

// Category identifies one of the seven feature categories
type Category int

const (
	People Category = iota
	Places
	Organizations
	Lemmas
	MultiWordExpressions
	Keyphrases
	Dates
)

// Categories lists every category in report order
var Categories = []Category{
	People,
	Places,
	Organizations,
	Lemmas,
	MultiWordExpressions,
	Keyphrases,
	Dates,
}

type categoryInfo struct {
	key   string // chart file suffix
	name  string // display and sheet name
	file  string // CSV file name
	label string // english identifier
}

var categoryTable = map[Category]categoryInfo{
	People:               {key: "pessoas", name: "Pessoas", file: "Pessoas.csv", label: "people"},
	Places:               {key: "locais", name: "Locais", file: "Locais.csv", label: "places"},
	Organizations:        {key: "organizacoes", name: "Organizações", file: "Organizacoes.csv", label: "organizations"},
	Lemmas:               {key: "lemas", name: "Lemas", file: "Lemas.csv", label: "lemmas"},
	MultiWordExpressions: {key: "mwe", name: "MWE", file: "MWE.csv", label: "mwe"},
	Keyphrases:           {key: "palavraschave", name: "Palavras-chave", file: "PalavrasChave.csv", label: "keyphrases"},
	Dates:                {key: "datas", name: "Datas", file: "Datas.csv", label: "dates"},
}

// Key is the stable artifact key used in chart file names
func (c Category) Key() string { return categoryTable[c].key }

// Name is the display name, also used as the workbook sheet name
func (c Category) Name() string { return categoryTable[c].name }

// CSVFile is the name of the full frequency export for the category
func (c Category) CSVFile() string { return categoryTable[c].file }

// String returns the english identifier, used in logs and metric labels
func (c Category) String() string {
	if info, ok := categoryTable[c]; ok {
		return info.label
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ChartFile is the chart image name for a document stem
func (c Category) ChartFile(stem string) string {
	return stem + "_" + c.Key() + ".png"
}

// ChartTitle is the chart title for a document file name
func (c Category) ChartTitle(filename string) string {
	return fmt.Sprintf("Top 10 %s em %s", c.Name(), filename)
}

// CategoryByKey looks up a category by its chart key
func CategoryByKey(key string) (Category, bool) {
	for _, c := range Categories {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}
