package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"

	"github.com/eslsoft/lingvo/internal/entity"
)

//go:embed fixtures/catalogue.yaml
var catalogueYAML []byte

// Catalogue is the reference data every installation needs.
type Catalogue struct {
	Languages []entity.Language `yaml:"languages"`
	WordTypes []entity.WordType `yaml:"word_types"`
}

// LoadCatalogue decodes the embedded catalogue fixture.
func LoadCatalogue() (*Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(catalogueYAML, &c); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	return &c, nil
}

type languageRow struct {
	bun.BaseModel `bun:"table:languages"`

	Code              string `bun:"code,pk"`
	Name              string `bun:"name,notnull"`
	NativeName        string `bun:"native_name,notnull"`
	LearningAvailable bool   `bun:"learning_available,notnull"`
	SortOrder         int    `bun:"sort_order,notnull"`
}

type wordTypeRow struct {
	bun.BaseModel `bun:"table:word_types"`

	Name      string `bun:"name,pk"`
	SortOrder int    `bun:"sort_order,notnull"`
}

// Seed upserts the catalogue. Existing rows are refreshed, never removed.
func Seed(ctx context.Context, db bun.IDB) (int, error) {
	c, err := LoadCatalogue()
	if err != nil {
		return 0, err
	}

	languages := make([]languageRow, len(c.Languages))
	for i, l := range c.Languages {
		languages[i] = languageRow{
			Code:              l.Code,
			Name:              l.Name,
			NativeName:        l.NativeName,
			LearningAvailable: l.LearningAvailable,
			SortOrder:         i,
		}
	}
	types := make([]wordTypeRow, len(c.WordTypes))
	for i, t := range c.WordTypes {
		types[i] = wordTypeRow{Name: t.Name, SortOrder: i}
	}

	if len(languages) > 0 {
		if _, err := db.NewInsert().Model(&languages).
			On("CONFLICT (code) DO UPDATE").
			Set("name = EXCLUDED.name").
			Set("native_name = EXCLUDED.native_name").
			Set("learning_available = EXCLUDED.learning_available").
			Set("sort_order = EXCLUDED.sort_order").
			Exec(ctx); err != nil {
			return 0, fmt.Errorf("seed languages: %w", err)
		}
	}
	if len(types) > 0 {
		if _, err := db.NewInsert().Model(&types).
			On("CONFLICT (name) DO UPDATE").
			Set("sort_order = EXCLUDED.sort_order").
			Exec(ctx); err != nil {
			return 0, fmt.Errorf("seed word types: %w", err)
		}
	}
	return len(languages) + len(types), nil
}
