package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"mock-exam-service/internal/domain"
)

// CatalogLoader serves rounds from a JSON catalog file of the form
// {"rounds":[{"id":1,"answerKey":[...],"questions":{"1":{"text":"...","choices":["..."]}}}]}.
// The file is re-read on every load; wrap it in a caching repository.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

func (l *CatalogLoader) LoadRound(_ context.Context, id int) (domain.Round, error) {
	catalog, err := ReadCatalog(l.path)
	if err != nil {
		return domain.Round{}, err
	}
	for _, round := range catalog.Rounds {
		if round.ID == id {
			return round, nil
		}
	}
	return domain.Round{}, domain.ErrRoundNotFound
}

func (l *CatalogLoader) LoadRoundIDs(_ context.Context) ([]int, error) {
	catalog, err := ReadCatalog(l.path)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(catalog.Rounds))
	for _, round := range catalog.Rounds {
		ids = append(ids, round.ID)
	}
	sort.Ints(ids)
	return ids, nil
}

// ReadCatalog parses a catalog file. Question numbers come from the map keys
// when the entries omit them; choices missing from the file stay empty.
func ReadCatalog(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return DecodeCatalog(data)
}

// DecodeCatalog parses catalog JSON.
func DecodeCatalog(data []byte) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[int]bool, len(catalog.Rounds))
	for i, round := range catalog.Rounds {
		if round.ID <= 0 {
			return domain.Catalog{}, fmt.Errorf("decode catalog: round at index %d has no id", i)
		}
		if seen[round.ID] {
			return domain.Catalog{}, fmt.Errorf("decode catalog: duplicate round %d", round.ID)
		}
		seen[round.ID] = true
		for n, q := range round.Questions {
			if q.Number == 0 {
				q.Number = n
				round.Questions[n] = q
			}
		}
	}
	return catalog, nil
}
