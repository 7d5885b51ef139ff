// Package query filters catalog snapshots by category and name. Everything
// here is pure; callers pass the records in and get a new slice back.
package query

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pinvault/internal/client/models"
	"github.com/dmitrijs2005/pinvault/internal/common"
)

// Category is either All or one of the file kinds.
type Category string

const All Category = "all"

// Categories lists All followed by every kind.
func Categories() []Category {
	out := make([]Category, 0, len(models.Kinds)+1)
	out = append(out, All)
	for _, k := range models.Kinds {
		out = append(out, Category(k))
	}
	return out
}

// ParseCategory accepts "all" or a kind name. The empty string means All.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(All) {
		return All, nil
	}
	k, err := models.ParseKind(s)
	if err != nil {
		return "", fmt.Errorf("%w: category: %w", common.ErrInvalidArgument, err)
	}
	return Category(k), nil
}

func (c Category) matches(k models.Kind) bool {
	return c == All || models.Kind(c) == k
}

// Filter keeps records of the given category whose name contains term,
// ignoring case. An empty term matches every name. Input order is preserved.
func Filter(records []models.VaultFile, category Category, term string) []models.VaultFile {
	needle := strings.ToLower(term)

	out := make([]models.VaultFile, 0, len(records))
	for _, r := range records {
		if !category.matches(r.Kind) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Counts returns how many records fall into each category, All included.
// Categories without records are present with zero.
func Counts(records []models.VaultFile) map[Category]int {
	out := make(map[Category]int, len(models.Kinds)+1)
	for _, c := range Categories() {
		out[c] = 0
	}
	for _, r := range records {
		out[All]++
		out[Category(r.Kind)]++
	}
	return out
}
