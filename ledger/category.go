package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Category is a descriptive label for transactions. Categories are balance
// irrelevant; a transaction keeps its category name as a raw string even
// after the category itself is deleted.
type Category struct {
	ID        uuid.UUID
	Name      string
	Icon      string
	Color     string
	IsDefault bool
	CreatedAt time.Time
}

// NewCategory creates a user-defined category.
func NewCategory(name, icon, color string) *Category {
	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: time.Now(),
	}
}

// DefaultCategories returns the categories seeded into an empty store.
func DefaultCategories() []*Category {
	defaults := []struct {
		name, icon, color string
	}{
		{"Food & Dining", "fork.knife", "orange"},
		{"Shopping", "bag", "purple"},
		{"Transportation", "car", "blue"},
		{"Bills & Utilities", "house", "red"},
		{"Entertainment", "gamecontroller", "green"},
		{"Health & Fitness", "heart", "pink"},
		{"Travel", "airplane", "indigo"},
		{"Education", "book", "yellow"},
		{"Personal Care", "scissors", "teal"},
		{"Other", "tag", "gray"},
	}

	categories := make([]*Category, len(defaults))
	for i, d := range defaults {
		categories[i] = &Category{
			ID:        uuid.New(),
			Name:      d.name,
			Icon:      d.icon,
			Color:     d.color,
			IsDefault: true,
			CreatedAt: time.Now(),
		}
	}
	return categories
}
