package prices

import (
	"context"
	"fmt"
	"strings"

	"collection-merge/core/database"

	"gorm.io/gorm"
)

// Object is a row of the collection objects table.
type Object struct {
	ID          uint   `gorm:"primaryKey"`
	Token       string `gorm:"column:token;index"`
	LocalNumber string `gorm:"column:local_number;index"`
	Title       string `gorm:"column:title"`
	Price       *int   `gorm:"column:price"`
}

// requiredColumns are the columns the store reads and writes.
var requiredColumns = []string{"token", "local_number", "price"}

// Store reads and updates collection objects.
type Store struct {
	db    *gorm.DB
	table string
}

// NewStore creates a store over the given table.
func NewStore(db *gorm.DB, table string) *Store {
	if table == "" {
		table = "objects"
	}
	return &Store{db: db, table: table}
}

// Migrate creates or extends the objects table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Table(s.table).AutoMigrate(&Object{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", s.table, err)
	}
	return nil
}

// VerifySchema checks that the table has the columns the store needs.
func (s *Store) VerifySchema() error {
	missing, err := database.MissingColumns(s.db, s.table, requiredColumns...)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", s.table, strings.Join(missing, ", "))
	}
	return nil
}

// TokenByLocalNumber returns the token of the first object with the local
// number, or an empty string when there is none.
func (s *Store) TokenByLocalNumber(ctx context.Context, localNumber string) (string, error) {
	var tokens []string
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("local_number = ?", strings.TrimSpace(localNumber)).
		Limit(1).
		Pluck("token", &tokens).Error
	if err != nil {
		return "", fmt.Errorf("failed to look up local number %s: %w", localNumber, err)
	}
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0], nil
}

// UpdatePrice sets the price of the objects with the token. Unknown tokens
// are not an error.
func (s *Store) UpdatePrice(ctx context.Context, token string, price int) error {
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("token = ?", token).
		Update("price", price).Error
	if err != nil {
		return fmt.Errorf("failed to update price of %s: %w", token, err)
	}
	return nil
}

// UpdatePriceBatch applies all updates in one transaction.
func (s *Store) UpdatePriceBatch(ctx context.Context, actions []Action) error {
	if len(actions) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range actions {
			err := tx.Table(s.table).Where("token = ?", a.Token).Update("price", a.Price).Error
			if err != nil {
				return fmt.Errorf("failed to update price of %s: %w", a.Token, err)
			}
		}
		return nil
	})
}
