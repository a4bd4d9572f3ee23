package database

import (
	"cafes/model"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// uniqueCafeColumns are checked in this order so the first collision is the
// one reported back to the form.
var uniqueCafeColumns = []struct {
	column string
	value  func(*model.Cafe) string
}{
	{"name", func(c *model.Cafe) string { return c.Name }},
	{"map_url", func(c *model.Cafe) string { return c.MapURL }},
	{"img_url", func(c *model.Cafe) string { return c.ImgURL }},
}

type CafeStore struct {
	db *gorm.DB
}

func NewCafeStore(db *gorm.DB) *CafeStore {
	return &CafeStore{db: db}
}

// All returns every cafe in insertion order.
func (s *CafeStore) All(ctx context.Context) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := s.db.WithContext(ctx).Order("id").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) Get(ctx context.Context, id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := s.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cafe %d: %w", id, err)
	}
	return &cafe, nil
}

// Create inserts the cafe and sets its ID.
func (s *CafeStore) Create(ctx context.Context, cafe *model.Cafe) error {
	return create(s.db.WithContext(ctx), cafe)
}

// Update overwrites every column of an existing row.
func (s *CafeStore) Update(ctx context.Context, cafe *model.Cafe) error {
	if cafe.ID == 0 {
		return ErrNotFound
	}
	tx := s.db.WithContext(ctx)
	if err := checkUnique(tx, cafe); err != nil {
		return err
	}

	result := tx.Model(cafe).Select("*").Omit("id").Updates(cafe)
	if result.Error != nil {
		return translate(result.Error, "update cafe")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CafeStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Cafe{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete cafe %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMany inserts all cafes in one transaction. Nothing is written if
// any of them collides with an existing row or with an earlier one in the
// batch.
func (s *CafeStore) CreateMany(ctx context.Context, cafes []model.Cafe) (int, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range cafes {
			if err := create(tx, &cafes[i]); err != nil {
				return fmt.Errorf("cafe %q: %w", cafes[i].Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(cafes), nil
}

func create(tx *gorm.DB, cafe *model.Cafe) error {
	if err := checkUnique(tx, cafe); err != nil {
		return err
	}
	if err := tx.Create(cafe).Error; err != nil {
		return translate(err, "create cafe")
	}
	return nil
}

func checkUnique(tx *gorm.DB, cafe *model.Cafe) error {
	for _, u := range uniqueCafeColumns {
		var count int64
		q := tx.Model(&model.Cafe{}).Where(u.column+" = ?", u.value(cafe))
		if cafe.ID != 0 {
			q = q.Where("id <> ?", cafe.ID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("check %s: %w", u.column, err)
		}
		if count > 0 {
			return &DuplicateError{Field: u.column}
		}
	}
	return nil
}

func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateError{}
	}
	return fmt.Errorf("%s: %w", op, err)
}
