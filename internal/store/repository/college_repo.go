package repository

import (
	"context"
	"errors"

	"github.com/Digigit24/kumsserpbackend-sub001/internal/store/entity"
	"gorm.io/gorm"
)

// CollegeRepository persists colleges and central stores.
type CollegeRepository struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*entity.College, error) {
	var college entity.College
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&college).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &college, nil
}

func (r *CollegeRepository) FindAll(ctx context.Context) ([]entity.College, error) {
	var colleges []entity.College
	err := r.db.WithContext(ctx).Order("name ASC").Find(&colleges).Error
	return colleges, err
}

func (r *CollegeRepository) Create(ctx context.Context, college *entity.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *CollegeRepository) FindStoreByID(ctx context.Context, id string) (*entity.CentralStore, error) {
	var store entity.CentralStore
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

func (r *CollegeRepository) FindAllStores(ctx context.Context) ([]entity.CentralStore, error) {
	var stores []entity.CentralStore
	err := r.db.WithContext(ctx).Order("name ASC").Find(&stores).Error
	return stores, err
}

func (r *CollegeRepository) CreateStore(ctx context.Context, store *entity.CentralStore) error {
	return r.db.WithContext(ctx).Create(store).Error
}
