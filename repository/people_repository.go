package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/gorm"
)

// PeopleFilter narrows List; zero values mean "any".
type PeopleFilter struct {
	Name          string
	Gender        string
	Religion      string
	Citizenship   string
	MaritalStatus string
	Nationality   string
	Ethnicity     string
	Job           string
	BloodType     string
	PlaceOfBirth  string
}

type PeopleRepository interface {
	BaseRepository[models.People]
	GetWithAddresses(id uuid.UUID) (*models.People, error)
	GetByCitizenshipIdentity(identity string) (*models.People, error)
	Search(filter PeopleFilter, limit, offset int) ([]*models.People, error)
	SoftDelete(id uuid.UUID, by uuid.UUID) error
	AddAddress(addr *models.PeopleAddress) error
}

type PeopleRepositoryImpl struct {
	*BaseRepositoryImpl[models.People]
}

func NewPeopleRepository(db *gorm.DB) PeopleRepository {
	return &PeopleRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.People](db),
	}
}

func (r *PeopleRepositoryImpl) GetWithAddresses(id uuid.UUID) (*models.People, error) {
	var person models.People
	err := r.db.
		Preload("Addresses", "deleted_at IS NULL").
		First(&person, "id = ? AND deleted_at IS NULL", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &person, nil
}

func (r *PeopleRepositoryImpl) GetByCitizenshipIdentity(identity string) (*models.People, error) {
	var person models.People
	err := r.db.First(&person, "citizenship_identity = ? AND deleted_at IS NULL", identity).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &person, nil
}

func (r *PeopleRepositoryImpl) Search(filter PeopleFilter, limit, offset int) ([]*models.People, error) {
	q := r.db.Model(&models.People{}).Where("deleted_at IS NULL")
	if filter.Name != "" {
		q = q.Where("LOWER(full_name) LIKE LOWER(?)", "%"+filter.Name+"%")
	}
	for col, val := range map[string]string{
		"gender":         filter.Gender,
		"religion":       filter.Religion,
		"citizenship":    filter.Citizenship,
		"marital_status": filter.MaritalStatus,
		"nationality":    filter.Nationality,
		"ethnicity":      filter.Ethnicity,
		"job":            filter.Job,
		"blood_type":     filter.BloodType,
		"place_of_birth": filter.PlaceOfBirth,
	} {
		if val != "" {
			q = q.Where(col+" = ?", val)
		}
	}
	var people []*models.People
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&people).Error
	if err != nil {
		return nil, translateError(err)
	}
	return people, nil
}

func (r *PeopleRepositoryImpl) SoftDelete(id uuid.UUID, by uuid.UUID) error {
	res := r.db.Model(&models.People{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": time.Now(),
			"deleted_by": by,
		})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PeopleRepositoryImpl) AddAddress(addr *models.PeopleAddress) error {
	return translateError(r.db.Create(addr).Error)
}
