package service

import (
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
)

type PeopleService interface {
	Create(person *models.People, by uuid.UUID) error
	Get(id uuid.UUID) (*models.People, error)
	GetByCitizenshipIdentity(identity string) (*models.People, error)
	Search(filter repository.PeopleFilter, limit, offset int) ([]*models.People, error)
	Update(id uuid.UUID, updates *models.People, by uuid.UUID) (*models.People, error)
	Delete(id uuid.UUID, by uuid.UUID) error
	AddAddress(personID uuid.UUID, addr *models.PeopleAddress, by uuid.UUID) error
}

type PeopleServiceImpl struct {
	repo repository.PeopleRepository
}

func NewPeopleService(repo repository.PeopleRepository) PeopleService {
	return &PeopleServiceImpl{repo: repo}
}

func (s *PeopleServiceImpl) Create(person *models.People, by uuid.UUID) error {
	person.CreatedBy = &by
	applyDefaults(person)
	return s.repo.Create(person)
}

func (s *PeopleServiceImpl) Get(id uuid.UUID) (*models.People, error) {
	return s.repo.GetWithAddresses(id)
}

func (s *PeopleServiceImpl) GetByCitizenshipIdentity(identity string) (*models.People, error) {
	return s.repo.GetByCitizenshipIdentity(identity)
}

func (s *PeopleServiceImpl) Search(filter repository.PeopleFilter, limit, offset int) ([]*models.People, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.repo.Search(filter, limit, offset)
}

func (s *PeopleServiceImpl) Update(id uuid.UUID, updates *models.People, by uuid.UUID) (*models.People, error) {
	person, err := s.repo.GetWithAddresses(id)
	if err != nil {
		return nil, err
	}
	if updates.FullName != "" {
		person.FullName = updates.FullName
	}
	if updates.PlaceOfBirth != "" {
		person.PlaceOfBirth = updates.PlaceOfBirth
	}
	if updates.DateOfBirth != nil {
		person.DateOfBirth = updates.DateOfBirth
	}
	if updates.Gender != "" {
		person.Gender = updates.Gender
	}
	if updates.Religion != "" {
		person.Religion = updates.Religion
	}
	if updates.Ethnicity != "" {
		person.Ethnicity = updates.Ethnicity
	}
	if updates.BloodType != "" {
		person.BloodType = updates.BloodType
	}
	if updates.CitizenshipIdentity != "" {
		person.CitizenshipIdentity = updates.CitizenshipIdentity
	}
	if updates.Citizenship != "" {
		person.Citizenship = updates.Citizenship
	}
	if updates.Nationality != "" {
		person.Nationality = updates.Nationality
	}
	if updates.MaritalStatus != "" {
		person.MaritalStatus = updates.MaritalStatus
	}
	if updates.Job != "" {
		person.Job = updates.Job
	}
	person.UpdatedBy = &by
	if err := s.repo.Update(person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PeopleServiceImpl) Delete(id uuid.UUID, by uuid.UUID) error {
	return s.repo.SoftDelete(id, by)
}

func (s *PeopleServiceImpl) AddAddress(personID uuid.UUID, addr *models.PeopleAddress, by uuid.UUID) error {
	if _, err := s.repo.GetWithAddresses(personID); err != nil {
		return err
	}
	addr.PersonID = personID
	addr.CreatedBy = &by
	return s.repo.AddAddress(addr)
}

func applyDefaults(p *models.People) {
	if p.Gender == "" {
		p.Gender = models.GenderUndefined
	}
	if p.Religion == "" {
		p.Religion = "UNDEFINED"
	}
	if p.Citizenship == "" {
		p.Citizenship = "UNDEFINED"
	}
	if p.Nationality == "" {
		p.Nationality = "UNDEFINED"
	}
	if p.MaritalStatus == "" {
		p.MaritalStatus = models.MaritalUndefined
	}
}
