package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/models"
)

// personService handles person-related business logic.
type personService struct {
	db *gorm.DB
}

// NewPersonService creates a new PersonServicer.
func NewPersonService(db *gorm.DB) PersonServicer {
	return &personService{db: db}
}

// CreatePerson adds a person to the group. Names are unique within the group.
func (s *personService) CreatePerson(name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "person name is required")
	}

	var count int64
	if err := s.db.Model(&models.Person{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicatePerson
	}

	person := &models.Person{Name: name}
	if err := s.db.Create(person).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return person, nil
}

// GetPersonByID retrieves a person by ID.
func (s *personService) GetPersonByID(id string) (*models.Person, error) {
	var person models.Person
	if err := s.db.Where("id = ?", id).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &person, nil
}

// ListPeople returns every person in the group sorted by name. Groups are
// small, so no pagination here.
func (s *personService) ListPeople() ([]models.Person, error) {
	var people []models.Person
	if err := s.db.Order("name asc").Find(&people).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return people, nil
}

// UpdatePerson renames a person.
func (s *personService) UpdatePerson(id, name string) (*models.Person, error) {
	person, err := s.GetPersonByID(id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "person name is required")
	}

	var count int64
	if err := s.db.Model(&models.Person{}).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicatePerson
	}

	if err := s.db.Model(person).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return person, nil
}

// DeletePerson removes a person. Deletion is refused while any expense or
// settlement payment still references them, otherwise historical balances
// would silently change.
func (s *personService) DeletePerson(id string) error {
	person, err := s.GetPersonByID(id)
	if err != nil {
		return err
	}

	refs := []struct {
		model  interface{}
		clause string
	}{
		{&models.ExpensePayer{}, "person_id = ?"},
		{&models.ExpenseShare{}, "person_id = ?"},
		{&models.ExpenseItemShare{}, "person_id = ?"},
		{&models.Expense{}, "celebration_person_id = ?"},
		{&models.SettlementPayment{}, "debtor_id = ? OR creditor_id = ?"},
	}
	for _, ref := range refs {
		var count int64
		query := s.db.Model(ref.model)
		if strings.Contains(ref.clause, "OR") {
			query = query.Where(ref.clause, id, id)
		} else {
			query = query.Where(ref.clause, id)
		}
		if err := query.Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrPersonInUse
		}
	}

	if err := s.db.Delete(person).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
