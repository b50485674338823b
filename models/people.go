package models

import (
	"time"

	"github.com/google/uuid"
)

// Enum values mirror the check constraints on the people table.
const (
	GenderMale      = "MALE"
	GenderFemale    = "FEMALE"
	GenderUndefined = "UNDEFINED"
)

const (
	MaritalSingle    = "SINGLE"
	MaritalMarried   = "MARRIED"
	MaritalDivorced  = "DIVORCED"
	MaritalSeparated = "SEPARATED"
	MaritalWidowed   = "WIDOWED"
	MaritalUndefined = "UNDEFINED"
)

// People stores the personal identity information extracted from (or
// entered alongside) identity documents.
type People struct {
	Base
	FullName            string     `gorm:"size:255;not null" json:"full_name"`
	PlaceOfBirth        string     `gorm:"size:255" json:"place_of_birth,omitempty"`
	DateOfBirth         *time.Time `json:"date_of_birth,omitempty"`
	Gender              string     `gorm:"size:30;not null;default:'UNDEFINED'" json:"gender"`
	Religion            string     `gorm:"size:30;not null;default:'UNDEFINED'" json:"religion"`
	Ethnicity           string     `gorm:"size:255" json:"ethnicity,omitempty"`
	BloodType           string     `gorm:"size:255" json:"blood_type,omitempty"`
	CitizenshipIdentity string     `gorm:"size:255;not null;index" json:"citizenship_identity"`
	Citizenship         string     `gorm:"size:30;not null;default:'UNDEFINED'" json:"citizenship"`
	Nationality         string     `gorm:"size:255;not null;default:'UNDEFINED'" json:"nationality"`
	MaritalStatus       string     `gorm:"size:30;not null;default:'UNDEFINED'" json:"marital_status"`
	DisabilityStatus    int        `gorm:"not null;default:0" json:"disability_status"`
	Job                 string     `gorm:"size:255" json:"job,omitempty"`
	Audit

	Addresses []PeopleAddress `gorm:"foreignKey:PersonID" json:"addresses,omitempty"`
}

func (People) TableName() string {
	return "people"
}

type PeopleAddress struct {
	Base
	PersonID   uuid.UUID `gorm:"type:uuid;not null;index" json:"person_id"`
	Address    string `gorm:"size:255;not null" json:"address"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	Province   string `gorm:"size:100" json:"province,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`
	Audit
}

func (PeopleAddress) TableName() string {
	return "people_addresses"
}
