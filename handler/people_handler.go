package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/middleware"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"github.com/turahe/ocr-identity-rest-api/service"
)

type PeopleHandler struct {
	people service.PeopleService
	audit  *service.AuditRecorder
}

func NewPeopleHandler(people service.PeopleService, audit *service.AuditRecorder) *PeopleHandler {
	return &PeopleHandler{people: people, audit: audit}
}

// personRequest covers both create and partial update; Create insists
// on full_name itself.
type personRequest struct {
	FullName            string `json:"full_name"`
	PlaceOfBirth        string `json:"place_of_birth"`
	DateOfBirth         string `json:"date_of_birth"` // YYYY-MM-DD
	Gender              string `json:"gender"`
	Religion            string `json:"religion"`
	Ethnicity           string `json:"ethnicity"`
	BloodType           string `json:"blood_type"`
	CitizenshipIdentity string `json:"citizenship_identity"`
	Citizenship         string `json:"citizenship"`
	Nationality         string `json:"nationality"`
	MaritalStatus       string `json:"marital_status"`
	Job                 string `json:"job"`
	DisabilityStatus    *int   `json:"disability_status"`
}

func (r *personRequest) toModel(c *gin.Context) (*models.People, bool) {
	p := &models.People{
		FullName:            r.FullName,
		PlaceOfBirth:        r.PlaceOfBirth,
		Gender:              r.Gender,
		Religion:            r.Religion,
		Ethnicity:           r.Ethnicity,
		BloodType:           r.BloodType,
		CitizenshipIdentity: r.CitizenshipIdentity,
		Citizenship:         r.Citizenship,
		Nationality:         r.Nationality,
		MaritalStatus:       r.MaritalStatus,
		Job:                 r.Job,
	}
	if r.DisabilityStatus != nil {
		p.DisabilityStatus = *r.DisabilityStatus
	}
	if r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", r.DateOfBirth)
		if err != nil {
			badRequest(c, "date_of_birth must be YYYY-MM-DD")
			return nil, false
		}
		p.DateOfBirth = &dob
	}
	return p, true
}

func (h *PeopleHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.FullName == "" {
		badRequest(c, "full_name is required")
		return
	}
	person, ok := req.toModel(c)
	if !ok {
		return
	}
	if err := h.people.Create(person, userID); err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "people.create", "people", &person.ID, nil, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"person": person})
}

func (h *PeopleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid person id")
		return
	}
	person, err := h.people.Get(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"person": person})
}

// List supports the same query filters as search: name (substring) plus
// exact matches on the demographic columns.
func (h *PeopleHandler) List(c *gin.Context) {
	filter := repository.PeopleFilter{
		Name:          c.Query("name"),
		Gender:        c.Query("gender"),
		Religion:      c.Query("religion"),
		Citizenship:   c.Query("citizenship"),
		MaritalStatus: c.Query("marital_status"),
		Nationality:   c.Query("nationality"),
		Ethnicity:     c.Query("ethnicity"),
		Job:           c.Query("job"),
		BloodType:     c.Query("blood_type"),
		PlaceOfBirth:  c.Query("place_of_birth"),
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	people, err := h.people.Search(filter, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people, "count": len(people)})
}

// GetByIdentity looks a person up by citizenship identity number (the
// NIK on Indonesian documents).
func (h *PeopleHandler) GetByIdentity(c *gin.Context) {
	identity := c.Param("identity")
	person, err := h.people.GetByCitizenshipIdentity(identity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"person": person})
}

func (h *PeopleHandler) Update(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid person id")
		return
	}
	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	updates, ok := req.toModel(c)
	if !ok {
		return
	}
	person, err := h.people.Update(id, updates, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "people.update", "people", &id, nil, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"person": person})
}

func (h *PeopleHandler) Delete(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid person id")
		return
	}
	if err := h.people.Delete(id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "people.delete", "people", &id, nil, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"message": "person deleted"})
}

type addressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (h *PeopleHandler) AddAddress(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	personID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid person id")
		return
	}
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	addr := &models.PeopleAddress{
		Address:    req.Address,
		City:       req.City,
		Province:   req.Province,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	if err := h.people.AddAddress(personID, addr, userID); err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "people.add_address", "people", &personID, nil, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"address": addr})
}
