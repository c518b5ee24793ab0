package models

import "time"

// CreatedByAdmin and CreatedByUser are the accepted provenance values for
// content records.
const (
	CreatedByAdmin = "admin"
	CreatedByUser  = "user"
)

// Module is a top-level subject grouping (e.g. PH1).
type Module struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	ModuleCode        string    `gorm:"uniqueIndex;size:64" json:"moduleCode"`
	ModuleName        string    `json:"moduleName"`
	ModuleDescription string    `json:"moduleDescription"`
	CreatedBy         string    `gorm:"size:16;default:admin" json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Set is an ordered sub-collection of questions within a module
// (e.g. PH1.01.01).
type Set struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	SetCode        string  `gorm:"uniqueIndex;size:64" json:"setCode"`
	ModuleCode     string  `gorm:"index;size:64" json:"moduleCode"`
	SetGroup       string  `gorm:"size:64" json:"setGroup"`
	SetName        string  `json:"setName"`
	SetDescription string  `json:"setDescription"`
	Category       string  `json:"category"`
	SubCategory1   string  `json:"subCategory1"`
	SubCategory2   string  `json:"subCategory2"`
	SetOrder       float64 `json:"setOrder"`
	SerialNumber   string  `gorm:"size:64" json:"serialNumber"`
	CreatedBy      string  `gorm:"size:16;default:admin" json:"createdBy"`
	// QuestionCount is a cached derived value, not a source of truth. It must
	// equal the live count of questions referencing this set code; staleness
	// is tolerated only until the next recompute.
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Question is the leaf content unit. The set name and description are
// denormalized copies taken at write time; they may drift from the Set record
// until the set is re-imported.
type Question struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	MoreInfo       string    `json:"moreInfo"`
	ModuleCode     string    `gorm:"index;size:64" json:"moduleCode"`
	SetCode        string    `gorm:"index;size:64" json:"setCode"`
	SetGroup       string    `gorm:"size:64" json:"setGroup"`
	SetName        string    `json:"setName"`
	SetDescription string    `json:"setDescription"`
	Category       string    `json:"category"`
	SubCategory1   string    `json:"subCategory1"`
	SubCategory2   string    `json:"subCategory2"`
	SerialNumber   string    `gorm:"size:64" json:"serialNumber"`
	CreatedBy      string    `gorm:"size:16;default:user" json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
