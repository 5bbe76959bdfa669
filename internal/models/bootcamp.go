package models

import "time"

const DefaultPhoto = "no-photo.jpg"

var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

type Location struct {
	Latitude         float64 `json:"lat"`
	Longitude        float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Street           string  `json:"street,omitempty"`
	City             string  `json:"city,omitempty"`
	State            string  `json:"state,omitempty"`
	Zipcode          string  `json:"zipcode,omitempty"`
	Country          string  `json:"country,omitempty"`
}

type Bootcamp struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address"`
	Location      *Location `json:"location,omitempty"`
	Careers       []string  `json:"careers"`
	AverageCost   *int      `json:"average_cost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"job_assistance"`
	JobGuarantee  bool      `json:"job_guarantee"`
	AcceptGi      bool      `json:"accept_gi"`
	CreatedAt     time.Time `json:"created_at"`
}

// BootcampInput is the writable subset of a bootcamp. Nil fields are left untouched on update.
type BootcampInput struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Website       *string  `json:"website,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Email         *string  `json:"email,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Careers       []string `json:"careers,omitempty"`
	AverageCost   *int     `json:"average_cost,omitempty"`
	Housing       *bool    `json:"housing,omitempty"`
	JobAssistance *bool    `json:"job_assistance,omitempty"`
	JobGuarantee  *bool    `json:"job_guarantee,omitempty"`
	AcceptGi      *bool    `json:"accept_gi,omitempty"`
}

type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *Page `json:"next,omitempty"`
	Prev *Page `json:"prev,omitempty"`
}

type BootcampList struct {
	Bootcamps  []*Bootcamp
	Total      int
	Pagination Pagination
}

// Envelope is the JSON body every endpoint responds with.
type Envelope struct {
	Success    bool        `json:"success"`
	Token      string      `json:"token,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}
