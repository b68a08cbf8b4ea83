// Package domain defines the directory records, storage keys, validators and
// integrity rule primitives shared by the diocese directory engine.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record held in a directory collection.
type EntityType string

// Supported entity type identifiers used in violations, audit entries and errors.
const (
	EntityClergy        EntityType = "clergy"
	EntityParish        EntityType = "parish"
	EntityDeanery       EntityType = "deanery"
	EntityUserAccount   EntityType = "user_account"
	EntityCredential    EntityType = "login_credential"
	EntityCalendarEvent EntityType = "calendar_event"
)

// Storage keys. Each key holds one JSON document: an array of records, or an
// object for CollectionSettings.
const (
	CollectionClergy         = "clergy"
	CollectionParishes       = "parishes"
	CollectionDeaneries      = "deaneries"
	CollectionUsers          = "userAuth"
	CollectionCredentials    = "loginCredentials"
	CollectionClergyRoles    = "clergyRoles"
	CollectionSettings       = "settings"
	CollectionCalendarEvents = "calendarEvents"
)

// ClergyType enumerates the orders a clergy record may belong to.
type ClergyType string

// Canonical clergy types.
const (
	ClergyTypePriest ClergyType = "Priest"
	ClergyTypeDeacon ClergyType = "Deacon"
	ClergyTypeBishop ClergyType = "Bishop"
)

// ClergyStatus enumerates clergy service states.
type ClergyStatus string

// Canonical clergy statuses.
const (
	ClergyStatusActive   ClergyStatus = "Active"
	ClergyStatusInactive ClergyStatus = "Inactive"
	ClergyStatusRetired  ClergyStatus = "Retired"
)

// RecordStatus is the status carried by parishes and deaneries.
type RecordStatus string

// Canonical parish and deanery statuses.
const (
	StatusActive   RecordStatus = "Active"
	StatusInactive RecordStatus = "Inactive"
)

// UserRole enumerates user-management roles.
type UserRole string

// Canonical user roles.
const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
	RoleUser  UserRole = "user"
)

// UserStatus enumerates account states.
type UserStatus string

// Canonical account states.
const (
	UserStatusActive   UserStatus = "active"
	UserStatusPending  UserStatus = "pending"
	UserStatusInactive UserStatus = "inactive"
)

// ParseClergyType resolves a case-insensitive clergy type name.
func ParseClergyType(s string) (ClergyType, bool) {
	for _, t := range []ClergyType{ClergyTypePriest, ClergyTypeDeacon, ClergyTypeBishop} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

// ParseClergyStatus resolves a case-insensitive clergy status name.
func ParseClergyStatus(s string) (ClergyStatus, bool) {
	for _, st := range []ClergyStatus{ClergyStatusActive, ClergyStatusInactive, ClergyStatusRetired} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleUser:
		return true
	}
	return false
}

// Valid reports whether s is a known account status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusInactive:
		return true
	}
	return false
}

// Base contains the identity and timestamps common to directory records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Spouse describes a married deacon's spouse.
type Spouse struct {
	Name     string `json:"name"`
	Birthday string `json:"birthday,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Child describes a dependent listed on a clergy record.
type Child struct {
	Name     string `json:"name"`
	Birthday string `json:"birthday,omitempty"`
}

// PatronSaintDay records the feast a clergy member celebrates. Date is MM-DD
// or YYYY-MM-DD.
type PatronSaintDay struct {
	Date  string `json:"date"`
	Saint string `json:"saint"`
}

// Clergy is a directory entry for a priest, deacon or bishop.
type Clergy struct {
	Base
	Title             string          `json:"title,omitempty"`
	FirstName         string          `json:"firstName,omitempty"`
	LastName          string          `json:"lastName,omitempty"`
	Name              string          `json:"name"`
	Type              ClergyType      `json:"type"`
	Role              string          `json:"role,omitempty"`
	Status            ClergyStatus    `json:"status"`
	CurrentAssignment string          `json:"currentAssignment,omitempty"`
	DeaneryID         string          `json:"deaneryId,omitempty"`
	DeaneryName       string          `json:"deaneryName,omitempty"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	Spouse            *Spouse         `json:"spouse,omitempty"`
	Children          []Child         `json:"children,omitempty"`
	Birthday          string          `json:"birthday,omitempty"`
	OrdinationDate    string          `json:"ordinationDate,omitempty"`
	PatronSaintDay    *PatronSaintDay `json:"patronSaintDay,omitempty"`
	ProfileImage      string          `json:"profileImage,omitempty"`
	RoleTags          []string        `json:"roles,omitempty"`
}

// DisplayName returns Name, falling back to the first and last names.
func (c Clergy) DisplayName() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Summary returns the denormalized copy embedded in parish records.
func (c Clergy) Summary() ClergySummary {
	return ClergySummary{ID: c.ID, Name: c.DisplayName(), Type: c.Type, Role: c.Role}
}

// ClergySummary is the point-in-time copy of a clergy record held by a parish.
type ClergySummary struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Type ClergyType `json:"type,omitempty"`
	Role string     `json:"role,omitempty"`
}

// Address is a US postal address.
type Address struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
	State  string `json:"state" validate:"required,us_state"`
	Zip    string `json:"zip" validate:"required,us_zip"`
}

// Parish is a directory entry for a parish church.
type Parish struct {
	Base
	Name           string          `json:"name"`
	Status         RecordStatus    `json:"status"`
	DeaneryID      string          `json:"deaneryId,omitempty"`
	DeaneryName    string          `json:"deaneryName,omitempty"`
	AssignedClergy []ClergySummary `json:"assignedClergy"`
	Address        Address         `json:"address"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	Website        string          `json:"website,omitempty"`
}

// Summary returns the denormalized copy embedded in deanery records.
func (p Parish) Summary() ParishSummary {
	return ParishSummary{ID: p.ID, Name: p.Name, Status: p.Status}
}

// ParishSummary is the point-in-time copy of a parish held by a deanery.
type ParishSummary struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status RecordStatus `json:"status,omitempty"`
}

// Deanery groups parishes under a dean.
type Deanery struct {
	Base
	Name     string          `json:"name"`
	Status   RecordStatus    `json:"status"`
	DeanID   string          `json:"deanId,omitempty"`
	DeanName string          `json:"deanName,omitempty"`
	Region   string          `json:"region,omitempty"`
	Parishes []ParishSummary `json:"parishes"`
	Email    string          `json:"email,omitempty"`
	Phone    string          `json:"phone,omitempty"`
}

// UserAccount is an entry in the user-management panel.
type UserAccount struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	ClergyID  string     `json:"clergyId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// LoginCredential is persisted separately from the account it belongs to.
// Only a bcrypt hash of the password is stored.
type LoginCredential struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// CalendarEvent is a custom entry on the diocesan calendar.
type CalendarEvent struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	Annual           bool   `json:"annual,omitempty"`
	ClergyID         string `json:"clergyId,omitempty"`
	Notes            string `json:"notes,omitempty"`
	RemindDaysBefore int    `json:"remindDaysBefore,omitempty"`
}
