// Package domain provides the record models for Kennelbook.
//
// Repository methods return domain types, never row types; handlers bind to
// and render these structs directly.
package domain

import "time"

// Sex of a dog.
type Sex string

const (
	SexFemale Sex = "FEMALE"
	SexMale   Sex = "MALE"
)

// Valid reports whether s is a known sex value.
func (s Sex) Valid() bool { return s == SexFemale || s == SexMale }

// Dog is one animal record. Sire/Dam/Owner references are optional.
type Dog struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	CallName           string     `json:"call_name,omitempty"`
	Sex                Sex        `json:"sex"`
	Breed              string     `json:"breed,omitempty"`
	Color              string     `json:"color,omitempty"`
	BirthDate          *time.Time `json:"birth_date,omitempty"`
	RegistrationNumber string     `json:"registration_number,omitempty"`
	Microchip          string     `json:"microchip,omitempty"`
	SireID             string     `json:"sire_id,omitempty"`
	DamID              string     `json:"dam_id,omitempty"`
	OwnerClientID      string     `json:"owner_client_id,omitempty"`
	Active             bool       `json:"active"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// DogFilter narrows dog listings.
type DogFilter struct {
	Sex        Sex
	ActiveOnly bool
	NameQuery  string
}

// Client is a puppy buyer, stud owner, or other business contact.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Litter records one whelping. CycleID links back to the heat cycle the
// breeding happened in, when known.
type Litter struct {
	ID            string     `json:"id"`
	DamID         string     `json:"dam_id"`
	SireID        string     `json:"sire_id,omitempty"`
	CycleID       string     `json:"cycle_id,omitempty"`
	WhelpDate     *time.Time `json:"whelp_date,omitempty"`
	PuppiesMale   int        `json:"puppies_male"`
	PuppiesFemale int        `json:"puppies_female"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Expense is one operation cost entry. Amounts are integer cents.
type Expense struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category,omitempty"`
	DogID       string    `json:"dog_id,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExpenseFilter narrows expense listings to a date range and/or dog.
type ExpenseFilter struct {
	From  *time.Time
	To    *time.Time
	DogID string
}

// ContractKind is the closed set of contract record types.
type ContractKind string

const (
	ContractSale  ContractKind = "SALE"
	ContractStud  ContractKind = "STUD"
	ContractCoOwn ContractKind = "CO_OWN"
)

// Valid reports whether k is a known contract kind.
func (k ContractKind) Valid() bool {
	switch k {
	case ContractSale, ContractStud, ContractCoOwn:
		return true
	default:
		return false
	}
}

// Contract is a plain agreement record; document generation is out of scope.
type Contract struct {
	ID         string       `json:"id"`
	ClientID   string       `json:"client_id"`
	DogID      string       `json:"dog_id,omitempty"`
	Kind       ContractKind `json:"kind"`
	Date       *time.Time   `json:"date,omitempty"`
	PriceCents int64        `json:"price_cents"`
	Notes      string       `json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Notification is one inbox entry for the operator.
type Notification struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	ResourceType string     `json:"resource_type,omitempty"`
	ResourceID   string     `json:"resource_id,omitempty"`
	Read         bool       `json:"read"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
