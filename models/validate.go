package models

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

// Validation lives here, in one place, so the create and edit paths cannot
// drift apart.

var contactNumberRe = regexp.MustCompile(`^\+?[0-9][0-9\- ]{5,18}[0-9]$`)

var petTypes = map[string]bool{
	"Cat":   true,
	"Dog":   true,
	"Bird":  true,
	"Fish":  true,
	"Other": true,
}

var adTypes = map[string]bool{
	AdTypeSell:  true,
	AdTypeLost:  true,
	AdTypeFound: true,
}

var services = map[string]bool{
	ServiceVet:      true,
	ServiceGrooming: true,
	ServiceTraining: true,
}

var paymentMethods = map[string]bool{
	MethodCard: true,
	MethodBank: true,
}

// ValidEmail reports whether s is a plain RFC 5322 address.
func ValidEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// Validate checks the owner-supplied fields of an advertisement. On success
// it also clears PetType for non-sale types, so a stray value is never stored
// as meaningful.
func (a *Advertisement) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("name is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	if !ValidEmail(a.Email) {
		return errors.New("email is invalid")
	}
	if a.ContactNumber == "" {
		return errors.New("contact number is required")
	}
	if !contactNumberRe.MatchString(a.ContactNumber) {
		return errors.New("contact number is invalid")
	}
	if a.AdvertisementType == "" {
		return errors.New("advertisement type is required")
	}
	if !adTypes[a.AdvertisementType] {
		return errors.New("advertisement type must be one of: Sell a Pet, Lost Pet, Found Pet")
	}
	if a.AdvertisementType == AdTypeSell {
		if a.PetType == "" {
			return errors.New("pet type is required when selling a pet")
		}
		if !petTypes[a.PetType] {
			return errors.New("pet type must be one of: Cat, Dog, Bird, Fish, Other")
		}
	} else {
		a.PetType = ""
	}
	if strings.TrimSpace(a.Heading) == "" {
		return errors.New("heading is required")
	}
	if strings.TrimSpace(a.Description) == "" {
		return errors.New("description is required")
	}
	return nil
}

func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("name is required")
	}
	if !ValidEmail(a.Email) {
		return errors.New("email is invalid")
	}
	if a.ContactNumber != "" && !contactNumberRe.MatchString(a.ContactNumber) {
		return errors.New("contact number is invalid")
	}
	if !services[a.Service] {
		return errors.New("service must be one of: Veterinary, Grooming, Training")
	}
	if a.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

func (p *Payment) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if !ValidEmail(p.Email) {
		return errors.New("email is invalid")
	}
	if !paymentMethods[p.Method] {
		return errors.New("method must be one of: Card, Bank Transfer")
	}
	if p.Amount < 0 {
		return errors.New("amount must not be negative")
	}
	return nil
}

func (f *Feedback) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("name is required")
	}
	if !ValidEmail(f.Email) {
		return errors.New("email is invalid")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	if strings.TrimSpace(f.Comment) == "" {
		return errors.New("comment is required")
	}
	return nil
}

func (p *Pet) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if !petTypes[p.Species] {
		return errors.New("species must be one of: Cat, Dog, Bird, Fish, Other")
	}
	if p.Age < 0 {
		return errors.New("age must not be negative")
	}
	return nil
}
