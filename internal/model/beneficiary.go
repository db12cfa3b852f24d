package model

import "time"

// DateLayout is the wire and form format for dates of birth.
const DateLayout = "2006-01-02"

var BeneficiaryGenders = []string{"M", "F", "O"}

// Beneficiary is a child on the immunization list.
type Beneficiary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" valid:"required~Name is required"`
	DOB       time.Time `json:"dob"`
	Gender    string    `json:"gender" valid:"required~Gender must be M or F or O,in(M|F|O)~Gender must be M or F or O"`
	BoothNo   string    `json:"booth_no"`
	CreatedBy string    `json:"created_by"`
}

func (b *Beneficiary) Normalize() {
	b.Name = Clean(b.Name)
	b.Gender = Clean(b.Gender)
	b.BoothNo = Clean(b.BoothNo)
	if !b.DOB.IsZero() {
		y, m, d := b.DOB.Date()
		b.DOB = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// Validate checks the form against today's date.
func (b *Beneficiary) Validate(today time.Time) error {
	b.Normalize()
	if err := validate(b); err != nil {
		return err
	}
	if b.DOB.IsZero() {
		return &ValidationError{Message: "Date of birth is required"}
	}
	y, m, d := today.Date()
	if b.DOB.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return &ValidationError{Message: "Date of birth cannot be in the future"}
	}
	return nil
}
