package model

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

var Genders = []string{GenderMale, GenderFemale, GenderOther}

type FamilyMember struct {
	ID      int64  `json:"id"`
	Village string `json:"village_name"`
	MNo     int    `json:"m_no"`
	Name    string `json:"member_name" valid:"required~कृपया सदस्याचे नाव भरा."`
	Age     int    `json:"age" valid:"range(0|150)~Age must be between 0 and 150"`
	Gender  string `json:"gender" valid:"in(Male|Female|Other)~Gender must be Male or Female or Other"`
	BP      bool   `json:"bp"`
	Sugar   bool   `json:"sugar"`
	Other   string `json:"other"`
	Mobile  string `json:"mobile" valid:"numeric~Mobile number must be 10 digits,stringlength(10|10)~Mobile number must be 10 digits"`
}

func (m *FamilyMember) Normalize() {
	m.Village = Clean(m.Village)
	m.Name = Clean(m.Name)
	m.Other = Clean(m.Other)
	m.Mobile = Clean(m.Mobile)
	if m.Gender == "" {
		m.Gender = GenderMale
	}
}

func (m *FamilyMember) Validate() error {
	m.Normalize()
	return validate(m)
}
