package model

// Household is one row of the village "M No" register.
type Household struct {
	ID          int64  `json:"id"`
	Village     string `json:"village_name"`
	MNo         int    `json:"m_no" valid:"range(0|1000000)~M No must be between 0 and 1000000"`
	FamilyHead  string `json:"family_head" valid:"required~कृपया कुटुंब प्रमुखाचे नाव भरा."`
	MemberCount int    `json:"member_count" valid:"range(0|1000)~Member count must be between 0 and 1000"`
	Mobile      string `json:"mobile" valid:"numeric~Mobile number must be 10 digits,stringlength(10|10)~Mobile number must be 10 digits"`
	Address     string `json:"address"`

	// Water containers counted for the entomological survey.
	Ranjan  int `json:"ranjan" valid:"range(0|1000)~Container counts must be between 0 and 1000"`
	Balar   int `json:"balar" valid:"range(0|1000)~Container counts must be between 0 and 1000"`
	Taki    int `json:"taki" valid:"range(0|1000)~Container counts must be between 0 and 1000"`
	Dera    int `json:"dera" valid:"range(0|1000)~Container counts must be between 0 and 1000"`
	Frize   int `json:"frize" valid:"range(0|1000)~Container counts must be between 0 and 1000"`
	EBhandi int `json:"e_bhandi" valid:"range(0|1000)~Container counts must be between 0 and 1000"`

	CreatedBy string `json:"created_by"`
}

// Containers is the total number of water containers in the house.
func (h *Household) Containers() int {
	return h.Ranjan + h.Balar + h.Taki + h.Dera + h.Frize + h.EBhandi
}

func (h *Household) Normalize() {
	h.Village = Clean(h.Village)
	h.FamilyHead = Clean(h.FamilyHead)
	h.Mobile = Clean(h.Mobile)
	h.Address = Clean(h.Address)
}

// Validate normalises the text fields and checks the form. An M No of zero
// means "assign the next one".
func (h *Household) Validate() error {
	h.Normalize()
	return validate(h)
}
