package wizard

const (
	StepPersonal     = "personal"
	StepContact      = "contact"
	StepProfessional = "professional"
)

const (
	RoleDeveloper = "Developer"
	RoleTFS       = "TFS"
	RoleManager   = "Manager"
)

func SignUpSteps() []Step {
	return []Step{
		{
			Key:   StepPersonal,
			Title: "Personal Info",
			Fields: []Field{
				{Name: "name", Required: true, Rule: "max=100", Message: "Name is required"},
				{Name: "last_name_1", Required: true, Rule: "max=100", Message: "First last name is required"},
				{Name: "last_name_2", Rule: "max=100", Message: "Second last name is too long"},
			},
		},
		{
			Key:   StepContact,
			Title: "Contact & Security",
			Fields: []Field{
				{Name: "email", Required: true, Rule: "email,max=100", Message: "Invalid email address"},
				{
					Name: "password", Required: true, Secret: true,
					Rule:     "min=8,maxbytes=72",
					Message:  "Password must be at least 8 characters",
					Messages: map[string]string{"maxbytes": "Password must be at most 72 bytes"},
				},
				{Name: "confirm_password", Required: true, Secret: true, EqualTo: "password", Message: "Passwords don't match"},
				{Name: "phone_number", Required: true, Rule: "min=7,max=20", Message: "Phone number is required"},
			},
		},
		{
			Key:   StepProfessional,
			Title: "Professional Info",
			Fields: []Field{
				{Name: "seniority", Kind: KindInt, Required: true, Rule: "min=1,max=13", Message: "Seniority is required"},
				{Name: "position", Required: true, Message: "Position is required"},
				{Name: "location", Required: true, Message: "Location is required"},
				{Name: "capability", Required: true, Message: "Capability is required"},
				{Name: "role", Required: true, Rule: "oneof=Developer TFS Manager", Default: RoleDeveloper, Message: "Role is required"},
			},
		},
	}
}

// NewSignUpSchema builds the three step registration schema.
func NewSignUpSchema(fv FieldValidator) (*Schema, error) {
	return NewSchema(fv, SignUpSteps()...)
}

// StepOneKeys are the steps collected on the first page of the two page flow.
func StepOneKeys() []string {
	return []string{StepPersonal, StepContact}
}

func StepTwoKeys() []string {
	return []string{StepProfessional}
}
