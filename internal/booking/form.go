package booking

import "github.com/nikunjcodes/AirlineManagementSystem/internal/validation"

// Passenger form field names
const (
	FieldFirstName      = "firstName"
	FieldLastName       = "lastName"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldDateOfBirth    = "dob"
	FieldNationality    = "nationality"
	FieldPassportNumber = "passportNumber"
)

// NewPassengerForm builds the passenger details form. Every field is required.
func NewPassengerForm() *validation.Form {
	return validation.NewForm(
		validation.Field{Name: FieldFirstName, Label: "First Name", Rules: []validation.Rule{
			validation.Required("First name is required"),
		}},
		validation.Field{Name: FieldLastName, Label: "Last Name", Rules: []validation.Rule{
			validation.Required("Last name is required"),
		}},
		validation.Field{Name: FieldEmail, Label: "Email", Rules: []validation.Rule{
			validation.Required("Email is required"),
			validation.EmailFormat("Please enter a valid email"),
		}},
		validation.Field{Name: FieldPhone, Label: "Phone Number", Rules: []validation.Rule{
			validation.Required("Phone number is required"),
		}},
		validation.Field{Name: FieldDateOfBirth, Label: "Date of Birth", Rules: []validation.Rule{
			validation.Required("Date of birth is required"),
		}},
		validation.Field{Name: FieldNationality, Label: "Nationality", Rules: []validation.Rule{
			validation.Required("Nationality is required"),
		}},
		validation.Field{Name: FieldPassportNumber, Label: "Passport Number", Rules: []validation.Rule{
			validation.Required("Passport number is required"),
		}},
	)
}
