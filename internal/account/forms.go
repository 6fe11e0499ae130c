package account

import "github.com/nikunjcodes/AirlineManagementSystem/internal/validation"

// Login and sign-up field names
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldConfirmPassword = "confirmPassword"
)

// NewLoginForm builds the login form.
func NewLoginForm() *validation.Form {
	return validation.NewForm(
		validation.Field{Name: FieldUsername, Label: "Username", Rules: []validation.Rule{
			validation.Required("Username is required"),
			validation.MinLength(3, "Username must be at least 3 characters"),
		}},
		validation.Field{Name: FieldPassword, Label: "Password", Rules: []validation.Rule{
			validation.Required("Password is required"),
		}},
	)
}

// NewSignupForm builds the sign-up form. The confirmation must equal the
// password field.
func NewSignupForm() *validation.Form {
	return validation.NewForm(
		validation.Field{Name: FieldFullName, Label: "Full Name", Rules: []validation.Rule{
			validation.Required("Full name is required"),
			validation.MinLength(3, "Name must be at least 3 characters"),
		}},
		validation.Field{Name: FieldEmail, Label: "Email", Rules: []validation.Rule{
			validation.Required("Email is required"),
			validation.EmailFormat("Please enter a valid email"),
		}},
		validation.Field{Name: FieldPassword, Label: "Password", Rules: []validation.Rule{
			validation.Required("Password is required"),
			validation.MinLength(8, "Password must be at least 8 characters"),
		}},
		validation.Field{Name: FieldConfirmPassword, Label: "Confirm Password", Rules: []validation.Rule{
			validation.Required("Please confirm your password"),
			validation.Matches(FieldPassword, "Passwords do not match"),
		}},
	)
}
