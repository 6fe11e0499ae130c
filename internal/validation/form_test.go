package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupForm() *Form {
	return NewForm(
		Field{Name: "fullName", Rules: []Rule{
			Required("Full name is required"),
			MinLength(3, "Name must be at least 3 characters"),
		}},
		Field{Name: "email", Rules: []Rule{
			Required("Email is required"),
			EmailFormat("Please enter a valid email"),
		}},
		Field{Name: "password", Rules: []Rule{
			Required("Password is required"),
			MinLength(8, "Password must be at least 8 characters"),
		}},
		Field{Name: "confirmPassword", Rules: []Rule{
			Required("Please confirm your password"),
			Matches("password", "Passwords do not match"),
		}},
	)
}

func TestForm_SetValidatesImmediately(t *testing.T) {
	form := signupForm()

	r := form.Set("fullName", "Jo")
	assert.Equal(t, Fail("Name must be at least 3 characters"), r)
	assert.Equal(t, "Name must be at least 3 characters", form.Error("fullName"))

	r = form.Set("fullName", "Joe")
	assert.True(t, r.Valid)
	assert.Empty(t, form.Error("fullName"))

	assert.Empty(t, form.Error("email"), "untouched fields carry no error")
}

func TestForm_ValidateReportsEveryFailure(t *testing.T) {
	form := signupForm()
	form.Set("fullName", "Joe")
	form.Set("email", "bad")
	form.Set("password", "Secret123")
	form.Set("confirmPassword", "Secret124")

	err := form.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{
		{Field: "email", Message: "Please enter a valid email"},
		{Field: "confirmPassword", Message: "Passwords do not match"},
	}, verr.Fields)
	assert.Equal(t, "Passwords do not match", verr.Message("confirmPassword"))
	assert.Contains(t, err.Error(), "email: Please enter a valid email")
}

func TestForm_ValidateRechecksBypassedFields(t *testing.T) {
	form := signupForm()
	form.Set("password", "Secret123")
	form.Set("confirmPassword", "Secret123")
	// changing the password after confirmation only revalidates the password
	form.Set("password", "Secret999")
	assert.Empty(t, form.Error("confirmPassword"))

	err := form.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Passwords do not match", verr.Message("confirmPassword"))
	assert.Equal(t, "Full name is required", verr.Message("fullName"))
}

func TestForm_CompleteAndValues(t *testing.T) {
	form := signupForm()
	assert.False(t, form.Complete())

	form.Set("fullName", "Joe Doe")
	form.Set("email", "joe@example.com")
	form.Set("password", "Secret123")
	assert.False(t, form.Complete())

	form.Set("confirmPassword", "Secret123")
	assert.True(t, form.Complete())
	assert.NoError(t, form.Validate())

	values := form.Values()
	values["fullName"] = "changed"
	assert.Equal(t, "Joe Doe", form.Value("fullName"))

	form.Reset()
	assert.False(t, form.Complete())
	assert.Empty(t, form.Value("email"))
}
