package models

// ContactRequest is a contact form submission
type ContactRequest struct {
	FirstName string `json:"first_name" validate:"notblank"`
	Email     string `json:"email" validate:"notblank"`
	Message   string `json:"message" validate:"notblank"`
}

func (ContactRequest) ValidationMessage(string) string {
	return "All fields are required: name, email, and message."
}
