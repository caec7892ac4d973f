package models

// Contact is the person record held in the contact collection. The JSON tags
// are the document field names as persisted; the form tags match the names the
// HTML forms submit.
type Contact struct {
	ID        string `json:"-" form:"-"`
	Name      string `json:"nama" form:"nama" validate:"required"`
	Phone     string `json:"nohp" form:"nohp" validate:"required,mobile_id"`
	StudentID string `json:"npm" form:"npm" validate:"len=10"`
}
