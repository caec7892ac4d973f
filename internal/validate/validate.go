package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"kontak/internal/models"
	"kontak/internal/store"
)

// Form field names as submitted by the HTML forms.
const (
	FieldName      = "nama"
	FieldPhone     = "nohp"
	FieldStudentID = "npm"
)

// User-facing messages, kept verbatim from the application's locale.
const (
	MsgDuplicateStudentID = "NPM sudah digunakan"
	MsgStudentIDLength    = "NPM tidak valid masukkan 10 angka"
	MsgInvalidPhone       = "No HP tidak valid!"
)

// FieldError describes a single validation failure on a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the ordered set of failures collected for one submission.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	messages := make([]string, len(fe))
	for i, err := range fe {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return strings.Join(messages, "; ")
}

// mobileIDPattern matches Indonesian mobile numbers: optional +62/62 or 0
// prefix followed by an 8x operator code and the subscriber digits.
var mobileIDPattern = regexp.MustCompile(`^(\+?62|0)8[1-9][0-9]{6,10}$`)

// ContactValidator checks contact submissions against the field rules and the
// current store state. All rules are evaluated and collected; nothing
// short-circuits.
type ContactValidator struct {
	validate *validator.Validate
	store    store.ContactStore
}

// New builds a ContactValidator bound to the given store.
func New(s store.ContactStore) *ContactValidator {
	v := validator.New()
	if err := v.RegisterValidation("mobile_id", isIndonesianMobile); err != nil {
		panic(fmt.Sprintf("failed to register mobile_id validation: %v", err))
	}

	return &ContactValidator{
		validate: v,
		store:    s,
	}
}

// ValidateCreate checks a brand new contact submission.
func (cv *ContactValidator) ValidateCreate(ctx context.Context, contact models.Contact) (FieldErrors, error) {
	return cv.run(ctx, contact, nil)
}

// ValidateUpdate checks an edit submission. previousStudentID is the value the
// record held before editing; resubmitting it unchanged never counts as a
// duplicate.
func (cv *ContactValidator) ValidateUpdate(ctx context.Context, contact models.Contact, previousStudentID string) (FieldErrors, error) {
	return cv.run(ctx, contact, &previousStudentID)
}

// run applies the rules in their fixed order: duplicate student id, student id
// length, phone format. A non-nil error means the duplicate lookup itself
// failed, which is a store fault rather than a validation outcome.
func (cv *ContactValidator) run(ctx context.Context, contact models.Contact, previousStudentID *string) (FieldErrors, error) {
	var errs FieldErrors

	duplicate, err := cv.isDuplicateStudentID(ctx, contact, previousStudentID)
	if err != nil {
		return nil, err
	}
	if duplicate {
		errs = append(errs, FieldError{Field: FieldStudentID, Message: MsgDuplicateStudentID})
	}

	if cv.validate.Var(contact.StudentID, "len=10") != nil {
		errs = append(errs, FieldError{Field: FieldStudentID, Message: MsgStudentIDLength})
	}

	if cv.validate.Var(contact.Phone, "required,mobile_id") != nil {
		errs = append(errs, FieldError{Field: FieldPhone, Message: MsgInvalidPhone})
	}

	return errs, nil
}

// isDuplicateStudentID reports whether a distinct stored contact already holds
// the submitted student id. When editing, an unchanged value skips the lookup
// entirely.
func (cv *ContactValidator) isDuplicateStudentID(ctx context.Context, contact models.Contact, previousStudentID *string) (bool, error) {
	if previousStudentID != nil && contact.StudentID == *previousStudentID {
		return false, nil
	}

	existing, err := cv.store.FindByStudentID(ctx, contact.StudentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return existing.ID != contact.ID, nil
}

// isIndonesianMobile is the custom validator behind the mobile_id tag.
func isIndonesianMobile(fl validator.FieldLevel) bool {
	return mobileIDPattern.MatchString(fl.Field().String())
}
