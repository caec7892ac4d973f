package validate

import (
	"context"
	"testing"

	"kontak/internal/models"
	"kontak/internal/store"
)

func seedContact(t *testing.T, s *store.MemoryStore, name, phone, npm string) models.Contact {
	t.Helper()
	contact, err := s.Insert(context.Background(), models.Contact{
		Name:      name,
		Phone:     phone,
		StudentID: npm,
	})
	if err != nil {
		t.Fatalf("failed to seed contact: %v", err)
	}
	return contact
}

func TestValidateCreateAcceptsValidContact(t *testing.T) {
	cv := New(store.NewMemoryStore())

	errs, err := cv.ValidateCreate(context.Background(), models.Contact{
		Name:      "Ana",
		Phone:     "+6281234567890",
		StudentID: "2023100001",
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no validation errors, got %v", errs)
	}
}

func TestValidateCreateRejectsDuplicateStudentID(t *testing.T) {
	s := store.NewMemoryStore()
	seedContact(t, s, "Ana", "081234567890", "2023100001")
	cv := New(s)

	errs, err := cv.ValidateCreate(context.Background(), models.Contact{
		Name:      "Budi",
		Phone:     "081234567891",
		StudentID: "2023100001",
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 validation error, got %v", errs)
	}
	if errs[0].Field != FieldStudentID || errs[0].Message != MsgDuplicateStudentID {
		t.Errorf("expected duplicate npm error, got %+v", errs[0])
	}
}

func TestValidateRejectsWrongStudentIDLength(t *testing.T) {
	cv := New(store.NewMemoryStore())

	for _, npm := range []string{"", "123", "20231000011"} {
		errs, err := cv.ValidateCreate(context.Background(), models.Contact{
			Name:      "Ana",
			Phone:     "081234567890",
			StudentID: npm,
		})
		if err != nil {
			t.Fatalf("unexpected store error: %v", err)
		}

		found := false
		for _, fe := range errs {
			if fe.Message == MsgStudentIDLength {
				found = true
			}
		}
		if !found {
			t.Errorf("npm %q: expected length error, got %v", npm, errs)
		}
	}
}

func TestValidateUpdateSkipsUnchangedStudentID(t *testing.T) {
	s := store.NewMemoryStore()
	existing := seedContact(t, s, "Ana", "081234567890", "2023100001")
	cv := New(s)

	errs, err := cv.ValidateUpdate(context.Background(), models.Contact{
		ID:        existing.ID,
		Name:      "Ana Baru",
		Phone:     "081234567890",
		StudentID: "2023100001",
	}, "2023100001")
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("unchanged npm must never be a duplicate, got %v", errs)
	}
}

func TestValidateUpdateRejectsTakenStudentID(t *testing.T) {
	s := store.NewMemoryStore()
	seedContact(t, s, "Ana", "081234567890", "2023100001")
	other := seedContact(t, s, "Budi", "081234567891", "2023100002")
	cv := New(s)

	errs, err := cv.ValidateUpdate(context.Background(), models.Contact{
		ID:        other.ID,
		Name:      "Budi",
		Phone:     "081234567891",
		StudentID: "2023100001",
	}, "2023100002")
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if len(errs) != 1 || errs[0].Message != MsgDuplicateStudentID {
		t.Errorf("expected duplicate npm error, got %v", errs)
	}
}

func TestValidatePhoneFormat(t *testing.T) {
	cv := New(store.NewMemoryStore())

	cases := []struct {
		phone string
		valid bool
	}{
		{"+6281234567890", true},
		{"6281234567890", true},
		{"081234567890", true},
		{"08123456", false},
		{"0712345678", false},
		{"12345", false},
		{"", false},
		{"nomor telepon", false},
	}

	for _, tc := range cases {
		errs, err := cv.ValidateCreate(context.Background(), models.Contact{
			Name:      "Ana",
			Phone:     tc.phone,
			StudentID: "2023100001",
		})
		if err != nil {
			t.Fatalf("unexpected store error: %v", err)
		}

		found := false
		for _, fe := range errs {
			if fe.Message == MsgInvalidPhone {
				found = true
			}
		}
		if tc.valid && found {
			t.Errorf("phone %q: unexpected phone error", tc.phone)
		}
		if !tc.valid && !found {
			t.Errorf("phone %q: expected phone error, got %v", tc.phone, errs)
		}
	}
}

func TestValidateCollectsErrorsInOrder(t *testing.T) {
	s := store.NewMemoryStore()
	seedContact(t, s, "Ana", "081234567890", "2023100001")
	cv := New(s)

	errs, err := cv.ValidateCreate(context.Background(), models.Contact{
		Name:      "Budi",
		Phone:     "bukan nomor",
		StudentID: "2023100001",
	})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 validation errors, got %v", errs)
	}
	if errs[0].Message != MsgDuplicateStudentID {
		t.Errorf("expected duplicate error first, got %+v", errs[0])
	}
	if errs[1].Message != MsgInvalidPhone {
		t.Errorf("expected phone error second, got %+v", errs[1])
	}
}
