package validation

import (
	"strings"
	"testing"

	"github.com/hugh/workops/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid_simple", "user@example.com", true},
		{"valid_subdomain", "user@mail.example.com", true},
		{"valid_plus", "user+tag@example.com", true},
		{"invalid_no_at", "userexample.com", false},
		{"invalid_no_domain", "user@", false},
		{"invalid_double_at", "user@@example.com", false},
		{"invalid_spaces", "user @example.com", false},
		{"invalid_no_tld", "user@example", false},
		{"too_long", strings.Repeat("a", 320) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEmail(tt.email), "Email: %s", tt.email)
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	ok, _ := IsValidPassword("hunter22hunter")
	assert.True(t, ok)

	ok, msg := IsValidPassword("short1")
	assert.False(t, ok)
	assert.Contains(t, msg, "at least 8")

	ok, msg = IsValidPassword("onlyletters")
	assert.False(t, ok)
	assert.Contains(t, msg, "letters and numbers")
}

func TestText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{"trims", "  Acme  ", "Acme", ""},
		{"empty", "", "", "Name is required."},
		{"whitespace only", " \t\n ", "", "Name is required."},
		{"exactly max", strings.Repeat("x", MaxNameLength), strings.Repeat("x", MaxNameLength), ""},
		{"over max", strings.Repeat("x", MaxNameLength+1), "", "Name must be at most 200 characters."},
		{"max counts runes", strings.Repeat("é", MaxNameLength), strings.Repeat("é", MaxNameLength), ""},
		{"strips control chars", "Ac\x00me\x07", "Acme", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text("name", "Name", tt.in, MaxNameLength)
			if tt.wantErr != "" {
				require.Error(t, err)
				e, ok := apperr.As(err)
				require.True(t, ok)
				assert.Equal(t, apperr.KindValidation, e.Kind)
				assert.Equal(t, "name", e.Field)
				assert.Equal(t, tt.wantErr, e.Detail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalText(t *testing.T) {
	got, err := OptionalText("description", "Description", nil, MaxDescriptionLength)
	require.NoError(t, err)
	assert.Nil(t, got)

	blank := "   "
	got, err = OptionalText("description", "Description", &blank, MaxDescriptionLength)
	require.NoError(t, err)
	assert.Nil(t, got)

	long := strings.Repeat("d", MaxDescriptionLength+1)
	_, err = OptionalText("description", "Description", &long, MaxDescriptionLength)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	padded := "  notes "
	got, err = OptionalText("description", "Description", &padded, MaxDescriptionLength)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "notes", *got)
}

func TestOptionalEmail(t *testing.T) {
	bad := "not-an-email"
	_, err := OptionalEmail("email", &bad)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	good := " billing@acme.io "
	got, err := OptionalEmail("email", &good)
	require.NoError(t, err)
	assert.Equal(t, "billing@acme.io", *got)
}

func TestStruct(t *testing.T) {
	type request struct {
		Email string  `json:"email" validate:"required,email"`
		Role  string  `json:"role" validate:"required,oneof=admin manager member"`
		Note  *string `json:"note" validate:"omitempty,max=5"`
	}

	errs := Struct(request{Email: "a@b.io", Role: "member"})
	assert.Empty(t, errs)

	long := "toolong"
	errs = Struct(request{Email: "nope", Role: "owner", Note: &long})
	assert.Equal(t, "email must be a valid email address.", errs["email"])
	assert.Equal(t, "role must be one of: admin manager member.", errs["role"])
	assert.Equal(t, "note must be at most 5 characters.", errs["note"])

	errs = Struct(request{})
	assert.Equal(t, "email is required.", errs["email"])
	assert.Equal(t, "role is required.", errs["role"])
}
