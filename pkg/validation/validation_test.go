package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/feedbox/pkg/model"
)

func ptr[T any](v T) *T { return &v }

func TestSignUp(t *testing.T) {
	tests := []struct {
		name  string
		input SignUp
		field string
		kind  Kind
	}{
		{"bad email", SignUp{Email: "nope", Password: "secret1", Name: "Ann"}, "email", InvalidFormat},
		{"empty email", SignUp{Email: "", Password: "secret1", Name: "Ann"}, "email", InvalidFormat},
		{"short password", SignUp{Email: "a@b.co", Password: "12345", Name: "Ann"}, "password", TooShort},
		{"empty name", SignUp{Email: "a@b.co", Password: "secret1", Name: ""}, "name", TooShort},
		{"blank name", SignUp{Email: "a@b.co", Password: "secret1", Name: "   "}, "name", TooShort},
		{"long name", SignUp{Email: "a@b.co", Password: "secret1", Name: strings.Repeat("n", 51)}, "name", TooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			errs := Struct(&in)
			require.NotNil(t, errs)
			assert.True(t, errs.Has(tt.field, tt.kind), "got %v", errs)
		})
	}
}

func TestSignUpBoundaries(t *testing.T) {
	in := SignUp{Email: "  Ann@Example.COM ", Password: "123456", Name: strings.Repeat("n", 50)}
	assert.Nil(t, Struct(&in))
	assert.Equal(t, "ann@example.com", in.Email)

	one := SignUp{Email: "a@b.co", Password: "123456", Name: "A"}
	assert.Nil(t, Struct(&one))
}

func TestSignUpReportsEveryField(t *testing.T) {
	errs := Struct(&SignUp{})
	assert.True(t, errs.Has("email", InvalidFormat))
	assert.True(t, errs.Has("password", TooShort))
	assert.True(t, errs.Has("name", TooShort))
	assert.Len(t, errs, 3)
}

func TestMessages(t *testing.T) {
	errs := Struct(&SignUp{Email: "x", Password: "1", Name: strings.Repeat("n", 51)})
	msgs := errs.Error()
	assert.Contains(t, msgs, "invalid email format")
	assert.Contains(t, msgs, "password should be at least 6 characters")
	assert.Contains(t, msgs, "name can't be more than 50 characters")

	errs = Struct(&SignUp{Email: "a@b.co", Password: "123456"})
	assert.Equal(t, "name should be at least one character", errs[0].Message)
}

func TestRecord(t *testing.T) {
	valid := "3fa85f64-5717-4562-b3fc-2c963f66afa6"

	errs := ValidateRecord(&Record{FormID: "not-a-uuid", Rating: ptr(4.0)}, nil, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Field: "formId", Kind: InvalidFormat, Message: "invalid form id"}, errs[0])

	assert.Empty(t, ValidateRecord(&Record{FormID: valid}, nil, nil))
	assert.Empty(t, ValidateRecord(&Record{FormID: strings.ToUpper(valid), Text: ptr("great")}, nil, nil))

	errs = ValidateRecord(&Record{FormID: "", Rating: ptr(math.NaN())}, nil, nil)
	assert.True(t, errs.Has("formId", InvalidFormat))
	assert.True(t, errs.Has("rating", OutOfRange))
}

func TestRating(t *testing.T) {
	tests := []struct {
		name    string
		rating  *float64
		lo, hi  *float64
		wantMsg string
	}{
		{"absent", nil, ptr(0.0), ptr(5.0), ""},
		{"unbounded large", ptr(10.0), nil, nil, ""},
		{"unbounded negative", ptr(-1.0), nil, nil, ""},
		{"unbounded fraction", ptr(3.75), nil, nil, ""},
		{"NaN", ptr(math.NaN()), nil, nil, "rating must be a finite number"},
		{"infinity", ptr(math.Inf(1)), nil, nil, "rating must be a finite number"},
		{"upper edge", ptr(5.0), ptr(0.0), ptr(5.0), ""},
		{"lower edge", ptr(0.0), ptr(0.0), ptr(5.0), ""},
		{"above range", ptr(5.5), ptr(0.0), ptr(5.0), "rating must be between 0 and 5"},
		{"below minimum only", ptr(-1.0), ptr(0.0), nil, "rating must be at least 0"},
		{"above maximum only", ptr(11.0), nil, ptr(10.0), "rating must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Rating(tt.rating, tt.lo, tt.hi)
			if tt.wantMsg == "" {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Equal(t, FieldError{Field: "rating", Kind: OutOfRange, Message: tt.wantMsg}, *fe)
		})
	}
}

func TestProject(t *testing.T) {
	p := Project{Name: "  site-feedback  "}
	assert.Nil(t, Struct(&p))
	assert.Equal(t, "site-feedback", p.Name)

	assert.True(t, Struct(&Project{Name: ""}).Has("name", TooShort))
	assert.True(t, Struct(&Project{Name: "x", Desc: ptr(strings.Repeat("d", 2001))}).Has("desc", TooLong))
	assert.Nil(t, Struct(&Project{Name: "x", Desc: ptr("")}))
}

func TestForm(t *testing.T) {
	pid := "3fa85f64-5717-4562-b3fc-2c963f66afa6"

	f := Form{Name: "nps", Heading: "Rate us", Type: "LONG", ProjectID: pid}
	assert.Nil(t, Struct(&f))
	assert.Equal(t, model.FormTypeLong, f.Type)

	errs := Struct(&Form{Name: "", Heading: "", Type: "essay", ProjectID: "p1"})
	assert.True(t, errs.Has("name", TooShort))
	assert.True(t, errs.Has("heading", TooShort))
	assert.True(t, errs.Has("type", InvalidValue))
	assert.True(t, errs.Has("projectId", InvalidFormat))
}

func TestPasswordChangeAndSignIn(t *testing.T) {
	errs := Struct(&PasswordChange{NewPassword: "abc"})
	assert.True(t, errs.Has("currentPassword", Required))
	assert.True(t, errs.Has("newPassword", TooShort))

	in := SignIn{Email: " A@B.CO", Password: "x"}
	assert.Nil(t, Struct(&in))
	assert.Equal(t, "a@b.co", in.Email)
}

func TestPage(t *testing.T) {
	assert.Nil(t, Struct(&Page{Limit: 10}))
	assert.True(t, Struct(&Page{Offset: -1}).Has("offset", OutOfRange))
}

func TestIsIdentifier(t *testing.T) {
	assert.NotPanics(t, func() { newValidator() })

	assert.True(t, IsIdentifier("3fa85f64-5717-4562-b3fc-2c963f66afa6"))
	assert.True(t, IsIdentifier("3FA85F64-5717-4562-B3FC-2C963F66AFA6"))
	assert.False(t, IsIdentifier("urn:uuid:3fa85f64-5717-4562-b3fc-2c963f66afa6"))
	assert.False(t, IsIdentifier("{3fa85f64-5717-4562-b3fc-2c963f66afa6}"))
	assert.False(t, IsIdentifier("3fa85f6457174562b3fc2c963f66afa6"))
	assert.False(t, IsIdentifier(""))
}
