package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type nameForm struct {
	FirstName string `json:"firstName" binding:"required,min=2,max=40,capitalized"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
}

func engine(t *testing.T) *validator.Validate {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatal("binding validator is not validator/v10")
	}
	return v
}

func TestCapitalizedTag(t *testing.T) {
	v := engine(t)

	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"valid", "Jane", true},
		{"lowercase first letter", "jane", false},
		{"digit inside", "Jane2", false},
		{"space inside", "Jane Doe", false},
		{"single letter", "J", false}, // min=2
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(nameForm{FirstName: tc.value, Email: "a@b.com", Password: "password123"})
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation failure")
			}
		})
	}
}

func TestToDetails_UsesJSONFieldNames(t *testing.T) {
	v := engine(t)

	err := v.Struct(nameForm{FirstName: "jane", Email: "nope", Password: "short"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	details := ToDetails(err)
	if details["firstName"] == "" {
		t.Fatalf("expected firstName detail, got %v", details)
	}
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email detail %q", details["email"])
	}
	if details["password"] != "min length 8" {
		t.Fatalf("unexpected password detail %q", details["password"])
	}
}

func TestToDetails_RequiredMessage(t *testing.T) {
	v := engine(t)

	err := v.Struct(nameForm{})
	details := ToDetails(err)
	if details["firstName"] != "is required" {
		t.Fatalf("unexpected detail %q", details["firstName"])
	}
}

func TestToDetails_NilError(t *testing.T) {
	if got := ToDetails(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
