package validator

import (
	"testing"

	"github.com/google/uuid"
)

type cartLine struct {
	ProductID uuid.UUID `validate:"uuid_required"`
	Quantity  int       `validate:"required,gt=0"`
}

type cart struct {
	Lines []cartLine `validate:"required,min=1,dive"`
}

func TestValidateStruct(t *testing.T) {
	cases := []struct {
		name    string
		in      cart
		wantTag string
	}{
		{"ok", cart{Lines: []cartLine{{ProductID: uuid.New(), Quantity: 1}}}, ""},
		{"empty cart", cart{Lines: []cartLine{}}, "min"},
		{"nil product", cart{Lines: []cartLine{{Quantity: 1}}}, "uuid_required"},
		{"negative qty", cart{Lines: []cartLine{{ProductID: uuid.New(), Quantity: -2}}}, "gt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateStruct(tc.in)
			if tc.wantTag == "" {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %+v", errs[0])
				}
				return
			}
			if len(errs) == 0 {
				t.Fatalf("expected %s error", tc.wantTag)
			}
			if errs[0].Tag != tc.wantTag {
				t.Fatalf("expected tag %s, got %s (%s)", tc.wantTag, errs[0].Tag, errs[0].FailedField)
			}
		})
	}
}

func TestFirstMessage(t *testing.T) {
	cases := []struct {
		name string
		in   cart
		want string
	}{
		{"ok", cart{Lines: []cartLine{{ProductID: uuid.New(), Quantity: 1}}}, ""},
		{"empty cart", cart{Lines: []cartLine{}}, "failed on tag 'min=1'"},
		{"nil product", cart{Lines: []cartLine{{Quantity: 1}}}, "failed on tag 'uuid_required'"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FirstMessage(ValidateStruct(tc.in)); got != tc.want {
				t.Fatalf("FirstMessage = %q, want %q", got, tc.want)
			}
		})
	}
}
