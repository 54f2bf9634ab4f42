package chat

import (
	"strings"
	"testing"

	"github.com/kisanmitra/server/internal/model"
)

func strPtr(s string) *string { return &s }

func TestBuildSystemInstruction_fullProfile(t *testing.T) {
	user := model.User{
		FullName:    "Ramesh",
		HasFarm:     strPtr("yes"),
		WaterSupply: strPtr("well"),
		FarmType:    strPtr("bagayati"),
	}

	instruction := buildSystemInstruction(user)
	for _, want := range []string{"Ramesh", "well", "bagayati", "Kisan Mitra"} {
		if !strings.Contains(instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestBuildSystemInstruction_incompleteProfile(t *testing.T) {
	for _, user := range []model.User{
		{FullName: "Ramesh"},
		{FullName: "Ramesh", HasFarm: strPtr("no"), WaterSupply: strPtr("well")},
	} {
		instruction := buildSystemInstruction(user)
		if !strings.Contains(instruction, "details are incomplete") {
			t.Error("incomplete profile must get the generic framing")
		}
		if strings.Contains(instruction, "FARMER PROFILE") {
			t.Error("incomplete profile must not include fabricated farm details")
		}
	}
}

func TestCleanTitle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Cotton Disease Info", "Cotton Disease Info"},
		{"1. Cotton Disease Info", "Cotton Disease Info"},
		{"- Cotton Disease Info", "Cotton Disease Info"},
		{"* Cotton Disease Info", "Cotton Disease Info"},
		{`"Cotton Disease Info"`, "Cotton Disease Info"},
		{"  'Cotton Disease Info'  ", "Cotton Disease Info"},
		{"1.-* ", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := cleanTitle(c.in); got != c.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
