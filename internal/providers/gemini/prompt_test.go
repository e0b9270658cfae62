package gemini

import (
	"strings"
	"testing"
)

func TestBuildGenerateInstruction(t *testing.T) {
	got := BuildGenerateInstruction("  A clean canvas tote bag.  ")
	checks := []string{
		"Generate a product mockup using the provided logo.",
		"Prompt: A clean canvas tote bag..",
		"correct perspective and lighting",
	}
	for _, expect := range checks {
		if !strings.Contains(got, expect) {
			t.Fatalf("instruction missing %q: %s", expect, got)
		}
	}
}

func TestBuildEditInstruction(t *testing.T) {
	got := BuildEditInstruction("Make the lighting more dramatic")
	want := "Edit the provided product mockup according to this instruction: Make the lighting more dramatic. Maintain the core product and logo but apply the requested changes accurately."
	if got != want {
		t.Fatalf("BuildEditInstruction() = %q, want %q", got, want)
	}
}
