package main

import (
	"errors"
	"flag"
	"testing"

	"hpmri/pkg/enhance"
)

func TestFlagOrDefault(t *testing.T) {
	fs := flag.NewFlagSet("hpmri", flag.ContinueOnError)
	contrast := fs.Float64("contrast", 0, "")
	threshold := fs.Float64("threshold", 0, "")
	if err := fs.Parse([]string{"-contrast", "0"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	given := setFlags(fs)

	c := flagOrDefault(given, "contrast", *contrast, 1.0)
	if c != 0 {
		t.Errorf("Expected explicit contrast 0 to be kept, got %v", c)
	}
	if err := enhance.ValidateContrast(c); !errors.Is(err, enhance.ErrInvalidContrast) {
		t.Errorf("Expected ErrInvalidContrast, got %v", err)
	}

	if got := flagOrDefault(given, "threshold", *threshold, 0.2); got != 0.2 {
		t.Errorf("Expected default threshold 0.2, got %v", got)
	}
}

func TestFlagOrDefaultNegative(t *testing.T) {
	fs := flag.NewFlagSet("hpmri", flag.ContinueOnError)
	contrast := fs.Float64("contrast", 0, "")
	threshold := fs.Float64("threshold", 0, "")
	if err := fs.Parse([]string{"-contrast=-2", "-threshold=-1"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	given := setFlags(fs)

	if got := flagOrDefault(given, "contrast", *contrast, 1.0); got != -2 {
		t.Errorf("Expected contrast -2, got %v", got)
	}
	if got := flagOrDefault(given, "threshold", *threshold, 0.2); got != -1 {
		t.Errorf("Expected threshold -1, got %v", got)
	}
}
