package main

import (
	"strings"
	"testing"
)

func TestReserveCommand_ArenaExhaustion(t *testing.T) {
	output, err := runCLI(t, "reserve", "--json", "--backend", "arena", "--arena-bytes", "1024", "--steps", "64")
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	var report reserveReport
	decodeJSON(t, output, &report)

	if !report.Failed {
		t.Fatalf("expected the arena to run out: %+v", report)
	}
	if !strings.HasPrefix(report.Kind, "AllocError") {
		t.Fatalf("kind = %q, want AllocError", report.Kind)
	}
	if report.Error != "memory allocation failed because the memory allocator returned a error" {
		t.Fatalf("error = %q", report.Error)
	}
	want := []uintptr{4, 8, 16, 32, 64, 128}
	if len(report.Capacities) != len(want) {
		t.Fatalf("capacities = %v, want %v", report.Capacities, want)
	}
	for i := range want {
		if report.Capacities[i] != want[i] {
			t.Fatalf("capacities = %v, want %v", report.Capacities, want)
		}
	}
	if report.Stats.LiveBytes != 0 {
		t.Fatalf("buffer not released: %+v", report.Stats)
	}
}

func TestReserveCommand_ZeroSizedOverflow(t *testing.T) {
	output, err := runCLI(t, "reserve", "--elem-size", "0", "--elem-align", "1")
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if !strings.Contains(output, "because the computed capacity exceeded the collection's maximum") {
		t.Fatalf("output missing overflow message\nOutput: %s", output)
	}
	if !strings.Contains(output, "kind: CapacityOverflow") {
		t.Fatalf("output missing kind\nOutput: %s", output)
	}
}

func TestReserveCommand_NoFailure(t *testing.T) {
	output, err := runCLI(t, "reserve", "--exact", "--steps", "3", "--additional", "10")
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	for _, want := range []string{"step 3: capacity 30", "no failure after 3 steps"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\nOutput: %s", want, output)
		}
	}
}

func TestReserveCommand_Quiet(t *testing.T) {
	output, err := runCLI(t, "reserve", "--quiet", "--steps", "2")
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if output != "" {
		t.Fatalf("quiet mode printed %q", output)
	}
}

func TestVersionCommand(t *testing.T) {
	output, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(output, "allocctl ") {
		t.Fatalf("unexpected version output %q", output)
	}
}
