package shader

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestLoadReturnsSources(t *testing.T) {
	for _, name := range Names() {
		prog, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if prog.Name != name {
			t.Errorf("Load(%q).Name = %q", name, prog.Name)
		}
		if !strings.Contains(prog.Vertex, "void main()") {
			t.Errorf("program %q vertex source has no main", name)
		}
		if !strings.Contains(prog.Fragment, "void main()") {
			t.Errorf("program %q fragment source has no main", name)
		}
		if len(prog.Uniforms) == 0 {
			t.Errorf("program %q has an empty uniform contract", name)
		}
	}
}

func TestUniformContractsMatchSources(t *testing.T) {
	for _, name := range Names() {
		prog, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		combined := prog.Vertex + "\n" + prog.Fragment
		for _, u := range prog.Uniforms {
			decl := fmt.Sprintf("uniform %s %s;", u.Type, u.Name)
			if !strings.Contains(combined, decl) {
				t.Errorf("program %q: contract uniform %q not declared in sources", name, decl)
			}
		}
	}
}

func TestNightProgramContract(t *testing.T) {
	prog, err := Load(ProgramNight)
	if err != nil {
		t.Fatalf("Load(night): %v", err)
	}
	// The animator updates sunDirection every frame; the contract must
	// carry it so a renderer knows to rebind.
	var found bool
	for _, u := range prog.Uniforms {
		if u.Name == "sunDirection" && u.Type == "vec3" {
			found = true
		}
	}
	if !found {
		t.Fatal("night program contract is missing vec3 sunDirection")
	}
}

func TestLoadUnknownProgram(t *testing.T) {
	_, err := Load("volumetric")
	if !errors.Is(err, ErrUnknownProgram) {
		t.Fatalf("Load(volumetric) error = %v, want ErrUnknownProgram", err)
	}
}
