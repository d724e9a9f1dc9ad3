package dot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/treegen/pkg/calc"
	"github.com/matzehuels/treegen/pkg/errors"
)

func tinyProgram() *calc.Program {
	p := calc.NewProgram("t")
	x := p.Declare("x", nil)
	p.Body.Append(calc.NewAssign(x, calc.NewInt(1)))
	return p
}

func TestToDOT(t *testing.T) {
	got, err := ToDOT(tinyProgram(), Options{Detailed: true})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	for _, want := range []string{
		`n0 [label="Program #0\nname: \"t\""];`,
		`n1 [label="Decl #1\nname: \"x\""];`,
		`n2 [label="Assign #2"];`,
		`n3 [label="IntLit #3\nvalue: 1"];`,
		`n0 -> n1 [label="decls[0]"];`,
		`n0 -> n2 [label="body[0]"];`,
		`n2 -> n1 [label="target", style=dashed`,
		`n2 -> n3 [label="value"];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("DOT output lacks %s:\n%s", want, got)
		}
	}
	if strings.Contains(got, "external") {
		t.Error("no external node expected")
	}
}

func TestToDOTLabels(t *testing.T) {
	p := tinyProgram()
	p.Annotations().Set("source", "t.calc")

	plain, err := ToDOT(p, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(plain, `n0 [label="Program #0"];`) {
		t.Errorf("plain labels should hold the type only:\n%s", plain)
	}

	annotated, err := ToDOT(p, Options{Annotations: []string{"source", "missing"}})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(annotated, `n0 [label="Program #0\n{source}: \"t.calc\""];`) {
		t.Errorf("annotation missing from label:\n%s", annotated)
	}
}

func TestToDOTExternalLink(t *testing.T) {
	p := calc.NewProgram("t")
	p.Body.Append(calc.NewAssign(&calc.Decl{}, calc.NewInt(1)))
	got, err := ToDOT(p, Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(got, "n1 -> external") || !strings.Contains(got, `external [label="?"`) {
		t.Errorf("link outside the tree not drawn as external:\n%s", got)
	}
}

func TestToDOTRejectsSharing(t *testing.T) {
	p := calc.NewProgram("t")
	lit := calc.NewInt(1)
	d := p.Declare("x", nil)
	p.Body.Append(calc.NewAssign(d, lit), calc.NewAssign(d, lit))
	if _, err := ToDOT(p, Options{}); !errors.Is(err, errors.ErrCodeNotWellFormed) {
		t.Errorf("got %v, want NOT_WELL_FORMED", err)
	}
}

func TestRenderSVG(t *testing.T) {
	src, err := ToDOT(calc.Sample(), Options{Detailed: true})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	svg, err := RenderSVG(src)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("SVG header not normalized:\n%.300s", svg)
	}
	if !bytes.Contains(svg, []byte("Program #0")) {
		t.Error("SVG lacks the root label")
	}

	if _, err := RenderSVG("digraph {"); err == nil {
		t.Error("invalid DOT should fail")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.50 80.00" xmlns="x"><g/></svg>`)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80"><g/></svg>`
	if got := string(normalizeViewBox(in)); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
