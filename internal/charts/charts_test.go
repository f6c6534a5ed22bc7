package charts

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"gestor/internal/core"
)

func TestValues(t *testing.T) {
	b := core.Breakdown{
		{Name: "Comida", Amount: core.Money{Cents: 150000}},
		{Name: "Transporte", Amount: core.Money{Cents: 50000}},
	}
	values := Values(b)
	if len(values) != 2 {
		t.Fatalf("got %d values", len(values))
	}
	if values[0].Value != 1500 || values[0].Label != "Comida (75%)" {
		t.Errorf("unexpected first slice: %+v", values[0])
	}
	if values[1].Label != "Transporte (25%)" {
		t.Errorf("unexpected second slice label %q", values[1].Label)
	}
	if values[0].Style.FillColor == values[1].Style.FillColor {
		t.Error("adjacent slices share a color")
	}
}

func TestValuesPlaceholder(t *testing.T) {
	b := core.CategoryBreakdown(func(func(core.Transaction) bool) {})
	values := Values(b)
	if len(values) != 1 || values[0].Label != core.NoExpensesLabel || values[0].Value != 1 {
		t.Fatalf("unexpected placeholder slice: %+v", values)
	}
	if strings.Contains(values[0].Label, "%") {
		t.Fatal("placeholder must not show a share")
	}
}

func TestCategoryPieRendersPNG(t *testing.T) {
	g := NewGenerator()
	for name, b := range map[string]core.Breakdown{
		"data": {
			{Name: "Comida", Amount: core.Money{Cents: 150000}},
			{Name: "Transporte", Amount: core.Money{Cents: 50000}},
			{Name: "Entretenimiento", Amount: core.Money{Cents: 90000}},
		},
		"placeholder": {{Name: core.NoExpensesLabel, Amount: core.Money{Cents: 100}, Placeholder: true}},
	} {
		t.Run(name, func(t *testing.T) {
			out, err := g.CategoryPie(b)
			if err != nil {
				t.Fatal(err)
			}
			img, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("not a PNG: %v", err)
			}
			if img.Bounds().Dx() != g.Width || img.Bounds().Dy() != g.Height {
				t.Fatalf("unexpected size %v", img.Bounds())
			}
		})
	}
}

func TestCategoryPieEmpty(t *testing.T) {
	if _, err := NewGenerator().CategoryPie(nil); err == nil {
		t.Fatal("expected error for empty breakdown")
	}
}

func TestSliceColor(t *testing.T) {
	if got := SliceColor(0, true); got != "#4b5563" {
		t.Errorf("placeholder color = %q", got)
	}
	if SliceColor(0, false) != SliceColor(len(palette), false) {
		t.Error("palette should cycle")
	}
	if SliceColor(1, false) == SliceColor(0, false) {
		t.Error("adjacent slices should differ")
	}
}
