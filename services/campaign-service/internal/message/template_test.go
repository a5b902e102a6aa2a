package message

import (
	"strings"
	"testing"
)

func TestRender_AllPlaceholders(t *testing.T) {
	got := Render("Oi {nome}! Faz {dias} dias. Agende: {link} com {desconto} off.", Fields{
		Nome:     "João",
		Dias:     31,
		Link:     "https://barb.example/agendar",
		Desconto: "10%",
	})
	want := "Oi João! Faz 31 dias. Agende: https://barb.example/agendar com 10% off."
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
}

func TestRender_UnknownPlaceholderPassesThrough(t *testing.T) {
	got := Render("Oi {nome}, {cupom}", Fields{Nome: "Ana"})
	if got != "Oi Ana, {cupom}" {
		t.Fatalf("unknown placeholder must survive, got %q", got)
	}
}

func TestWALink(t *testing.T) {
	got := WALink("+55 (11) 98765-4321", "Oi João! Volte & agende")
	if !strings.HasPrefix(got, "https://wa.me/5511987654321?text=") {
		t.Fatalf("unexpected link prefix: %q", got)
	}
	if strings.ContainsAny(strings.TrimPrefix(got, "https://wa.me/5511987654321?text="), " &!") {
		t.Fatalf("text must be url-encoded: %q", got)
	}
}
