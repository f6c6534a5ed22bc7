package ledger

import (
	"gestor/internal/core"
)

type demoEntry struct {
	daysAgo     int
	category    string
	kind        core.Kind
	description string
	pesos       int64
	method      string
	note        string
}

var demoEntries = []demoEntry{
	{0, "Comida", core.Expense, "Desayuno", 1500, "Efectivo", "Café y medialunas"},
	{0, "Transporte", core.Expense, "Colectivo", 500, "Tarjeta SUBE", "Ida al trabajo"},
	{0, "Entretenimiento", core.Expense, "Spotify", 900, "Crédito", "Suscripción"},
	{0, "Salario", core.Income, "Freelance", 6000, "Transferencia", "Landing page"},
	{3, "Comida", core.Expense, "Almuerzo", 2000, "Débito", "Promo 2x1"},
	{4, "Salario", core.Income, "Sueldo", 8000, "Transferencia", "Depósito mensual"},
	{5, "Transporte", core.Expense, "Colectivo", 1200, "Tarjeta SUBE", "Recarga semanal"},
}

// DemoTransactions returns the sample history shown to new sessions, newest
// first, dated relative to today.
func DemoTransactions(today core.Date) []core.Transaction {
	out := make([]core.Transaction, 0, len(demoEntries))
	for i, e := range demoEntries {
		out = append(out, core.Transaction{
			ID:          demoID(i),
			Date:        today.AddDays(-e.daysAgo),
			Category:    e.category,
			Kind:        e.kind,
			Description: e.description,
			Amount:      core.Money{Cents: e.pesos * 100},
			Method:      e.method,
			Note:        e.note,
		})
	}
	return out
}

func demoID(i int) string {
	return "demo-" + string(rune('a'+i))
}
